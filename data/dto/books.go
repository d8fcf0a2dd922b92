package dto

import "github.com/nkemjika/bookworm/data"

// CreateBookRequestBody defines a request body for CreateBook service.
type CreateBookRequestBody struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	Summary       string `json:"summary"`
	Description   string `json:"description"`
	CoverURL      string `json:"cover_url"`
	Isbn          string `json:"isbn"`
	PublishedYear int32  `json:"published_year"`
	PageCount     int32  `json:"page_count"`
	Language      string `json:"language"`
}

// UpdateBookRequestBody defines the request body for UpdateBook service. The fields
// are pointer types to allow partial updates based on whether a value is nil.
type UpdateBookRequestBody struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Genre         *string `json:"genre"`
	Summary       *string `json:"summary"`
	Description   *string `json:"description"`
	CoverURL      *string `json:"cover_url"`
	Isbn          *string `json:"isbn"`
	PublishedYear *int32  `json:"published_year"`
	PageCount     *int32  `json:"page_count"`
	Language      *string `json:"language"`
}

// QsListBooks defines the query strings used for listing books.
type QsListBooks struct {
	Search  string
	Genre   string
	Filters data.Filters
}
