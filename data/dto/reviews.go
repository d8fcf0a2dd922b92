package dto

import "github.com/nkemjika/bookworm/data"

// CreateReviewRequestBody defines a request body for CreateReview service.
type CreateReviewRequestBody struct {
	BookID  int64  `json:"book_id"`
	Rating  int8   `json:"rating"`
	Comment string `json:"comment"`
}

// UpdateReviewRequestBody defines a request body for UpdateReview service.
type UpdateReviewRequestBody struct {
	Rating  *int8   `json:"rating"`
	Comment *string `json:"comment"`
}

// QsListReviews defines the query strings used for listing reviews. BookID and
// UserID are optional filters; zero means no filter.
type QsListReviews struct {
	BookID  int64
	UserID  int64
	Filters data.Filters
}
