package data

import (
	"time"

	"github.com/nkemjika/bookworm/internal/validator"
)

// Genres is the fixed set of genres a book may belong to.
var Genres = []string{
	"Fiction", "Non-Fiction", "Mystery", "Romance", "Science Fiction",
	"Fantasy", "Thriller", "Biography", "History", "Self-Help",
	"Poetry", "Drama", "Horror", "Adventure", "Comedy",
}

// The Book struct contains the data fields for a book. AverageRating and
// TotalReviews are denormalized aggregates over the book's review set and are
// kept in sync by the review service after every review mutation.
type Book struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	Summary       string    `json:"summary"`
	Description   string    `json:"description,omitempty"`
	CoverURL      string    `json:"cover_url,omitempty"`
	Isbn          string    `json:"isbn,omitempty"`
	PublishedYear int32     `json:"published_year"`
	PageCount     int32     `json:"page_count,omitempty"`
	Language      string    `json:"language,omitempty"`
	AverageRating float64   `json:"average_rating"`
	TotalReviews  int64     `json:"total_reviews"`
	CreatedBy     int64     `json:"created_by,omitempty"`
	Version       int32     `json:"-"`
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 200, "title", "must not be more than 200 bytes long")
	v.Check(book.Author != "", "author", "must be provided")
	v.Check(len(book.Author) <= 100, "author", "must not be more than 100 bytes long")
	v.Check(book.Genre != "", "genre", "must be provided")
	v.Check(validator.PermittedValue(book.Genre, Genres...), "genre", "must be a supported genre")
	v.Check(book.Summary != "", "summary", "must be provided")
	v.Check(len(book.Summary) <= 2000, "summary", "must not be more than 2000 bytes long")
	v.Check(len(book.Description) <= 5000, "description", "must not be more than 5000 bytes long")
	v.Check(book.PublishedYear != 0, "published_year", "must be provided")
	v.Check(book.PublishedYear >= 1000, "published_year", "must be greater than 1000")
	v.Check(book.PublishedYear <= int32(time.Now().Year()), "published_year", "must not be in the future")
	v.Check(book.PageCount >= 0, "page_count", "must be a positive integer")
	v.Check(len(book.Isbn) <= 17, "isbn", "must not be more than 17 characters")
}
