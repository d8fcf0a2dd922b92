package data

import (
	"time"

	"github.com/nkemjika/bookworm/internal/validator"
)

// The Rating struct holds the aggregate computed over a review set: the 1-5
// star histogram, the arithmetic mean and the review count. An empty review
// set aggregates to an average of 0 and a total of 0.
type Rating struct {
	FiveStars  int64   `json:"fivestars"`
	FourStars  int64   `json:"fourstars"`
	ThreeStars int64   `json:"threestars"`
	TwoStars   int64   `json:"twostars"`
	OneStar    int64   `json:"onestar"`
	Average    float64 `json:"average"`
	Total      int64   `json:"total"`
}

// The Review struct contains the data fields for a book review. UserName,
// BookTitle, BookAuthor and BookCoverURL are denormalized join fields so that
// listings never carry a half-populated user or book reference.
type Review struct {
	ID           int64     `json:"id"`
	BookID       int64     `json:"book_id"`
	UserID       int64     `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	BookTitle    string    `json:"book_title,omitempty"`
	BookAuthor   string    `json:"book_author,omitempty"`
	BookCoverURL string    `json:"book_cover_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Rating       int8      `json:"rating"`
	Comment      string    `json:"comment"`
	Helpful      int64     `json:"helpful"`
	Reported     bool      `json:"reported"`
	Version      int32     `json:"-"`
}

func ValidateReview(v *validator.Validator, review *Review) {
	v.Check(review.Rating != 0, "rating", "must be provided")
	v.Check(review.Rating >= 1, "rating", "must be at least one")
	v.Check(review.Rating <= 5, "rating", "must not be greater than five")
	v.Check(review.Comment != "", "comment", "must be provided")
	v.Check(len(review.Comment) >= 10, "comment", "must be at least 10 bytes long")
	v.Check(len(review.Comment) <= 2000, "comment", "must not be more than 2000 bytes long")
}
