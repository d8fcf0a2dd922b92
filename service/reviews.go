package service

import (
	"errors"

	"github.com/nkemjika/bookworm/data"
	"github.com/nkemjika/bookworm/data/dto"
	"github.com/nkemjika/bookworm/internal/validator"
	"github.com/nkemjika/bookworm/repository"
)

type reviews interface {
	CreateReview(userID int64, userName string, requestBody dto.CreateReviewRequestBody) (*data.Review, error)
	GetReview(reviewID int64) (*data.Review, error)
	UpdateReview(reviewID int64, requestBody dto.UpdateReviewRequestBody) (*data.Review, error)
	DeleteReview(reviewID int64) error
	ListReviews(bookID int64, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	MarkReviewHelpful(reviewID int64) (int64, error)
	ReportReview(reviewID int64) error
}

// CreateReview service creates a review for a book and brings the book's
// rating aggregate and the reviewer's review count up to date.
func (s *service) CreateReview(userID int64, userName string, requestBody dto.CreateReviewRequestBody) (*data.Review, error) {
	// Retrieve the book first so that a review of a missing book reads as not
	// found rather than a conflict
	book, err := s.repo.GetBook(requestBody.BookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	exists, err := s.repo.ReviewExistsForUser(userID, book.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRecord
	}
	review := &data.Review{
		BookID:   book.ID,
		UserID:   userID,
		UserName: userName,
		Rating:   requestBody.Rating,
		Comment:  requestBody.Comment,
	}
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.CreateReview(review)
	if err != nil {
		switch {
		// The unique index backstops the existence check against a concurrent
		// insert of the same (user, book) pair
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	err = s.syncBookRating(book.ID)
	if err != nil {
		return nil, err
	}
	err = s.repo.SyncUserReviewCount(userID)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// GetReview service retrieves the details of a review.
func (s *service) GetReview(reviewID int64) (*data.Review, error) {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return review, nil
}

// UpdateReview service updates a review's rating and comment, then brings the
// book's rating aggregate up to date.
func (s *service) UpdateReview(reviewID int64, requestBody dto.UpdateReviewRequestBody) (*data.Review, error) {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if requestBody.Rating != nil {
		review.Rating = *requestBody.Rating
	}
	if requestBody.Comment != nil {
		review.Comment = *requestBody.Comment
	}
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateReview(review)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	err = s.syncBookRating(review.BookID)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview service deletes a review, then brings the book's rating
// aggregate and the reviewer's review count up to date.
func (s *service) DeleteReview(reviewID int64) error {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	err = s.repo.DeleteReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	err = s.syncBookRating(review.BookID)
	if err != nil {
		return err
	}
	err = s.repo.SyncUserReviewCount(review.UserID)
	if err != nil {
		return err
	}
	return nil
}

// ListReviews service retrieves a paginated list of reviews, optionally
// narrowed to a book, a user, or both.
func (s *service) ListReviews(bookID int64, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	reviews, metadata, err := s.repo.GetAllReviews(bookID, userID, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return reviews, metadata, nil
}

// MarkReviewHelpful service increments a review's helpful counter and returns
// the new count.
func (s *service) MarkReviewHelpful(reviewID int64) (int64, error) {
	helpful, err := s.repo.MarkReviewHelpful(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return 0, ErrRecordNotFound
		default:
			return 0, err
		}
	}
	return helpful, nil
}

// ReportReview service flags a review for moderation.
func (s *service) ReportReview(reviewID int64) error {
	err := s.repo.ReportReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}
