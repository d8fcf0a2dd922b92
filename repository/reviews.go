package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/nkemjika/bookworm/data"
)

type reviews interface {
	CreateReview(review *data.Review) error
	GetReview(reviewID int64) (*data.Review, error)
	UpdateReview(review *data.Review) error
	DeleteReview(reviewID int64) error
	ReviewExistsForUser(userID int64, bookID int64) (bool, error)
	GetAllReviews(bookID int64, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	GetRecentReviewsForUser(userID int64, limit int) ([]*data.Review, error)
	GetRatingForBook(bookID int64) (data.Rating, error)
	GetRatingForUser(userID int64) (data.Rating, error)
	MarkReviewHelpful(reviewID int64) (int64, error)
	ReportReview(reviewID int64) error
}

// CreateReview creates a review record for a book.
func (r *repository) CreateReview(review *data.Review) error {
	query := `
		INSERT INTO reviews (book_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at, version`
	args := []interface{}{review.BookID, review.UserID, review.Rating, review.Comment}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt, &review.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "reviews_user_id_book_id_key"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// ReviewExistsForUser checks whether a user already has a review for a book.
func (r *repository) ReviewExistsForUser(userID int64, bookID int64) (bool, error) {
	query := `
		SELECT id
		FROM reviews
		WHERE user_id = $1 AND book_id = $2`
	args := []interface{}{userID, bookID}
	var reviewID int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&reviewID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

// GetReview retrieves a review record together with its reviewer's name and
// the reviewed book's title and author.
func (r *repository) GetReview(reviewID int64) (*data.Review, error) {
	if reviewID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT reviews.id, reviews.book_id, reviews.user_id, users.name, books.title, books.author, reviews.created_at, reviews.updated_at, reviews.rating, reviews.comment, reviews.helpful, reviews.reported, reviews.version
		FROM reviews
		INNER JOIN users ON reviews.user_id = users.id
		INNER JOIN books ON reviews.book_id = books.id
		WHERE reviews.id = $1`
	var review data.Review
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, reviewID).Scan(
		&review.ID,
		&review.BookID,
		&review.UserID,
		&review.UserName,
		&review.BookTitle,
		&review.BookAuthor,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.Rating,
		&review.Comment,
		&review.Helpful,
		&review.Reported,
		&review.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &review, nil
}

// UpdateReview updates a review record.
func (r *repository) UpdateReview(review *data.Review) error {
	query := `
		UPDATE reviews
		SET rating = $1, comment = $2, updated_at = now(), version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING updated_at, version`
	args := []interface{}{review.Rating, review.Comment, review.ID, review.Version}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&review.UpdatedAt, &review.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteReview deletes a review record.
func (r *repository) DeleteReview(reviewID int64) error {
	if reviewID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM reviews
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, reviewID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// GetAllReviews retrieves a paginated list of review records, optionally
// scoped to a book, a user, or both (zero means no filter). Records can be
// sorted.
func (r *repository) GetAllReviews(bookID int64, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), reviews.id, reviews.book_id, reviews.user_id, users.name, users.avatar, books.title, books.author, books.cover_url, reviews.created_at, reviews.updated_at, reviews.rating, reviews.comment, reviews.helpful, reviews.reported, reviews.version
		FROM reviews
		INNER JOIN users ON reviews.user_id = users.id
		INNER JOIN books ON reviews.book_id = books.id
		WHERE (reviews.book_id = $1 OR $1 = 0)
		AND (reviews.user_id = $2 OR $2 = 0)
		ORDER BY %s %s, reviews.id ASC
		LIMIT $3 OFFSET $4`,
		"reviews."+filters.SortColumn(), filters.SortDirection())
	args := []interface{}{bookID, userID, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	reviews := []*data.Review{}
	for rows.Next() {
		var review data.Review
		var avatar string
		err := rows.Scan(
			&totalRecords,
			&review.ID,
			&review.BookID,
			&review.UserID,
			&review.UserName,
			&avatar,
			&review.BookTitle,
			&review.BookAuthor,
			&review.BookCoverURL,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.Rating,
			&review.Comment,
			&review.Helpful,
			&review.Reported,
			&review.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		reviews = append(reviews, &review)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return reviews, metadata, nil
}

// GetRecentReviewsForUser retrieves a user's most recent reviews with the
// reviewed books' details, newest first.
func (r *repository) GetRecentReviewsForUser(userID int64, limit int) ([]*data.Review, error) {
	query := `
		SELECT reviews.id, reviews.book_id, reviews.user_id, books.title, books.author, books.cover_url, reviews.created_at, reviews.updated_at, reviews.rating, reviews.comment, reviews.helpful, reviews.reported, reviews.version
		FROM reviews
		INNER JOIN books ON reviews.book_id = books.id
		WHERE reviews.user_id = $1
		ORDER BY reviews.created_at DESC, reviews.id ASC
		LIMIT $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := []*data.Review{}
	for rows.Next() {
		var review data.Review
		err := rows.Scan(
			&review.ID,
			&review.BookID,
			&review.UserID,
			&review.BookTitle,
			&review.BookAuthor,
			&review.BookCoverURL,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.Rating,
			&review.Comment,
			&review.Helpful,
			&review.Reported,
			&review.Version,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, &review)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetRatingForBook computes the rating aggregate over a book's review set.
func (r *repository) GetRatingForBook(bookID int64) (data.Rating, error) {
	query := `
		SELECT rating
		FROM reviews
		WHERE book_id = $1
		ORDER BY id ASC`
	return r.aggregateRatings(query, bookID)
}

// GetRatingForUser computes the rating aggregate over the reviews a user has
// written.
func (r *repository) GetRatingForUser(userID int64) (data.Rating, error) {
	query := `
		SELECT rating
		FROM reviews
		WHERE user_id = $1
		ORDER BY id ASC`
	return r.aggregateRatings(query, userID)
}

// aggregateRatings runs a single-column rating query and folds the rows into
// a histogram, mean and count.
func (r *repository) aggregateRatings(query string, arg int64) (data.Rating, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return data.Rating{}, err
	}
	defer rows.Close()
	ratings := data.Rating{}
	sumRatings := int64(0)
	totalRecords := 0
	for rows.Next() {
		var rating int8
		err := rows.Scan(&rating)
		if err != nil {
			return data.Rating{}, err
		}
		switch rating {
		case 5:
			ratings.FiveStars++
		case 4:
			ratings.FourStars++
		case 3:
			ratings.ThreeStars++
		case 2:
			ratings.TwoStars++
		case 1:
			ratings.OneStar++
		}
		sumRatings += int64(rating)
		totalRecords++
	}
	if err = rows.Err(); err != nil {
		return data.Rating{}, err
	}
	avgRatingString := fmt.Sprintf("%.1f", float64(sumRatings)/float64(totalRecords))
	avgRating, err := strconv.ParseFloat(avgRatingString, 64)
	if err != nil {
		return data.Rating{}, err
	}
	// An empty review set divides zero by zero. Guard against NaN so the
	// aggregate resets to 0 and JSON encoding never sees a NaN.
	if !math.IsNaN(avgRating) {
		ratings.Average = avgRating
	}
	ratings.Total = int64(totalRecords)
	return ratings, nil
}

// MarkReviewHelpful increments a review's helpful-vote counter and returns
// the new count.
func (r *repository) MarkReviewHelpful(reviewID int64) (int64, error) {
	if reviewID < 1 {
		return 0, ErrRecordNotFound
	}
	query := `
		UPDATE reviews
		SET helpful = helpful + 1
		WHERE id = $1
		RETURNING helpful`
	var helpful int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, reviewID).Scan(&helpful)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, ErrRecordNotFound
		default:
			return 0, err
		}
	}
	return helpful, nil
}

// ReportReview sets a review's reported flag.
func (r *repository) ReportReview(reviewID int64) error {
	if reviewID < 1 {
		return ErrRecordNotFound
	}
	query := `
		UPDATE reviews
		SET reported = true
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, reviewID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
