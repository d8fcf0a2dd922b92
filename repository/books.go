package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nkemjika/bookworm/data"
)

type books interface {
	CreateBook(book *data.Book) error
	GetBook(bookID int64) (*data.Book, error)
	GetAllBooks(search string, genre string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	UpdateBook(book *data.Book) error
	DeleteBook(bookID int64) error
	UpdateBookRating(bookID int64, averageRating float64, totalReviews int64) error
}

// CreateBook creates a book record.
func (r *repository) CreateBook(book *data.Book) error {
	query := `
		INSERT INTO books (title, author, genre, summary, description, cover_url, isbn, published_year, page_count, language, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11)
		RETURNING id, created_at, version`
	args := []interface{}{
		book.Title,
		book.Author,
		book.Genre,
		book.Summary,
		book.Description,
		book.CoverURL,
		book.Isbn,
		book.PublishedYear,
		book.PageCount,
		book.Language,
		book.CreatedBy,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.ID, &book.CreatedAt, &book.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "books_isbn_key"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetBook retrieves a book record.
func (r *repository) GetBook(bookID int64) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, created_at, title, author, genre, summary, description, cover_url, COALESCE(isbn, ''), published_year, page_count, language, average_rating, total_reviews, COALESCE(created_by, 0), version
		FROM books
		WHERE id = $1`
	var book data.Book
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, bookID).Scan(
		&book.ID,
		&book.CreatedAt,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.Summary,
		&book.Description,
		&book.CoverURL,
		&book.Isbn,
		&book.PublishedYear,
		&book.PageCount,
		&book.Language,
		&book.AverageRating,
		&book.TotalReviews,
		&book.CreatedBy,
		&book.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetAllBooks retrieves a paginated list of book records. Records can be
// filtered by genre, searched by a case-insensitive substring over title and
// author, and sorted.
func (r *repository) GetAllBooks(search string, genre string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, created_at, title, author, genre, summary, description, cover_url, COALESCE(isbn, ''), published_year, page_count, language, average_rating, total_reviews, COALESCE(created_by, 0), version
		FROM books
		WHERE (title ILIKE '%%' || $1 || '%%' OR author ILIKE '%%' || $1 || '%%' OR $1 = '')
		AND (genre = $2 OR $2 = '')
		ORDER BY %s %s, id ASC
		LIMIT $3 OFFSET $4`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{search, genre, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	books := []*data.Book{}
	for rows.Next() {
		var book data.Book
		err := rows.Scan(
			&totalRecords,
			&book.ID,
			&book.CreatedAt,
			&book.Title,
			&book.Author,
			&book.Genre,
			&book.Summary,
			&book.Description,
			&book.CoverURL,
			&book.Isbn,
			&book.PublishedYear,
			&book.PageCount,
			&book.Language,
			&book.AverageRating,
			&book.TotalReviews,
			&book.CreatedBy,
			&book.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// UpdateBook updates a book record.
func (r *repository) UpdateBook(book *data.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, genre = $3, summary = $4, description = $5, cover_url = $6, isbn = NULLIF($7, ''), published_year = $8, page_count = $9, language = $10, version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING version`
	args := []interface{}{
		book.Title,
		book.Author,
		book.Genre,
		book.Summary,
		book.Description,
		book.CoverURL,
		book.Isbn,
		book.PublishedYear,
		book.PageCount,
		book.Language,
		book.ID,
		book.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "books_isbn_key"`:
			return ErrDuplicateRecord
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteBook deletes a book record. The book's reviews are removed by the
// ON DELETE CASCADE foreign key.
func (r *repository) DeleteBook(bookID int64) error {
	if bookID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM books
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, bookID)
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

// UpdateBookRating persists the denormalized rating aggregate onto a book
// record. Zero affected rows means the book was deleted concurrently, which
// is deliberately not an error.
func (r *repository) UpdateBookRating(bookID int64, averageRating float64, totalReviews int64) error {
	query := `
		UPDATE books
		SET average_rating = $1, total_reviews = $2
		WHERE id = $3`
	args := []interface{}{averageRating, totalReviews, bookID}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
