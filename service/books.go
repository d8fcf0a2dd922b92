package service

import (
	"errors"
	"net/http"

	"github.com/nkemjika/bookworm/clients"
	"github.com/nkemjika/bookworm/data"
	"github.com/nkemjika/bookworm/data/dto"
	"github.com/nkemjika/bookworm/internal/validator"
	"github.com/nkemjika/bookworm/repository"
)

type books interface {
	CreateBook(userID int64, requestBody dto.CreateBookRequestBody) (*data.Book, error)
	GetBook(bookID int64) (*data.Book, error)
	ListBooks(search string, genre string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	UpdateBook(bookID int64, requestBody dto.UpdateBookRequestBody) (*data.Book, error)
	UpdateBookCover(bookID int64, r *http.Request) (*data.Book, error)
	DeleteBook(bookID int64) error
	GetBookStats(bookID int64) (data.Rating, error)
}

// CreateBook service adds a new book to the catalogue.
func (s *service) CreateBook(userID int64, requestBody dto.CreateBookRequestBody) (*data.Book, error) {
	book := &data.Book{
		Title:         requestBody.Title,
		Author:        requestBody.Author,
		Genre:         requestBody.Genre,
		Summary:       requestBody.Summary,
		Description:   requestBody.Description,
		CoverURL:      requestBody.CoverURL,
		Isbn:          requestBody.Isbn,
		PublishedYear: requestBody.PublishedYear,
		PageCount:     requestBody.PageCount,
		Language:      requestBody.Language,
		CreatedBy:     userID,
	}
	if book.Language == "" {
		book.Language = "English"
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err := s.repo.CreateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	return book, nil
}

// GetBook service retrieves the details of a book.
func (s *service) GetBook(bookID int64) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// ListBooks service retrieves a paginated list of the catalogue. Records can
// be narrowed by a case-insensitive substring search over title and author,
// filtered by genre, and sorted.
func (s *service) ListBooks(search string, genre string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	v.Check(genre == "" || validator.PermittedValue(genre, data.Genres...), "genre", "must be a valid genre")
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	books, metadata, err := s.repo.GetAllBooks(search, genre, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return books, metadata, nil
}

// UpdateBook service updates the details of a book. Only the fields present
// in the request body are changed.
func (s *service) UpdateBook(bookID int64, requestBody dto.UpdateBookRequestBody) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if requestBody.Title != nil {
		book.Title = *requestBody.Title
	}
	if requestBody.Author != nil {
		book.Author = *requestBody.Author
	}
	if requestBody.Genre != nil {
		book.Genre = *requestBody.Genre
	}
	if requestBody.Summary != nil {
		book.Summary = *requestBody.Summary
	}
	if requestBody.Description != nil {
		book.Description = *requestBody.Description
	}
	if requestBody.CoverURL != nil {
		book.CoverURL = *requestBody.CoverURL
	}
	if requestBody.Isbn != nil {
		book.Isbn = *requestBody.Isbn
	}
	if requestBody.PublishedYear != nil {
		book.PublishedYear = *requestBody.PublishedYear
	}
	if requestBody.PageCount != nil {
		book.PageCount = *requestBody.PageCount
	}
	if requestBody.Language != nil {
		book.Language = *requestBody.Language
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	return book, nil
}

// UpdateBookCover service uploads a cover image for a book.
func (s *service) UpdateBookCover(bookID int64, r *http.Request) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	err = r.ParseMultipartForm(5000)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			return nil, ErrContentTooLarge
		default:
			return nil, ErrBadRequest
		}
	}
	file, fileHeader, err := r.FormFile("cover")
	if err != nil {
		return nil, ErrBadRequest
	}
	buffer, mtype, err := s.detectMimeType(file, fileHeader)
	if err != nil {
		return nil, err
	}
	supportedMediaType := []string{
		"image/jpeg",
		"image/png",
	}
	if v := validator.Mime(mtype, supportedMediaType...); !v {
		return nil, ErrUnsupportedMediaType
	}
	s3Client, err := clients.NewS3Client(s.config)
	if err != nil {
		return nil, err
	}
	coverURL, err := s.uploadCoverToS3(s3Client, buffer, mtype, fileHeader)
	if err != nil {
		return nil, err
	}
	book.CoverURL = coverURL
	err = s.repo.UpdateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return book, nil
}

// DeleteBook service deletes a book. Reviews of the book are removed by the
// database cascade.
func (s *service) DeleteBook(bookID int64) error {
	err := s.repo.DeleteBook(bookID)
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

// GetBookStats service retrieves the rating histogram, average and review
// count for a book.
func (s *service) GetBookStats(bookID int64) (data.Rating, error) {
	_, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return data.Rating{}, ErrRecordNotFound
		default:
			return data.Rating{}, err
		}
	}
	rating, err := s.repo.GetRatingForBook(bookID)
	if err != nil {
		return data.Rating{}, err
	}
	return rating, nil
}
