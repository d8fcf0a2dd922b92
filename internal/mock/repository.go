// Package mock provides an in-memory repository.Repository implementation
// for exercising the service and handler layers in tests without a database.
package mock

import (
	"crypto/sha256"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nkemjika/bookworm/data"
	"github.com/nkemjika/bookworm/repository"
)

// Repository is an in-memory implementation of repository.Repository. It
// mirrors the production behaviour that matters to callers: sentinel errors,
// duplicate detection, version bumps and rating aggregation.
type Repository struct {
	mu         sync.Mutex
	users      map[int64]data.User
	books      map[int64]data.Book
	reviews    map[int64]data.Review
	tokens     map[string]data.Token
	nextUserID int64
	nextBookID int64
	nextRevID  int64
	nextToken  int64
}

func NewRepository() *Repository {
	return &Repository{
		users:   make(map[int64]data.User),
		books:   make(map[int64]data.Book),
		reviews: make(map[int64]data.Review),
		tokens:  make(map[string]data.Token),
	}
}

// users

func (m *Repository) RegisterUser(user *data.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateRecord
		}
	}
	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = time.Now()
	user.Version = 1
	m.users[user.ID] = *user
	return nil
}

func (m *Repository) GetUserByID(userID int64) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &user, nil
}

func (m *Repository) GetUserByEmail(email string) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (m *Repository) UpdateUser(user *data.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.ID]
	if !ok || existing.Version != user.Version {
		return repository.ErrEditConflict
	}
	user.Version++
	m.users[user.ID] = *user
	return nil
}

func (m *Repository) DeleteUser(userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(m.users, userID)
	// FK cascade
	for id, review := range m.reviews {
		if review.UserID == userID {
			delete(m.reviews, id)
		}
	}
	return nil
}

func (m *Repository) GetUserForToken(tokenScope string, tokenPlaintext string) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash := sha256.Sum256([]byte(tokenPlaintext))
	token, ok := m.tokens[string(hash[:])]
	if !ok || token.Scope != tokenScope || token.Expiry.Before(time.Now()) {
		return nil, repository.ErrRecordNotFound
	}
	user, ok := m.users[token.UserID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &user, nil
}

func (m *Repository) GetAllUsers(search string, filters data.Filters) ([]*data.User, data.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	users := make([]*data.User, 0, len(ids))
	for _, id := range ids {
		user := m.users[id]
		if !matchesSearch(search, user.Name, user.Email) {
			continue
		}
		users = append(users, &user)
	}
	return paginate(users, filters)
}

func (m *Repository) SyncUserReviewCount(userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil
	}
	var total int64
	for _, review := range m.reviews {
		if review.UserID == userID {
			total++
		}
	}
	user.TotalReviews = total
	m.users[userID] = user
	return nil
}

// books

func (m *Repository) CreateBook(book *data.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.books {
		if book.Isbn != "" && b.Isbn == book.Isbn {
			return repository.ErrDuplicateRecord
		}
	}
	m.nextBookID++
	book.ID = m.nextBookID
	book.CreatedAt = time.Now()
	book.Version = 1
	m.books[book.ID] = *book
	return nil
}

func (m *Repository) GetBook(bookID int64) (*data.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[bookID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &book, nil
}

func (m *Repository) GetAllBooks(search string, genre string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.books))
	for id := range m.books {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	books := make([]*data.Book, 0, len(ids))
	for _, id := range ids {
		book := m.books[id]
		if genre != "" && book.Genre != genre {
			continue
		}
		if !matchesSearch(search, book.Title, book.Author) {
			continue
		}
		books = append(books, &book)
	}
	return paginate(books, filters)
}

func (m *Repository) UpdateBook(book *data.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.books[book.ID]
	if !ok || existing.Version != book.Version {
		return repository.ErrEditConflict
	}
	book.Version++
	m.books[book.ID] = *book
	return nil
}

func (m *Repository) DeleteBook(bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[bookID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(m.books, bookID)
	// FK cascade
	for id, review := range m.reviews {
		if review.BookID == bookID {
			delete(m.reviews, id)
		}
	}
	return nil
}

func (m *Repository) UpdateBookRating(bookID int64, averageRating float64, totalReviews int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[bookID]
	if !ok {
		// Same as zero rows affected in the database: not an error
		return nil
	}
	book.AverageRating = averageRating
	book.TotalReviews = totalReviews
	m.books[bookID] = book
	return nil
}

// reviews

func (m *Repository) CreateReview(review *data.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.UserID == review.UserID && existing.BookID == review.BookID {
			return repository.ErrDuplicateRecord
		}
	}
	m.nextRevID++
	review.ID = m.nextRevID
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	review.Version = 1
	m.reviews[review.ID] = *review
	return nil
}

func (m *Repository) GetReview(reviewID int64) (*data.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[reviewID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &review, nil
}

func (m *Repository) UpdateReview(review *data.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.reviews[review.ID]
	if !ok || existing.Version != review.Version {
		return repository.ErrEditConflict
	}
	review.Version++
	review.UpdatedAt = time.Now()
	m.reviews[review.ID] = *review
	return nil
}

func (m *Repository) DeleteReview(reviewID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[reviewID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(m.reviews, reviewID)
	return nil
}

func (m *Repository) ReviewExistsForUser(userID int64, bookID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, review := range m.reviews {
		if review.UserID == userID && review.BookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Repository) GetAllReviews(bookID int64, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reviews := m.collectReviews(bookID, userID)
	return paginate(reviews, filters)
}

func (m *Repository) GetRecentReviewsForUser(userID int64, limit int) ([]*data.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reviews := m.collectReviews(0, userID)
	// Newest first
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID > reviews[j].ID })
	if len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

func (m *Repository) GetRatingForBook(bookID int64) (data.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aggregateRating(bookID, 0), nil
}

func (m *Repository) GetRatingForUser(userID int64) (data.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aggregateRating(0, userID), nil
}

func (m *Repository) MarkReviewHelpful(reviewID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[reviewID]
	if !ok {
		return 0, repository.ErrRecordNotFound
	}
	review.Helpful++
	m.reviews[reviewID] = review
	return review.Helpful, nil
}

func (m *Repository) ReportReview(reviewID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[reviewID]
	if !ok {
		return repository.ErrRecordNotFound
	}
	review.Reported = true
	m.reviews[reviewID] = review
	return nil
}

// tokens

func (m *Repository) CreateNewToken(userID int64, ttl time.Duration, scope string) (*data.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextToken++
	// 26 characters, like the production base32 tokens
	plaintext := fmt.Sprintf("TOKEN%021d", m.nextToken)
	hash := sha256.Sum256([]byte(plaintext))
	token := data.Token{
		Plaintext: plaintext,
		Hash:      hash[:],
		UserID:    userID,
		Expiry:    time.Now().Add(ttl),
		Scope:     scope,
	}
	m.tokens[string(token.Hash)] = token
	return &token, nil
}

func (m *Repository) DeleteAllTokensForUser(scope string, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, token := range m.tokens {
		if token.UserID == userID && token.Scope == scope {
			delete(m.tokens, hash)
		}
	}
	return nil
}

// helpers

func (m *Repository) collectReviews(bookID int64, userID int64) []*data.Review {
	ids := make([]int64, 0, len(m.reviews))
	for id := range m.reviews {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	reviews := make([]*data.Review, 0, len(ids))
	for _, id := range ids {
		review := m.reviews[id]
		if bookID != 0 && review.BookID != bookID {
			continue
		}
		if userID != 0 && review.UserID != userID {
			continue
		}
		reviews = append(reviews, &review)
	}
	return reviews
}

func (m *Repository) aggregateRating(bookID int64, userID int64) data.Rating {
	var rating data.Rating
	var sum int64
	for _, review := range m.reviews {
		if bookID != 0 && review.BookID != bookID {
			continue
		}
		if userID != 0 && review.UserID != userID {
			continue
		}
		switch review.Rating {
		case 5:
			rating.FiveStars++
		case 4:
			rating.FourStars++
		case 3:
			rating.ThreeStars++
		case 2:
			rating.TwoStars++
		case 1:
			rating.OneStar++
		}
		rating.Total++
		sum += int64(review.Rating)
	}
	if rating.Total > 0 {
		// One decimal place, like the SQL aggregation
		rating.Average = math.Round(float64(sum)/float64(rating.Total)*10) / 10
	}
	return rating
}

// matchesSearch reports whether any field contains search as a
// case-insensitive substring, mirroring the ILIKE clauses in the production
// queries. An empty search matches everything.
func matchesSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func paginate[T any](records []*T, filters data.Filters) ([]*T, data.Metadata, error) {
	total := len(records)
	metadata := data.CalculateMetadata(total, filters.Page, filters.PageSize)
	offset := filters.Offset()
	if offset > total {
		offset = total
	}
	end := offset + filters.Limit()
	if end > total {
		end = total
	}
	return records[offset:end], metadata, nil
}
