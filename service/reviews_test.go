package service

import (
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/nkemjika/bookworm/config"
	"github.com/nkemjika/bookworm/data"
	"github.com/nkemjika/bookworm/data/dto"
	"github.com/nkemjika/bookworm/internal/jsonlog"
	"github.com/nkemjika/bookworm/internal/mock"
)

func newTestService(t *testing.T) (*service, *mock.Repository, *sync.WaitGroup) {
	t.Helper()
	var wg sync.WaitGroup
	// LevelFatal keeps test output quiet
	logger := jsonlog.New(os.Stdout, jsonlog.LevelFatal)
	repo := mock.NewRepository()
	return New(config.Config{}, &wg, logger, repo), repo, &wg
}

func seedUser(t *testing.T, repo *mock.Repository, name, email string) *data.User {
	t.Helper()
	user := &data.User{Name: name, Email: email, Role: data.RoleUser}
	err := user.Password.Set("pa55word1234")
	if err != nil {
		t.Fatal(err)
	}
	err = repo.RegisterUser(user)
	if err != nil {
		t.Fatal(err)
	}
	return user
}

func seedBook(t *testing.T, repo *mock.Repository, title string) *data.Book {
	t.Helper()
	book := &data.Book{
		Title:         title,
		Author:        "Test Author",
		Genre:         "Fiction",
		Summary:       "A book used in tests.",
		PublishedYear: 2001,
		Language:      "English",
	}
	err := repo.CreateBook(book)
	if err != nil {
		t.Fatal(err)
	}
	return book
}

func TestCreateReviewUpdatesAggregates(t *testing.T) {
	s, repo, _ := newTestService(t)
	alice := seedUser(t, repo, "Alice", "alice@example.com")
	bob := seedUser(t, repo, "Bob", "bob@example.com")
	book := seedBook(t, repo, "Aggregate Test")

	_, err := s.CreateReview(alice.ID, alice.Name, dto.CreateReviewRequestBody{
		BookID: book.ID, Rating: 5, Comment: "Loved every page of it.",
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.CreateReview(bob.ID, bob.Name, dto.CreateReviewRequestBody{
		BookID: book.ID, Rating: 4, Comment: "Very good, a little long.",
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetBook(book.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalReviews != 2 {
		t.Errorf("expected 2 total reviews; got %d", got.TotalReviews)
	}
	if got.AverageRating != 4.5 {
		t.Errorf("expected average rating 4.5; got %g", got.AverageRating)
	}

	gotUser, err := repo.GetUserByID(alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotUser.TotalReviews != 1 {
		t.Errorf("expected user review count 1; got %d", gotUser.TotalReviews)
	}
}

func TestCreateReviewDuplicate(t *testing.T) {
	s, repo, _ := newTestService(t)
	alice := seedUser(t, repo, "Alice", "alice@example.com")
	book := seedBook(t, repo, "Duplicate Test")

	_, err := s.CreateReview(alice.ID, alice.Name, dto.CreateReviewRequestBody{
		BookID: book.ID, Rating: 3, Comment: "A perfectly fine read.",
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.CreateReview(alice.ID, alice.Name, dto.CreateReviewRequestBody{
		BookID: book.ID, Rating: 5, Comment: "Changed my mind, it's great.",
	})
	if !errors.Is(err, ErrDuplicateRecord) {
		t.Errorf("expected ErrDuplicateRecord; got %v", err)
	}
}

func TestCreateReviewMissingBook(t *testing.T) {
	s, repo, _ := newTestService(t)
	alice := seedUser(t, repo, "Alice", "alice@example.com")

	_, err := s.CreateReview(alice.ID, alice.Name, dto.CreateReviewRequestBody{
		BookID: 42, Rating: 3, Comment: "Reviewing a ghost book.",
	})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound; got %v", err)
	}
}

func TestCreateReviewInvalidRating(t *testing.T) {
	s, repo, _ := newTestService(t)
	alice := seedUser(t, repo, "Alice", "alice@example.com")
	book := seedBook(t, repo, "Validation Test")

	_, err := s.CreateReview(alice.ID, alice.Name, dto.CreateReviewRequestBody{
		BookID: book.ID, Rating: 6, Comment: "Six stars out of five.",
	})
	if !errors.Is(err, ErrFailedValidation) {
		t.Errorf("expected ErrFailedValidation; got %v", err)
	}
}

func TestUpdateReviewResyncsAggregate(t *testing.T) {
	s, repo, _ := newTestService(t)
	alice := seedUser(t, repo, "Alice", "alice@example.com")
	book := seedBook(t, repo, "Update Test")

	review, err := s.CreateReview(alice.ID, alice.Name, dto.CreateReviewRequestBody{
		BookID: book.ID, Rating: 2, Comment: "Not really for me at all.",
	})
	if err != nil {
		t.Fatal(err)
	}
	newRating := int8(5)
	_, err = s.UpdateReview(review.ID, dto.UpdateReviewRequestBody{Rating: &newRating})
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetBook(book.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.AverageRating != 5 {
		t.Errorf("expected average rating 5; got %g", got.AverageRating)
	}
	if got.TotalReviews != 1 {
		t.Errorf("expected 1 total review; got %d", got.TotalReviews)
	}
}

func TestDeleteLastReviewResetsAggregate(t *testing.T) {
	s, repo, _ := newTestService(t)
	alice := seedUser(t, repo, "Alice", "alice@example.com")
	book := seedBook(t, repo, "Reset Test")

	review, err := s.CreateReview(alice.ID, alice.Name, dto.CreateReviewRequestBody{
		BookID: book.ID, Rating: 4, Comment: "A solid four star read.",
	})
	if err != nil {
		t.Fatal(err)
	}
	err = s.DeleteReview(review.ID)
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetBook(book.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.AverageRating != 0 {
		t.Errorf("expected average rating 0 after last review deleted; got %g", got.AverageRating)
	}
	if got.TotalReviews != 0 {
		t.Errorf("expected 0 total reviews after last review deleted; got %d", got.TotalReviews)
	}
	gotUser, err := repo.GetUserByID(alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotUser.TotalReviews != 0 {
		t.Errorf("expected user review count 0; got %d", gotUser.TotalReviews)
	}
}

func TestDeleteReviewNotFound(t *testing.T) {
	s, _, _ := newTestService(t)
	err := s.DeleteReview(99)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound; got %v", err)
	}
}

func TestListReviewsPagination(t *testing.T) {
	s, repo, _ := newTestService(t)
	book := seedBook(t, repo, "Pagination Test")
	comments := []string{
		"The first review of the lot.",
		"The second review of the lot.",
		"The third review of the lot.",
		"The fourth review of the lot.",
		"The fifth review of the lot.",
	}
	for i, comment := range comments {
		user := seedUser(t, repo, "Reader", "reader"+string(rune('a'+i))+"@example.com")
		_, err := s.CreateReview(user.ID, user.Name, dto.CreateReviewRequestBody{
			BookID: book.ID, Rating: int8(i%5 + 1), Comment: comment,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	filters := data.Filters{
		Page: 2, PageSize: 2,
		SortBy: "created_at", SortOrder: "asc",
		SortSafeList: []string{"created_at"},
	}
	reviews, metadata, err := s.ListReviews(book.ID, 0, filters)
	if err != nil {
		t.Fatal(err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews on page 2; got %d", len(reviews))
	}
	if reviews[0].Comment != comments[2] || reviews[1].Comment != comments[3] {
		t.Errorf("expected third and fourth reviews on page 2; got %q and %q", reviews[0].Comment, reviews[1].Comment)
	}
	if metadata.LastPage != 3 {
		t.Errorf("expected last page 3; got %d", metadata.LastPage)
	}
	if metadata.TotalRecords != 5 {
		t.Errorf("expected 5 total records; got %d", metadata.TotalRecords)
	}
}

func TestListReviewsRejectsUnknownSort(t *testing.T) {
	s, _, _ := newTestService(t)
	filters := data.Filters{
		Page: 1, PageSize: 10,
		SortBy: "password_hash", SortOrder: "asc",
		SortSafeList: []string{"created_at"},
	}
	_, _, err := s.ListReviews(0, 0, filters)
	if !errors.Is(err, ErrFailedValidation) {
		t.Errorf("expected ErrFailedValidation; got %v", err)
	}
}

func TestMarkReviewHelpful(t *testing.T) {
	s, repo, _ := newTestService(t)
	alice := seedUser(t, repo, "Alice", "alice@example.com")
	book := seedBook(t, repo, "Helpful Test")
	review, err := s.CreateReview(alice.ID, alice.Name, dto.CreateReviewRequestBody{
		BookID: book.ID, Rating: 4, Comment: "Helpful review content here.",
	})
	if err != nil {
		t.Fatal(err)
	}
	helpful, err := s.MarkReviewHelpful(review.ID)
	if err != nil {
		t.Fatal(err)
	}
	if helpful != 1 {
		t.Errorf("expected helpful count 1; got %d", helpful)
	}
	helpful, err = s.MarkReviewHelpful(review.ID)
	if err != nil {
		t.Fatal(err)
	}
	if helpful != 2 {
		t.Errorf("expected helpful count 2; got %d", helpful)
	}
}
