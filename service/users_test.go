package service

import (
	"errors"
	"testing"

	"github.com/nkemjika/bookworm/data"
	"github.com/nkemjika/bookworm/data/dto"
)

func TestRegisterUser(t *testing.T) {
	s, _, wg := newTestService(t)
	defer wg.Wait()

	user, token, err := s.RegisterUser(dto.RegisterUserRequestBody{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "pa55word1234",
		Bio:      "First programmer.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if user.ID == 0 {
		t.Error("expected a non-zero user id")
	}
	if user.Role != data.RoleUser {
		t.Errorf("expected role %q; got %q", data.RoleUser, user.Role)
	}
	if token == nil || token.Plaintext == "" {
		t.Error("expected an authentication token to be issued")
	}
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	s, _, wg := newTestService(t)
	defer wg.Wait()

	requestBody := dto.RegisterUserRequestBody{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "pa55word1234",
	}
	_, _, err := s.RegisterUser(requestBody)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = s.RegisterUser(requestBody)
	if !errors.Is(err, ErrDuplicateRecord) {
		t.Errorf("expected ErrDuplicateRecord; got %v", err)
	}
}

func TestRegisterUserFailedValidation(t *testing.T) {
	s, _, _ := newTestService(t)
	_, _, err := s.RegisterUser(dto.RegisterUserRequestBody{
		Name:     "A",
		Email:    "not-an-email",
		Password: "short",
	})
	if !errors.Is(err, ErrFailedValidation) {
		t.Errorf("expected ErrFailedValidation; got %v", err)
	}
}

func TestCreateAuthenticationToken(t *testing.T) {
	s, repo, _ := newTestService(t)
	seedUser(t, repo, "Alice", "alice@example.com")

	user, token, err := s.CreateAuthenticationToken(dto.CreateAuthenticationTokenRequestBody{
		Email:    "alice@example.com",
		Password: "pa55word1234",
	})
	if err != nil {
		t.Fatal(err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected matching user; got %q", user.Email)
	}
	if token == nil || token.Scope != data.ScopeAuthentication {
		t.Error("expected an authentication-scoped token")
	}

	_, _, err = s.CreateAuthenticationToken(dto.CreateAuthenticationTokenRequestBody{
		Email:    "alice@example.com",
		Password: "wrongpassword",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials; got %v", err)
	}

	_, _, err = s.CreateAuthenticationToken(dto.CreateAuthenticationTokenRequestBody{
		Email:    "nobody@example.com",
		Password: "pa55word1234",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email; got %v", err)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	s, repo, _ := newTestService(t)
	alice := seedUser(t, repo, "Alice", "alice@example.com")

	bio := "Reader of long novels."
	user, err := s.UpdateUser(alice.ID, dto.UpdateUserRequestBody{Bio: &bio})
	if err != nil {
		t.Fatal(err)
	}
	if user.Bio != bio {
		t.Errorf("expected bio to be updated; got %q", user.Bio)
	}
	if user.Name != "Alice" {
		t.Errorf("expected name to be unchanged; got %q", user.Name)
	}
}

func TestPromoteUser(t *testing.T) {
	s, repo, _ := newTestService(t)
	alice := seedUser(t, repo, "Alice", "alice@example.com")

	user, err := s.PromoteUser(alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !user.IsAdmin() {
		t.Errorf("expected promoted user to be admin; got role %q", user.Role)
	}
	// Promoting an admin is a no-op
	user, err = s.PromoteUser(alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !user.IsAdmin() {
		t.Error("expected user to remain admin")
	}

	_, err = s.PromoteUser(99)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound; got %v", err)
	}
}

func TestGetUserProfile(t *testing.T) {
	s, repo, _ := newTestService(t)
	alice := seedUser(t, repo, "Alice", "alice@example.com")
	book := seedBook(t, repo, "Profile Test")
	_, err := s.CreateReview(alice.ID, alice.Name, dto.CreateReviewRequestBody{
		BookID: book.ID, Rating: 5, Comment: "My favourite book this year.",
	})
	if err != nil {
		t.Fatal(err)
	}

	user, reviews, stats, err := s.GetUserProfile(alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != alice.ID {
		t.Errorf("expected user %d; got %d", alice.ID, user.ID)
	}
	if len(reviews) != 1 {
		t.Errorf("expected 1 recent review; got %d", len(reviews))
	}
	if stats.Total != 1 || stats.Average != 5 {
		t.Errorf("expected stats total=1 average=5; got %+v", stats)
	}

	_, _, _, err = s.GetUserProfile(99)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound; got %v", err)
	}
}

func TestListUsersSearch(t *testing.T) {
	s, repo, _ := newTestService(t)
	seedUser(t, repo, "Alice", "alice@example.com")
	seedUser(t, repo, "Bob", "bob@wonderland.net")

	filters := data.Filters{
		Page:         1,
		PageSize:     20,
		SortBy:       "created_at",
		SortOrder:    "desc",
		SortSafeList: []string{"created_at"},
	}

	users, _, err := s.ListUsers("ALICE", filters)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Name != "Alice" {
		t.Errorf("expected only Alice; got %d users", len(users))
	}

	users, _, err = s.ListUsers("wonderland", filters)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Name != "Bob" {
		t.Errorf("expected only Bob by email match; got %d users", len(users))
	}

	users, metadata, err := s.ListUsers("zzz-definitely-no-match", filters)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 0 {
		t.Errorf("expected no users; got %d", len(users))
	}
	if metadata.TotalRecords != 0 {
		t.Errorf("expected 0 total records; got %d", metadata.TotalRecords)
	}
}
