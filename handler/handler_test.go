package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/nkemjika/bookworm/config"
	"github.com/nkemjika/bookworm/data"
	"github.com/nkemjika/bookworm/internal/jsonlog"
	"github.com/nkemjika/bookworm/internal/mock"
	"github.com/nkemjika/bookworm/service"
)

func newTestHandler(t *testing.T) (http.Handler, *mock.Repository) {
	t.Helper()
	var wg sync.WaitGroup
	var cfg config.Config
	// LevelFatal keeps test output quiet
	logger := jsonlog.New(os.Stdout, jsonlog.LevelFatal)
	repo := mock.NewRepository()
	svc := service.New(cfg, &wg, logger, repo)
	cache := ttlcache.New(ttlcache.WithTTL[string, int64](time.Minute))
	h := New(cfg, logger, cache, svc)
	return h.Routes(), repo
}

func seedTestUser(t *testing.T, repo *mock.Repository, name, email, role string) (*data.User, string) {
	t.Helper()
	user := &data.User{Name: name, Email: email, Role: role}
	err := user.Password.Set("pa55word1234")
	if err != nil {
		t.Fatal(err)
	}
	err = repo.RegisterUser(user)
	if err != nil {
		t.Fatal(err)
	}
	token, err := repo.CreateNewToken(user.ID, time.Hour, data.ScopeAuthentication)
	if err != nil {
		t.Fatal(err)
	}
	return user, token.Plaintext
}

func seedTestBook(t *testing.T, repo *mock.Repository) *data.Book {
	t.Helper()
	book := &data.Book{
		Title:         "Handler Test Book",
		Author:        "Test Author",
		Genre:         "Fiction",
		Summary:       "A book used in handler tests.",
		PublishedYear: 2010,
		Language:      "English",
	}
	err := repo.CreateBook(book)
	if err != nil {
		t.Fatal(err)
	}
	return book
}

func seedTestReview(t *testing.T, repo *mock.Repository, userID, bookID int64) *data.Review {
	t.Helper()
	review := &data.Review{
		BookID:  bookID,
		UserID:  userID,
		Rating:  4,
		Comment: "Seeded review for handler tests.",
	}
	err := repo.CreateReview(review)
	if err != nil {
		t.Fatal(err)
	}
	return review
}

func doRequest(t *testing.T, routes http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)
	return rr
}

func TestHealthcheck(t *testing.T) {
	routes, _ := newTestHandler(t)
	rr := doRequest(t, routes, http.MethodGet, "/v1/healthcheck", "", "")
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200; got %d", rr.Code)
	}
	var body map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &body)
	if err != nil {
		t.Fatal(err)
	}
	if body["status"] != "available" {
		t.Errorf("expected status available; got %v", body["status"])
	}
}

func TestCreateReviewRequiresAuthentication(t *testing.T) {
	routes, repo := newTestHandler(t)
	seedTestBook(t, repo)
	rr := doRequest(t, routes, http.MethodPost, "/v1/reviews", "", `{"book_id":1,"rating":5,"comment":"Great book, would recommend."}`)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401; got %d", rr.Code)
	}
}

func TestUpdateReviewOwnership(t *testing.T) {
	routes, repo := newTestHandler(t)
	alice, aliceToken := seedTestUser(t, repo, "Alice", "alice@example.com", data.RoleUser)
	_, bobToken := seedTestUser(t, repo, "Bob", "bob@example.com", data.RoleUser)
	book := seedTestBook(t, repo)
	review := seedTestReview(t, repo, alice.ID, book.ID)

	// A non-owner must not be able to modify another user's review
	rr := doRequest(t, routes, http.MethodPatch, "/v1/reviews/1", bobToken, `{"rating":1}`)
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status 403 for non-owner; got %d", rr.Code)
	}
	// The owner can
	rr = doRequest(t, routes, http.MethodPatch, "/v1/reviews/1", aliceToken, `{"rating":5}`)
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200 for owner; got %d (body: %s)", rr.Code, rr.Body.String())
	}
	got, err := repo.GetReview(review.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rating != 5 {
		t.Errorf("expected rating 5 after owner update; got %d", got.Rating)
	}
}

func TestDeleteReviewAdminOverride(t *testing.T) {
	routes, repo := newTestHandler(t)
	alice, _ := seedTestUser(t, repo, "Alice", "alice@example.com", data.RoleUser)
	_, adminToken := seedTestUser(t, repo, "Root", "root@example.com", data.RoleAdmin)
	book := seedTestBook(t, repo)
	seedTestReview(t, repo, alice.ID, book.ID)

	rr := doRequest(t, routes, http.MethodDelete, "/v1/reviews/1", adminToken, "")
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200 for admin delete; got %d (body: %s)", rr.Code, rr.Body.String())
	}
	exists, err := repo.ReviewExistsForUser(alice.ID, book.ID)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("expected review to be deleted")
	}
}

func TestCreateBookRequiresAdmin(t *testing.T) {
	routes, repo := newTestHandler(t)
	_, userToken := seedTestUser(t, repo, "Alice", "alice@example.com", data.RoleUser)
	_, adminToken := seedTestUser(t, repo, "Root", "root@example.com", data.RoleAdmin)

	body := `{"title":"New Book","author":"New Author","genre":"Fantasy","summary":"A new fantasy novel.","published_year":2020}`
	rr := doRequest(t, routes, http.MethodPost, "/v1/books", userToken, body)
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status 403 for non-admin; got %d", rr.Code)
	}
	rr = doRequest(t, routes, http.MethodPost, "/v1/books", adminToken, body)
	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201 for admin; got %d (body: %s)", rr.Code, rr.Body.String())
	}
	if location := rr.Header().Get("Location"); location != "/v1/books/1" {
		t.Errorf("expected Location /v1/books/1; got %q", location)
	}
}

func TestListBooksIsPublic(t *testing.T) {
	routes, repo := newTestHandler(t)
	seedTestBook(t, repo)
	rr := doRequest(t, routes, http.MethodGet, "/v1/books", "", "")
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200; got %d (body: %s)", rr.Code, rr.Body.String())
	}
	var body struct {
		Books []data.Book `json:"books"`
	}
	err := json.Unmarshal(rr.Body.Bytes(), &body)
	if err != nil {
		t.Fatal(err)
	}
	if len(body.Books) != 1 {
		t.Errorf("expected 1 book; got %d", len(body.Books))
	}
}

func TestListBooksRejectsUnknownSort(t *testing.T) {
	routes, _ := newTestHandler(t)
	rr := doRequest(t, routes, http.MethodGet, "/v1/books?sort_by=password_hash", "", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422; got %d", rr.Code)
	}
}

func TestListUsersRequiresAdmin(t *testing.T) {
	routes, repo := newTestHandler(t)
	_, userToken := seedTestUser(t, repo, "Alice", "alice@example.com", data.RoleUser)
	_, adminToken := seedTestUser(t, repo, "Root", "root@example.com", data.RoleAdmin)

	rr := doRequest(t, routes, http.MethodGet, "/v1/users", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for anonymous; got %d", rr.Code)
	}
	rr = doRequest(t, routes, http.MethodGet, "/v1/users", userToken, "")
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status 403 for non-admin; got %d", rr.Code)
	}
	rr = doRequest(t, routes, http.MethodGet, "/v1/users", adminToken, "")
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200 for admin; got %d (body: %s)", rr.Code, rr.Body.String())
	}
}

func TestShowProfile(t *testing.T) {
	routes, repo := newTestHandler(t)
	_, token := seedTestUser(t, repo, "Alice", "alice@example.com", data.RoleUser)

	rr := doRequest(t, routes, http.MethodGet, "/v1/profile", token, "")
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200; got %d", rr.Code)
	}
	rr = doRequest(t, routes, http.MethodGet, "/v1/profile", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for anonymous; got %d", rr.Code)
	}
}

func TestInvalidAuthenticationToken(t *testing.T) {
	routes, _ := newTestHandler(t)
	rr := doRequest(t, routes, http.MethodGet, "/v1/profile", "notavalidtoken", "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401; got %d", rr.Code)
	}
	if rr.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("expected WWW-Authenticate: Bearer header")
	}
}

func TestUpdateUserProfileOwnership(t *testing.T) {
	routes, repo := newTestHandler(t)
	_, aliceToken := seedTestUser(t, repo, "Alice", "alice@example.com", data.RoleUser)
	_, bobToken := seedTestUser(t, repo, "Bob", "bob@example.com", data.RoleUser)
	_, adminToken := seedTestUser(t, repo, "Root", "root@example.com", data.RoleAdmin)

	rr := doRequest(t, routes, http.MethodPatch, "/v1/users/1", bobToken, `{"bio":"Trying to edit someone else."}`)
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status 403 for another user; got %d", rr.Code)
	}
	rr = doRequest(t, routes, http.MethodPatch, "/v1/users/1", aliceToken, `{"bio":"My own bio."}`)
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200 for owner; got %d (body: %s)", rr.Code, rr.Body.String())
	}
	rr = doRequest(t, routes, http.MethodPatch, "/v1/users/1", adminToken, `{"bio":"Admin edit."}`)
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200 for admin; got %d (body: %s)", rr.Code, rr.Body.String())
	}
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	routes, _ := newTestHandler(t)

	rr := doRequest(t, routes, http.MethodPost, "/v1/users", "", `{"name":"Ada Lovelace","email":"ada@example.com","password":"pa55word1234"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201; got %d (body: %s)", rr.Code, rr.Body.String())
	}
	var registered struct {
		AuthenticationToken data.Token `json:"authentication_token"`
	}
	err := json.Unmarshal(rr.Body.Bytes(), &registered)
	if err != nil {
		t.Fatal(err)
	}
	if registered.AuthenticationToken.Plaintext == "" {
		t.Fatal("expected a token in the registration response")
	}

	rr = doRequest(t, routes, http.MethodPost, "/v1/tokens/authentication", "", `{"email":"ada@example.com","password":"pa55word1234"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201; got %d (body: %s)", rr.Code, rr.Body.String())
	}
	var loggedIn struct {
		AuthenticationToken data.Token `json:"authentication_token"`
	}
	err = json.Unmarshal(rr.Body.Bytes(), &loggedIn)
	if err != nil {
		t.Fatal(err)
	}
	token := loggedIn.AuthenticationToken.Plaintext

	rr = doRequest(t, routes, http.MethodDelete, "/v1/tokens/authentication", token, "")
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200 for logout; got %d", rr.Code)
	}
	// The revoked token no longer authenticates
	rr = doRequest(t, routes, http.MethodGet, "/v1/profile", token, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 after logout; got %d", rr.Code)
	}
}
