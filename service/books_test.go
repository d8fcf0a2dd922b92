package service

import (
	"testing"

	"github.com/nkemjika/bookworm/data"
)

func bookFilters() data.Filters {
	return data.Filters{
		Page:         1,
		PageSize:     12,
		SortBy:       "created_at",
		SortOrder:    "desc",
		SortSafeList: []string{"created_at"},
	}
}

func TestListBooksSearch(t *testing.T) {
	s, repo, _ := newTestService(t)
	seedBook(t, repo, "Dune")
	seedBook(t, repo, "The Hobbit")

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{name: "matches title case-insensitively", search: "dune", want: 1},
		{name: "matches a title substring", search: "hobb", want: 1},
		{name: "matches the author field", search: "test author", want: 2},
		{name: "no match returns nothing", search: "zzz-definitely-no-match", want: 0},
		{name: "empty search returns everything", search: "", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, metadata, err := s.ListBooks(tt.search, "", bookFilters())
			if err != nil {
				t.Fatal(err)
			}
			if len(books) != tt.want {
				t.Errorf("expected %d books; got %d", tt.want, len(books))
			}
			if metadata.TotalRecords != tt.want {
				t.Errorf("expected %d total records; got %d", tt.want, metadata.TotalRecords)
			}
		})
	}
}

func TestListBooksSearchWithGenre(t *testing.T) {
	s, repo, _ := newTestService(t)
	seedBook(t, repo, "Dune")
	fantasy := &data.Book{
		Title:         "Dune Companion",
		Author:        "Another Author",
		Genre:         "Fantasy",
		Summary:       "A companion volume.",
		PublishedYear: 2005,
		Language:      "English",
	}
	err := repo.CreateBook(fantasy)
	if err != nil {
		t.Fatal(err)
	}

	books, _, err := s.ListBooks("dune", "Fantasy", bookFilters())
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 1 {
		t.Fatalf("expected 1 book; got %d", len(books))
	}
	if books[0].Title != "Dune Companion" {
		t.Errorf("expected the fantasy title; got %q", books[0].Title)
	}
}
