package data

import (
	"testing"

	"github.com/nkemjika/bookworm/internal/validator"
)

func TestCalculateMetadata(t *testing.T) {
	tests := []struct {
		name         string
		totalRecords int
		page         int
		pageSize     int
		want         Metadata
	}{
		{
			name:         "empty result set",
			totalRecords: 0,
			page:         1,
			pageSize:     10,
			want:         Metadata{},
		},
		{
			name:         "single page",
			totalRecords: 5,
			page:         1,
			pageSize:     12,
			want:         Metadata{CurrentPage: 1, PageSize: 12, FirstPage: 1, LastPage: 1, TotalRecords: 5},
		},
		{
			name:         "middle page of five records",
			totalRecords: 5,
			page:         2,
			pageSize:     2,
			want:         Metadata{CurrentPage: 2, PageSize: 2, FirstPage: 1, LastPage: 3, TotalRecords: 5},
		},
		{
			name:         "partial last page",
			totalRecords: 101,
			page:         11,
			pageSize:     10,
			want:         Metadata{CurrentPage: 11, PageSize: 10, FirstPage: 1, LastPage: 11, TotalRecords: 101},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateMetadata(tt.totalRecords, tt.page, tt.pageSize)
			if got != tt.want {
				t.Errorf("expected %+v; got %+v", tt.want, got)
			}
		})
	}
}

func TestFiltersOffset(t *testing.T) {
	f := Filters{Page: 2, PageSize: 2}
	if f.Offset() != 2 {
		t.Errorf("expected offset 2; got %d", f.Offset())
	}
	if f.Limit() != 2 {
		t.Errorf("expected limit 2; got %d", f.Limit())
	}
}

func TestValidateFilters(t *testing.T) {
	safeList := []string{"title", "author", "created_at"}
	tests := []struct {
		name    string
		filters Filters
		valid   bool
	}{
		{
			name:    "valid",
			filters: Filters{Page: 1, PageSize: 12, SortBy: "created_at", SortOrder: "desc", SortSafeList: safeList},
			valid:   true,
		},
		{
			name:    "zero page",
			filters: Filters{Page: 0, PageSize: 12, SortBy: "created_at", SortOrder: "desc", SortSafeList: safeList},
			valid:   false,
		},
		{
			name:    "page size too large",
			filters: Filters{Page: 1, PageSize: 51, SortBy: "created_at", SortOrder: "desc", SortSafeList: safeList},
			valid:   false,
		},
		{
			name:    "sort field outside safe list",
			filters: Filters{Page: 1, PageSize: 12, SortBy: "password_hash", SortOrder: "desc", SortSafeList: safeList},
			valid:   false,
		},
		{
			name:    "invalid sort order",
			filters: Filters{Page: 1, PageSize: 12, SortBy: "title", SortOrder: "sideways", SortSafeList: safeList},
			valid:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateFilters(v, tt.filters)
			if v.Valid() != tt.valid {
				t.Errorf("expected valid=%t; got %t (errors: %v)", tt.valid, v.Valid(), v.Errors)
			}
		})
	}
}

func TestSortColumnPanicsOnUnsafeValue(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for sort value outside the safe list")
		}
	}()
	f := Filters{SortBy: "password_hash", SortSafeList: []string{"title"}}
	f.SortColumn()
}
