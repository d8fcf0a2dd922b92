package data

import (
	"math"
	"strings"

	"github.com/nkemjika/bookworm/internal/validator"
)

// Filters holds the pagination and sort parameters common to all list
// endpoints. SortBy is checked against SortSafeList at the validation
// boundary; an unknown sort field is rejected, never silently ignored.
type Filters struct {
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
	SortSafeList []string
}

// SortColumn returns the database column to sort by. It panics if SortBy is
// not in the safe list, which is unreachable after ValidateFilters has run.
func (f Filters) SortColumn() string {
	for _, safeValue := range f.SortSafeList {
		if f.SortBy == safeValue {
			return f.SortBy
		}
	}
	panic("unsafe sort parameter: " + f.SortBy)
}

// SortDirection returns the sort direction ("ASC" or "DESC").
func (f Filters) SortDirection() string {
	if strings.ToLower(f.SortOrder) == "asc" {
		return "ASC"
	}
	return "DESC"
}

func (f Filters) Limit() int {
	return f.PageSize
}

func (f Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

func ValidateFilters(v *validator.Validator, f Filters) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.PageSize > 0, "page_size", "must be greater than zero")
	v.Check(f.PageSize <= 50, "page_size", "must be a maximum of 50")
	v.Check(validator.PermittedValue(f.SortBy, f.SortSafeList...), "sort_by", "invalid sort value")
	v.Check(validator.PermittedValue(strings.ToLower(f.SortOrder), "asc", "desc"), "sort_order", "must be either asc or desc")
}

// Metadata holds the pagination metadata returned alongside every page of
// list results.
type Metadata struct {
	CurrentPage  int `json:"current_page,omitempty"`
	PageSize     int `json:"page_size,omitempty"`
	FirstPage    int `json:"first_page,omitempty"`
	LastPage     int `json:"last_page,omitempty"`
	TotalRecords int `json:"total_records,omitempty"`
}

// CalculateMetadata calculates the pagination metadata for a result set of
// totalRecords records. The last page is ceil(totalRecords / pageSize).
func CalculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		FirstPage:    1,
		LastPage:     int(math.Ceil(float64(totalRecords) / float64(pageSize))),
		TotalRecords: totalRecords,
	}
}
