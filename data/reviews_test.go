package data

import (
	"strings"
	"testing"

	"github.com/nkemjika/bookworm/internal/validator"
)

func TestValidateReview(t *testing.T) {
	validReview := func() *Review {
		return &Review{
			BookID:  1,
			UserID:  1,
			Rating:  4,
			Comment: "A wonderful, slow-burning story.",
		}
	}
	tests := []struct {
		name   string
		mutate func(*Review)
		valid  bool
	}{
		{"valid review", func(r *Review) {}, true},
		{"rating of one", func(r *Review) { r.Rating = 1 }, true},
		{"rating of five", func(r *Review) { r.Rating = 5 }, true},
		{"zero rating", func(r *Review) { r.Rating = 0 }, false},
		{"rating above five", func(r *Review) { r.Rating = 6 }, false},
		{"negative rating", func(r *Review) { r.Rating = -1 }, false},
		{"comment too short", func(r *Review) { r.Comment = "too short" }, false},
		{"comment too long", func(r *Review) { r.Comment = strings.Repeat("a", 2001) }, false},
		{"empty comment", func(r *Review) { r.Comment = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := validReview()
			tt.mutate(review)
			v := validator.New()
			ValidateReview(v, review)
			if v.Valid() != tt.valid {
				t.Errorf("expected valid=%t; got %t (errors: %v)", tt.valid, v.Valid(), v.Errors)
			}
		})
	}
}
