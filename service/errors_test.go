package service

import (
	"errors"
	"strings"
	"testing"
)

func TestFailedValidationReportsAllFields(t *testing.T) {
	s, _, _ := newTestService(t)
	err := s.failedValidation(map[string]string{
		"name":  "must be provided",
		"email": "must be a valid email address",
	})
	if !errors.Is(err, ErrFailedValidation) {
		t.Fatal("expected the error to match ErrFailedValidation")
	}
	msg := err.Error()
	for _, field := range []string{`"name" must be provided`, `"email" must be a valid email address`} {
		if !strings.Contains(msg, field) {
			t.Errorf("expected error message to contain %s; got %q", field, msg)
		}
	}
	// Fields are reported in a stable order
	if strings.Index(msg, `"email"`) > strings.Index(msg, `"name"`) {
		t.Errorf("expected fields sorted alphabetically; got %q", msg)
	}
}

func TestFailedValidationEmptyMap(t *testing.T) {
	s, _, _ := newTestService(t)
	err := s.failedValidation(nil)
	if !errors.Is(err, ErrFailedValidation) {
		t.Fatal("expected the error to match ErrFailedValidation")
	}
}
