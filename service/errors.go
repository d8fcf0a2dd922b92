package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrFailedValidation     = errors.New("failed validation")
	ErrRecordNotFound       = errors.New("record not found")
	ErrEditConflict         = errors.New("edit conflict")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrContentTooLarge      = errors.New("content too large")
	ErrBadRequest           = errors.New("bad request")
	ErrDuplicateRecord      = errors.New("duplicate record")
	ErrNotPermitted         = errors.New("not permitted")
)

// failedValidation wraps ErrFailedValidation with every entry of a validation
// error map, sorted by field, so that handlers can still match the sentinel
// with errors.Is while the response names each failing field.
func (s *service) failedValidation(errorMap map[string]string) error {
	if len(errorMap) == 0 {
		return ErrFailedValidation
	}
	fields := make([]string, 0, len(errorMap))
	for field := range errorMap {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, fmt.Sprintf("%q %s", field, errorMap[field]))
	}
	return fmt.Errorf("%s: %w", strings.Join(messages, "; "), ErrFailedValidation)
}
