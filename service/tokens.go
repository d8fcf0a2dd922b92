package service

import (
	"errors"
	"time"

	"github.com/nkemjika/bookworm/data"
	"github.com/nkemjika/bookworm/data/dto"
	"github.com/nkemjika/bookworm/internal/validator"
	"github.com/nkemjika/bookworm/repository"
)

type tokens interface {
	CreateAuthenticationToken(requestBody dto.CreateAuthenticationTokenRequestBody) (*data.User, *data.Token, error)
	DeleteAuthenticationToken(userID int64) error
}

// CreateAuthenticationToken service signs a user in, returning the user
// together with a new authentication token.
func (s *service) CreateAuthenticationToken(requestBody dto.CreateAuthenticationTokenRequestBody) (*data.User, *data.Token, error) {
	v := validator.New()
	data.ValidateEmail(v, requestBody.Email)
	data.ValidatePasswordPlaintext(v, requestBody.Password)
	if !v.Valid() {
		return nil, nil, s.failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserByEmail(requestBody.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, nil, ErrInvalidCredentials
		default:
			return nil, nil, err
		}
	}
	match, err := user.Password.Matches(requestBody.Password)
	if err != nil {
		return nil, nil, err
	}
	if !match {
		return nil, nil, ErrInvalidCredentials
	}
	token, err := s.repo.CreateNewToken(user.ID, 24*time.Hour, data.ScopeAuthentication)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// DeleteAuthenticationToken signs a user out by deleting all of their
// authentication tokens.
func (s *service) DeleteAuthenticationToken(userID int64) error {
	return s.repo.DeleteAllTokensForUser(data.ScopeAuthentication, userID)
}
