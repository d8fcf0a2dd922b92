package service

import (
	"errors"
	"strings"
	"time"

	"github.com/nkemjika/bookworm/data"
	"github.com/nkemjika/bookworm/data/dto"
	"github.com/nkemjika/bookworm/internal/mailer"
	"github.com/nkemjika/bookworm/internal/validator"
	"github.com/nkemjika/bookworm/repository"
)

type users interface {
	RegisterUser(requestBody dto.RegisterUserRequestBody) (*data.User, *data.Token, error)
	GetUserProfile(userID int64) (*data.User, []*data.Review, data.Rating, error)
	UpdateUser(userID int64, requestBody dto.UpdateUserRequestBody) (*data.User, error)
	ListUserReviews(userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	ListUsers(search string, filters data.Filters) ([]*data.User, data.Metadata, error)
	DeleteUser(userID int64) error
	PromoteUser(userID int64) (*data.User, error)
	GetUserForToken(tokenScope string, tokenPlaintext string) (*data.User, error)
}

// RegisterUser service registers a new user and signs them in, returning the
// user together with a fresh authentication token.
func (s *service) RegisterUser(requestBody dto.RegisterUserRequestBody) (*data.User, *data.Token, error) {
	user := &data.User{
		Name:  requestBody.Name,
		Email: requestBody.Email,
		Bio:   requestBody.Bio,
		Role:  data.RoleUser,
	}
	err := user.Password.Set(requestBody.Password)
	if err != nil {
		return nil, nil, err
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, nil, s.failedValidation(v.Errors)
	}
	err = s.repo.RegisterUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, nil, ErrDuplicateRecord
		default:
			return nil, nil, err
		}
	}
	token, err := s.repo.CreateNewToken(user.ID, 24*time.Hour, data.ScopeAuthentication)
	if err != nil {
		return nil, nil, err
	}
	// Send welcome email in a background goroutine to speed up response time
	s.background(func() {
		data := map[string]string{
			"userName": strings.Split(user.Name, " ")[0],
		}
		mailer := mailer.New(s.config.SMTP.Host, s.config.SMTP.Port, s.config.SMTP.Username, s.config.SMTP.Password, s.config.SMTP.Sender)
		err := mailer.Send(user.Email, "user_welcome.tmpl", data)
		if err != nil {
			s.logger.PrintError(err, nil)
		}
	})
	return user, token, nil
}

// GetUserProfile service retrieves a user's public profile: the user record,
// their most recent reviews and their rating statistics.
func (s *service) GetUserProfile(userID int64) (*data.User, []*data.Review, data.Rating, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, nil, data.Rating{}, ErrRecordNotFound
		default:
			return nil, nil, data.Rating{}, err
		}
	}
	reviews, err := s.repo.GetRecentReviewsForUser(userID, 10)
	if err != nil {
		return nil, nil, data.Rating{}, err
	}
	rating, err := s.repo.GetRatingForUser(userID)
	if err != nil {
		return nil, nil, data.Rating{}, err
	}
	return user, reviews, rating, nil
}

// UpdateUser service updates a user's profile details. Only the fields
// present in the request body are changed.
func (s *service) UpdateUser(userID int64, requestBody dto.UpdateUserRequestBody) (*data.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if requestBody.Name != nil {
		user.Name = *requestBody.Name
	}
	if requestBody.Bio != nil {
		user.Bio = *requestBody.Bio
	}
	if requestBody.Avatar != nil {
		user.Avatar = *requestBody.Avatar
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	return user, nil
}

// ListUserReviews service retrieves a paginated list of all reviews written
// by a user.
func (s *service) ListUserReviews(userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	_, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, data.Metadata{}, ErrRecordNotFound
		default:
			return nil, data.Metadata{}, err
		}
	}
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	reviews, metadata, err := s.repo.GetAllReviews(0, userID, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return reviews, metadata, nil
}

// ListUsers service retrieves a paginated list of all users. Records can be
// narrowed by a case-insensitive substring search over name and email.
func (s *service) ListUsers(search string, filters data.Filters) ([]*data.User, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	users, metadata, err := s.repo.GetAllUsers(search, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return users, metadata, nil
}

// DeleteUser service deletes a user. The user's reviews and tokens are
// removed by the database cascades.
func (s *service) DeleteUser(userID int64) error {
	err := s.repo.DeleteUser(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// PromoteUser service grants a user the admin role.
func (s *service) PromoteUser(userID int64) (*data.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if user.IsAdmin() {
		return user, nil
	}
	user.Role = data.RoleAdmin
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return user, nil
}

// GetUserForToken retrieves the user associated with a token.
func (s *service) GetUserForToken(tokenScope string, tokenPlaintext string) (*data.User, error) {
	v := validator.New()
	if data.ValidateTokenPlaintext(v, tokenPlaintext); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserForToken(tokenScope, tokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("token", "invalid or expired token")
			return nil, s.failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	return user, nil
}
