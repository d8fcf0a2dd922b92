package dto

import "github.com/nkemjika/bookworm/data"

// RegisterUserRequestBody defines a request body for RegisterUser service.
type RegisterUserRequestBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
}

// UpdateUserRequestBody defines a request body for UpdateUser service. The fields
// are pointer types to allow partial updates based on whether a value is nil.
type UpdateUserRequestBody struct {
	Name   *string `json:"name"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

// QsListUsers defines the query strings used for listing users.
type QsListUsers struct {
	Search  string
	Filters data.Filters
}
