package data

import (
	"time"

	"github.com/nkemjika/bookworm/internal/validator"
)

// ScopeAuthentication is the scope for bearer tokens issued at registration
// and login. Only the SHA-256 hash of a token is ever persisted.
const ScopeAuthentication = "authentication"

// Token defines a user token. The plaintext is shown to the client exactly
// once in the issuing response.
type Token struct {
	Plaintext string    `json:"token"`
	Hash      []byte    `json:"-"`
	UserID    int64     `json:"-"`
	Expiry    time.Time `json:"expiry"`
	Scope     string    `json:"-"`
}

func ValidateTokenPlaintext(v *validator.Validator, tokenPlaintext string) {
	v.Check(tokenPlaintext != "", "token", "must be provided")
	v.Check(len(tokenPlaintext) == 26, "token", "must be 26 bytes long")
}
