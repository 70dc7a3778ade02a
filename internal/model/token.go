package model

import "github.com/google/uuid"

// Claims is the payload carried by an access token.
type Claims struct {
	AuthorID uuid.UUID
	Role     Role
}

// TokenManager issues and validates access tokens.
type TokenManager interface {
	Issue(claims Claims) (string, error)
	Validate(token string) (Claims, error)
}
