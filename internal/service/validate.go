package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/dtroode/blog-server/internal/model"
)

// MinPasswordLength is the shortest password accepted on registration and update.
const MinPasswordLength = 8

// MaxPasswordLength is bcrypt's input limit in bytes.
const MaxPasswordLength = 72

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return model.InvalidInputf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return model.InvalidInputf("email %q is not valid", email)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return model.InvalidInputf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return model.InvalidInputf("password must be at most %d bytes", MaxPasswordLength)
	}
	return nil
}

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return model.InvalidInputf("%s is required", name)
	}
	return nil
}

// prepareForPersistence hashes newPassword onto author when one is given and
// leaves the stored hash untouched otherwise.
func prepareForPersistence(ctx context.Context, hasher model.PasswordHasher, author model.Author, newPassword string) (model.Author, error) {
	if newPassword == "" {
		return author, nil
	}
	if err := validatePassword(newPassword); err != nil {
		return model.Author{}, err
	}

	hash, err := hasher.Hash(ctx, newPassword)
	if err != nil {
		return model.Author{}, err
	}
	author.PasswordHash = hash

	return author, nil
}
