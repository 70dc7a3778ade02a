package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuthorStore defines persistence operations for authors.
type AuthorStore interface {
	GetByEmail(ctx context.Context, email string) (Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (Author, error)
	Create(ctx context.Context, author Author) (Author, error)
	Update(ctx context.Context, author Author) (Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params ListAuthorsParams) ([]Author, error)
	Count(ctx context.Context, params ListAuthorsParams) (int, error)
}

// Author is a registered identity. PasswordHash is empty for authors that
// only ever signed in through an OAuth provider.
type Author struct {
	ID           uuid.UUID
	Name         string
	Surname      string
	Email        string
	PasswordHash string
	Role         Role
	GoogleID     *string
	DOB          *time.Time
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the author can log in with a password.
func (a Author) HasPassword() bool {
	return a.PasswordHash != ""
}

// PublicAuthor is the view of an author that may leave the service layer.
type PublicAuthor struct {
	ID        uuid.UUID  `json:"_id"`
	Name      string     `json:"name"`
	Surname   string     `json:"surname"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	DOB       *time.Time `json:"DOB,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
	GoogleID  *string    `json:"googleId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Public projects the author without its password hash.
func (a Author) Public() PublicAuthor {
	return PublicAuthor{
		ID:        a.ID,
		Name:      a.Name,
		Surname:   a.Surname,
		Email:     a.Email,
		Role:      a.Role,
		DOB:       a.DOB,
		Avatar:    a.Avatar,
		GoogleID:  a.GoogleID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AuthorPatch carries optional author changes. Nil fields are left untouched.
type AuthorPatch struct {
	Name     *string
	Surname  *string
	Email    *string
	Password *string
	DOB      *time.Time
	Avatar   *string
	Role     *Role
}

// RegisterParams contains the fields accepted on registration.
type RegisterParams struct {
	Name     string
	Surname  string
	Email    string
	Password string
	DOB      *time.Time
	Avatar   string
}

// SortField enumerates columns authors can be sorted by.
type SortField string

const (
	SortByName      SortField = "name"
	SortBySurname   SortField = "surname"
	SortByEmail     SortField = "email"
	SortByCreatedAt SortField = "createdAt"
)

// ListAuthorsParams is the storage filter built from a list request.
type ListAuthorsParams struct {
	Limit    int
	Offset   int
	SortBy   SortField
	SortDesc bool
	Name     string
	Surname  string
	Email    string
	Role     Role
}
