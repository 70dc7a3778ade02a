package model

import "fmt"

// Role is the coarse authorization tier of an author.
type Role string

const (
	// RoleUser is the default role for every new author.
	RoleUser Role = "User"
	// RoleAdmin may list, update and delete other authors.
	RoleAdmin Role = "Admin"
)

// ParseRole converts raw input into a Role. Only the two known roles are accepted.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}
