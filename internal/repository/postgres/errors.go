package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/blog-server/internal/model"
)

const uniqueViolation = "23505"

// translateError maps driver errors onto model sentinels and wraps the rest
// with the failed action.
func translateError(action string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", model.ErrAlreadyExists, pgErr.ConstraintName)
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}
