// Package password hashes and verifies author passwords with bcrypt.
package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultCost is the work factor used when none is configured.
const DefaultCost = 12

var (
	// ErrInvalidCost is returned for a cost outside bcrypt's accepted range.
	ErrInvalidCost = errors.New("invalid bcrypt cost")
	// ErrPasswordTooLong is returned for input over bcrypt's 72 byte limit.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// Hasher bounds concurrent bcrypt work with a weighted semaphore.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
	// dummy is compared against when the author does not exist so that the
	// unknown-email path costs as much as a wrong password.
	dummy []byte
}

// NewHasher creates a Hasher. A non-positive maxConcurrent falls back to GOMAXPROCS.
func NewHasher(cost, maxConcurrent int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCost, cost)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.GOMAXPROCS(0)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Hasher{
		cost:  cost,
		sem:   semaphore.NewWeighted(int64(maxConcurrent)),
		dummy: dummy,
	}, nil
}

// Hash returns a salted bcrypt hash of plaintext.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire hashing slot: %w", err)
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Verify reports whether plaintext matches secret. A malformed secret or a
// cancelled context yields false.
func (h *Hasher) Verify(ctx context.Context, plaintext, secret string) bool {
	return h.compare(ctx, []byte(secret), plaintext)
}

// DummyVerify spends one comparison against a hash computed at construction
// and discards the result.
func (h *Hasher) DummyVerify(ctx context.Context, plaintext string) {
	_ = h.compare(ctx, h.dummy, plaintext)
}

func (h *Hasher) compare(ctx context.Context, secret []byte, plaintext string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword(secret, []byte(plaintext)) == nil
}
