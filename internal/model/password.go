package model

import "context"

// PasswordHasher turns plaintext passwords into storable secrets and checks
// attempts against them.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, secret string) bool
	DummyVerify(ctx context.Context, plaintext string)
}
