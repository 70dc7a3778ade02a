// Package token issues and validates signed author access tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/model"
)

// ErrEmptySecret is returned when the signing secret is not configured.
var ErrEmptySecret = errors.New("jwt secret must not be empty")

// DefaultTTL is the access token lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

const typeAccess = "access"

var _ model.TokenManager = (*JWT)(nil)

// Claims represents JWT claims with token type, author ID and role.
type Claims struct {
	jwt.RegisteredClaims
	AuthorID  uuid.UUID  `json:"author_id"`
	Role      model.Role `json:"role"`
	TokenType string     `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// Option configures a JWT.
type Option func(*JWT)

// WithClock replaces the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// NewJWT creates a new JWT token manager with the provided secret key and lifetime.
// A non-positive ttl falls back to DefaultTTL.
func NewJWT(secretKey string, ttl time.Duration, opts ...Option) (*JWT, error) {
	if secretKey == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	j := &JWT{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}

	return j, nil
}

// Issue signs an access token carrying the author ID and role.
func (j *JWT) Issue(claims model.Claims) (string, error) {
	if claims.AuthorID == uuid.Nil {
		return "", fmt.Errorf("%w: empty author id", model.ErrInvalidInput)
	}
	if !claims.Role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", model.ErrInvalidInput, claims.Role)
	}

	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.AuthorID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		AuthorID:  claims.AuthorID,
		Role:      claims.Role,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// Validate checks signature and expiry and returns the embedded claims.
// Expired tokens yield model.ErrTokenExpired, every other failure model.ErrTokenMalformed.
func (j *JWT) Validate(tokenString string) (model.Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Claims{}, model.ErrTokenExpired
		}
		return model.Claims{}, fmt.Errorf("%w: %v", model.ErrTokenMalformed, err)
	}
	if !token.Valid {
		return model.Claims{}, model.ErrTokenMalformed
	}
	if claims.TokenType != typeAccess {
		return model.Claims{}, fmt.Errorf("%w: token type mismatch: %s", model.ErrTokenMalformed, claims.TokenType)
	}
	if claims.AuthorID == uuid.Nil {
		return model.Claims{}, fmt.Errorf("%w: missing author id", model.ErrTokenMalformed)
	}
	if !claims.Role.Valid() {
		return model.Claims{}, fmt.Errorf("%w: unknown role", model.ErrTokenMalformed)
	}

	return model.Claims{AuthorID: claims.AuthorID, Role: claims.Role}, nil
}
