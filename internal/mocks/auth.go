package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/blog-server/internal/model"
)

// TokenManager mocks model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func NewTokenManager(t mock.TestingT) *TokenManager {
	m := &TokenManager{}
	m.Mock.Test(t)
	registerCleanup(t, func() { m.AssertExpectations(t) })
	return m
}

func (m *TokenManager) Issue(claims model.Claims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) Validate(token string) (model.Claims, error) {
	args := m.Called(token)
	return args.Get(0).(model.Claims), args.Error(1)
}

// PasswordHasher mocks model.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func NewPasswordHasher(t mock.TestingT) *PasswordHasher {
	m := &PasswordHasher{}
	m.Mock.Test(t)
	registerCleanup(t, func() { m.AssertExpectations(t) })
	return m
}

func (m *PasswordHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	args := m.Called(ctx, plaintext)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Verify(ctx context.Context, plaintext, secret string) bool {
	args := m.Called(ctx, plaintext, secret)
	return args.Bool(0)
}

func (m *PasswordHasher) DummyVerify(ctx context.Context, plaintext string) {
	m.Called(ctx, plaintext)
}

// TokenValidator mocks the bearer authenticator's token collaborator.
type TokenValidator struct {
	mock.Mock
}

func NewTokenValidator(t mock.TestingT) *TokenValidator {
	m := &TokenValidator{}
	m.Mock.Test(t)
	registerCleanup(t, func() { m.AssertExpectations(t) })
	return m
}

func (m *TokenValidator) ValidateToken(token string) (model.Claims, error) {
	args := m.Called(token)
	return args.Get(0).(model.Claims), args.Error(1)
}

// CredentialChecker mocks the basic authenticator's credential collaborator.
type CredentialChecker struct {
	mock.Mock
}

func NewCredentialChecker(t mock.TestingT) *CredentialChecker {
	m := &CredentialChecker{}
	m.Mock.Test(t)
	registerCleanup(t, func() { m.AssertExpectations(t) })
	return m
}

func (m *CredentialChecker) CheckCredentials(ctx context.Context, email, password string) (model.Author, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.Author), args.Error(1)
}

// OAuthProvider mocks an external identity provider.
type OAuthProvider struct {
	mock.Mock
}

func NewOAuthProvider(t mock.TestingT) *OAuthProvider {
	m := &OAuthProvider{}
	m.Mock.Test(t)
	registerCleanup(t, func() { m.AssertExpectations(t) })
	return m
}

func (m *OAuthProvider) AuthCodeURL(state, verifier string) string {
	args := m.Called(state, verifier)
	return args.String(0)
}

func (m *OAuthProvider) Exchange(ctx context.Context, code, verifier string) (model.OAuthProfile, error) {
	args := m.Called(ctx, code, verifier)
	return args.Get(0).(model.OAuthProfile), args.Error(1)
}
