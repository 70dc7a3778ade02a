package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/blog-server/internal/mocks"
	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/testutil"
)

type authDeps struct {
	store  *mocks.AuthorStore
	hasher *mocks.PasswordHasher
	tokens *mocks.TokenManager
}

func newTestAuth(t *testing.T) (*Auth, authDeps) {
	t.Helper()
	d := authDeps{
		store:  mocks.NewAuthorStore(t),
		hasher: mocks.NewPasswordHasher(t),
		tokens: mocks.NewTokenManager(t),
	}
	a := NewAuth(d.store, d.hasher, d.tokens, testutil.MakeNoopLogger())
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }
	return a, d
}

func TestAuth_CheckCredentials(t *testing.T) {
	t.Parallel()

	existing := model.Author{ID: uuid.New(), Email: "a@x.com", PasswordHash: "hash", Role: model.RoleUser}
	oauthOnly := model.Author{ID: uuid.New(), Email: "g@x.com", Role: model.RoleUser}
	storeErr := errors.New("db down")

	tests := []struct {
		name    string
		email   string
		setup   func(d authDeps)
		want    model.Author
		wantErr error
	}{
		{
			name:  "valid credentials",
			email: "  A@X.com ",
			setup: func(d authDeps) {
				d.store.On("GetByEmail", mock.Anything, "a@x.com").Return(existing, nil)
				d.hasher.On("Verify", mock.Anything, "secret123", "hash").Return(true)
			},
			want: existing,
		},
		{
			name:  "wrong password",
			email: "a@x.com",
			setup: func(d authDeps) {
				d.store.On("GetByEmail", mock.Anything, "a@x.com").Return(existing, nil)
				d.hasher.On("Verify", mock.Anything, "secret123", "hash").Return(false)
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name:  "unknown email spends a dummy verification",
			email: "nobody@x.com",
			setup: func(d authDeps) {
				d.store.On("GetByEmail", mock.Anything, "nobody@x.com").Return(model.Author{}, model.ErrNotFound)
				d.hasher.On("DummyVerify", mock.Anything, "secret123").Return()
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name:  "author without password",
			email: "g@x.com",
			setup: func(d authDeps) {
				d.store.On("GetByEmail", mock.Anything, "g@x.com").Return(oauthOnly, nil)
				d.hasher.On("DummyVerify", mock.Anything, "secret123").Return()
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name:  "storage failure",
			email: "a@x.com",
			setup: func(d authDeps) {
				d.store.On("GetByEmail", mock.Anything, "a@x.com").Return(model.Author{}, storeErr)
			},
			wantErr: storeErr,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, d := newTestAuth(t)
			tt.setup(d)

			got, err := a.CheckCredentials(context.Background(), tt.email, "secret123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, model.Author{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuth_CheckCredentials_UnknownAndWrongAreIndistinguishable(t *testing.T) {
	t.Parallel()

	a, d := newTestAuth(t)
	d.store.On("GetByEmail", mock.Anything, "nobody@x.com").Return(model.Author{}, model.ErrNotFound)
	d.store.On("GetByEmail", mock.Anything, "a@x.com").Return(model.Author{ID: uuid.New(), PasswordHash: "hash"}, nil)
	d.hasher.On("DummyVerify", mock.Anything, "guess").Return()
	d.hasher.On("Verify", mock.Anything, "guess", "hash").Return(false)

	_, errUnknown := a.CheckCredentials(context.Background(), "nobody@x.com", "guess")
	_, errWrong := a.CheckCredentials(context.Background(), "a@x.com", "guess")

	assert.Equal(t, errUnknown, errWrong)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestAuth_Register(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		a, d := newTestAuth(t)
		d.hasher.On("Hash", mock.Anything, "secret123").Return("hashed", nil)
		d.store.On("Create", mock.Anything, mock.MatchedBy(func(au model.Author) bool {
			return au.Email == "a@x.com" && au.PasswordHash == "hashed" && au.Role == model.RoleUser &&
				au.ID != uuid.Nil && au.CreatedAt.Equal(a.now())
		})).Return(func(_ context.Context, au model.Author) model.Author { return au }, nil).Once()
		d.tokens.On("Issue", mock.MatchedBy(func(c model.Claims) bool {
			return c.Role == model.RoleUser && c.AuthorID != uuid.Nil
		})).Return("token", nil)

		author, token, err := a.Register(context.Background(), model.RegisterParams{
			Name: "Ada", Surname: "Lovelace", Email: "A@x.com", Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "token", token)
		assert.Equal(t, "a@x.com", author.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		a, d := newTestAuth(t)
		d.hasher.On("Hash", mock.Anything, "secret123").Return("hashed", nil)
		d.store.On("Create", mock.Anything, mock.Anything).Return(model.Author{}, model.ErrAlreadyExists)

		_, token, err := a.Register(context.Background(), model.RegisterParams{
			Name: "Ada", Surname: "Lovelace", Email: "a@x.com", Password: "secret123",
		})
		assert.ErrorIs(t, err, model.ErrAlreadyExists)
		assert.Empty(t, token)
	})

	invalid := []struct {
		name   string
		params model.RegisterParams
	}{
		{name: "missing name", params: model.RegisterParams{Surname: "L", Email: "a@x.com", Password: "secret123"}},
		{name: "missing surname", params: model.RegisterParams{Name: "A", Email: "a@x.com", Password: "secret123"}},
		{name: "bad email", params: model.RegisterParams{Name: "A", Surname: "L", Email: "not-an-email", Password: "secret123"}},
		{name: "display name email", params: model.RegisterParams{Name: "A", Surname: "L", Email: "Ada <a@x.com>", Password: "secret123"}},
		{name: "short password", params: model.RegisterParams{Name: "A", Surname: "L", Email: "a@x.com", Password: "short"}},
		{name: "password over bcrypt limit", params: model.RegisterParams{Name: "A", Surname: "L", Email: "a@x.com", Password: strings.Repeat("p", 80)}},
	}
	for _, tt := range invalid {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, _ := newTestAuth(t)
			_, _, err := a.Register(context.Background(), tt.params)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()

	t.Run("issues token with stored role", func(t *testing.T) {
		t.Parallel()

		a, d := newTestAuth(t)
		author := model.Author{ID: uuid.New(), Email: "a@x.com", PasswordHash: "hash", Role: model.RoleAdmin}
		d.store.On("GetByEmail", mock.Anything, "a@x.com").Return(author, nil)
		d.hasher.On("Verify", mock.Anything, "secret123", "hash").Return(true)
		d.tokens.On("Issue", model.Claims{AuthorID: author.ID, Role: model.RoleAdmin}).Return("token", nil)

		token, err := a.Login(context.Background(), "a@x.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "token", token)
	})

	t.Run("issue failure", func(t *testing.T) {
		t.Parallel()

		a, d := newTestAuth(t)
		author := model.Author{ID: uuid.New(), PasswordHash: "hash", Role: model.RoleUser}
		d.store.On("GetByEmail", mock.Anything, "a@x.com").Return(author, nil)
		d.hasher.On("Verify", mock.Anything, "secret123", "hash").Return(true)
		d.tokens.On("Issue", mock.Anything).Return("", errors.New("sign failed"))

		_, err := a.Login(context.Background(), "a@x.com", "secret123")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to issue token")
	})
}

func TestAuth_OAuthLogin(t *testing.T) {
	t.Parallel()

	profile := model.OAuthProfile{Provider: "google", Subject: "sub-1", Email: "Ada@X.com", GivenName: "Ada", FamilyName: "Lovelace"}

	t.Run("existing author keeps its id", func(t *testing.T) {
		t.Parallel()

		a, d := newTestAuth(t)
		sub := "sub-1"
		existing := model.Author{ID: uuid.New(), Email: "ada@x.com", Role: model.RoleUser, GoogleID: &sub}
		d.store.On("GetByEmail", mock.Anything, "ada@x.com").Return(existing, nil)
		d.tokens.On("Issue", model.Claims{AuthorID: existing.ID, Role: model.RoleUser}).Return("token", nil)

		token, author, err := a.OAuthLogin(context.Background(), profile)
		require.NoError(t, err)
		assert.Equal(t, "token", token)
		assert.Equal(t, existing.ID, author.ID)
	})

	t.Run("existing password author gets linked", func(t *testing.T) {
		t.Parallel()

		a, d := newTestAuth(t)
		existing := model.Author{ID: uuid.New(), Email: "ada@x.com", PasswordHash: "hash", Role: model.RoleAdmin}
		d.store.On("GetByEmail", mock.Anything, "ada@x.com").Return(existing, nil)
		d.store.On("Update", mock.Anything, mock.MatchedBy(func(au model.Author) bool {
			return au.ID == existing.ID && au.GoogleID != nil && *au.GoogleID == "sub-1" && au.PasswordHash == "hash"
		})).Return(func(_ context.Context, au model.Author) model.Author { return au }, nil)
		d.tokens.On("Issue", model.Claims{AuthorID: existing.ID, Role: model.RoleAdmin}).Return("token", nil)

		_, author, err := a.OAuthLogin(context.Background(), profile)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, author.ID)
	})

	t.Run("different subject for linked author issues no token", func(t *testing.T) {
		t.Parallel()

		a, d := newTestAuth(t)
		other := "sub-other"
		existing := model.Author{ID: uuid.New(), Email: "ada@x.com", Role: model.RoleAdmin, GoogleID: &other}
		d.store.On("GetByEmail", mock.Anything, "ada@x.com").Return(existing, nil)

		token, _, err := a.OAuthLogin(context.Background(), profile)
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
		assert.Empty(t, token)
		d.store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		d.tokens.AssertNotCalled(t, "Issue", mock.Anything)
	})

	t.Run("new author is created without password", func(t *testing.T) {
		t.Parallel()

		a, d := newTestAuth(t)
		d.store.On("GetByEmail", mock.Anything, "ada@x.com").Return(model.Author{}, model.ErrNotFound)
		d.store.On("Create", mock.Anything, mock.MatchedBy(func(au model.Author) bool {
			return au.Name == "Ada" && au.Surname == "Lovelace" && au.PasswordHash == "" &&
				au.Role == model.RoleUser && au.GoogleID != nil && *au.GoogleID == "sub-1"
		})).Return(func(_ context.Context, au model.Author) model.Author { return au }, nil)
		d.tokens.On("Issue", mock.Anything).Return("token", nil)

		token, author, err := a.OAuthLogin(context.Background(), profile)
		require.NoError(t, err)
		assert.Equal(t, "token", token)
		assert.NotEqual(t, uuid.Nil, author.ID)
	})

	t.Run("store failure on find", func(t *testing.T) {
		t.Parallel()

		a, d := newTestAuth(t)
		d.store.On("GetByEmail", mock.Anything, "ada@x.com").Return(model.Author{}, errors.New("db down"))

		token, _, err := a.OAuthLogin(context.Background(), profile)
		var storeErr *model.IdentityStoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "find", storeErr.Op)
		assert.Empty(t, token)
	})

	t.Run("store failure on create issues no token", func(t *testing.T) {
		t.Parallel()

		a, d := newTestAuth(t)
		d.store.On("GetByEmail", mock.Anything, "ada@x.com").Return(model.Author{}, model.ErrNotFound)
		d.store.On("Create", mock.Anything, mock.Anything).Return(model.Author{}, model.ErrAlreadyExists)

		token, _, err := a.OAuthLogin(context.Background(), profile)
		var storeErr *model.IdentityStoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "create", storeErr.Op)
		assert.Empty(t, token)
		d.tokens.AssertNotCalled(t, "Issue", mock.Anything)
	})

	t.Run("invalid email", func(t *testing.T) {
		t.Parallel()

		a, _ := newTestAuth(t)
		_, _, err := a.OAuthLogin(context.Background(), model.OAuthProfile{Email: "nope"})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestAuth_ValidateToken(t *testing.T) {
	t.Parallel()

	a, d := newTestAuth(t)
	claims := model.Claims{AuthorID: uuid.New(), Role: model.RoleUser}
	d.tokens.On("Validate", "good").Return(claims, nil)
	d.tokens.On("Validate", "old").Return(model.Claims{}, model.ErrTokenExpired)

	got, err := a.ValidateToken("good")
	require.NoError(t, err)
	assert.Equal(t, claims, got)

	_, err = a.ValidateToken("old")
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}
