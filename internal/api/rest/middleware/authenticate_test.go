package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	restctx "github.com/dtroode/blog-server/internal/api/rest/context"
	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/metrics"
	"github.com/dtroode/blog-server/internal/mocks"
	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/testutil"
)

func TestAuthenticate_Bearer(t *testing.T) {
	t.Parallel()

	authorID := uuid.New()

	tests := []struct {
		name        string
		header      string
		setup       func(v *mocks.TokenValidator)
		wantStatus  int
		wantCode    string
		wantCalled  bool
		wantOutcome string
	}{
		{
			name:        "missing header",
			header:      "",
			wantStatus:  http.StatusUnauthorized,
			wantCode:    "token_missing",
			wantOutcome: metrics.OutcomeFailure,
		},
		{
			name:        "wrong scheme",
			header:      "Token abc",
			wantStatus:  http.StatusUnauthorized,
			wantCode:    "token_missing",
			wantOutcome: metrics.OutcomeFailure,
		},
		{
			name:        "empty token",
			header:      "Bearer   ",
			wantStatus:  http.StatusUnauthorized,
			wantCode:    "token_missing",
			wantOutcome: metrics.OutcomeFailure,
		},
		{
			name:   "expired token",
			header: "Bearer expired",
			setup: func(v *mocks.TokenValidator) {
				v.On("ValidateToken", "expired").Return(model.Claims{}, model.ErrTokenExpired).Once()
			},
			wantStatus:  http.StatusUnauthorized,
			wantCode:    "token_expired",
			wantOutcome: metrics.OutcomeFailure,
		},
		{
			name:   "malformed token",
			header: "Bearer garbage",
			setup: func(v *mocks.TokenValidator) {
				v.On("ValidateToken", "garbage").Return(model.Claims{}, model.ErrTokenMalformed).Once()
			},
			wantStatus:  http.StatusUnauthorized,
			wantCode:    "token_malformed",
			wantOutcome: metrics.OutcomeFailure,
		},
		{
			name:   "valid token, lowercase scheme",
			header: "bearer good",
			setup: func(v *mocks.TokenValidator) {
				v.On("ValidateToken", "good").Return(model.Claims{AuthorID: authorID, Role: model.RoleUser}, nil).Once()
			},
			wantStatus:  http.StatusOK,
			wantCalled:  true,
			wantOutcome: metrics.OutcomeSuccess,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			validator := mocks.NewTokenValidator(t)
			if tt.setup != nil {
				tt.setup(validator)
			}
			cm := restctx.NewManager()
			recorder := &fakeRecorder{}
			mw := NewAuthenticate(NewBearer(validator), cm, recorder, testutil.MakeNoopLogger())

			var called bool
			var got model.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got, _ = cm.GetPrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/authors/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw.Handle(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			require.Len(t, recorder.auth, 1)
			assert.Equal(t, recordedAuth{scheme: SchemeBearer, outcome: tt.wantOutcome}, recorder.auth[0])

			if tt.wantCalled {
				assert.Equal(t, authorID, got.AuthorID)
				assert.Equal(t, model.RoleUser, got.Role)
				return
			}

			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			var body response.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestAuthenticate_Basic(t *testing.T) {
	t.Parallel()

	author := model.Author{ID: uuid.New(), Email: "ada@example.com", Role: model.RoleAdmin}

	tests := []struct {
		name       string
		setAuth    bool
		password   string
		setup      func(c *mocks.CredentialChecker)
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "missing credentials",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:     "wrong password",
			setAuth:  true,
			password: "nope",
			setup: func(c *mocks.CredentialChecker) {
				c.On("CheckCredentials", mock.Anything, author.Email, "nope").Return(model.Author{}, model.ErrInvalidCredentials).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:     "store failure",
			setAuth:  true,
			password: "secret123",
			setup: func(c *mocks.CredentialChecker) {
				c.On("CheckCredentials", mock.Anything, author.Email, "secret123").Return(model.Author{}, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:     "valid credentials",
			setAuth:  true,
			password: "secret123",
			setup: func(c *mocks.CredentialChecker) {
				c.On("CheckCredentials", mock.Anything, author.Email, "secret123").Return(author, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := mocks.NewCredentialChecker(t)
			if tt.setup != nil {
				tt.setup(checker)
			}
			cm := restctx.NewManager()
			mw := NewAuthenticate(NewBasic(checker), cm, &fakeRecorder{}, testutil.MakeNoopLogger())

			var called bool
			var got model.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got, _ = cm.GetPrincipalFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/legacy/authors/me", nil)
			if tt.setAuth {
				req.SetBasicAuth(author.Email, tt.password)
			}
			rec := httptest.NewRecorder()
			mw.Handle(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCalled {
				assert.Equal(t, author.ID, got.AuthorID)
				assert.Equal(t, model.RoleAdmin, got.Role)
			} else {
				assert.Equal(t, `Basic realm="blog"`, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
