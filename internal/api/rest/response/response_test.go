package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/testutil"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", model.InvalidInputf("email is required"), http.StatusBadRequest, "invalid_input"},
		{"credentials", model.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"missing token", model.ErrTokenMissing, http.StatusUnauthorized, "token_missing"},
		{"expired token", model.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
		{"malformed token", fmt.Errorf("%w: bad sig", model.ErrTokenMalformed), http.StatusUnauthorized, "token_malformed"},
		{"forbidden", model.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", model.ErrNotFound, http.StatusNotFound, "not_found"},
		{"conflict", fmt.Errorf("%w: authors_email_key", model.ErrAlreadyExists), http.StatusConflict, "already_exists"},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"identity store", model.NewIdentityStoreError("create", model.ErrAlreadyExists), http.StatusBadGateway, "identity_store"},
		{"unexpected", errors.New("db exploded"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, code, message := StatusFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, message)
		})
	}
}

func TestError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, testutil.MakeNoopLogger(), errors.New("pq: password authentication failed"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
	assert.Equal(t, "internal", body.Code)
}

func TestError_InvalidInputKeepsDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, nil, model.InvalidInputf("email %q is not valid", "nope"))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body.Error, `email "nope" is not valid`)
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"_id": "1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"_id":"1"}`, rec.Body.String())
}
