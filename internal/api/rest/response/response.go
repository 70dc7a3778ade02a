// Package response writes JSON bodies and maps domain errors onto HTTP statuses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// ErrRateLimited is written when a client exceeds its request budget.
var ErrRateLimited = errors.New("too many requests")

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type mapping struct {
	target  error
	status  int
	code    string
	message string
}

// Order matters: the first matching sentinel wins.
var mappings = []mapping{
	{model.ErrInvalidInput, http.StatusBadRequest, "invalid_input", ""},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", "invalid email or password"},
	{model.ErrTokenMissing, http.StatusUnauthorized, "token_missing", "authorization token is missing"},
	{model.ErrTokenExpired, http.StatusUnauthorized, "token_expired", "authorization token is expired"},
	{model.ErrTokenMalformed, http.StatusUnauthorized, "token_malformed", "authorization token is invalid"},
	{model.ErrForbidden, http.StatusForbidden, "forbidden", "forbidden"},
	{model.ErrNotFound, http.StatusNotFound, "not_found", "not found"},
	{model.ErrAlreadyExists, http.StatusConflict, "already_exists", "already exists"},
	{ErrRateLimited, http.StatusTooManyRequests, "rate_limited", "too many requests"},
}

// StatusFor returns the HTTP status, error code and client message for err.
func StatusFor(err error) (int, string, string) {
	var storeErr *model.IdentityStoreError
	if errors.As(err, &storeErr) {
		return http.StatusBadGateway, "identity_store", "identity store is unavailable"
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			message := m.message
			if message == "" {
				message = err.Error()
			}
			return m.status, m.code, message
		}
	}

	return http.StatusInternalServerError, "internal", "internal server error"
}

// Error maps err and writes it. Unexpected errors are logged and hidden.
func Error(w http.ResponseWriter, log *logger.Logger, err error) {
	status, code, message := StatusFor(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("HTTP: request failed", "error", err.Error(), "status", status)
	}
	JSON(w, status, ErrorBody{Error: message, Code: code})
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
