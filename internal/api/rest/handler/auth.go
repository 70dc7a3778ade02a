package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// AuthService defines registration and login operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.Author, string, error)
	Login(ctx context.Context, email, password string) (string, error)
	OAuthLogin(ctx context.Context, profile model.OAuthProfile) (string, model.Author, error)
}

// TokenRecorder counts issued tokens.
type TokenRecorder interface {
	RecordTokenIssued()
}

// Auth handles registration and password login.
type Auth struct {
	authService AuthService
	recorder    TokenRecorder
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, recorder TokenRecorder, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		recorder:    recorder,
		logger:      logger,
	}
}

// Register creates an author and returns its id together with an access token.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req authorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	params, err := req.params()
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	author, token, err := h.authService.Register(r.Context(), params)
	if err != nil {
		h.logger.Debug("Auth handler: registration failed", "error", err.Error())
		response.Error(w, h.logger, err)
		return
	}
	h.recorder.RecordTokenIssued()

	response.JSON(w, http.StatusCreated, idResponse{ID: author.ID, AccessToken: token})
}

// Login exchanges email and password for an access token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	h.recorder.RecordTokenIssued()

	response.JSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}
