package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

const (
	maxAvatarBytes  = 5 << 20
	avatarFormField = "avatar"
)

// AuthorService defines profile and admin operations on authors.
type AuthorService interface {
	Create(ctx context.Context, params model.RegisterParams) (model.Author, error)
	Get(ctx context.Context, id uuid.UUID) (model.Author, error)
	List(ctx context.Context, params model.ListAuthorsParams) ([]model.Author, int, error)
	UpdateSelf(ctx context.Context, id uuid.UUID, patch model.AuthorPatch) (model.Author, error)
	UpdateByID(ctx context.Context, id uuid.UUID, patch model.AuthorPatch) (model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UploadAvatar(ctx context.Context, id uuid.UUID, upload model.AvatarUpload) (model.Author, error)
}

// Author handles /authors endpoints.
type Author struct {
	authorService  AuthorService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthor creates a new Author handler.
func NewAuthor(authorService AuthorService, contextManager model.ContextManager, logger *logger.Logger) *Author {
	return &Author{
		authorService:  authorService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type listAuthorsResponse struct {
	Links         listLinks            `json:"links"`
	Total         int                  `json:"total"`
	NumberOfPages int                  `json:"numberOfPages"`
	Authors       []model.PublicAuthor `json:"authors"`
}

type listLinks struct {
	First string `json:"first"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last"`
}

func (h *Author) principal(r *http.Request) (model.Principal, error) {
	principal, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		return model.Principal{}, model.ErrTokenMissing
	}
	return principal, nil
}

// Create stores an author without issuing a token. The password is optional.
func (h *Author) Create(w http.ResponseWriter, r *http.Request) {
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

	author, err := h.authorService.Create(r.Context(), params)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, idResponse{ID: author.ID})
}

// Me returns the caller's profile.
func (h *Author) Me(w http.ResponseWriter, r *http.Request) {
	principal, err := h.principal(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	author, err := h.authorService.Get(r.Context(), principal.AuthorID)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, author.Public())
}

// UpdateMe applies a patch to the caller's profile.
func (h *Author) UpdateMe(w http.ResponseWriter, r *http.Request) {
	principal, err := h.principal(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	patch, err := h.decodePatch(w, r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	author, err := h.authorService.UpdateSelf(r.Context(), principal.AuthorID, patch)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, author.Public())
}

// DeleteMe removes the caller's account.
func (h *Author) DeleteMe(w http.ResponseWriter, r *http.Request) {
	principal, err := h.principal(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	if err := h.authorService.Delete(r.Context(), principal.AuthorID); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get returns any author by id.
func (h *Author) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	author, err := h.authorService.Get(r.Context(), id)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, author.Public())
}

// List returns a filtered, sorted page of authors.
func (h *Author) List(w http.ResponseWriter, r *http.Request) {
	params, err := parseListAuthors(r.URL.Query())
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	authors, total, err := h.authorService.List(r.Context(), params)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	public := make([]model.PublicAuthor, 0, len(authors))
	for _, a := range authors {
		public = append(public, a.Public())
	}

	pages := int(math.Ceil(float64(total) / float64(params.Limit)))
	response.JSON(w, http.StatusOK, listAuthorsResponse{
		Links:         buildLinks(r.URL, params.Limit, params.Offset, total),
		Total:         total,
		NumberOfPages: pages,
		Authors:       public,
	})
}

// UpdateByID applies a patch to any author, role included.
func (h *Author) UpdateByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	patch, err := h.decodePatch(w, r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	author, err := h.authorService.UpdateByID(r.Context(), id, patch)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	h.logger.Info("Author handler: author updated by admin", "author_id", id)
	response.JSON(w, http.StatusOK, author.Public())
}

// DeleteByID removes any author.
func (h *Author) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	if err := h.authorService.Delete(r.Context(), id); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	h.logger.Info("Author handler: author deleted by admin", "author_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// UploadAvatar stores a multipart "avatar" image for the author. Authors may
// only replace their own avatar unless they are admins.
func (h *Author) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	principal, err := h.principal(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	if principal.AuthorID != id && principal.Role != model.RoleAdmin {
		response.Error(w, h.logger, model.ErrForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+(1<<20))
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		response.Error(w, h.logger, model.InvalidInputf("avatar must be a multipart upload under %d bytes", maxAvatarBytes))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(avatarFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.Error(w, h.logger, model.InvalidInputf("%s file is required", avatarFormField))
			return
		}
		response.Error(w, h.logger, fmt.Errorf("failed to read avatar: %w", err))
		return
	}
	defer file.Close()

	author, err := h.authorService.UploadAvatar(r.Context(), id, model.AvatarUpload{
		Reader:      file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, author.Public())
}

func (h *Author) decodePatch(w http.ResponseWriter, r *http.Request) (model.AuthorPatch, error) {
	var req patchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return model.AuthorPatch{}, err
	}
	return req.patch()
}

func buildLinks(base *url.URL, limit, offset, total int) listLinks {
	page := func(off int) string {
		u := *base
		q := u.Query()
		q.Set("limit", strconv.Itoa(limit))
		q.Set("offset", strconv.Itoa(off))
		u.RawQuery = q.Encode()
		return u.RequestURI()
	}

	last := 0
	if total > 0 {
		last = ((total - 1) / limit) * limit
	}

	links := listLinks{First: page(0), Last: page(last)}
	if offset > 0 {
		links.Prev = page(max(offset-limit, 0))
	}
	if offset+limit < total {
		links.Next = page(offset + limit)
	}
	return links
}
