package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/service"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.InvalidInputf("request body is empty")
		}
		return model.InvalidInputf("malformed request body")
	}
	return nil
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.InvalidInputf("%s %q is not a valid id", name, raw)
	}
	return id, nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, model.InvalidInputf("DOB %q is not a valid date", raw)
}

func queryInt(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, model.InvalidInputf("%s must be a non-negative integer", key)
	}
	return v, nil
}

// pagination reads limit and offset, clamping limit the same way the services do.
func pagination(q url.Values) (limit, offset int, err error) {
	limit, err = queryInt(q, "limit", service.DefaultListLimit)
	if err != nil {
		return 0, 0, err
	}
	if limit == 0 {
		limit = service.DefaultListLimit
	}
	if limit > service.MaxListLimit {
		limit = service.MaxListLimit
	}

	offset, err = queryInt(q, "offset", 0)
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

var sortFields = map[string]model.SortField{
	"name":      model.SortByName,
	"surname":   model.SortBySurname,
	"email":     model.SortByEmail,
	"createdAt": model.SortByCreatedAt,
}

// parseListAuthors reads ?limit=&offset=&sort=-createdAt&name=&surname=&email=&role=.
func parseListAuthors(q url.Values) (model.ListAuthorsParams, error) {
	limit, offset, err := pagination(q)
	if err != nil {
		return model.ListAuthorsParams{}, err
	}

	params := model.ListAuthorsParams{
		Limit:   limit,
		Offset:  offset,
		Name:    q.Get("name"),
		Surname: q.Get("surname"),
		Email:   q.Get("email"),
	}

	if raw := q.Get("sort"); raw != "" {
		field := strings.TrimPrefix(raw, "-")
		sortBy, ok := sortFields[field]
		if !ok {
			return model.ListAuthorsParams{}, model.InvalidInputf("cannot sort by %q", field)
		}
		params.SortBy = sortBy
		params.SortDesc = strings.HasPrefix(raw, "-")
	}

	if raw := q.Get("role"); raw != "" {
		role, err := model.ParseRole(raw)
		if err != nil {
			return model.ListAuthorsParams{}, err
		}
		params.Role = role
	}

	return params, nil
}

type authorRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	DOB      string `json:"DOB"`
	Avatar   string `json:"avatar"`
}

func (req authorRequest) params() (model.RegisterParams, error) {
	dob, err := parseDate(req.DOB)
	if err != nil {
		return model.RegisterParams{}, err
	}
	return model.RegisterParams{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
		DOB:      dob,
		Avatar:   req.Avatar,
	}, nil
}

type patchRequest struct {
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	DOB      *string `json:"DOB"`
	Avatar   *string `json:"avatar"`
	Role     *string `json:"role"`
}

func (req patchRequest) patch() (model.AuthorPatch, error) {
	patch := model.AuthorPatch{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
	}

	if req.DOB != nil {
		dob, err := parseDate(*req.DOB)
		if err != nil {
			return model.AuthorPatch{}, err
		}
		if dob == nil {
			return model.AuthorPatch{}, model.InvalidInputf("DOB cannot be empty")
		}
		patch.DOB = dob
	}

	if req.Role != nil {
		role, err := model.ParseRole(*req.Role)
		if err != nil {
			return model.AuthorPatch{}, err
		}
		patch.Role = &role
	}

	return patch, nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type idResponse struct {
	ID          uuid.UUID `json:"_id"`
	AccessToken string    `json:"accessToken,omitempty"`
}
