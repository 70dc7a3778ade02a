package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// Author manages author profiles and the admin operations on them.
type Author struct {
	authorStore model.AuthorStore
	hasher      model.PasswordHasher
	storage     model.Storage
	logger      *logger.Logger
	now         func() time.Time
}

func NewAuthor(
	authorStore model.AuthorStore,
	hasher model.PasswordHasher,
	storage model.Storage,
	logger *logger.Logger,
) *Author {
	return &Author{
		authorStore: authorStore,
		hasher:      hasher,
		storage:     storage,
		logger:      logger,
		now:         time.Now,
	}
}

// PrepareForPersistence hashes newPassword onto author iff one is given.
func (s *Author) PrepareForPersistence(ctx context.Context, author model.Author, newPassword string) (model.Author, error) {
	return prepareForPersistence(ctx, s.hasher, author, newPassword)
}

// Create adds an author without issuing a token. The password is optional.
func (s *Author) Create(ctx context.Context, params model.RegisterParams) (model.Author, error) {
	params.Email = normalizeEmail(params.Email)
	if err := requireField("name", params.Name); err != nil {
		return model.Author{}, err
	}
	if err := requireField("surname", params.Surname); err != nil {
		return model.Author{}, err
	}
	if err := validateEmail(params.Email); err != nil {
		return model.Author{}, err
	}

	now := s.now()
	author, err := s.PrepareForPersistence(ctx, model.Author{
		ID:        uuid.New(),
		Name:      params.Name,
		Surname:   params.Surname,
		Email:     params.Email,
		Role:      model.RoleUser,
		DOB:       params.DOB,
		Avatar:    params.Avatar,
		CreatedAt: now,
		UpdatedAt: now,
	}, params.Password)
	if err != nil {
		return model.Author{}, err
	}

	saved, err := s.authorStore.Create(ctx, author)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.Author{}, err
		}
		return model.Author{}, fmt.Errorf("failed to create author: %w", err)
	}

	s.logger.Info("Author service: author created",
		"author_id", saved.ID)

	return saved, nil
}

func (s *Author) Get(ctx context.Context, id uuid.UUID) (model.Author, error) {
	author, err := s.authorStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Author{}, err
		}
		return model.Author{}, fmt.Errorf("failed to get author: %w", err)
	}
	return author, nil
}

// List returns one page of authors and the total matching the filters.
func (s *Author) List(ctx context.Context, params model.ListAuthorsParams) ([]model.Author, int, error) {
	params = normalizeListParams(params)

	authors, err := s.authorStore.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list authors: %w", err)
	}

	total, err := s.authorStore.Count(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	return authors, total, nil
}

func normalizeListParams(params model.ListAuthorsParams) model.ListAuthorsParams {
	if params.Limit <= 0 {
		params.Limit = DefaultListLimit
	}
	if params.Limit > MaxListLimit {
		params.Limit = MaxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	if params.Email != "" {
		params.Email = normalizeEmail(params.Email)
	}
	return params
}

// UpdateSelf applies patch to the caller's own profile. Changing the role is
// reserved to admins.
func (s *Author) UpdateSelf(ctx context.Context, id uuid.UUID, patch model.AuthorPatch) (model.Author, error) {
	if patch.Role != nil {
		return model.Author{}, model.ErrForbidden
	}
	return s.update(ctx, id, patch)
}

// UpdateByID applies patch to any author, role included.
func (s *Author) UpdateByID(ctx context.Context, id uuid.UUID, patch model.AuthorPatch) (model.Author, error) {
	return s.update(ctx, id, patch)
}

func (s *Author) update(ctx context.Context, id uuid.UUID, patch model.AuthorPatch) (model.Author, error) {
	author, err := s.Get(ctx, id)
	if err != nil {
		return model.Author{}, err
	}

	author, err = applyPatch(author, patch)
	if err != nil {
		return model.Author{}, err
	}

	var newPassword string
	if patch.Password != nil {
		if *patch.Password == "" {
			return model.Author{}, model.InvalidInputf("password must not be empty")
		}
		newPassword = *patch.Password
	}
	author, err = s.PrepareForPersistence(ctx, author, newPassword)
	if err != nil {
		return model.Author{}, err
	}
	author.UpdatedAt = s.now()

	saved, err := s.authorStore.Update(ctx, author)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) || errors.Is(err, model.ErrNotFound) {
			return model.Author{}, err
		}
		return model.Author{}, fmt.Errorf("failed to update author: %w", err)
	}

	s.logger.Info("Author service: author updated",
		"author_id", saved.ID,
		"password_changed", newPassword != "")

	return saved, nil
}

func applyPatch(author model.Author, patch model.AuthorPatch) (model.Author, error) {
	if patch.Name != nil {
		if err := requireField("name", *patch.Name); err != nil {
			return model.Author{}, err
		}
		author.Name = *patch.Name
	}
	if patch.Surname != nil {
		if err := requireField("surname", *patch.Surname); err != nil {
			return model.Author{}, err
		}
		author.Surname = *patch.Surname
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if err := validateEmail(email); err != nil {
			return model.Author{}, err
		}
		author.Email = email
	}
	if patch.DOB != nil {
		author.DOB = patch.DOB
	}
	if patch.Avatar != nil {
		author.Avatar = *patch.Avatar
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return model.Author{}, model.InvalidInputf("unknown role %q", *patch.Role)
		}
		author.Role = *patch.Role
	}
	return author, nil
}

// Delete removes the author and, when present, its avatar object.
func (s *Author) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.authorStore.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete author: %w", err)
	}

	key := avatarKey(id)
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		s.logger.Warn("Author service: failed to check avatar",
			"author_id", id,
			"error", err.Error())
		return nil
	}
	if exists {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("Author service: failed to delete avatar",
				"author_id", id,
				"error", err.Error())
		}
	}

	s.logger.Info("Author service: author deleted",
		"author_id", id)

	return nil
}

// UploadAvatar stores the image on the asset host and saves its URL on the author.
func (s *Author) UploadAvatar(ctx context.Context, id uuid.UUID, upload model.AvatarUpload) (model.Author, error) {
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return model.Author{}, model.InvalidInputf("avatar must be an image, got %q", upload.ContentType)
	}

	author, err := s.Get(ctx, id)
	if err != nil {
		return model.Author{}, err
	}

	url, err := s.storage.Upload(ctx, avatarKey(id), upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		s.logger.Error("Author service: failed to upload avatar",
			"author_id", id,
			"error", err.Error())
		return model.Author{}, fmt.Errorf("failed to upload avatar: %w", err)
	}

	author.Avatar = url
	author.UpdatedAt = s.now()
	saved, err := s.authorStore.Update(ctx, author)
	if err != nil {
		return model.Author{}, fmt.Errorf("failed to save avatar url: %w", err)
	}

	s.logger.Info("Author service: avatar uploaded",
		"author_id", id)

	return saved, nil
}

func avatarKey(id uuid.UUID) string {
	return "avatars/" + id.String()
}
