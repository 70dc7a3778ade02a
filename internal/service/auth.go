package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// Auth verifies credentials, registers authors and issues access tokens.
type Auth struct {
	authorStore  model.AuthorStore
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	logger       *logger.Logger
	now          func() time.Time
}

func NewAuth(
	authorStore model.AuthorStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authorStore:  authorStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		logger:       logger,
		now:          time.Now,
	}
}

// CheckCredentials returns the author owning email when password matches.
// An unknown email, an author without a password and a wrong password all
// yield model.ErrInvalidCredentials.
func (a *Auth) CheckCredentials(ctx context.Context, email, password string) (model.Author, error) {
	email = normalizeEmail(email)

	author, err := a.authorStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.hasher.DummyVerify(ctx, password)
		a.logger.Debug("Auth service: credentials rejected")
		return model.Author{}, model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get author by email",
			"error", err.Error())
		return model.Author{}, fmt.Errorf("failed to get author by email: %w", err)
	}

	if !author.HasPassword() {
		a.hasher.DummyVerify(ctx, password)
		a.logger.Debug("Auth service: credentials rejected",
			"author_id", author.ID)
		return model.Author{}, model.ErrInvalidCredentials
	}

	if !a.hasher.Verify(ctx, password, author.PasswordHash) {
		a.logger.Debug("Auth service: credentials rejected",
			"author_id", author.ID)
		return model.Author{}, model.ErrInvalidCredentials
	}

	return author, nil
}

// Register creates a User-role author and issues its first token.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.Author, string, error) {
	params.Email = normalizeEmail(params.Email)
	if err := requireField("name", params.Name); err != nil {
		return model.Author{}, "", err
	}
	if err := requireField("surname", params.Surname); err != nil {
		return model.Author{}, "", err
	}
	if err := validateEmail(params.Email); err != nil {
		return model.Author{}, "", err
	}
	if err := validatePassword(params.Password); err != nil {
		return model.Author{}, "", err
	}

	now := a.now()
	author, err := prepareForPersistence(ctx, a.hasher, model.Author{
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
		return model.Author{}, "", fmt.Errorf("failed to prepare author: %w", err)
	}

	saved, err := a.authorStore.Create(ctx, author)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			a.logger.Info("Auth service: email already registered")
			return model.Author{}, "", err
		}
		a.logger.Error("Auth service: failed to create author",
			"error", err.Error())
		return model.Author{}, "", fmt.Errorf("failed to create author: %w", err)
	}

	token, err := a.IssueToken(saved)
	if err != nil {
		return model.Author{}, "", err
	}

	a.logger.Info("Auth service: author registered",
		"author_id", saved.ID)

	return saved, token, nil
}

// Login checks credentials and issues a token carrying the author's current role.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	author, err := a.CheckCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := a.IssueToken(author)
	if err != nil {
		return "", err
	}

	a.logger.Info("Auth service: author logged in",
		"author_id", author.ID)

	return token, nil
}

// OAuthLogin finds the author matching the provider-verified profile, creating
// one without a password when absent, and issues a token for it.
func (a *Auth) OAuthLogin(ctx context.Context, profile model.OAuthProfile) (string, model.Author, error) {
	email := normalizeEmail(profile.Email)
	if err := validateEmail(email); err != nil {
		return "", model.Author{}, err
	}

	author, err := a.authorStore.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if author.GoogleID != nil && *author.GoogleID != profile.Subject {
			a.logger.Warn("Auth service: oauth subject does not match linked identity",
				"author_id", author.ID,
				"provider", profile.Provider)
			return "", model.Author{}, model.ErrInvalidCredentials
		}
		if author.GoogleID == nil && profile.Subject != "" {
			subject := profile.Subject
			author.GoogleID = &subject
			author.UpdatedAt = a.now()
			linked, err := a.authorStore.Update(ctx, author)
			if err != nil {
				a.logger.Error("Auth service: failed to link oauth identity",
					"author_id", author.ID,
					"error", err.Error())
				return "", model.Author{}, model.NewIdentityStoreError("link", err)
			}
			author = linked
		}
	case errors.Is(err, model.ErrNotFound):
		author, err = a.createOAuthAuthor(ctx, email, profile)
		if err != nil {
			return "", model.Author{}, err
		}
	default:
		a.logger.Error("Auth service: failed to find oauth identity",
			"error", err.Error())
		return "", model.Author{}, model.NewIdentityStoreError("find", err)
	}

	token, err := a.IssueToken(author)
	if err != nil {
		return "", model.Author{}, err
	}

	a.logger.Info("Auth service: oauth login completed",
		"author_id", author.ID,
		"provider", profile.Provider)

	return token, author, nil
}

func (a *Auth) createOAuthAuthor(ctx context.Context, email string, profile model.OAuthProfile) (model.Author, error) {
	now := a.now()
	var googleID *string
	if profile.Subject != "" {
		subject := profile.Subject
		googleID = &subject
	}

	created, err := a.authorStore.Create(ctx, model.Author{
		ID:        uuid.New(),
		Name:      profile.GivenName,
		Surname:   profile.FamilyName,
		Email:     email,
		Role:      model.RoleUser,
		GoogleID:  googleID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to create oauth identity",
			"error", err.Error())
		return model.Author{}, model.NewIdentityStoreError("create", err)
	}

	a.logger.Info("Auth service: oauth identity created",
		"author_id", created.ID,
		"provider", profile.Provider)

	return created, nil
}

// IssueToken mints an access token for author with the role it holds now.
func (a *Auth) IssueToken(author model.Author) (string, error) {
	token, err := a.tokenManager.Issue(model.Claims{AuthorID: author.ID, Role: author.Role})
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"author_id", author.ID,
			"error", err.Error())
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// ValidateToken resolves a bearer token into its claims without touching storage.
func (a *Auth) ValidateToken(token string) (model.Claims, error) {
	return a.tokenManager.Validate(token)
}
