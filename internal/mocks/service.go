package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/blog-server/internal/model"
)

// AuthService mocks the HTTP layer's view of the auth service.
type AuthService struct {
	mock.Mock
}

func NewAuthService(t mock.TestingT) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)
	registerCleanup(t, func() { m.AssertExpectations(t) })
	return m
}

func (m *AuthService) Register(ctx context.Context, params model.RegisterParams) (model.Author, string, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Author), args.String(1), args.Error(2)
}

func (m *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *AuthService) OAuthLogin(ctx context.Context, profile model.OAuthProfile) (string, model.Author, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Get(1).(model.Author), args.Error(2)
}

// AuthorService mocks the HTTP layer's view of the author service.
type AuthorService struct {
	mock.Mock
}

func NewAuthorService(t mock.TestingT) *AuthorService {
	m := &AuthorService{}
	m.Mock.Test(t)
	registerCleanup(t, func() { m.AssertExpectations(t) })
	return m
}

func (m *AuthorService) Create(ctx context.Context, params model.RegisterParams) (model.Author, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Author), args.Error(1)
}

func (m *AuthorService) Get(ctx context.Context, id uuid.UUID) (model.Author, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Author), args.Error(1)
}

func (m *AuthorService) List(ctx context.Context, params model.ListAuthorsParams) ([]model.Author, int, error) {
	args := m.Called(ctx, params)
	authors, _ := args.Get(0).([]model.Author)
	return authors, args.Int(1), args.Error(2)
}

func (m *AuthorService) UpdateSelf(ctx context.Context, id uuid.UUID, patch model.AuthorPatch) (model.Author, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.Author), args.Error(1)
}

func (m *AuthorService) UpdateByID(ctx context.Context, id uuid.UUID, patch model.AuthorPatch) (model.Author, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.Author), args.Error(1)
}

func (m *AuthorService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AuthorService) UploadAvatar(ctx context.Context, id uuid.UUID, upload model.AvatarUpload) (model.Author, error) {
	args := m.Called(ctx, id, upload)
	return args.Get(0).(model.Author), args.Error(1)
}

// PostService mocks the HTTP layer's view of the post service.
type PostService struct {
	mock.Mock
}

func NewPostService(t mock.TestingT) *PostService {
	m := &PostService{}
	m.Mock.Test(t)
	registerCleanup(t, func() { m.AssertExpectations(t) })
	return m
}

func (m *PostService) Create(ctx context.Context, params model.CreatePostParams) (model.BlogPost, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.BlogPost), args.Error(1)
}

func (m *PostService) Get(ctx context.Context, id uuid.UUID) (model.BlogPost, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.BlogPost), args.Error(1)
}

func (m *PostService) List(ctx context.Context, limit, offset int) ([]model.BlogPost, error) {
	args := m.Called(ctx, limit, offset)
	posts, _ := args.Get(0).([]model.BlogPost)
	return posts, args.Error(1)
}
