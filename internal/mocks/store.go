package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/blog-server/internal/model"
)

// AuthorStore mocks model.AuthorStore.
type AuthorStore struct {
	mock.Mock
}

func NewAuthorStore(t mock.TestingT) *AuthorStore {
	m := &AuthorStore{}
	m.Mock.Test(t)
	registerCleanup(t, func() { m.AssertExpectations(t) })
	return m
}

func (m *AuthorStore) GetByEmail(ctx context.Context, email string) (model.Author, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Author), args.Error(1)
}

func (m *AuthorStore) GetByID(ctx context.Context, id uuid.UUID) (model.Author, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Author), args.Error(1)
}

func (m *AuthorStore) Create(ctx context.Context, author model.Author) (model.Author, error) {
	args := m.Called(ctx, author)
	if fn, ok := args.Get(0).(func(context.Context, model.Author) model.Author); ok {
		return fn(ctx, author), args.Error(1)
	}
	return args.Get(0).(model.Author), args.Error(1)
}

func (m *AuthorStore) Update(ctx context.Context, author model.Author) (model.Author, error) {
	args := m.Called(ctx, author)
	if fn, ok := args.Get(0).(func(context.Context, model.Author) model.Author); ok {
		return fn(ctx, author), args.Error(1)
	}
	return args.Get(0).(model.Author), args.Error(1)
}

func (m *AuthorStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AuthorStore) List(ctx context.Context, params model.ListAuthorsParams) ([]model.Author, error) {
	args := m.Called(ctx, params)
	authors, _ := args.Get(0).([]model.Author)
	return authors, args.Error(1)
}

func (m *AuthorStore) Count(ctx context.Context, params model.ListAuthorsParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}

// PostStore mocks model.PostStore.
type PostStore struct {
	mock.Mock
}

func NewPostStore(t mock.TestingT) *PostStore {
	m := &PostStore{}
	m.Mock.Test(t)
	registerCleanup(t, func() { m.AssertExpectations(t) })
	return m
}

func (m *PostStore) Create(ctx context.Context, post model.BlogPost) (model.BlogPost, error) {
	args := m.Called(ctx, post)
	if fn, ok := args.Get(0).(func(context.Context, model.BlogPost) model.BlogPost); ok {
		return fn(ctx, post), args.Error(1)
	}
	return args.Get(0).(model.BlogPost), args.Error(1)
}

func (m *PostStore) GetByID(ctx context.Context, id uuid.UUID) (model.BlogPost, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.BlogPost), args.Error(1)
}

func (m *PostStore) List(ctx context.Context, limit, offset int) ([]model.BlogPost, error) {
	args := m.Called(ctx, limit, offset)
	posts, _ := args.Get(0).([]model.BlogPost)
	return posts, args.Error(1)
}

// Storage mocks model.Storage.
type Storage struct {
	mock.Mock
}

func NewStorage(t mock.TestingT) *Storage {
	m := &Storage{}
	m.Mock.Test(t)
	registerCleanup(t, func() { m.AssertExpectations(t) })
	return m
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Storage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type cleanuper interface {
	Cleanup(func())
}

func registerCleanup(t mock.TestingT, fn func()) {
	if c, ok := t.(cleanuper); ok {
		c.Cleanup(fn)
	}
}
