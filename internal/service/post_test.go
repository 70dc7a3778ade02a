package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/blog-server/internal/mocks"
	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/testutil"
)

func newTestPost(t *testing.T) (*Post, *mocks.PostStore) {
	t.Helper()
	store := mocks.NewPostStore(t)
	s := NewPost(store, testutil.MakeNoopLogger())
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s, store
}

func validPostParams() model.CreatePostParams {
	return model.CreatePostParams{
		Category:   model.CategoryProduct,
		Title:      "Launch",
		Cover:      "https://example.com/cover.png",
		ReadTime:   model.ReadTime{Value: 4, Unit: model.UnitMinutes},
		AuthorName: "Ada",
		Content:    `<p onclick="steal()">Hello <script>alert(1)</script><a href="https://x.com">x</a></p>`,
	}
}

func TestPost_Create(t *testing.T) {
	t.Parallel()

	s, store := newTestPost(t)
	store.On("Create", mock.Anything, mock.MatchedBy(func(p model.BlogPost) bool {
		return p.ID != uuid.Nil && p.Author.Name == "Ada" && p.CreatedAt.Equal(s.now())
	})).Return(func(_ context.Context, p model.BlogPost) model.BlogPost { return p }, nil)

	post, err := s.Create(context.Background(), validPostParams())
	require.NoError(t, err)
	assert.NotContains(t, post.Content, "<script>")
	assert.NotContains(t, post.Content, "onclick")
	assert.Contains(t, post.Content, "Hello")
	assert.Contains(t, post.Content, `href="https://x.com"`)
}

func TestPost_Create_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(p *model.CreatePostParams)
	}{
		{name: "unknown category", mutate: func(p *model.CreatePostParams) { p.Category = "Gossip" }},
		{name: "missing title", mutate: func(p *model.CreatePostParams) { p.Title = "" }},
		{name: "missing cover", mutate: func(p *model.CreatePostParams) { p.Cover = " " }},
		{name: "missing author", mutate: func(p *model.CreatePostParams) { p.AuthorName = "" }},
		{name: "zero read time", mutate: func(p *model.CreatePostParams) { p.ReadTime.Value = 0 }},
		{name: "bad unit", mutate: func(p *model.CreatePostParams) { p.ReadTime.Unit = "days" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newTestPost(t)
			params := validPostParams()
			tt.mutate(&params)

			_, err := s.Create(context.Background(), params)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestPost_GetAndList(t *testing.T) {
	t.Parallel()

	s, store := newTestPost(t)
	id := uuid.New()
	store.On("GetByID", mock.Anything, id).Return(model.BlogPost{ID: id}, nil)
	store.On("GetByID", mock.Anything, mock.Anything).Return(model.BlogPost{}, model.ErrNotFound)
	store.On("List", mock.Anything, DefaultListLimit, 0).Return([]model.BlogPost{{ID: id}}, nil)
	store.On("List", mock.Anything, MaxListLimit, 20).Return(nil, errors.New("boom"))

	got, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)

	posts, err := s.List(context.Background(), 0, -1)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	_, err = s.List(context.Background(), 1000, 20)
	require.Error(t, err)
}
