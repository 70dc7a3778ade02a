package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// Post publishes and reads blog posts.
type Post struct {
	postStore model.PostStore
	policy    *bluemonday.Policy
	logger    *logger.Logger
	now       func() time.Time
}

func NewPost(postStore model.PostStore, logger *logger.Logger) *Post {
	return &Post{
		postStore: postStore,
		policy:    bluemonday.UGCPolicy(),
		logger:    logger,
		now:       time.Now,
	}
}

// Create validates params, sanitises the HTML content and stores the post.
func (s *Post) Create(ctx context.Context, params model.CreatePostParams) (model.BlogPost, error) {
	if !params.Category.Valid() {
		return model.BlogPost{}, model.InvalidInputf("unknown category %q", params.Category)
	}
	if err := requireField("title", params.Title); err != nil {
		return model.BlogPost{}, err
	}
	if err := requireField("cover", params.Cover); err != nil {
		return model.BlogPost{}, err
	}
	if err := requireField("author name", params.AuthorName); err != nil {
		return model.BlogPost{}, err
	}
	if params.ReadTime.Value <= 0 {
		return model.BlogPost{}, model.InvalidInputf("read time must be positive")
	}
	if !params.ReadTime.Unit.Valid() {
		return model.BlogPost{}, model.InvalidInputf("unknown read time unit %q", params.ReadTime.Unit)
	}

	now := s.now()
	post, err := s.postStore.Create(ctx, model.BlogPost{
		ID:        uuid.New(),
		Category:  params.Category,
		Title:     params.Title,
		Cover:     params.Cover,
		ReadTime:  params.ReadTime,
		Author:    model.PostAuthor{Name: params.AuthorName, Avatar: params.AuthorAvatar},
		Content:   s.policy.Sanitize(params.Content),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error("Post service: failed to create post",
			"error", err.Error())
		return model.BlogPost{}, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("Post service: post created",
		"post_id", post.ID)

	return post, nil
}

func (s *Post) Get(ctx context.Context, id uuid.UUID) (model.BlogPost, error) {
	post, err := s.postStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.BlogPost{}, err
		}
		return model.BlogPost{}, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (s *Post) List(ctx context.Context, limit, offset int) ([]model.BlogPost, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.postStore.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}
