package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PostStore defines persistence operations for blog posts.
type PostStore interface {
	Create(ctx context.Context, post BlogPost) (BlogPost, error)
	GetByID(ctx context.Context, id uuid.UUID) (BlogPost, error)
	List(ctx context.Context, limit, offset int) ([]BlogPost, error)
}

// PostCategory enumerates allowed blog post categories.
type PostCategory string

const (
	CategorySocialMedia  PostCategory = "Social Media"
	CategoryProduct      PostCategory = "Product"
	CategoryBusinessNews PostCategory = "Business News"
)

// Valid reports whether c is a known category.
func (c PostCategory) Valid() bool {
	switch c {
	case CategorySocialMedia, CategoryProduct, CategoryBusinessNews:
		return true
	}
	return false
}

// ReadTimeUnit enumerates units a read time can be expressed in.
type ReadTimeUnit string

const (
	UnitSeconds ReadTimeUnit = "seconds"
	UnitMinutes ReadTimeUnit = "minutes"
	UnitHours   ReadTimeUnit = "hours"
)

// Valid reports whether u is a known unit.
func (u ReadTimeUnit) Valid() bool {
	return u == UnitSeconds || u == UnitMinutes || u == UnitHours
}

type ReadTime struct {
	Value float64      `json:"value"`
	Unit  ReadTimeUnit `json:"unit"`
}

type PostAuthor struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// BlogPost is a published post.
type BlogPost struct {
	ID        uuid.UUID    `json:"_id"`
	Category  PostCategory `json:"category"`
	Title     string       `json:"title"`
	Cover     string       `json:"cover"`
	ReadTime  ReadTime     `json:"readTime"`
	Author    PostAuthor   `json:"author"`
	Content   string       `json:"content,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// CreatePostParams contains the fields accepted when publishing a post.
type CreatePostParams struct {
	Category     PostCategory
	Title        string
	Cover        string
	ReadTime     ReadTime
	AuthorName   string
	AuthorAvatar string
	Content      string
}
