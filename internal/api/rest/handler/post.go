package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// PostService defines blog post operations.
type PostService interface {
	Create(ctx context.Context, params model.CreatePostParams) (model.BlogPost, error)
	Get(ctx context.Context, id uuid.UUID) (model.BlogPost, error)
	List(ctx context.Context, limit, offset int) ([]model.BlogPost, error)
}

// Post handles /blogPosts endpoints.
type Post struct {
	postService PostService
	logger      *logger.Logger
}

// NewPost creates a new Post handler.
func NewPost(postService PostService, logger *logger.Logger) *Post {
	return &Post{postService: postService, logger: logger}
}

type postRequest struct {
	Category string           `json:"category"`
	Title    string           `json:"title"`
	Cover    string           `json:"cover"`
	ReadTime model.ReadTime   `json:"readTime"`
	Author   model.PostAuthor `json:"author"`
	Content  string           `json:"content"`
}

func (h *Post) Create(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	post, err := h.postService.Create(r.Context(), model.CreatePostParams{
		Category:     model.PostCategory(req.Category),
		Title:        req.Title,
		Cover:        req.Cover,
		ReadTime:     req.ReadTime,
		AuthorName:   req.Author.Name,
		AuthorAvatar: req.Author.Avatar,
		Content:      req.Content,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, idResponse{ID: post.ID})
}

func (h *Post) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pagination(r.URL.Query())
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	posts, err := h.postService.List(r.Context(), limit, offset)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	if posts == nil {
		posts = []model.BlogPost{}
	}

	response.JSON(w, http.StatusOK, posts)
}

func (h *Post) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	post, err := h.postService.Get(r.Context(), id)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, post)
}
