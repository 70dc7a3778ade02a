package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/blog-server/internal/model"
)

var _ model.PostStore = (*PostRepository)(nil)

const postColumns = `id, category, title, cover, read_time_value, read_time_unit, author_name, author_avatar, content, created_at, updated_at`

type PostRepository struct {
	db *Connection
}

func NewPostRepository(db *Connection) *PostRepository {
	return &PostRepository{
		db: db,
	}
}

func scanPost(row pgx.Row) (model.BlogPost, error) {
	var p model.BlogPost
	err := row.Scan(
		&p.ID, &p.Category, &p.Title, &p.Cover, &p.ReadTime.Value, &p.ReadTime.Unit,
		&p.Author.Name, &p.Author.Avatar, &p.Content, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *PostRepository) Create(ctx context.Context, post model.BlogPost) (model.BlogPost, error) {
	query := `INSERT INTO blog_posts (` + postColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + postColumns

	saved, err := scanPost(r.db.QueryRow(ctx, query,
		post.ID, post.Category, post.Title, post.Cover, post.ReadTime.Value, post.ReadTime.Unit,
		post.Author.Name, post.Author.Avatar, post.Content, post.CreatedAt, post.UpdatedAt,
	))
	if err != nil {
		return model.BlogPost{}, translateError("create blog post", err)
	}

	return saved, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (model.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return model.BlogPost{}, translateError("get blog post by id", err)
	}

	return post, nil
}

func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]model.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, translateError("list blog posts", err)
	}
	defer rows.Close()

	posts := make([]model.BlogPost, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, translateError("scan blog post", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list blog posts", err)
	}

	return posts, nil
}
