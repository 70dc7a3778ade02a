package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/blog-server/internal/model"
)

var _ model.AuthorStore = (*AuthorRepository)(nil)

const authorColumns = `id, name, surname, email, password_hash, role, google_id, dob, avatar, created_at, updated_at`

var authorSortColumns = map[model.SortField]string{
	model.SortByName:      "name",
	model.SortBySurname:   "surname",
	model.SortByEmail:     "email",
	model.SortByCreatedAt: "created_at",
}

type AuthorRepository struct {
	db *Connection
}

func NewAuthorRepository(db *Connection) *AuthorRepository {
	return &AuthorRepository{
		db: db,
	}
}

func scanAuthor(row pgx.Row) (model.Author, error) {
	var a model.Author
	err := row.Scan(
		&a.ID, &a.Name, &a.Surname, &a.Email, &a.PasswordHash, &a.Role,
		&a.GoogleID, &a.DOB, &a.Avatar, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *AuthorRepository) GetByEmail(ctx context.Context, email string) (model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE email = $1`

	author, err := scanAuthor(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return model.Author{}, translateError("get author by email", err)
	}

	return author, nil
}

func (r *AuthorRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	author, err := scanAuthor(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return model.Author{}, translateError("get author by id", err)
	}

	return author, nil
}

// Create inserts the author in a single statement so a failed insert never
// leaves a partial row behind.
func (r *AuthorRepository) Create(ctx context.Context, author model.Author) (model.Author, error) {
	query := `INSERT INTO authors (` + authorColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + authorColumns

	saved, err := scanAuthor(r.db.QueryRow(ctx, query,
		author.ID, author.Name, author.Surname, author.Email, author.PasswordHash, author.Role,
		author.GoogleID, author.DOB, author.Avatar, author.CreatedAt, author.UpdatedAt,
	))
	if err != nil {
		return model.Author{}, translateError("create author", err)
	}

	return saved, nil
}

func (r *AuthorRepository) Update(ctx context.Context, author model.Author) (model.Author, error) {
	query := `UPDATE authors
			  SET name = $2, surname = $3, email = $4, password_hash = $5, role = $6,
			      google_id = $7, dob = $8, avatar = $9, updated_at = $10
			  WHERE id = $1
			  RETURNING ` + authorColumns

	saved, err := scanAuthor(r.db.QueryRow(ctx, query,
		author.ID, author.Name, author.Surname, author.Email, author.PasswordHash, author.Role,
		author.GoogleID, author.DOB, author.Avatar, author.UpdatedAt,
	))
	if err != nil {
		return model.Author{}, translateError("update author", err)
	}

	return saved, nil
}

func (r *AuthorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return translateError("delete author", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *AuthorRepository) List(ctx context.Context, params model.ListAuthorsParams) ([]model.Author, error) {
	where, args := buildAuthorFilter(params)
	query := `SELECT ` + authorColumns + ` FROM authors` + where + buildAuthorOrder(params) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("list authors", err)
	}
	defer rows.Close()

	authors := make([]model.Author, 0, params.Limit)
	for rows.Next() {
		author, err := scanAuthor(rows)
		if err != nil {
			return nil, translateError("scan author", err)
		}
		authors = append(authors, author)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list authors", err)
	}

	return authors, nil
}

func (r *AuthorRepository) Count(ctx context.Context, params model.ListAuthorsParams) (int, error) {
	where, args := buildAuthorFilter(params)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM authors`+where, args...).Scan(&total); err != nil {
		return 0, translateError("count authors", err)
	}

	return total, nil
}

func buildAuthorFilter(params model.ListAuthorsParams) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != "" {
		add("name", params.Name)
	}
	if params.Surname != "" {
		add("surname", params.Surname)
	}
	if params.Email != "" {
		add("email", params.Email)
	}
	if params.Role != "" {
		add("role", params.Role)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildAuthorOrder(params model.ListAuthorsParams) string {
	column, ok := authorSortColumns[params.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction)
}
