package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPostRepository(t *testing.T) {
	db := &Connection{}
	repo := NewPostRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestPostRepository_Structure(t *testing.T) {
	repo := &PostRepository{
		db: nil,
	}

	assert.NotNil(t, repo)
	assert.Nil(t, repo.db)
}
