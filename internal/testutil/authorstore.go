package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/model"
)

var _ model.AuthorStore = (*MemoryAuthorStore)(nil)

// MemoryAuthorStore is an in-process AuthorStore with the same uniqueness
// rules as the postgres schema. It is meant for HTTP level tests.
type MemoryAuthorStore struct {
	mu      sync.RWMutex
	authors map[uuid.UUID]model.Author
}

func NewMemoryAuthorStore() *MemoryAuthorStore {
	return &MemoryAuthorStore{authors: make(map[uuid.UUID]model.Author)}
}

func (s *MemoryAuthorStore) GetByEmail(_ context.Context, email string) (model.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.authors {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Author{}, model.ErrNotFound
}

func (s *MemoryAuthorStore) GetByID(_ context.Context, id uuid.UUID) (model.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.authors[id]
	if !ok {
		return model.Author{}, model.ErrNotFound
	}
	return a, nil
}

func (s *MemoryAuthorStore) Create(_ context.Context, author model.Author) (model.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if author.ID == uuid.Nil {
		author.ID = uuid.New()
	}
	if err := s.checkUnique(author); err != nil {
		return model.Author{}, err
	}

	now := time.Now().UTC()
	author.CreatedAt = now
	author.UpdatedAt = now
	s.authors[author.ID] = author
	return author, nil
}

func (s *MemoryAuthorStore) Update(_ context.Context, author model.Author) (model.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.authors[author.ID]
	if !ok {
		return model.Author{}, model.ErrNotFound
	}
	if err := s.checkUnique(author); err != nil {
		return model.Author{}, err
	}

	author.CreatedAt = existing.CreatedAt
	author.UpdatedAt = time.Now().UTC()
	s.authors[author.ID] = author
	return author, nil
}

func (s *MemoryAuthorStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.authors[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.authors, id)
	return nil
}

func (s *MemoryAuthorStore) List(_ context.Context, params model.ListAuthorsParams) ([]model.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filter(params)
	sort.SliceStable(matched, func(i, j int) bool {
		if params.SortDesc {
			return lessBy(params.SortBy, matched[j], matched[i])
		}
		return lessBy(params.SortBy, matched[i], matched[j])
	})

	if params.Offset >= len(matched) {
		return []model.Author{}, nil
	}
	end := len(matched)
	if params.Limit > 0 && params.Offset+params.Limit < end {
		end = params.Offset + params.Limit
	}
	return matched[params.Offset:end], nil
}

func (s *MemoryAuthorStore) Count(_ context.Context, params model.ListAuthorsParams) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.filter(params)), nil
}

// SetRole changes a stored role directly, bypassing every service rule.
func (s *MemoryAuthorStore) SetRole(id uuid.UUID, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.authors[id]
	if !ok {
		return model.ErrNotFound
	}
	a.Role = role
	s.authors[id] = a
	return nil
}

func (s *MemoryAuthorStore) checkUnique(author model.Author) error {
	for id, a := range s.authors {
		if id == author.ID {
			continue
		}
		if a.Email == author.Email {
			return model.ErrAlreadyExists
		}
		if a.GoogleID != nil && author.GoogleID != nil && *a.GoogleID == *author.GoogleID {
			return model.ErrAlreadyExists
		}
	}
	return nil
}

func (s *MemoryAuthorStore) filter(params model.ListAuthorsParams) []model.Author {
	out := make([]model.Author, 0, len(s.authors))
	for _, a := range s.authors {
		if (params.Name != "" && a.Name != params.Name) ||
			(params.Surname != "" && a.Surname != params.Surname) ||
			(params.Email != "" && a.Email != params.Email) ||
			(params.Role != "" && a.Role != params.Role) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func lessBy(field model.SortField, a, b model.Author) bool {
	switch field {
	case model.SortByName:
		return strings.Compare(a.Name, b.Name) < 0
	case model.SortBySurname:
		return strings.Compare(a.Surname, b.Surname) < 0
	case model.SortByEmail:
		return strings.Compare(a.Email, b.Email) < 0
	default:
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID.String() < b.ID.String()
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
}
