package repository

import (
	"context"

	"github.com/bravo68web/repodash/internal/domain/models"
	"github.com/bravo68web/repodash/internal/domain/repository"
	apperror "github.com/bravo68web/repodash/pkg/errors"
)

// MemoryRepoRepository keeps JSON-variant records in process memory.
// Records are lost when the process exits.
type MemoryRepoRepository struct {
	store *orderedStore[*models.Repo]
}

// NewMemoryRepoRepository creates an empty in-memory store
func NewMemoryRepoRepository() repository.RepoRepository {
	return &MemoryRepoRepository{
		store: newOrderedStore(
			func(r *models.Repo) string { return r.ID },
			(*models.Repo).Clone,
		),
	}
}

// Create appends a record
func (r *MemoryRepoRepository) Create(_ context.Context, repo *models.Repo) error {
	return r.store.insert(repo)
}

// FindByID returns the record with the given id
func (r *MemoryRepoRepository) FindByID(_ context.Context, id string) (*models.Repo, error) {
	repo, ok := r.store.get(id)
	if !ok {
		return nil, apperror.NotFound("repository", apperror.ErrNotFound)
	}
	return repo, nil
}

// List returns all records in insertion order
func (r *MemoryRepoRepository) List(_ context.Context) ([]*models.Repo, error) {
	return r.store.list(), nil
}
