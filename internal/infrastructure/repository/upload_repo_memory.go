package repository

import (
	"context"

	"github.com/bravo68web/repodash/internal/domain/models"
	"github.com/bravo68web/repodash/internal/domain/repository"
	apperror "github.com/bravo68web/repodash/pkg/errors"
)

// MemoryUploadRepoRepository keeps form-variant records in process memory
type MemoryUploadRepoRepository struct {
	store *orderedStore[*models.UploadRepo]
}

// NewMemoryUploadRepoRepository creates an empty in-memory store
func NewMemoryUploadRepoRepository() repository.UploadRepoRepository {
	return &MemoryUploadRepoRepository{
		store: newOrderedStore(
			func(r *models.UploadRepo) string { return r.ID },
			(*models.UploadRepo).Clone,
		),
	}
}

// Create appends a record
func (r *MemoryUploadRepoRepository) Create(_ context.Context, repo *models.UploadRepo) error {
	return r.store.insert(repo)
}

// FindByID returns the record with the given id
func (r *MemoryUploadRepoRepository) FindByID(_ context.Context, id string) (*models.UploadRepo, error) {
	repo, ok := r.store.get(id)
	if !ok {
		return nil, apperror.NotFound("repository", apperror.ErrNotFound)
	}
	return repo, nil
}

// List returns all records in insertion order
func (r *MemoryUploadRepoRepository) List(_ context.Context) ([]*models.UploadRepo, error) {
	return r.store.list(), nil
}
