package repository

import (
	"context"

	"github.com/bravo68web/repodash/internal/domain/models"
)

// UploadRepoRepository defines data access for records created through the
// multipart endpoint. It is independent of RepoRepository.
type UploadRepoRepository interface {
	// Create appends a record; a duplicate id is a conflict
	Create(ctx context.Context, repo *models.UploadRepo) error

	// FindByID finds a record by exact id match
	FindByID(ctx context.Context, id string) (*models.UploadRepo, error)

	// List returns every record in insertion order
	List(ctx context.Context) ([]*models.UploadRepo, error)
}
