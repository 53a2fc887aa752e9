package repository

import (
	"context"

	"github.com/bravo68web/repodash/internal/domain/models"
)

// RepoRepository defines data access for records created through the JSON endpoint
type RepoRepository interface {
	// Create appends a record; a duplicate id is a conflict
	Create(ctx context.Context, repo *models.Repo) error

	// FindByID finds a record by exact id match
	FindByID(ctx context.Context, id string) (*models.Repo, error)

	// List returns every record in insertion order
	List(ctx context.Context) ([]*models.Repo, error)
}
