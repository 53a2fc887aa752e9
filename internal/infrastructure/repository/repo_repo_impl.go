package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bravo68web/repodash/internal/domain/models"
	"github.com/bravo68web/repodash/internal/domain/repository"
	apperror "github.com/bravo68web/repodash/pkg/errors"
)

// RepoRepoImpl implements the RepoRepository interface using GORM
type RepoRepoImpl struct {
	db *gorm.DB
}

// NewRepoRepository creates a new instance of RepoRepoImpl
func NewRepoRepository(db *gorm.DB) repository.RepoRepository {
	return &RepoRepoImpl{db: db}
}

// Create inserts a record
func (r *RepoRepoImpl) Create(ctx context.Context, repo *models.Repo) error {
	row := repo.Clone()
	row.Seq = 0
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("record already exists", apperror.ErrRecordExists)
		}
		return apperror.DatabaseError("create", err)
	}
	return nil
}

// FindByID retrieves a record by its id
func (r *RepoRepoImpl) FindByID(ctx context.Context, id string) (*models.Repo, error) {
	var repo models.Repo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&repo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("repository", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find", err)
	}
	return &repo, nil
}

// List returns all records ordered by insertion
func (r *RepoRepoImpl) List(ctx context.Context) ([]*models.Repo, error) {
	repos := make([]*models.Repo, 0)
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&repos).Error; err != nil {
		return nil, apperror.DatabaseError("list", err)
	}
	return repos, nil
}
