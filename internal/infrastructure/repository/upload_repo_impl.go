package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bravo68web/repodash/internal/domain/models"
	"github.com/bravo68web/repodash/internal/domain/repository"
	apperror "github.com/bravo68web/repodash/pkg/errors"
)

// UploadRepoImpl implements the UploadRepoRepository interface using GORM
type UploadRepoImpl struct {
	db *gorm.DB
}

// NewUploadRepoRepository creates a new instance of UploadRepoImpl
func NewUploadRepoRepository(db *gorm.DB) repository.UploadRepoRepository {
	return &UploadRepoImpl{db: db}
}

// Create inserts a record
func (r *UploadRepoImpl) Create(ctx context.Context, repo *models.UploadRepo) error {
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
func (r *UploadRepoImpl) FindByID(ctx context.Context, id string) (*models.UploadRepo, error) {
	var repo models.UploadRepo
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
func (r *UploadRepoImpl) List(ctx context.Context) ([]*models.UploadRepo, error) {
	repos := make([]*models.UploadRepo, 0)
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&repos).Error; err != nil {
		return nil, apperror.DatabaseError("list", err)
	}
	return repos, nil
}
