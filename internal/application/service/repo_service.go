package service

import (
	"context"

	"github.com/bravo68web/repodash/internal/domain/models"
	"github.com/bravo68web/repodash/internal/domain/repository"
	"github.com/bravo68web/repodash/pkg/idgen"
	"github.com/bravo68web/repodash/pkg/logger"
)

// RepoService handles the JSON-variant repository records
type RepoService struct {
	repos repository.RepoRepository
	ids   idgen.Generator
	log   *logger.Logger
}

// NewRepoService creates a new RepoService instance
func NewRepoService(repos repository.RepoRepository, ids idgen.Generator) *RepoService {
	return &RepoService{
		repos: repos,
		ids:   ids,
		log:   logger.Get().WithFields(logger.Component("repo-service")),
	}
}

// CreateRepository stores a new record under a fresh id.
// Name is not validated; an empty name is stored as given.
func (s *RepoService) CreateRepository(ctx context.Context, name, description string) (*models.Repo, error) {
	repo := &models.Repo{
		ID:          s.ids.NewID(),
		Name:        name,
		Description: description,
	}

	if err := s.repos.Create(ctx, repo); err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("Repository created", logger.RepoID(repo.ID))
	return repo, nil
}

// GetRepository retrieves a record by id
func (s *RepoService) GetRepository(ctx context.Context, id string) (*models.Repo, error) {
	return s.repos.FindByID(ctx, id)
}
