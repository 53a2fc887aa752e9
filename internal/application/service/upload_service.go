package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bravo68web/repodash/internal/domain/models"
	"github.com/bravo68web/repodash/internal/domain/repository"
	"github.com/bravo68web/repodash/internal/domain/service"
	apperror "github.com/bravo68web/repodash/pkg/errors"
	"github.com/bravo68web/repodash/pkg/idgen"
	"github.com/bravo68web/repodash/pkg/logger"
)

// ErrMsgCreateFailed is the only detail a client sees when an upload fails server-side
const ErrMsgCreateFailed = "Failed to create repository"

// UploadFile is one submitted file part
type UploadFile struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// CreateUploadRepoInput carries a parsed multipart submission
type CreateUploadRepoInput struct {
	Name        string
	Description string
	IsPublic    bool
	Files       []UploadFile
}

// UploadService creates form-variant records together with their files
type UploadService struct {
	repos   repository.UploadRepoRepository
	storage service.UploadStorage
	ids     idgen.Generator
	now     func() time.Time
	log     *logger.Logger
}

// NewUploadService creates a new UploadService instance
func NewUploadService(repos repository.UploadRepoRepository, storage service.UploadStorage, ids idgen.Generator) *UploadService {
	return &UploadService{
		repos:   repos,
		storage: storage,
		ids:     ids,
		now:     time.Now,
		log:     logger.Get().WithFields(logger.Component("upload-service")),
	}
}

// CreateUploadRepo writes every file into a staging area, publishes the set
// under a new id and only then stores the record. Nothing is left behind
// when any step fails.
func (s *UploadService) CreateUploadRepo(ctx context.Context, in CreateUploadRepoInput) (*models.UploadRepo, error) {
	if in.Name == "" {
		return nil, apperror.BadRequest("Name is required", apperror.ErrInvalidInput)
	}

	names, err := fileNames(in.Files)
	if err != nil {
		return nil, err
	}

	id := s.ids.NewID()
	log := s.log.WithContext(ctx).WithFields(logger.RepoID(id))

	staging, err := s.storage.Stage(ctx)
	if err != nil {
		log.Error("Failed to allocate staging area", logger.Error(err))
		return nil, apperror.InternalError(ErrMsgCreateFailed, err)
	}

	published := false
	defer func() {
		if published {
			return
		}
		if err := staging.Discard(context.WithoutCancel(ctx)); err != nil {
			log.Warn("Failed to discard staged files", logger.Error(err))
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range in.Files {
		name := names[i]
		g.Go(func() error {
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", name, err)
			}
			defer rc.Close()
			return staging.Write(gctx, name, rc)
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("Failed to write uploaded files", logger.Error(err))
		return nil, apperror.InternalError(ErrMsgCreateFailed, err)
	}

	if _, err := staging.Publish(ctx, id); err != nil {
		log.Error("Failed to publish uploaded files", logger.Error(err))
		return nil, apperror.InternalError(ErrMsgCreateFailed, err)
	}
	published = true

	record := &models.UploadRepo{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		IsPublic:    in.IsPublic,
		Files:       names,
		CreatedAt:   models.FormatCreatedAt(s.now()),
	}

	if err := s.repos.Create(ctx, record); err != nil {
		log.Error("Failed to store upload record", logger.Error(err))
		if rmErr := s.storage.Remove(context.WithoutCancel(ctx), id); rmErr != nil {
			log.Error("Failed to remove published files", logger.Error(rmErr))
		}
		return nil, apperror.InternalError(ErrMsgCreateFailed, err)
	}

	log.Info("Upload repository created", logger.FileCount(len(names)))
	return record, nil
}

// ListUploadRepos returns all form-variant records in insertion order
func (s *UploadService) ListUploadRepos(ctx context.Context) ([]*models.UploadRepo, error) {
	return s.repos.List(ctx)
}

// fileNames reduces submitted names to a base name and rejects names that
// cannot be stored as a single file under the record directory.
func fileNames(files []UploadFile) ([]string, error) {
	names := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))

	for _, f := range files {
		name := filepath.Base(strings.ReplaceAll(f.Name, `\`, "/"))
		if f.Name == "" || name == "." || name == ".." || name == "/" {
			return nil, apperror.ValidationError("files", fmt.Sprintf("invalid file name %q", f.Name))
		}
		if _, dup := seen[name]; dup {
			return nil, apperror.ValidationError("files", fmt.Sprintf("duplicate file name %q", name))
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
