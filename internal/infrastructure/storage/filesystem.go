package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/bravo68web/repodash/internal/domain/service"
	apperror "github.com/bravo68web/repodash/pkg/errors"
	"github.com/bravo68web/repodash/pkg/logger"
)

var _ service.UploadStorage = (*FilesystemStorage)(nil)

// FilesystemStorage keeps uploads under {base}/{id}/{name}.
// Staged files live in {base}/.staging/{uuid}/ until a rename publishes them.
type FilesystemStorage struct {
	basePath string
	log      *logger.Logger
}

// NewFilesystemStorage creates the upload root and its staging area
func NewFilesystemStorage(basePath string) (*FilesystemStorage, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}

	// Staging must share the filesystem with the root for rename to be atomic
	if err := os.MkdirAll(filepath.Join(absPath, stagingDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &FilesystemStorage{
		basePath: absPath,
		log: logger.Get().WithFields(
			logger.Component("storage"),
			logger.String("backend", string(StorageTypeFilesystem)),
		),
	}, nil
}

// Root returns the absolute upload directory
func (s *FilesystemStorage) Root() string {
	return s.basePath
}

// Path returns the absolute path of a published file
func (s *FilesystemStorage) Path(id, name string) string {
	return filepath.Join(s.basePath, id, name)
}

// Stage allocates a fresh staging directory
func (s *FilesystemStorage) Stage(ctx context.Context) (service.Staging, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.basePath, stagingDir, uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, apperror.StorageError("stage", err)
	}

	return &fsStaging{
		storage: s,
		dir:     dir,
		names:   make(map[string]struct{}),
	}, nil
}

// List returns the sorted file names published for id
func (s *FilesystemStorage) List(ctx context.Context, id string) ([]string, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.basePath, id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperror.NotFound("upload", err)
		}
		return nil, apperror.StorageError("list", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Exists reports whether a directory is published for id
func (s *FilesystemStorage) Exists(ctx context.Context, id string) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}

	_, err := os.Stat(filepath.Join(s.basePath, id))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, apperror.StorageError("stat", err)
}

// Remove deletes the published directory of id
func (s *FilesystemStorage) Remove(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(s.basePath, id)); err != nil {
		return apperror.StorageError("remove", err)
	}
	return nil
}

type fsStaging struct {
	storage *FilesystemStorage
	dir     string

	mu        sync.Mutex
	names     map[string]struct{}
	published bool
	discarded bool
}

func (st *fsStaging) reserve(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.published || st.discarded {
		return apperror.InternalError("staging area is closed", nil)
	}
	if _, dup := st.names[name]; dup {
		return apperror.BadRequest(fmt.Sprintf("duplicate file name %q", name), apperror.ErrInvalidInput)
	}
	st.names[name] = struct{}{}
	return nil
}

func (st *fsStaging) Write(ctx context.Context, name string, r io.Reader) error {
	if err := ValidateFileName(name); err != nil {
		return err
	}
	if err := st.reserve(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(st.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return apperror.StorageError("create file", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return apperror.StorageError("write file", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return apperror.StorageError("close file", err)
	}
	return nil
}

func (st *fsStaging) Publish(ctx context.Context, id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.published || st.discarded {
		return "", apperror.InternalError("staging area is closed", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(st.storage.basePath, id)
	if _, err := os.Lstat(target); err == nil {
		return "", apperror.Conflict(fmt.Sprintf("upload %s already exists", id), apperror.ErrRecordExists)
	}

	if err := os.Rename(st.dir, target); err != nil {
		return "", apperror.StorageError("publish", err)
	}
	st.published = true

	st.storage.log.Debug("Published upload",
		logger.RepoID(id),
		logger.FileCount(len(st.names)),
	)
	return target, nil
}

func (st *fsStaging) Discard(ctx context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.published || st.discarded {
		return nil
	}
	st.discarded = true

	if err := os.RemoveAll(st.dir); err != nil {
		st.storage.log.Warn("Failed to remove staging directory",
			logger.String("dir", st.dir),
			logger.Error(err),
		)
		return apperror.StorageError("discard", err)
	}
	return nil
}
