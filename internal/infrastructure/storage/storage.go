package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bravo68web/repodash/internal/config"
	"github.com/bravo68web/repodash/internal/domain/service"
	apperror "github.com/bravo68web/repodash/pkg/errors"
)

// StorageType represents the type of storage backend
type StorageType string

const (
	// StorageTypeFilesystem represents local filesystem storage
	StorageTypeFilesystem StorageType = "filesystem"

	// StorageTypeS3 represents AWS S3 storage
	StorageTypeS3 StorageType = "s3"
)

// stagingDir is the reserved name under the upload root holding unpublished files
const stagingDir = ".staging"

// Factory creates storage backends based on configuration
type Factory struct {
	config *config.StorageConfig
}

// NewFactory creates a new storage factory
func NewFactory(cfg *config.StorageConfig) *Factory {
	return &Factory{
		config: cfg,
	}
}

// Create creates a new storage backend based on the configuration
func (f *Factory) Create(ctx context.Context) (service.UploadStorage, error) {
	switch StorageType(strings.ToLower(f.config.Type)) {
	case StorageTypeFilesystem, "":
		return NewFilesystemStorage(f.config.BasePath)

	case StorageTypeS3:
		return NewS3Storage(ctx, S3Config{
			Bucket:       f.config.S3Bucket,
			Region:       f.config.S3Region,
			AccessKey:    f.config.S3AccessKey,
			SecretKey:    f.config.S3SecretKey,
			Endpoint:     f.config.S3Endpoint,
			UsePathStyle: f.config.S3Endpoint != "",
			Prefix:       f.config.S3Prefix,
		})

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", f.config.Type)
	}
}

// ValidateFileName rejects names that are not a single plain path element.
// Uploaded names are used verbatim as file names under the record directory.
func ValidateFileName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return apperror.BadRequest(fmt.Sprintf("invalid file name %q", name), apperror.ErrInvalidInput)
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return apperror.BadRequest(fmt.Sprintf("invalid file name %q", name), apperror.ErrInvalidInput)
	case filepath.Base(name) != name:
		return apperror.BadRequest(fmt.Sprintf("invalid file name %q", name), apperror.ErrInvalidInput)
	}
	return nil
}

// validateID guards record ids used as directory names or key segments
func validateID(id string) error {
	if id == "" || strings.HasPrefix(id, ".") || strings.ContainsAny(id, `/\`) {
		return apperror.BadRequest(fmt.Sprintf("invalid record id %q", id), apperror.ErrInvalidInput)
	}
	return nil
}
