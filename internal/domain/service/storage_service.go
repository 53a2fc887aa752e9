package service

import (
	"context"
	"io"
)

// UploadStorage defines where uploaded files are kept.
// Files are written into a private staging area first and become visible
// under their record id only when the whole set is published.
type UploadStorage interface {
	// Stage allocates a new, empty staging area
	Stage(ctx context.Context) (Staging, error)

	// Path returns the location of a published file
	Path(id, name string) string

	// List returns the names of the files published for id, sorted
	List(ctx context.Context, id string) ([]string, error)

	// Exists reports whether anything is published for id
	Exists(ctx context.Context, id string) (bool, error)

	// Remove deletes everything published for id. Used to roll back a
	// publish whose record could not be stored.
	Remove(ctx context.Context, id string) error

	// Root returns the upload root (directory or bucket prefix)
	Root() string
}

// Staging is a set of files waiting to be published together
type Staging interface {
	// Write stores one file. Distinct names may be written concurrently.
	Write(ctx context.Context, name string, r io.Reader) error

	// Publish makes every staged file visible under id and returns the
	// published location. It fails if id is already published.
	Publish(ctx context.Context, id string) (string, error)

	// Discard removes everything staged. It is idempotent and a no-op
	// after a successful Publish.
	Discard(ctx context.Context) error
}
