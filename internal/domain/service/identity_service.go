package service

import (
	"context"

	"github.com/bravo68web/repodash/internal/domain/models"
)

// IdentityResolver turns a bearer token issued by the external identity
// provider into an Identity
type IdentityResolver interface {
	Resolve(ctx context.Context, rawToken string) (*models.Identity, error)

	// Required reports whether requests without a token are rejected
	Required() bool
}
