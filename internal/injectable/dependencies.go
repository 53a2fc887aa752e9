package injectable

import (
	"context"
	"fmt"

	"github.com/bravo68web/repodash/internal/application/service"
	"github.com/bravo68web/repodash/internal/config"
	domainrepo "github.com/bravo68web/repodash/internal/domain/repository"
	domainservice "github.com/bravo68web/repodash/internal/domain/service"
	"github.com/bravo68web/repodash/internal/infrastructure/database"
	"github.com/bravo68web/repodash/internal/infrastructure/repository"
	"github.com/bravo68web/repodash/internal/infrastructure/storage"
	"github.com/bravo68web/repodash/pkg/idgen"
)

// Dependencies holds all the dependencies required by the router
type Dependencies struct {
	RepoService      *service.RepoService
	UploadService    *service.UploadService
	DashboardService *service.DashboardService
	IdentityResolver domainservice.IdentityResolver
	Storage          domainservice.UploadStorage
}

// LoadDependencies wires stores, upload storage and services from configuration.
// db is only used when records are kept in PostgreSQL.
func LoadDependencies(ctx context.Context, cfg *config.Config, db *database.Database) (*Dependencies, error) {
	var (
		repoRepo   domainrepo.RepoRepository
		uploadRepo domainrepo.UploadRepoRepository
	)
	if cfg.Records.IsPostgres() {
		if db == nil {
			return nil, fmt.Errorf("postgres records selected but no database connection")
		}
		repoRepo = repository.NewRepoRepository(db.DB())
		uploadRepo = repository.NewUploadRepoRepository(db.DB())
	} else {
		repoRepo = repository.NewMemoryRepoRepository()
		uploadRepo = repository.NewMemoryUploadRepoRepository()
	}

	uploads, err := storage.NewFactory(&cfg.Storage).Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	resolver, err := service.NewIdentityResolver(ctx, &cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity resolver: %w", err)
	}

	ids := idgen.UUID{}
	return &Dependencies{
		RepoService:      service.NewRepoService(repoRepo, ids),
		UploadService:    service.NewUploadService(uploadRepo, uploads, ids),
		DashboardService: service.NewDashboardService(cfg.Dashboard.UpstreamURL, cfg.Dashboard.Timeout()),
		IdentityResolver: resolver,
		Storage:          uploads,
	}, nil
}
