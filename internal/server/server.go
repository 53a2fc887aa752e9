package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/repodash/internal/config"
	"github.com/bravo68web/repodash/internal/infrastructure/database"
	"github.com/bravo68web/repodash/internal/transport/http/middleware"
	"github.com/bravo68web/repodash/pkg/logger"
	"github.com/bravo68web/repodash/pkg/openapi"
)

const shutdownTimeout = 15 * time.Second

// Server is the HTTP engine plus what route registration needs from startup
type Server struct {
	*gin.Engine

	Config           *config.Config
	DB               *database.Database // nil when records are kept in memory
	OpenAPIGenerator *openapi.Generator
	Version          string
}

// New creates the engine with recovery, access logging and CORS installed
func New(cfg *config.Config, db *database.Database, version string) *Server {
	switch {
	case cfg.Server.Mode == gin.TestMode:
		gin.SetMode(gin.TestMode)
	case cfg.IsDevelopment():
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.MaxMultipartMemory = cfg.Uploads.MaxMemoryBytes
	engine.Use(
		middleware.RecoveryMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.CORSMiddleware(cfg.Server.AllowedOrigins),
	)

	return &Server{
		Engine: engine,
		Config: cfg,
		DB:     db,
		OpenAPIGenerator: openapi.NewGenerator(engine, openapi.Info{
			Title:       "repodash API",
			Description: "Repository records, uploads and dashboard aggregates",
			Version:     version,
		}, []openapi.Tag{
			{Name: "Repositories"},
			{Name: "Dashboard"},
			{Name: "System"},
		}),
		Version: version,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	log := logger.Get().WithFields(logger.Component("http-server"))

	srv := &http.Server{
		Addr:              s.Config.ServerAddress(),
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
