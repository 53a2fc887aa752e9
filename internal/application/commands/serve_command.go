package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/repodash/internal/config"
	"github.com/bravo68web/repodash/internal/infrastructure/database"
	"github.com/bravo68web/repodash/internal/infrastructure/otel"
	"github.com/bravo68web/repodash/internal/injectable"
	"github.com/bravo68web/repodash/internal/server"
	"github.com/bravo68web/repodash/internal/transport/http/router"
	"github.com/bravo68web/repodash/pkg/logger"
)

func ServeCommand(version string) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Override the configured listen port",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			if port := cmd.Int("port"); port > 0 {
				cfg.Server.Port = int(port)
			}

			log, err := otel.NewLogger(ctx, cfg, version)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger.SetGlobal(log)
			defer logger.Close()

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := openDatabase(ctx, cfg)
			if err != nil {
				log.Error("Database unavailable", logger.Error(err))
				return err
			}
			if db != nil {
				defer db.Close()
			}

			deps, err := injectable.LoadDependencies(ctx, cfg, db)
			if err != nil {
				log.Error("Failed to load dependencies", logger.Error(err))
				return err
			}

			srv := server.New(cfg, db, version)
			router.NewRouter(srv, deps).RegisterRoutes()

			log.Info("Starting repodash",
				logger.String("version", version),
				logger.String("records", cfg.Records.Type),
				logger.String("storage", cfg.Storage.Type),
				logger.String("auth", cfg.Auth.Mode),
			)
			return srv.Run(ctx)
		},
	}
}

// openDatabase connects and migrates when records live in PostgreSQL
func openDatabase(ctx context.Context, cfg *config.Config) (*database.Database, error) {
	if !cfg.Records.IsPostgres() {
		return nil, nil
	}

	db, err := database.NewDatabase(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
