package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bravo68web/repodash/internal/config"
	"github.com/bravo68web/repodash/internal/injectable"
	"github.com/bravo68web/repodash/internal/server"
	"github.com/bravo68web/repodash/internal/transport/http/router"
)

// OpenAPICommand writes the API document without starting a listener.
// Routes are registered against in-memory records so no database is needed.
func OpenAPICommand(version string) *cli.Command {
	return &cli.Command{
		Name:  "openapi",
		Usage: "Generate the OpenAPI document",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file; .json writes JSON, anything else YAML",
				Value:   "docs/openapi.yaml",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			cfg.Records.Type = "memory"
			cfg.Server.Mode = "test"

			deps, err := injectable.LoadDependencies(ctx, cfg, nil)
			if err != nil {
				return err
			}

			srv := server.New(cfg, nil, version)
			router.NewRouter(srv, deps).RegisterRoutes()

			out := cmd.String("output")
			if err := srv.OpenAPIGenerator.Generate().SaveToFile(out); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.Root().Writer, "OpenAPI document written to %s\n", out)
			return nil
		},
	}
}
