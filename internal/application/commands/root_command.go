package commands

import (
	"context"

	"github.com/urfave/cli/v3"
)

type CommandRegistry struct {
	version string
}

func NewCommandRegistry(version string) *CommandRegistry {
	return &CommandRegistry{version: version}
}

func (r *CommandRegistry) RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:                  "repodash",
		Usage:                 "Repository records, uploads and dashboard service",
		Version:               r.version,
		Suggest:               true,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration file",
				Value:   "configs/config.yaml",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
			&cli.StringFlag{
				Name:    "server",
				Usage:   "Base URL of a running repodash server",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("REPODASH_URL"),
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer token sent to the server",
				Sources: cli.EnvVars("REPODASH_TOKEN"),
			},
		},
		Action: RootCommand(),
		Commands: []*cli.Command{
			ServeCommand(r.version),
			RepoCommands(),
			DashboardCommand(),
			OpenAPICommand(r.version),
		},
	}
}

func RootCommand() cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		w := cmd.Root().Writer
		w.Write([]byte("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"))
		w.Write([]byte("Welcome to repodash!\n"))
		w.Write([]byte("Use 'repodash --help' to see available commands.\n"))
		w.Write([]byte("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"))
		return nil
	}
}
