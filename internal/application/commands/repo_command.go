package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v3"
)

func RepoCommands() *cli.Command {
	return &cli.Command{
		Name:  "repo",
		Usage: "Manage repositories on a running server",
		Commands: []*cli.Command{
			Create(),
			List(),
			Get(),
		},
	}
}

// Create uploads a repository. With --file it uses the multipart form
// endpoint, otherwise the JSON one.
func Create() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a repository",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Name of the repository",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Description of the repository",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Mark the repository public (form uploads only)",
			},
			&cli.StringSliceFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "File to upload; repeat for several",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req := apiClient(cmd).R().SetContext(ctx)

			files := cmd.StringSlice("file")
			if len(files) == 0 && !cmd.Bool("public") {
				req.SetBody(map[string]string{
					"name":        cmd.String("name"),
					"description": cmd.String("description"),
				})
			} else {
				req.SetMultipartFormData(map[string]string{
					"name":        cmd.String("name"),
					"description": cmd.String("description"),
					"isPublic":    strconv.FormatBool(cmd.Bool("public")),
				})
				for _, path := range files {
					f, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("open %s: %w", path, err)
					}
					defer f.Close()
					req.SetFileReader("files", filepath.Base(path), f)
				}
			}

			resp, err := req.Post("/api/repos")
			if err != nil {
				return fmt.Errorf("create repository: %w", err)
			}
			return printResponse(cmd, resp)
		},
	}
}

func List() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List uploaded repositories",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			resp, err := apiClient(cmd).R().SetContext(ctx).Get("/api/repos")
			if err != nil {
				return fmt.Errorf("list repositories: %w", err)
			}
			return printResponse(cmd, resp)
		},
	}
}

func Get() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show a repository by id",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("repository id is required")
			}
			resp, err := apiClient(cmd).R().
				SetContext(ctx).
				SetPathParam("id", id).
				Get("/api/repos/{id}")
			if err != nil {
				return fmt.Errorf("get repository: %w", err)
			}
			return printResponse(cmd, resp)
		},
	}
}
