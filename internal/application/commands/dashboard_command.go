package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func DashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Print the dashboard aggregate",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			resp, err := apiClient(cmd).R().SetContext(ctx).Get("/api/dashboard")
			if err != nil {
				return fmt.Errorf("load dashboard: %w", err)
			}
			return printResponse(cmd, resp)
		},
	}
}
