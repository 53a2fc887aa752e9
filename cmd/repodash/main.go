package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bravo68web/repodash/internal/application/commands"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cmd := commands.NewCommandRegistry(version).RegisterCLI()

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
