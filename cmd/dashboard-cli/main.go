package main

import (
	"fmt"
	"os"

	"github.com/Anvoria/dashboard/internal/cli"
	"github.com/Anvoria/dashboard/internal/cli/migrate"
	"github.com/Anvoria/dashboard/internal/cli/secrets"
	"github.com/Anvoria/dashboard/internal/cli/sessions"
)

func main() {
	registry := cli.NewRegistry()

	// Register commands
	registry.Register(&sessions.Command{})
	registry.Register(&secrets.Command{})
	registry.Register(&migrate.Command{})

	// Run
	if err := registry.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
