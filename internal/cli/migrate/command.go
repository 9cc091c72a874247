package migrate

import (
	"fmt"
	"os"

	"github.com/Anvoria/dashboard/internal/cli"
	"github.com/Anvoria/dashboard/internal/config"
	"github.com/Anvoria/dashboard/internal/migrations"
)

// Command implements schema migrations (up, down)
type Command struct {
	// Load, Up and Down default to the configured database. Tests replace them.
	Load func() (*config.Config, error)
	Up   func(cfg *config.Config) error
	Down func(cfg *config.Config) error
}

func (c *Command) Name() string {
	return "migrate"
}

func (c *Command) Description() string {
	return "Apply or roll back database migrations (up, down)"
}

func (c *Command) Run(args []string) error {
	if len(args) < 1 {
		c.printUsage()
		return fmt.Errorf("subcommand required")
	}

	var step func(cfg *config.Config) error
	switch args[0] {
	case "up":
		step = c.Up
		if step == nil {
			step = migrations.RunMigrations
		}
	case "down":
		step = c.Down
		if step == nil {
			step = migrations.Rollback
		}
	default:
		c.printUsage()
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}

	cfg, err := c.load()
	if err != nil {
		return err
	}
	if err := step(cfg); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "migrate %s completed\n", args[0])
	return nil
}

func (c *Command) printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: dashboard-cli migrate <subcommand>\n\n")
	fmt.Fprintf(os.Stderr, "Subcommands:\n")
	fmt.Fprintf(os.Stderr, "  up                    Apply all pending migrations\n")
	fmt.Fprintf(os.Stderr, "  down                  Roll back the latest migration\n")
}

func (c *Command) load() (*config.Config, error) {
	if c.Load != nil {
		return c.Load()
	}
	cfg, _, err := cli.LoadConfig()
	return cfg, err
}
