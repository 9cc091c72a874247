package sessions

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Anvoria/dashboard/internal/cli"
	"github.com/Anvoria/dashboard/internal/database"
	"github.com/Anvoria/dashboard/internal/domain/session"
)

const commandTimeout = time.Minute

// Opener returns a session service and a function releasing its resources.
type Opener func() (session.Service, func(), error)

// Command implements session maintenance (cleanup, revoke-all)
type Command struct {
	// Open overrides how the session store is reached. Defaults to the configured database.
	Open Opener
	// Out receives command output. Defaults to stdout.
	Out io.Writer
}

func (c *Command) Name() string {
	return "sessions"
}

func (c *Command) Description() string {
	return "Session maintenance (cleanup, revoke-all)"
}

func (c *Command) Run(args []string) error {
	if len(args) < 1 {
		c.printUsage()
		return fmt.Errorf("subcommand required")
	}

	subcmd := args[0]
	switch subcmd {
	case "cleanup":
		return c.runCleanup(args[1:])
	case "revoke-all":
		return c.runRevokeAll(args[1:])
	default:
		c.printUsage()
		return fmt.Errorf("unknown subcommand: %s", subcmd)
	}
}

func (c *Command) printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: dashboard-cli sessions <subcommand> [args]\n\n")
	fmt.Fprintf(os.Stderr, "Subcommands:\n")
	fmt.Fprintf(os.Stderr, "  cleanup               Delete expired sessions\n")
	fmt.Fprintf(os.Stderr, "  revoke-all            Delete every session, logging out all clients\n")
	fmt.Fprintf(os.Stderr, "    -yes                Confirm (required)\n")
}

func (c *Command) runCleanup(args []string) error {
	fs := flag.NewFlagSet("cleanup", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, closeFn, err := c.open()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	n := svc.CleanupExpired(ctx)
	fmt.Fprintf(c.out(), "Deleted %d expired sessions\n", n)
	return nil
}

func (c *Command) runRevokeAll(args []string) error {
	fs := flag.NewFlagSet("revoke-all", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Confirm revoking every session")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes {
		return fmt.Errorf("refusing to revoke all sessions without -yes")
	}

	svc, closeFn, err := c.open()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	n, err := svc.RevokeAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	fmt.Fprintf(c.out(), "Revoked %d sessions\n", n)
	return nil
}

func (c *Command) open() (session.Service, func(), error) {
	if c.Open != nil {
		return c.Open()
	}
	return openDatabase()
}

func (c *Command) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func openDatabase() (session.Service, func(), error) {
	cfg, _, err := cli.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	closeFn := func() {
		_ = database.Close(db)
	}
	return session.NewService(session.NewRepository(db)), closeFn, nil
}
