package secrets

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Anvoria/dashboard/internal/security"
)

// Command implements secret helpers (generate, hash-password)
type Command struct {
	// In is read by hash-password when no -password flag is given. Defaults to stdin.
	In io.Reader
	// Out receives command output. Defaults to stdout.
	Out io.Writer
}

func (c *Command) Name() string {
	return "secrets"
}

func (c *Command) Description() string {
	return "Generate secrets and password hashes (generate, hash-password)"
}

func (c *Command) Run(args []string) error {
	if len(args) < 1 {
		c.printUsage()
		return fmt.Errorf("subcommand required")
	}

	subcmd := args[0]
	switch subcmd {
	case "generate":
		return c.runGenerate(args[1:])
	case "hash-password":
		return c.runHashPassword(args[1:])
	default:
		c.printUsage()
		return fmt.Errorf("unknown subcommand: %s", subcmd)
	}
}

func (c *Command) printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: dashboard-cli secrets <subcommand> [args]\n\n")
	fmt.Fprintf(os.Stderr, "Subcommands:\n")
	fmt.Fprintf(os.Stderr, "  generate              Print a random value for AUTOMATION_SECRET\n")
	fmt.Fprintf(os.Stderr, "  hash-password         Print an argon2id hash for DASHBOARD_PASSWORD_HASH\n")
	fmt.Fprintf(os.Stderr, "    -password <value>   Password to hash (default: first line of stdin)\n")
}

func (c *Command) runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	secret, err := security.GenerateToken()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out(), secret)
	return nil
}

func (c *Command) runHashPassword(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)
	password := fs.String("password", "", "Password to hash")
	if err := fs.Parse(args); err != nil {
		return err
	}

	value := *password
	if value == "" {
		line, err := c.readLine()
		if err != nil {
			return err
		}
		value = line
	}
	if value == "" {
		return fmt.Errorf("password is required")
	}

	hash, err := security.HashPassword(value)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	fmt.Fprintln(c.out(), hash)
	return nil
}

func (c *Command) readLine() (string, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Command) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}
