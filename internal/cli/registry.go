package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnknownCommand is returned by Run for a name nothing was registered under.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a top-level dashboard-cli command
type Command interface {
	Name() string
	Description() string
	Run(args []string) error
}

// Registry dispatches arguments to registered commands
type Registry struct {
	commands map[string]Command
	order    []string
	out      io.Writer
}

// NewRegistry creates an empty Registry printing usage to stderr
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		out:      os.Stderr,
	}
}

// Register adds cmd. A later command with the same name replaces the earlier one.
func (r *Registry) Register(cmd Command) {
	if _, exists := r.commands[cmd.Name()]; !exists {
		r.order = append(r.order, cmd.Name())
	}
	r.commands[cmd.Name()] = cmd
}

// Run executes the command named by args[0] with the remaining arguments.
func (r *Registry) Run(args []string) error {
	if len(args) < 1 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		r.printUsage()
		if len(args) < 1 {
			return fmt.Errorf("command required")
		}
		return nil
	}

	cmd, ok := r.commands[args[0]]
	if !ok {
		r.printUsage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return cmd.Run(args[1:])
}

func (r *Registry) printUsage() {
	fmt.Fprintf(r.out, "Usage: dashboard-cli <command> <subcommand> [args]\n\n")
	fmt.Fprintf(r.out, "Commands:\n")
	for _, name := range r.order {
		fmt.Fprintf(r.out, "  %-10s %s\n", name, r.commands[name].Description())
	}
}
