// Package clipboard exports buffer text to the system clipboard.
//
// Three exporters are available: System uses the platform clipboard via
// github.com/atotto/clipboard, Command pipes the text to an external
// program, and None always fails with ErrUnavailable.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

// Backend names accepted by New.
const (
	BackendAuto    = "auto"
	BackendSystem  = "system"
	BackendCommand = "command"
	BackendNone    = "none"
)

// DefaultTimeout bounds an external copy command.
const DefaultTimeout = 2 * time.Second

var (
	// ErrUnavailable is returned when no clipboard can be reached.
	ErrUnavailable = errors.New("clipboard unavailable")

	// ErrUnknownBackend is returned by New for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown clipboard backend")
)

// Exporter copies text to a clipboard.
type Exporter interface {
	// Copy places text on the clipboard.
	Copy(ctx context.Context, text string) error

	// Name identifies the exporter in logs and status messages.
	Name() string
}

// New returns the exporter for backend.
//
// "auto" picks System when the platform clipboard is supported, then
// Command when its program is on PATH, and None otherwise.
func New(backend string, command []string, timeout time.Duration) (Exporter, error) {
	switch strings.ToLower(backend) {
	case BackendAuto, "":
		if !clipboard.Unsupported {
			return NewSystem(), nil
		}
		if len(command) > 0 {
			if _, err := exec.LookPath(command[0]); err == nil {
				return NewCommand(command, timeout), nil
			}
		}
		return None{}, nil
	case BackendSystem:
		if clipboard.Unsupported {
			return nil, fmt.Errorf("%w: no system clipboard utility found", ErrUnavailable)
		}
		return NewSystem(), nil
	case BackendCommand:
		if len(command) == 0 {
			return nil, fmt.Errorf("%w: empty command", ErrUnavailable)
		}
		return NewCommand(command, timeout), nil
	case BackendNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// System copies through the platform clipboard.
type System struct {
	write func(string) error
}

// NewSystem creates a System exporter.
func NewSystem() *System {
	return &System{write: clipboard.WriteAll}
}

// Name returns "system".
func (s *System) Name() string { return BackendSystem }

// Copy places text on the system clipboard.
func (s *System) Copy(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.write(text); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	return nil
}

// Command copies by writing text to the stdin of an external program.
type Command struct {
	argv    []string
	timeout time.Duration
}

// NewCommand creates a Command exporter. A non-positive timeout uses
// DefaultTimeout.
func NewCommand(argv []string, timeout time.Duration) *Command {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	args := make([]string, len(argv))
	copy(args, argv)
	return &Command{argv: args, timeout: timeout}
}

// Name returns the program name.
func (c *Command) Name() string {
	if len(c.argv) == 0 {
		return BackendCommand
	}
	return c.argv[0]
}

// Copy runs the command with text on stdin.
func (c *Command) Copy(ctx context.Context, text string) error {
	if len(c.argv) == 0 {
		return fmt.Errorf("%w: empty command", ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stderr = &stderr
	cmd.WaitDelay = c.timeout

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &CommandError{
			Command: strings.Join(c.argv, " "),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return nil
}

// CommandError reports a failed external copy command.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("clipboard command %q: %v: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("clipboard command %q: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// None is an exporter for systems without a clipboard.
type None struct{}

// Name returns "none".
func (None) Name() string { return BackendNone }

// Copy always returns ErrUnavailable.
func (None) Copy(context.Context, string) error {
	return ErrUnavailable
}
