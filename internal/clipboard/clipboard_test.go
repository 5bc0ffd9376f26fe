package clipboard

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		command []string
		want    string
		wantErr error
	}{
		{"none", "none", nil, BackendNone, nil},
		{"command", "command", []string{"cat"}, "cat", nil},
		{"command case", "COMMAND", []string{"cat"}, "cat", nil},
		{"command empty", "command", nil, "", ErrUnavailable},
		{"unknown", "fax", nil, "", ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.backend, tt.command, time.Second)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if e.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", e.Name(), tt.want)
			}
		})
	}
}

func TestNewAuto(t *testing.T) {
	e, err := New("auto", []string{"definitely-not-a-real-copy-tool"}, time.Second)
	if err != nil {
		t.Fatalf("New(auto) error = %v", err)
	}
	// Either the platform clipboard or the None fallback; never the missing
	// command.
	if e.Name() != BackendSystem && e.Name() != BackendNone {
		t.Errorf("auto picked %q", e.Name())
	}
}

func TestNone(t *testing.T) {
	err := None{}.Copy(context.Background(), "hello")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Copy() error = %v, want ErrUnavailable", err)
	}
}

func TestSystem(t *testing.T) {
	var got string
	s := &System{write: func(text string) error {
		got = text
		return nil
	}}

	if err := s.Copy(context.Background(), "hello"); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("wrote %q, want hello", got)
	}

	boom := errors.New("no display")
	s.write = func(string) error { return boom }
	if err := s.Copy(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("Copy() error = %v, want wrapped %v", err, boom)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Copy(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Copy() with canceled ctx = %v", err)
	}
}

func TestCommandCopy(t *testing.T) {
	requireShell(t)

	out := filepath.Join(t.TempDir(), "clip.txt")
	c := NewCommand([]string{"sh", "-c", "cat > " + out}, time.Second)

	if err := c.Copy(context.Background(), "go gopher"); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "go gopher" {
		t.Errorf("clipboard content = %q", data)
	}
}

func TestCommandFailure(t *testing.T) {
	requireShell(t)

	c := NewCommand([]string{"sh", "-c", "echo denied >&2; exit 3"}, time.Second)
	err := c.Copy(context.Background(), "x")

	var ce *CommandError
	if !errors.As(err, &ce) {
		t.Fatalf("Copy() error = %v, want *CommandError", err)
	}
	if ce.Stderr != "denied" {
		t.Errorf("Stderr = %q, want denied", ce.Stderr)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Errorf("expected exit code 3, got %v", err)
	}
}

func TestCommandTimeout(t *testing.T) {
	requireShell(t)

	c := NewCommand([]string{"sh", "-c", "exec sleep 5"}, 50*time.Millisecond)
	err := c.Copy(context.Background(), "x")

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Copy() error = %v, want deadline exceeded", err)
	}
}

func TestNewCommandDefaults(t *testing.T) {
	argv := []string{"xclip", "-selection", "clipboard"}
	c := NewCommand(argv, 0)
	argv[0] = "changed"

	if c.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.timeout, DefaultTimeout)
	}
	if c.Name() != "xclip" {
		t.Errorf("Name() = %q, argv not copied", c.Name())
	}
}
