package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dshills/keytap/internal/config/notify"
)

func noEnv() []string { return nil }

// newTestConfig returns a Config isolated from the real user config
// directory and environment.
func newTestConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()
	base := []Option{
		WithUserConfigDir(t.TempDir()),
		WithEnviron(noEnv),
		WithWatcher(false),
	}
	c := New(append(base, opts...)...)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := newTestConfig(t)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"input.timeout", "1s"},
		{"input.digit_fallback", false},
		{"buffer.capacity", 4096},
		{"clipboard.backend", "auto"},
		{"logging.level", "info"},
		{"ui.beep", true},
	}

	for _, tt := range tests {
		got, ok := c.Get(tt.path)
		if !ok {
			t.Errorf("Get(%q) not found", tt.path)
			continue
		}
		if got != tt.want {
			t.Errorf("Get(%q) = %v, want %v", tt.path, got, tt.want)
		}
		if src := c.Source(tt.path); src != "defaults" {
			t.Errorf("Source(%q) = %q, want defaults", tt.path, src)
		}
	}

	if len(c.Files()) != 0 {
		t.Errorf("Files() = %v, want none", c.Files())
	}
}

func TestConfig_UserFileTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.toml"), `
[input]
timeout = "500ms"
uppercase = true

[buffer]
capacity = 16
`)

	c := newTestConfig(t, WithUserConfigDir(dir))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if d, err := c.GetDuration("input.timeout"); err != nil || d != 500*time.Millisecond {
		t.Errorf("GetDuration = %v, %v; want 500ms", d, err)
	}
	if n, err := c.GetInt("buffer.capacity"); err != nil || n != 16 {
		t.Errorf("GetInt = %d, %v; want 16", n, err)
	}
	if b, err := c.GetBool("input.uppercase"); err != nil || !b {
		t.Errorf("GetBool = %v, %v; want true", b, err)
	}
	// Untouched keys in the same section still come from defaults.
	if b, err := c.GetBool("input.digit_fallback"); err != nil || b {
		t.Errorf("digit_fallback = %v, %v; want false", b, err)
	}
	if src := c.Source("buffer.capacity"); src != "user" {
		t.Errorf("Source = %q, want user", src)
	}
}

func TestConfig_UserFileYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), `
clipboard:
  backend: command
  command: [pbcopy]
`)

	c := newTestConfig(t, WithUserConfigDir(dir))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cmd, err := c.GetStringSlice("clipboard.command")
	if err != nil {
		t.Fatalf("GetStringSlice error = %v", err)
	}
	if !reflect.DeepEqual(cmd, []string{"pbcopy"}) {
		t.Errorf("command = %v", cmd)
	}
}

func TestConfig_ExplicitFileOverridesUser(t *testing.T) {
	userDir := t.TempDir()
	writeFile(t, filepath.Join(userDir, "config.toml"), "[logging]\nlevel = \"warn\"\n")

	explicit := filepath.Join(t.TempDir(), "keytap.yaml")
	writeFile(t, explicit, "logging:\n  level: debug\n")

	c := newTestConfig(t, WithUserConfigDir(userDir), WithFile(explicit))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if lvl, _ := c.GetString("logging.level"); lvl != "debug" {
		t.Errorf("level = %q, want debug", lvl)
	}
	if files := c.Files(); len(files) != 2 {
		t.Errorf("Files() = %v, want 2 entries", files)
	}
}

func TestConfig_ExplicitFileMissing(t *testing.T) {
	c := newTestConfig(t, WithFile(filepath.Join(t.TempDir(), "nope.toml")))

	err := c.Load(context.Background())
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Load() error = %v, want ErrFileNotFound", err)
	}
}

func TestConfig_ParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.toml"), "[input\ntimeout = \n")

	c := newTestConfig(t, WithUserConfigDir(dir))
	err := c.Load(context.Background())

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if pe.Path != filepath.Join(dir, "config.toml") {
		t.Errorf("ParseError.Path = %q", pe.Path)
	}
}

func TestConfig_Environment(t *testing.T) {
	env := func() []string {
		return []string{
			"KEYTAP_TIMEOUT=250ms",
			"KEYTAP_CAPACITY=10",
			"KEYTAP_CLIPBOARD=none",
			"OTHER=1",
		}
	}

	c := newTestConfig(t, WithEnviron(env))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if d := c.Input().Timeout; d != 250*time.Millisecond {
		t.Errorf("Timeout = %v, want 250ms", d)
	}
	if n := c.Buffer().Capacity; n != 10 {
		t.Errorf("Capacity = %d, want 10", n)
	}
	if b := c.Clipboard().Backend; b != ClipboardNone {
		t.Errorf("Backend = %q, want none", b)
	}
	if src := c.Source("buffer.capacity"); src != "env" {
		t.Errorf("Source = %q, want env", src)
	}
}

func TestConfig_SetFlag(t *testing.T) {
	c := newTestConfig(t, WithEnviron(func() []string {
		return []string{"KEYTAP_TIMEOUT=3s"}
	}))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var got notify.Change
	c.SubscribePath("input", func(ch notify.Change) { got = ch })

	c.SetFlag("input.timeout", "2s")
	c.SetFlag("input.uppercase", true)

	if d := c.Input().Timeout; d != 2*time.Second {
		t.Errorf("flag should override env, got %v", d)
	}
	if !c.Input().Uppercase {
		t.Error("second flag lost the first")
	}
	if got.Type != notify.ChangeSet || got.Path != "input.uppercase" {
		t.Errorf("unexpected change %+v", got)
	}
}

func TestConfig_GetErrors(t *testing.T) {
	c := newTestConfig(t)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := c.GetString("no.such"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("missing path error = %v", err)
	}
	if _, err := c.GetInt("logging.level"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetInt on string error = %v", err)
	}

	c.SetFlag("input.timeout", "soon")
	if _, err := c.GetDuration("input.timeout"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("bad duration error = %v", err)
	}

	c.SetFlag("input.timeout", int64(2))
	if d, err := c.GetDuration("input.timeout"); err != nil || d != 2*time.Second {
		t.Errorf("integer seconds = %v, %v", d, err)
	}

	var te *TypeError
	_, err := c.GetBool("buffer.capacity")
	if !errors.As(err, &te) || te.Expected != "bool" || te.Actual != "int" {
		t.Errorf("TypeError = %+v", te)
	}
}

func TestConfig_LoadCanceled(t *testing.T) {
	c := newTestConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestConfig_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[ui]\nbeep = true\n")

	c := newTestConfig(t, WithUserConfigDir(dir))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	reloads := 0
	c.Subscribe(func(ch notify.Change) {
		if ch.Type == notify.ChangeReload {
			reloads++
		}
	})

	writeFile(t, path, "[ui]\nbeep = false\n")
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if c.UI().Beep {
		t.Error("Beep should be false after reload")
	}
	if reloads != 1 {
		t.Errorf("reloads = %d, want 1", reloads)
	}

	// A broken file keeps the previous values.
	writeFile(t, path, "[ui\n")
	if err := c.Reload(); err == nil {
		t.Error("Reload() of broken file should fail")
	}
	if c.UI().Beep {
		t.Error("previous values should stay in effect")
	}
}

func TestConfig_LiveReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[input]\ntimeout = \"1s\"\n")

	c := newTestConfig(t, WithUserConfigDir(dir), WithWatcher(true), WithDebounce(20*time.Millisecond))

	reloaded := make(chan struct{}, 4)
	c.Subscribe(func(ch notify.Change) {
		if ch.Type == notify.ChangeReload {
			reloaded <- struct{}{}
		}
	})

	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	writeFile(t, path, "[input]\ntimeout = \"3s\"\n")

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	if d := c.Input().Timeout; d != 3*time.Second {
		t.Errorf("Timeout after reload = %v, want 3s", d)
	}
}

func TestDefaultLogFile(t *testing.T) {
	got := DefaultLogFile()
	if filepath.Base(got) != "keytap.log" || filepath.Base(filepath.Dir(got)) != "keytap" {
		t.Errorf("DefaultLogFile() = %q", got)
	}
}
