package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newTestWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestConvertOp(t *testing.T) {
	tests := []struct {
		in   fsnotify.Op
		want Operation
		ok   bool
	}{
		{fsnotify.Write, OpWrite, true},
		{fsnotify.Create, OpCreate, true},
		{fsnotify.Remove, OpRemove, true},
		{fsnotify.Rename, OpRemove, true},
		{fsnotify.Create | fsnotify.Write, OpCreate, true},
		{fsnotify.Chmod, 0, false},
	}

	for _, tt := range tests {
		got, ok := convertOp(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("convertOp(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWatcher_WatchSharesDirectory(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	toml := filepath.Join(dir, "config.toml")
	yaml := filepath.Join(dir, "config.yaml")

	for _, path := range []string{toml, toml, yaml} {
		if err := w.Watch(path); err != nil {
			t.Fatalf("Watch(%s) error = %v", path, err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.files) != 2 {
		t.Errorf("watched files = %v, want 2", w.files)
	}
	if len(w.dirs) != 1 {
		t.Errorf("watched dirs = %v, want 1", w.dirs)
	}
}

func TestWatcher_WatchMissingDir(t *testing.T) {
	w := newTestWatcher(t)

	if err := w.Watch(filepath.Join(t.TempDir(), "missing", "config.toml")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWatcher_Closed(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "x.toml")); err != ErrWatcherClosed {
		t.Errorf("Watch after Close = %v, want ErrWatcherClosed", err)
	}
}

func TestWatcher_DetectsWrite(t *testing.T) {
	w := newTestWatcher(t, WithDebounce(20*time.Millisecond))
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	events := make(chan Event, 10)
	w.OnChange(func(e Event) { events <- e })
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch error = %v", err)
	}

	// Unrelated files in the same directory are filtered out.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("a = 2\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case e := <-events:
		if e.Path != path {
			t.Errorf("event path = %q, want %q", e.Path, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	// The burst is coalesced into one event.
	select {
	case e := <-events:
		t.Errorf("unexpected second event %+v", e)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_HandlerPanicRecovered(t *testing.T) {
	w := newTestWatcher(t, WithDebounce(0))

	got := make(chan Event, 1)
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(func(e Event) { got <- e })

	w.emitEvent(Event{Path: "/x", Op: OpWrite})

	select {
	case e := <-got:
		if e.Path != "/x" {
			t.Errorf("unexpected event %+v", e)
		}
	default:
		t.Fatal("second handler should still run")
	}
}

func TestWatcher_Coalesce(t *testing.T) {
	w := newTestWatcher(t, WithDebounce(time.Hour))

	w.queueEvent(Event{Path: "/c", Op: OpRemove})
	w.queueEvent(Event{Path: "/c", Op: OpCreate})
	w.queueEvent(Event{Path: "/c", Op: OpWrite})

	w.mu.Lock()
	op := w.pending["/c"].event.Op
	w.mu.Unlock()
	if op != OpCreate {
		t.Errorf("remove+create+write = %v, want create", op)
	}

	w.queueEvent(Event{Path: "/c", Op: OpRemove})
	w.mu.Lock()
	op = w.pending["/c"].event.Op
	w.mu.Unlock()
	if op != OpRemove {
		t.Errorf("then remove = %v, want remove", op)
	}
}
