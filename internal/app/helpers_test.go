package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/keytap/internal/input/key"
	"github.com/dshills/keytap/internal/renderer"
	"github.com/dshills/keytap/internal/renderer/backend"
)

// fakeClipboard records copied text.
type fakeClipboard struct {
	mu    sync.Mutex
	texts []string
	err   error
	panic any
}

func (f *fakeClipboard) Name() string { return "fake" }

func (f *fakeClipboard) Copy(_ context.Context, text string) error {
	if f.panic != nil {
		panic(f.panic)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeClipboard) copied() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func noEnv() []string { return nil }

// testOptions returns options isolated from the host: a temporary user
// config dir, no environment, no watcher and timeouts disabled.
func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		UserConfigDir: t.TempDir(),
		Environ:       noEnv,
		Logger:        NullLogger,
		Clipboard:     &fakeClipboard{},
		Overrides: map[string]any{
			"input.timeout": "0s",
		},
	}
}

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// attach gives app a renderer on a null backend without starting the loop,
// so handlers can be driven synchronously.
func attach(t *testing.T, app *Application) *backend.NullBackend {
	t.Helper()
	nb := backend.NewNullBackend(60, 6)
	app.backend = nb
	app.renderer = renderer.New(nb, renderer.DefaultOptions())
	return nb
}

// typeKeys sends each rune of keys through handleKey.
func typeKeys(t *testing.T, app *Application, keys string) {
	t.Helper()
	for _, r := range keys {
		if err := app.handleKey(key.NewRuneEvent(r, key.ModNone)); err != nil {
			t.Fatalf("key %q: %v", r, err)
		}
	}
}

func special(t *testing.T, app *Application, k key.Key) error {
	t.Helper()
	return app.handleKey(key.NewSpecialEvent(k, key.ModNone))
}

// waitCommit dispatches queued loop events until the pending preview
// commits.
func waitCommit(t *testing.T, app *Application) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for app.session.Composing() {
		select {
		case ev := <-app.events:
			if err := app.dispatch(ev); err != nil {
				t.Fatalf("dispatch: %v", err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for idle commit")
		}
	}
}

// nextEvent dispatches queued loop events until one of the given kind
// arrives, and returns it undispatched.
func nextEvent(t *testing.T, app *Application, kind loopEventKind) loopEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-app.events:
			if ev.kind == kind {
				return ev
			}
			if err := app.dispatch(ev); err != nil {
				t.Fatalf("dispatch: %v", err)
			}
		case <-deadline:
			t.Fatalf("timed out waiting for loop event %d", kind)
			return loopEvent{}
		}
	}
}

func waitYank(t *testing.T, app *Application) yankResult {
	t.Helper()
	res := nextEvent(t, app, eventYank).yank
	app.handleYank(res)
	return res
}

func row(nb *backend.NullBackend, y int) string {
	return strings.TrimRight(nb.Row(y), " ")
}
