// Package app provides the main application structure and coordination
// for keytap. It wires the editing session, idle timer, renderer, clipboard
// and configuration together and runs the event loop.
package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/keytap/internal/clipboard"
	"github.com/dshills/keytap/internal/config"
	"github.com/dshills/keytap/internal/config/notify"
	"github.com/dshills/keytap/internal/editor"
	"github.com/dshills/keytap/internal/renderer"
	"github.com/dshills/keytap/internal/renderer/backend"
	"github.com/dshills/keytap/internal/timer"
)

// Application is the central coordinator for all keytap components.
// It manages component lifecycles, wiring, and the main event loop.
//
// Session state is owned by the event loop goroutine. Other goroutines
// (backend polling, the idle timer, the config watcher, clipboard exports)
// only post values into the loop's queue.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	config    *config.Config
	logger    *Logger
	logFile   io.Closer
	metrics   *Metrics
	sessionID string

	// Editing
	session *editor.Session
	idle    *timer.Idle
	clip    clipboard.Exporter

	// Display
	renderer *renderer.Renderer
	backend  backend.Backend

	// Settings applied by the loop; reloadable.
	timeout time.Duration
	beep    bool

	// Last status line.
	status     string
	statusType renderer.MessageType

	// Loop input, in arrival order
	events chan loopEvent

	configSub *notify.Subscription

	// State
	ctx       context.Context
	cancel    context.CancelFunc
	running   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is an explicit configuration file. It must exist.
	ConfigPath string

	// UserConfigDir overrides the user configuration directory.
	UserConfigDir string

	// Overrides are applied as the command-line configuration layer,
	// keyed by setting path (e.g. "input.timeout").
	Overrides map[string]any

	// Environ replaces os.Environ for KEYTAP_* lookup.
	Environ func() []string

	// WatchConfig re-reads config files when they change.
	WatchConfig bool

	// Logger replaces the configured file logger.
	Logger *Logger

	// Clipboard replaces the configured clipboard exporter.
	Clipboard clipboard.Exporter
}

// New creates a new Application with the given options.
// Components are initialized in dependency order; on failure those
// already initialized are closed again.
func New(opts Options) (*Application, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		metrics: NewMetrics(),
		events:  make(chan loopEvent, 32),
		done:    make(chan struct{}),
	}

	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		cancel()
		return nil, err
	}

	return app, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Run starts the application main loop.
// Blocks until the user quits or Shutdown is called; both return nil.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()
	if b == nil {
		return &InitError{Component: "backend", Err: ErrNoBackend}
	}

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer func() {
		b.Shutdown()
		app.wg.Wait()
	}()

	app.renderer = renderer.New(b, renderer.DefaultOptions())
	app.logger.Info("started")

	app.wg.Add(1)
	go app.pollEvents(b)

	return app.eventLoop()
}

// Shutdown initiates graceful shutdown. Safe to call more than once and
// from any goroutine, including before Run.
func (app *Application) Shutdown() {
	app.closeOnce.Do(func() {
		close(app.done)
		app.cancel()
	})
}

// Close releases resources held outside the event loop: the idle timer,
// the config watcher and the log file. Call it after Run returns.
func (app *Application) Close() error {
	app.Shutdown()
	app.idle.Disarm()
	if app.configSub != nil {
		app.configSub.Unsubscribe()
		app.configSub = nil
	}

	var errs ErrorList
	errs.Add(app.config.Close())

	app.logger.Info("session ended: %s", app.metrics.Snapshot())

	if app.logFile != nil {
		errs.Add(app.logFile.Close())
		app.logFile = nil
	}
	return errs.AsError()
}

// Reload re-reads every configuration file. Accepted changes reach the
// event loop through the config subscription; a failed read is posted
// as a config error so it shows on the status line. Reload must not be
// called from the event loop.
func (app *Application) Reload() error {
	if err := app.config.Reload(); err != nil {
		app.logger.WithComponent("config").Warn("reload: %v", err)
		app.postChange(notify.Change{Type: notify.ChangeError, Source: "reload", Err: err})
		return err
	}
	return nil
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// Metrics returns the session counters.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// SessionID returns the id attached to every log line of this run.
func (app *Application) SessionID() string {
	return app.sessionID
}

// Logger returns the application's logger instance.
func (app *Application) Logger() *Logger {
	return app.logger
}
