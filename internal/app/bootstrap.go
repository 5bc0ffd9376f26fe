package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/dshills/keytap/internal/clipboard"
	"github.com/dshills/keytap/internal/config"
	"github.com/dshills/keytap/internal/config/notify"
	"github.com/dshills/keytap/internal/editor"
	"github.com/dshills/keytap/internal/keypad"
	"github.com/dshills/keytap/internal/timer"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 4),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initSession,
		b.initClipboard,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}

	// Reload notifications start only once every component exists.
	b.app.configSub = b.app.config.Subscribe(b.app.postChange)
	return nil
}

// initConfig loads and validates the layered configuration.
func (b *bootstrapper) initConfig() error {
	configOpts := []config.Option{
		config.WithWatcher(b.opts.WatchConfig),
	}
	if b.opts.ConfigPath != "" {
		configOpts = append(configOpts, config.WithFile(b.opts.ConfigPath))
	}
	if b.opts.UserConfigDir != "" {
		configOpts = append(configOpts, config.WithUserConfigDir(b.opts.UserConfigDir))
	}
	if b.opts.Environ != nil {
		configOpts = append(configOpts, config.WithEnviron(b.opts.Environ))
	}

	cfg := config.New(configOpts...)
	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")

	if err := cfg.Load(context.Background()); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	for path, value := range b.opts.Overrides {
		cfg.SetFlag(path, value)
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	return nil
}

// initLogger opens the log file and tags the logger with a session id.
func (b *bootstrapper) initLogger() error {
	b.app.sessionID = uuid.NewString()

	logger := b.opts.Logger
	if logger == nil {
		lc := b.app.config.Logging()
		level := ParseLogLevel(lc.Level)

		if level == LogLevelOff || lc.File == "" {
			logger = NullLogger
		} else {
			f, err := OpenLogFile(lc.File)
			if err != nil {
				return &InitError{Component: "logger", Err: err}
			}
			b.app.logFile = f
			lcfg := DefaultLoggerConfig()
			lcfg.Level = level
			lcfg.Output = f
			logger = NewLogger(lcfg)
		}
	}

	b.app.logger = logger.WithField("session", b.app.sessionID)
	b.initOrder = append(b.initOrder, "logger")

	for _, path := range b.app.config.Files() {
		b.app.logger.WithComponent("config").Info("loaded %s", path)
	}
	return nil
}

// initSession creates the editing session and its idle timer.
func (b *bootstrapper) initSession() error {
	cfg := b.app.config
	in := cfg.Input()

	caseMode := keypad.Lower
	if in.Uppercase {
		caseMode = keypad.Upper
	}

	b.app.session = editor.NewSession(editor.Options{
		Capacity:      cfg.Buffer().Capacity,
		Case:          caseMode,
		DigitFallback: in.DigitFallback,
	})
	b.app.timeout = in.Timeout
	b.app.beep = cfg.UI().Beep
	b.app.idle = timer.NewIdle(b.app.postFire)

	b.app.logger.WithComponent("session").Debug("capacity=%d timeout=%s fallback=%v",
		cfg.Buffer().Capacity, in.Timeout, in.DigitFallback)
	b.initOrder = append(b.initOrder, "session")
	return nil
}

// initClipboard picks the clipboard exporter. An unusable backend is not
// fatal: yank then reports the clipboard as unavailable.
func (b *bootstrapper) initClipboard() error {
	if b.opts.Clipboard != nil {
		b.app.clip = b.opts.Clipboard
		return nil
	}

	cb := b.app.config.Clipboard()
	exp, err := clipboard.New(cb.Backend, cb.Command, cb.Timeout)
	if err != nil {
		b.app.logger.WithComponent("clipboard").Warn("backend %q: %v", cb.Backend, err)
		exp = clipboard.None{}
	}
	b.app.clip = exp
	b.app.logger.WithComponent("clipboard").Debug("using %s", exp.Name())
	return nil
}

// cleanup closes initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component by name.
func (b *bootstrapper) cleanupComponent(name string) {
	switch name {
	case "session":
		if b.app.idle != nil {
			b.app.idle.Disarm()
		}
	case "logger":
		if b.app.logFile != nil {
			_ = b.app.logFile.Close()
			b.app.logFile = nil
		}
	case "config":
		if b.app.config != nil {
			_ = b.app.config.Close()
		}
	}
}

// postFire delivers idle timer fires to the event loop.
func (app *Application) postFire(f timer.Fire) {
	app.post(loopEvent{kind: eventFire, fire: f})
}

// postChange delivers configuration changes to the event loop.
func (app *Application) postChange(ch notify.Change) {
	app.post(loopEvent{kind: eventChange, change: ch})
}
