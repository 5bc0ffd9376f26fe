package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/keytap/internal/config/notify"
	"github.com/dshills/keytap/internal/renderer"
	"github.com/dshills/keytap/internal/renderer/backend"
	"github.com/dshills/keytap/internal/timer"
)

// loopEventKind identifies the payload of a loopEvent.
type loopEventKind uint8

const (
	eventInput loopEventKind = iota
	eventFire
	eventChange
	eventYank
)

// loopEvent is a single entry in the event loop's queue. Keystrokes,
// timer fires, config changes and clipboard results share one channel
// so the loop handles them in the order they were posted.
type loopEvent struct {
	kind   loopEventKind
	input  backend.Event
	fire   timer.Fire
	change notify.Change
	yank   yankResult
}

// post queues ev for the event loop. It returns false once the
// application is shutting down.
func (app *Application) post(ev loopEvent) bool {
	select {
	case app.events <- ev:
		return true
	case <-app.done:
		return false
	}
}

// pollEvents forwards backend events to the event loop until the backend
// closes or the application shuts down.
func (app *Application) pollEvents(b backend.Backend) {
	defer app.wg.Done()

	for {
		ev := b.PollEvent()
		switch ev.Type {
		case backend.EventClosed:
			return
		case backend.EventNone:
			continue
		}

		if !app.post(loopEvent{kind: eventInput, input: ev}) {
			return
		}
	}
}

// eventLoop is the only goroutine that touches the session.
func (app *Application) eventLoop() error {
	app.render()

	for {
		select {
		case <-app.done:
			app.logger.Info("shutdown requested")
			return nil

		case ev := <-app.events:
			if err := app.dispatch(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					app.logger.Info("quit")
					app.Shutdown()
					return nil
				}
				return err
			}
		}
	}
}

// dispatch hands a queued event to its handler.
func (app *Application) dispatch(ev loopEvent) error {
	switch ev.kind {
	case eventInput:
		return app.handleEvent(ev.input)
	case eventFire:
		app.handleFire(ev.fire)
	case eventChange:
		app.applyConfig(ev.change)
	case eventYank:
		app.handleYank(ev.yank)
	}
	return nil
}

// handleEvent dispatches a single backend event.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKey(ev.Key)
	case backend.EventResize:
		app.renderer.Resize(ev.Width, ev.Height)
		app.render()
	}
	return nil
}

// handleFire commits the pending preview when the idle timer elapses.
// Fires that lost a race with a keystroke are dropped.
func (app *Application) handleFire(f timer.Fire) {
	if !app.idle.Current(f) {
		app.logger.Debug("stale fire %d dropped", f.Generation)
		return
	}
	if app.session.Commit() {
		app.metrics.RecordTimeout()
		app.render()
	}
}

// applyConfig applies reloadable settings after a configuration change.
func (app *Application) applyConfig(ch notify.Change) {
	log := app.logger.WithComponent("config")

	if ch.Type == notify.ChangeError {
		log.Warn("reload %s: %v", ch.Source, ch.Err)
		app.setStatus("Config error: "+ch.Err.Error(), renderer.MessageError)
		app.render()
		return
	}

	if err := app.config.Validate(); err != nil {
		log.Warn("rejected %s: %v", ch.Source, err)
		app.setStatus("Config error: "+firstLine(err), renderer.MessageError)
		app.render()
		return
	}

	in := app.config.Input()
	if in.Timeout != app.timeout {
		log.Info("input.timeout %s -> %s", app.timeout, in.Timeout)
		app.timeout = in.Timeout
	}
	if in.DigitFallback != app.session.DigitFallback() {
		log.Info("input.digit_fallback -> %v", in.DigitFallback)
		app.idle.Disarm()
		app.session.SetDigitFallback(in.DigitFallback)
	}
	app.beep = app.config.UI().Beep
	if level := ParseLogLevel(app.config.Logging().Level); level != app.logger.Level() {
		log.Info("logging.level -> %s", level)
		app.logger.SetLevel(level)
	}

	app.metrics.RecordReload()
	log.WithField("source", ch.Source).Debug("applied %s", ch.Type)
	app.render()
}

// handleYank reports the result of a clipboard export.
func (app *Application) handleYank(res yankResult) {
	app.metrics.RecordYank(res.err)
	log := app.logger.WithComponent("clipboard")
	if res.err == nil {
		log.Debug("%s", res)
		return
	}

	log.Error("%s", res)
	var pe *RecoveredPanicError
	if errors.As(res.err, &pe) {
		app.setStatus(fmt.Sprintf("Yank failed: %v", pe.Value), renderer.MessageError)
	} else {
		app.setStatus(res.err.Error(), renderer.MessageError)
	}
	app.render()
}

// firstLine returns the first line of a possibly joined error.
func firstLine(err error) string {
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}

// setStatus replaces the status line message.
func (app *Application) setStatus(msg string, t renderer.MessageType) {
	app.status = msg
	app.statusType = t
}

// render draws the current session state.
func (app *Application) render() {
	if app.renderer == nil {
		return
	}
	start := StartTimer()
	app.renderer.Render(renderer.Frame{
		View:       app.session.Snapshot(),
		Status:     app.status,
		StatusType: app.statusType,
	})
	app.metrics.RecordRender(start.Elapsed())
}
