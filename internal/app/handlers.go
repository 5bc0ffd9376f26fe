package app

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/dshills/keytap/internal/engine/buffer"
	"github.com/dshills/keytap/internal/input/key"
	"github.com/dshills/keytap/internal/keypad"
	"github.com/dshills/keytap/internal/renderer"
)

// Status line messages.
const (
	statusSpace      = "0 - Space"
	statusBackspace  = "Backspace"
	statusClear      = "c - Clear output"
	statusYank       = "y - Yank output string to clipboard"
	statusToggleCase = "# - Toggle case"
	statusInvalid    = "Invalid input."
	statusFull       = "Buffer full"
	statusLeft       = "Left"
	statusRight      = "Right"
)

// yankResult is posted by a clipboard export goroutine.
type yankResult struct {
	err      error
	bytes    int
	exporter string
}

// handleKey applies one key press to the session and redraws.
// Returns ErrQuit when the key asks the application to exit.
func (app *Application) handleKey(ev key.Event) error {
	start := StartTimer()
	defer func() {
		app.metrics.RecordKey(start.Elapsed())
	}()

	action := key.Classify(ev)
	app.logger.Debug("key %s -> %s", ev, action.Kind)

	// Only a digit keeps the cycle alive; everything else cancels the
	// pending deadline before it commits or resets.
	if action.Kind != key.ActionDigit {
		app.idle.Disarm()
	}

	switch action.Kind {
	case key.ActionDigit:
		app.pressDigit(action.Digit)

	case key.ActionLiteral:
		msg := string(action.Rune)
		if action.Rune == ' ' {
			msg = statusSpace
		}
		if err := app.session.InsertLiteral(action.Rune); err != nil {
			app.rejectInsert(err)
		} else {
			app.setStatus(msg, renderer.MessageInfo)
		}

	case key.ActionToggleCase:
		app.session.ToggleCase()
		app.setStatus(statusToggleCase, renderer.MessageInfo)

	case key.ActionBackspace:
		if err := app.session.Backspace(); err != nil && !errors.Is(err, buffer.ErrEmptyBuffer) {
			app.logger.Warn("backspace: %v", err)
		}
		app.setStatus(statusBackspace, renderer.MessageInfo)

	case key.ActionClear:
		app.session.Clear()
		app.setStatus(statusClear, renderer.MessageInfo)

	case key.ActionYank:
		app.session.Commit()
		app.yank(app.session.Text())
		app.setStatus(statusYank, renderer.MessageInfo)

	case key.ActionMoveLeft:
		app.session.MoveLeft()
		app.setStatus(statusLeft, renderer.MessageInfo)

	case key.ActionMoveRight:
		app.session.MoveRight()
		app.setStatus(statusRight, renderer.MessageInfo)

	case key.ActionQuit:
		app.session.Commit()
		return ErrQuit

	default:
		app.session.Commit()
		app.metrics.RecordInvalid()
		app.setStatus(statusInvalid, renderer.MessageError)
	}

	app.render()
	return nil
}

// pressDigit feeds a letter key through the session and arms the idle
// timer for the new preview.
func (app *Application) pressDigit(d keypad.Digit) {
	if _, err := app.session.PressDigit(d); err != nil {
		app.idle.Disarm()
		app.rejectInsert(err)
		return
	}
	app.idle.Arm(app.timeout)
	app.setStatus(string(rune(d)), renderer.MessageInfo)
}

// rejectInsert reports an insert that did not fit.
func (app *Application) rejectInsert(err error) {
	if !errors.Is(err, buffer.ErrCapacityExceeded) {
		app.logger.Error("insert: %v", err)
		app.setStatus(err.Error(), renderer.MessageError)
		return
	}
	app.metrics.RecordRejected()
	app.setStatus(statusFull, renderer.MessageError)
	if app.beep && app.backend != nil {
		app.backend.Beep()
	}
}

// yank exports text to the clipboard without blocking the loop. The result
// comes back through the event queue.
func (app *Application) yank(text string) {
	clip := app.clip
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()

		res := yankResult{bytes: len(text), exporter: clip.Name()}
		func() {
			defer func() {
				if r := recover(); r != nil {
					res.err = &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
				}
			}()
			if err := clip.Copy(app.ctx, text); err != nil {
				res.err = NewOperationError("yank", clip.Name(), err).
					WithContext(fmt.Sprintf("%d bytes", len(text)))
			}
		}()

		app.post(loopEvent{kind: eventYank, yank: res})
	}()
}

// String formats a yank result for logs.
func (r yankResult) String() string {
	if r.err != nil {
		return fmt.Sprintf("yank via %s failed: %v", r.exporter, r.err)
	}
	return fmt.Sprintf("yank via %s: %d bytes", r.exporter, r.bytes)
}
