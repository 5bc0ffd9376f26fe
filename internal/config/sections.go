package config

import (
	"errors"
	"strings"
	"time"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.SetFlag()
// to override a value.

// Clipboard backend names.
const (
	ClipboardAuto    = "auto"
	ClipboardSystem  = "system"
	ClipboardCommand = "command"
	ClipboardNone    = "none"
)

// InputConfig provides type-safe access to input settings.
type InputConfig struct {
	// Timeout is how long a pending cycle waits before committing.
	// Zero disables the timeout.
	Timeout time.Duration

	// DigitFallback appends the literal digit to every key's cycle.
	DigitFallback bool

	// Uppercase starts in capital letters.
	Uppercase bool
}

// BufferConfig provides type-safe access to buffer settings.
type BufferConfig struct {
	// Capacity is the maximum number of characters. Applied at startup.
	Capacity int
}

// ClipboardConfig provides type-safe access to clipboard settings.
type ClipboardConfig struct {
	// Backend is one of "auto", "system", "command" or "none".
	Backend string

	// Command is the argv of the external copy command; text is written
	// to its stdin.
	Command []string

	// Timeout bounds the external copy command.
	Timeout time.Duration
}

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is the logging verbosity level ("debug", "info", "warn", "error").
	Level string

	// File is the log file path. Empty disables logging.
	File string
}

// UIConfig provides type-safe access to UI settings.
type UIConfig struct {
	// Beep rings the terminal bell when an insert is rejected.
	Beep bool
}

// Input returns the input configuration section.
func (c *Config) Input() InputConfig {
	return InputConfig{
		Timeout:       c.getDurationOr("input.timeout", time.Second),
		DigitFallback: c.getBoolOr("input.digit_fallback", false),
		Uppercase:     c.getBoolOr("input.uppercase", false),
	}
}

// Buffer returns the buffer configuration section.
func (c *Config) Buffer() BufferConfig {
	return BufferConfig{
		Capacity: c.getIntOr("buffer.capacity", 4096),
	}
}

// Clipboard returns the clipboard configuration section.
func (c *Config) Clipboard() ClipboardConfig {
	return ClipboardConfig{
		Backend: strings.ToLower(c.getStringOr("clipboard.backend", ClipboardAuto)),
		Command: c.getStringSliceOr("clipboard.command", []string{"xclip", "-selection", "clipboard"}),
		Timeout: c.getDurationOr("clipboard.timeout", 2*time.Second),
	}
}

// Logging returns the logging configuration section.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: strings.ToLower(c.getStringOr("logging.level", "info")),
		File:  c.getStringOr("logging.file", ""),
	}
}

// UI returns the UI configuration section.
func (c *Config) UI() UIConfig {
	return UIConfig{
		Beep: c.getBoolOr("ui.beep", true),
	}
}

// Validate checks every known setting and returns all problems joined.
// Type errors recorded by earlier accessor calls are included.
func (c *Config) Validate() error {
	var errs []error

	in := c.Input()
	if in.Timeout < 0 {
		errs = append(errs, &ValueError{Path: "input.timeout", Value: in.Timeout, Message: "must not be negative"})
	}

	if buf := c.Buffer(); buf.Capacity <= 0 {
		errs = append(errs, &ValueError{Path: "buffer.capacity", Value: buf.Capacity, Message: "must be positive"})
	}

	cb := c.Clipboard()
	switch cb.Backend {
	case ClipboardAuto, ClipboardSystem, ClipboardNone:
	case ClipboardCommand:
		if len(cb.Command) == 0 {
			errs = append(errs, &ValueError{Path: "clipboard.command", Value: cb.Command, Message: "required for the command backend"})
		}
	default:
		errs = append(errs, &ValueError{Path: "clipboard.backend", Value: cb.Backend, Message: "must be auto, system, command or none"})
	}
	if cb.Timeout <= 0 {
		errs = append(errs, &ValueError{Path: "clipboard.timeout", Value: cb.Timeout, Message: "must be positive"})
	}

	switch lvl := c.Logging().Level; lvl {
	case "debug", "info", "warn", "error", "off":
	default:
		errs = append(errs, &ValueError{Path: "logging.level", Value: lvl, Message: "unknown level"})
	}

	c.UI()

	for _, err := range c.ConfigErrors() {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Helper methods for getting values with defaults.
// These methods only return the default for ErrSettingNotFound.
// Other errors are recorded for ConfigErrors and the default is returned.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getStringSliceOr(path string, defaultValue []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		result := make([]string, len(defaultValue))
		copy(result, defaultValue)
		return result
	}
	return v
}

// recordConfigError stores configuration errors for later retrieval.
// Only the first error for each path is recorded to preserve the original cause.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns any configuration errors encountered during access.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}
