// Package main is the entry point for keytap, a multi-tap keypad text
// entry tool for the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/dshills/keytap/internal/app"
	"github.com/dshills/keytap/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, ok := parseFlags()
	if !ok {
		return 1
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: keytap needs an interactive terminal")
		return 1
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	screen, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(screen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		<-signals
		application.Shutdown()
	}()

	// SIGHUP re-reads the config files
	hangups := make(chan os.Signal, 1)
	signal.Notify(hangups, syscall.SIGHUP)
	defer signal.Stop(hangups)

	go func() {
		for range hangups {
			_ = application.Reload()
		}
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// parseFlags builds application options from the command line. Only flags
// given explicitly become overrides, so unset flags leave the config files
// and environment in charge.
func parseFlags() (app.Options, bool) {
	opts := app.Options{WatchConfig: true}

	var (
		showVersion   bool
		noWatch       bool
		logLevel      string
		timeout       time.Duration
		capacity      int
		uppercase     bool
		digitFallback bool
		clipboard     string
	)

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error, off)")
	flag.DurationVar(&timeout, "timeout", time.Second, "Idle time before a pending letter is committed (0 disables)")
	flag.IntVar(&capacity, "capacity", 4096, "Maximum number of characters in the buffer")
	flag.BoolVar(&uppercase, "uppercase", false, "Start in capital letters")
	flag.BoolVar(&digitFallback, "digit-fallback", false, "Cycle through the key's digit after its letters")
	flag.StringVar(&clipboard, "clipboard", "auto", "Clipboard backend (auto, system, command, none)")
	flag.BoolVar(&noWatch, "no-watch", false, "Do not reload configuration files when they change")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keytap - multi-tap keypad text entry\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keytap [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  2-9        letters (press repeatedly to cycle)\n")
		fmt.Fprintf(os.Stderr, "  0 / 1      space / digit 1\n")
		fmt.Fprintf(os.Stderr, "  #          toggle case\n")
		fmt.Fprintf(os.Stderr, "  Backspace  delete\n")
		fmt.Fprintf(os.Stderr, "  Left/Right move cursor\n")
		fmt.Fprintf(os.Stderr, "  c          clear\n")
		fmt.Fprintf(os.Stderr, "  y          copy text to clipboard\n")
		fmt.Fprintf(os.Stderr, "  q, Esc     quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("keytap %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %s\n", strings.Join(flag.Args(), " "))
		flag.Usage()
		return opts, false
	}

	switch strings.ToLower(logLevel) {
	case "debug", "info", "warn", "error", "off":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, error or off)\n", logLevel)
		return opts, false
	}

	overrides := make(map[string]any)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			overrides["logging.level"] = logLevel
		case "timeout":
			overrides["input.timeout"] = timeout.String()
		case "capacity":
			overrides["buffer.capacity"] = capacity
		case "uppercase":
			overrides["input.uppercase"] = uppercase
		case "digit-fallback":
			overrides["input.digit_fallback"] = digitFallback
		case "clipboard":
			overrides["clipboard.backend"] = clipboard
		}
	})
	opts.Overrides = overrides
	opts.WatchConfig = !noWatch

	return opts, true
}
