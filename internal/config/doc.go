// Package config provides the configuration system for keytap.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  5. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  4. Environment (KEYTAP_*)  │
//	├─────────────────────────────┤
//	│  3. --config file           │
//	├─────────────────────────────┤
//	│  2. User config file        │  ← <user config dir>/keytap/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Files may be TOML or YAML; the format follows the extension.
//
// # Sub-packages
//
//   - layer: layer management and deep merging
//   - loader: TOML, YAML and environment loaders
//   - watcher: fsnotify-based file watching for live reload
//   - notify: change notification for reload and flag changes
//
// # Basic Usage
//
//	cfg := config.New(config.WithFile(path))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	defer cfg.Close()
//
//	timeout := cfg.Input().Timeout
//
// # Live Reload
//
// Loaded files are watched. On change the file's layer is re-read and
// subscribers receive a notify.ChangeReload; if the file no longer parses
// the previous values stay in effect and a notify.ChangeError is sent.
package config
