package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dshills/keytap/internal/config/layer"
	"github.com/dshills/keytap/internal/config/loader"
	"github.com/dshills/keytap/internal/config/notify"
	"github.com/dshills/keytap/internal/config/watcher"
)

// Layer names.
const (
	layerDefaults = "defaults"
	layerUser     = "user"
	layerFile     = "file"
	layerEnv      = "env"
	layerArgs     = "args"
)

// userConfigNames are tried in order inside the user config directory.
var userConfigNames = []string{"config.toml", "config.yaml", "config.yml"}

// Config provides unified access to the keytap configuration system.
// It manages configuration loading, live reloading, and change notification.
type Config struct {
	mu sync.RWMutex

	layers   *layer.Manager
	watcher  *watcher.Watcher
	notifier *notify.Notifier

	userConfigDir string
	file          string
	environ       func() []string

	enableWatcher bool
	debounce      time.Duration

	// files maps each loaded config file to the layer it feeds.
	files map[string]fileLayer

	// configErrors stores errors encountered during configuration access.
	configErrors map[string]error
}

type fileLayer struct {
	name   string
	source layer.Source
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserConfigDir sets the user configuration directory.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) {
		c.userConfigDir = dir
	}
}

// WithFile names an explicit config file. Unlike the user file it must
// exist.
func WithFile(path string) Option {
	return func(c *Config) {
		c.file = path
	}
}

// WithEnviron replaces os.Environ as the environment source.
func WithEnviron(environ func() []string) Option {
	return func(c *Config) {
		c.environ = environ
	}
}

// WithWatcher enables file watching for live reload.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithDebounce sets how long a config file must be quiet before it is
// re-read.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.debounce = d
	}
}

// New creates a new Config instance with the given options.
// Only built-in defaults are available until Load is called.
func New(opts ...Option) *Config {
	c := &Config{
		layers:        layer.NewManager(),
		notifier:      notify.New(),
		enableWatcher: true,
		debounce:      100 * time.Millisecond,
		files:         make(map[string]fileLayer),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.userConfigDir == "" {
		c.userConfigDir = defaultUserConfigDir()
	}

	c.layers.AddLayer(layer.NewLayer(layerDefaults, layer.SourceBuiltin, defaultConfig()))
	return c
}

// Load loads configuration from all sources and starts the file watcher.
func (c *Config) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()

	if err := c.loadUserFile(); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.loadExplicitFile(); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.loadEnvironment(); err != nil {
		c.mu.Unlock()
		return err
	}

	var paths []string
	for path := range c.files {
		paths = append(paths, path)
	}
	enable := c.enableWatcher && c.watcher == nil && len(paths) > 0
	c.mu.Unlock()

	// Watcher callbacks take c.mu; start it outside the lock.
	if enable {
		return c.startWatcher(paths)
	}
	return nil
}

// Close shuts down the configuration system.
// Safe to call more than once.
func (c *Config) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	c.notifier.Close()
	if w != nil {
		return w.Close()
	}
	return nil
}

// Reload re-reads every loaded config file.
func (c *Config) Reload() error {
	c.mu.RLock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	c.mu.RUnlock()

	for _, path := range paths {
		if err := c.reloadFile(path); err != nil {
			return err
		}
	}
	return nil
}

// Files returns the config files that were loaded, sorted.
func (c *Config) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	files := make([]string, 0, len(c.files))
	for path := range c.files {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	v, _, ok := c.layers.Get(path)
	return v, ok
}

// Source returns the name of the layer that provides the value at path.
func (c *Config) Source(path string) string {
	return c.layers.WhichLayer(path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val != float64(int(val)) {
			return 0, &TypeError{Path: path, Expected: "int", Actual: "float64"}
		}
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration at the given path. Strings are parsed with
// time.ParseDuration; bare integers are seconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &ValueError{Path: path, Value: val, Message: "not a duration"}
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// GetStringSlice returns a string slice at the given path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}

	switch val := v.(type) {
	case []string:
		result := make([]string, len(val))
		copy(result, val)
		return result, nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// SetFlag sets a value in the command-line layer and notifies observers.
func (c *Config) SetFlag(path string, value any) {
	c.mu.Lock()
	var data map[string]any
	if old := c.layers.GetLayer(layerArgs); old != nil {
		data = layer.DeepMerge(nil, old.Data)
	}
	oldValue, _, _ := c.layers.Get(path)
	args := layer.NewLayer(layerArgs, layer.SourceArgs, data)
	layer.SetByPath(args.Data, path, value)
	c.layers.AddLayer(args)
	c.mu.Unlock()

	c.notifier.NotifySet(path, oldValue, value, layerArgs)
}

// Subscribe registers an observer for all configuration changes.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes at or below path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// loadUserFile loads the first config file found in the user config
// directory. A missing file is not an error.
func (c *Config) loadUserFile() error {
	for _, name := range userConfigNames {
		path := filepath.Join(c.userConfigDir, name)
		data, err := loadFile(path)
		if err != nil {
			return err
		}
		if data == nil {
			continue
		}
		c.addFileLayer(path, fileLayer{name: layerUser, source: layer.SourceUser}, data)
		return nil
	}
	return nil
}

// loadExplicitFile loads the --config file, which must exist.
func (c *Config) loadExplicitFile() error {
	if c.file == "" {
		return nil
	}
	path, err := filepath.Abs(c.file)
	if err != nil {
		return err
	}
	data, err := loadFile(path)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%w: %s", ErrFileNotFound, c.file)
	}
	c.addFileLayer(path, fileLayer{name: layerFile, source: layer.SourceFile}, data)
	return nil
}

func (c *Config) addFileLayer(path string, fl fileLayer, data map[string]any) {
	l := layer.NewLayer(fl.name, fl.source, data)
	l.Path = path
	c.layers.AddLayer(l)
	c.files[path] = fl
}

// loadEnvironment loads configuration from environment variables.
func (c *Config) loadEnvironment() error {
	envLoader := loader.NewEnvLoader(loader.DefaultEnvPrefix)
	if c.environ != nil {
		envLoader.SetEnviron(c.environ)
	}
	data, err := envLoader.Load()
	if err != nil {
		return err
	}

	if len(data) > 0 {
		c.layers.AddLayer(layer.NewLayer(layerEnv, layer.SourceEnv, data))
	}
	return nil
}

func (c *Config) startWatcher(paths []string) error {
	w, err := watcher.New(watcher.WithDebounce(c.debounce))
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}
	for _, path := range paths {
		if err := w.Watch(path); err != nil {
			_ = w.Close()
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}
	w.OnChange(c.handleFileChange)
	w.OnError(func(err error) { c.notifier.NotifyError("watcher", err) })

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()
	return nil
}

// handleFileChange handles file change events from the watcher.
func (c *Config) handleFileChange(event watcher.Event) {
	if event.Op == watcher.OpRemove {
		c.mu.Lock()
		fl, ok := c.files[event.Path]
		if ok {
			c.layers.RemoveLayer(fl.name)
		}
		c.mu.Unlock()
		if ok {
			c.notifier.NotifyReload(event.Path)
		}
		return
	}

	if err := c.reloadFile(event.Path); err != nil {
		c.notifier.NotifyError(event.Path, err)
	}
}

// reloadFile re-reads path into its layer and notifies observers. On a
// parse error the previous layer is kept.
func (c *Config) reloadFile(path string) error {
	c.mu.RLock()
	fl, ok := c.files[path]
	c.mu.RUnlock()
	if !ok {
		return nil
	}

	data, err := loadFile(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if data == nil {
		c.layers.RemoveLayer(fl.name)
	} else {
		c.addFileLayer(path, fl, data)
	}
	c.configErrors = nil
	c.mu.Unlock()

	c.notifier.NotifyReload(path)
	return nil
}

// loadFile reads a config file with the loader matching its extension.
// A missing file yields nil data.
func loadFile(path string) (map[string]any, error) {
	l, err := loader.ForPath(path)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

// defaultUserConfigDir returns the default user configuration directory.
func defaultUserConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "keytap")
}

// DefaultLogFile returns the default log file path inside the user cache
// directory.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "keytap", "keytap.log")
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"input": map[string]any{
			"timeout":        "1s",
			"digit_fallback": false,
			"uppercase":      false,
		},
		"buffer": map[string]any{
			"capacity": 4096,
		},
		"clipboard": map[string]any{
			"backend": "auto",
			"command": []string{"xclip", "-selection", "clipboard"},
			"timeout": "2s",
		},
		"logging": map[string]any{
			"level": "info",
			"file":  DefaultLogFile(),
		},
		"ui": map[string]any{
			"beep": true,
		},
	}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
