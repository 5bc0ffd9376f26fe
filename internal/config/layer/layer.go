// Package layer provides configuration layer management.
//
// Each configuration source (built-in defaults, config files, environment,
// command-line flags) is a layer. Higher priority layers override values
// from lower priority layers; nested maps are merged key by key.
package layer

// Layer represents a single configuration layer.
type Layer struct {
	// Name identifies the layer (e.g., "defaults", "user", "env").
	Name string

	// Priority determines merge order (higher overrides lower).
	Priority int

	// Source indicates where this layer was loaded from.
	Source Source

	// Path is the file path (if loaded from file).
	Path string

	// Data holds the configuration values as a nested map.
	Data map[string]any
}

// NewLayer creates a new layer with initial data. A nil data map is
// replaced with an empty one.
func NewLayer(name string, source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: DefaultPriority(source),
		Data:     data,
	}
}

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin represents built-in default configuration.
	SourceBuiltin Source = iota
	// SourceUser represents the config file in the user config directory.
	SourceUser
	// SourceFile represents a config file named with --config.
	SourceFile
	// SourceEnv represents environment variables.
	SourceEnv
	// SourceArgs represents command-line flags.
	SourceArgs
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceUser:
		return "user"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "env"
	case SourceArgs:
		return "args"
	default:
		return "unknown"
	}
}

// Standard priority levels for configuration layers.
const (
	PriorityBuiltin = 0
	PriorityUser    = 100
	PriorityFile    = 200
	PriorityEnv     = 500
	PriorityArgs    = 600
)

// DefaultPriority returns the default priority for a given source.
func DefaultPriority(source Source) int {
	switch source {
	case SourceUser:
		return PriorityUser
	case SourceFile:
		return PriorityFile
	case SourceEnv:
		return PriorityEnv
	case SourceArgs:
		return PriorityArgs
	default:
		return PriorityBuiltin
	}
}
