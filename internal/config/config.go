// Package config loads historian configuration from TOML files and
// supports live reload via a polling watcher.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultMaxHistorySize = 50
	DefaultScriptTimeout  = 5 * time.Second
)

// Duration decodes TOML duration strings like "5s" or "250ms".
// go-toml does not unmarshal into time.Duration directly, and a bare
// integer would silently mean nanoseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration.
type Config struct {
	History HistoryConfig `toml:"history"`
	UI      UIConfig      `toml:"ui"`
	Script  ScriptConfig  `toml:"script"`
}

// HistoryConfig configures the history engine.
type HistoryConfig struct {
	// MaxSize caps the timeline length.
	MaxSize int `toml:"max_size"`
}

// UIConfig configures the demo UI.
type UIConfig struct {
	// ShowTimestamps toggles timestamps in the history pane.
	ShowTimestamps bool `toml:"show_timestamps"`
}

// ScriptConfig configures Lua action loading.
type ScriptConfig struct {
	// Dir is searched for Lua action files given by bare name.
	Dir string `toml:"dir"`

	// Timeout bounds a single Lua execute/undo call.
	Timeout Duration `toml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{MaxSize: DefaultMaxHistorySize},
		UI:      UIConfig{ShowTimestamps: true},
		Script:  ScriptConfig{Timeout: Duration(DefaultScriptTimeout)},
	}
}

// Load reads TOML configuration from path, layered over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize clamps nonsensical values back to defaults.
func (c *Config) normalize() {
	if c.History.MaxSize <= 0 {
		c.History.MaxSize = DefaultMaxHistorySize
	}
	if c.Script.Timeout <= 0 {
		c.Script.Timeout = Duration(DefaultScriptTimeout)
	}
}
