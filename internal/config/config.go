package config

import (
	"fmt"
	"time"

	"github.com/dshills/linemark/internal/config/loader"
	"github.com/dshills/linemark/internal/logging"
)

// Config is the complete linemark configuration.
type Config struct {
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	Authors AuthorsConfig `toml:"authors" yaml:"authors"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	View    ViewConfig    `toml:"view" yaml:"view"`
}

// EngineConfig tunes burst detection and the deferred tasks.
type EngineConfig struct {
	// BurstWindow is how long single-line edits stay correlatable.
	BurstWindow Duration `toml:"burst_window" yaml:"burst_window"`

	// ConsolidateDelay defers range consolidation after an edit.
	// Zero consolidates synchronously.
	ConsolidateDelay Duration `toml:"consolidate_delay" yaml:"consolidate_delay"`

	// ReanchorDelay defers re-anchoring after the document changed.
	// Zero re-anchors synchronously.
	ReanchorDelay Duration `toml:"reanchor_delay" yaml:"reanchor_delay"`
}

// AuthorsConfig names the two sides' authors and their gutter colors.
type AuthorsConfig struct {
	A      string `toml:"a" yaml:"a"`
	B      string `toml:"b" yaml:"b"`
	ColorA string `toml:"color_a" yaml:"color_a"`
	ColorB string `toml:"color_b" yaml:"color_b"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Output string `toml:"output" yaml:"output"`
}

// ViewConfig configures the terminal view.
type ViewConfig struct {
	// Enabled draws both sides after the scenario ran.
	Enabled bool `toml:"enabled" yaml:"enabled"`

	// ShowPending draws pending blocks next to local ranges.
	ShowPending bool `toml:"show_pending" yaml:"show_pending"`

	// Text is the document both sides start from.
	Text string `toml:"text" yaml:"text"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			BurstWindow:      Duration(500 * time.Millisecond),
			ConsolidateDelay: Duration(50 * time.Millisecond),
			ReanchorDelay:    Duration(100 * time.Millisecond),
		},
		Authors: AuthorsConfig{
			A:      "User A",
			B:      "User B",
			ColorA: "steelblue",
			ColorB: "darkorange",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		View: ViewConfig{
			ShowPending: true,
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	return LoadWithFS(loader.DefaultFS(), path)
}

// LoadWithFS is Load reading through fsys.
func LoadWithFS(fsys loader.FileSystem, path string) (*Config, error) {
	cfg := Default()
	if err := loader.New(fsys).Load(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data in format over the defaults and validates the result.
func Parse(format loader.Format, data []byte) (*Config, error) {
	cfg := Default()
	if err := loader.Decode(format, "<input>", data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Engine.BurstWindow <= 0 {
		problems = append(problems, "engine.burst_window must be positive")
	}
	if c.Engine.ConsolidateDelay < 0 {
		problems = append(problems, "engine.consolidate_delay must not be negative")
	}
	if c.Engine.ReanchorDelay < 0 {
		problems = append(problems, "engine.reanchor_delay must not be negative")
	}
	if c.Authors.A == "" || c.Authors.B == "" {
		problems = append(problems, "authors.a and authors.b are required")
	} else if c.Authors.A == c.Authors.B {
		problems = append(problems, "authors.a and authors.b must differ")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		problems = append(problems, "logging.level: "+err.Error())
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		problems = append(problems, "logging.format: "+err.Error())
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// LogConfig converts the logging section. Validate must have passed.
func (c *Config) LogConfig() *logging.Config {
	level, _ := logging.ParseLevel(c.Logging.Level)
	format, _ := logging.ParseFormat(c.Logging.Format)
	return &logging.Config{
		Level:     level,
		Format:    format,
		Output:    c.Logging.Output,
		Component: "linemark",
	}
}
