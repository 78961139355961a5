// Package config loads the formdesigner YAML configuration.
//
// Values are read from a single file. FORMDESIGNER_DSN overrides the database
// location after the file is applied.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdesigner/pkg/logger"
)

// EnvDSN overrides Database.DSN when set.
const EnvDSN = "FORMDESIGNER_DSN"

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the top level configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      logger.Config  `yaml:"log"`
	Render   RenderConfig   `yaml:"render"`
	User     string         `yaml:"user"`
}

// DatabaseConfig selects the store. An empty DSN keeps everything in memory.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RenderConfig controls renderer selection.
type RenderConfig struct {
	// Default is the renderer used when a command does not name one.
	Default string `yaml:"default"`
	// Stylesheets are linked from every HTML page.
	Stylesheets []string `yaml:"stylesheets"`
	// MaxAttempts bounds re-prompts in the terminal renderer.
	MaxAttempts int `yaml:"max_attempts"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:    logger.Config{Level: "info"},
		Render: RenderConfig{Default: "html", MaxAttempts: 3},
		User:   "local",
	}
}

// Load reads path and applies the environment override. An empty path yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if cfg, err = Parse(bytes.NewReader(data)); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if dsn, ok := os.LookupEnv(EnvDSN); ok {
		cfg.Database.DSN = strings.TrimSpace(dsn)
	}
	return cfg, cfg.Validate()
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	if c.Render.MaxAttempts < 1 {
		return fmt.Errorf("%w: render.max_attempts must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.User) == "" {
		return fmt.Errorf("%w: user is required", ErrInvalidConfig)
	}
	return nil
}
