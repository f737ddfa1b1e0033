// Package config loads the server configuration from YAML.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport kinds.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is the top-level server configuration.
type Config struct {
	Name         string          `yaml:"name"`
	Version      string          `yaml:"version"`
	Instructions string          `yaml:"instructions"`
	Transport    TransportConfig `yaml:"transport"`
	Log          LogConfig       `yaml:"log"`
	KeepAlive    string          `yaml:"keep_alive"`   // Ping interval as a duration string (empty = disabled).
	ToolTimeout  string          `yaml:"tool_timeout"` // Per tools/call deadline (empty = no limit).
}

// TransportConfig selects how the server talks to clients.
type TransportConfig struct {
	Kind string `yaml:"kind"` // "stdio" or "http".
	Addr string `yaml:"addr"` // Listen address for "http".
}

// LogConfig controls the operator log written to standard error.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error.
	Format string `yaml:"format"` // text or json.
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Name:    "Think Tool Server",
		Version: "1.0.0",
		Transport: TransportConfig{
			Kind: TransportStdio,
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads a YAML file and overlays it on Default. An empty path
// returns the defaults.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config: name is required")
	}
	if c.Version == "" {
		return fmt.Errorf("config: version is required")
	}

	switch c.Transport.Kind {
	case TransportStdio:
	case TransportHTTP:
		if c.Transport.Addr == "" {
			return fmt.Errorf("config: transport %q: addr is required", c.Transport.Kind)
		}
	default:
		return fmt.Errorf("config: unknown transport %q", c.Transport.Kind)
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}

	if _, err := parseDuration("keep_alive", c.KeepAlive); err != nil {
		return err
	}
	if _, err := parseDuration("tool_timeout", c.ToolTimeout); err != nil {
		return err
	}

	return nil
}

// KeepAliveInterval returns the parsed keep-alive interval. Invalid or empty
// values yield zero.
func (c Config) KeepAliveInterval() time.Duration {
	d, _ := parseDuration("keep_alive", c.KeepAlive)
	return d
}

// ToolTimeoutDuration returns the parsed tool timeout. Invalid or empty values
// yield zero.
func (c Config) ToolTimeoutDuration() time.Duration {
	d, _ := parseDuration("tool_timeout", c.ToolTimeout)
	return d
}

// Logger builds the operator logger writing to w.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	switch c.Log.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", s)
	}

	return level, nil
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", field, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: %s must not be negative", field)
	}

	return d, nil
}
