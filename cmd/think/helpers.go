package main

import (
	"errors"
	"os"

	"github.com/germanamz/think-mcp/pkg/config"
	"github.com/joho/godotenv"
)

const defaultConfigFile = "think.yaml"

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// resolveConfigPath returns the config file to load: the explicit flag value,
// else think.yaml when it exists, else "" for defaults.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}

	return ""
}

// applyOverrides copies non-empty flag values over cfg.
func applyOverrides(cfg *config.Config, transport, addr, logLevel string) {
	if transport != "" {
		cfg.Transport.Kind = transport
	}
	if addr != "" {
		cfg.Transport.Addr = addr
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
}
