// Package config resolves QuickChat runtime settings from the environment,
// optionally seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// UserBackend selects where the user directory is stored.
type UserBackend string

const (
	BackendJSON   UserBackend = "json"
	BackendSQLite UserBackend = "sqlite"
)

// validBackends is the set of allowed user backends.
var validBackends = map[UserBackend]bool{
	BackendJSON:   true,
	BackendSQLite: true,
}

// Environment variable names.
const (
	EnvDataDir     = "QUICKCHAT_DATA_DIR"
	EnvUserBackend = "QUICKCHAT_USER_BACKEND"
	EnvLogLevel    = "LOG_LEVEL"
)

// Config holds everything the server needs to wire its stores.
type Config struct {
	DataDir     string
	UserBackend UserBackend
	LogLevel    string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:     filepath.Join(home, ".quickchat"),
		UserBackend: BackendJSON,
		LogLevel:    "INFO",
	}
}

// Load reads .env (if present) and then the process environment.
// Real environment variables win over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults for
// unset values.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(getenv(EnvDataDir)); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(getenv(EnvUserBackend)); v != "" {
		cfg.UserBackend = UserBackend(strings.ToLower(v))
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToUpper(v)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate returns an error describing the first invalid setting.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%s must not be empty", EnvDataDir)
	}
	if !validBackends[c.UserBackend] {
		return fmt.Errorf("invalid %s %q: must be one of: json, sqlite", EnvUserBackend, c.UserBackend)
	}
	return nil
}
