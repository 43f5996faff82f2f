package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Ledger storage
	DataDir        string
	DefaultAccount string

	// Generated chart images
	StaticDir string

	// Multi-tenant mode
	AuthEnabled bool
	AuthDBPath  string

	// Local development (cleans stale charts on startup)
	DevMode bool
}

func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8081"),
		DataDir:        getEnv("DATA_DIR", "./data"),
		DefaultAccount: getEnv("DEFAULT_ACCOUNT", "financas"),
		StaticDir:      getEnv("STATIC_DIR", "./static"),
		AuthEnabled:    getEnvBool("AUTH_ENABLED", false),
		AuthDBPath:     getEnv("AUTH_DB_PATH", "./data/usuarios.db"),
		DevMode:        getEnvBool("DEV_MODE", false),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	} else if err := ensureDir(c.DataDir); err != nil {
		errors = append(errors, fmt.Sprintf("cannot create data directory '%s': %v", c.DataDir, err))
	}

	if c.StaticDir == "" {
		errors = append(errors, "static directory cannot be empty")
	} else if err := ensureDir(c.StaticDir); err != nil {
		errors = append(errors, fmt.Sprintf("cannot create static directory '%s': %v", c.StaticDir, err))
	}

	if c.DefaultAccount == "" {
		errors = append(errors, "default account cannot be empty")
	}

	if c.AuthEnabled {
		if c.AuthDBPath == "" {
			errors = append(errors, "auth database path cannot be empty when auth is enabled")
		} else if dir := filepath.Dir(c.AuthDBPath); dir != "." && dir != "" {
			if err := ensureDir(dir); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create auth database directory '%s': %v", dir, err))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func ensureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
