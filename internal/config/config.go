// Package config loads the application configuration. Nothing here is held
// in package-level state: callers load a *Config once and pass it on.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"fjacquet/gl-audit/internal/logging"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file in the working directory or its
// parent, if one exists, without overriding variables already set. It
// returns the file it loaded, or "" when none was found.
func LoadEnv() (string, error) {
	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return envFile, err
		}
		return envFile, nil
	}
	return "", nil
}

// NewLogger builds the logger described by the log section.
func NewLogger(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}
