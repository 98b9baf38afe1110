// Package config handles application configuration from environment variables
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read before the environment when present.
const DefaultEnvFile = ".env"

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string
	DatabasePath     string
	LogLevel         string
	AllowedUsers     []int64
	ReviewerName     string
	CatalogPath      string
}

// Load reads configuration from the default .env file and the environment.
func Load() (*Config, error) {
	return LoadFrom(DefaultEnvFile)
}

// LoadFrom reads configuration from envFile and the environment. Variables
// already set in the environment win over the file. A missing file is not an
// error.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var allowedUsers []int64
	if raw := os.Getenv("ALLOWED_USERS"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			uid, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid user ID %q in ALLOWED_USERS: %w", s, err)
			}
			allowedUsers = append(allowedUsers, uid)
		}
	}

	return &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabasePath:     envOrDefault("DATABASE_PATH", "./data/compintel.db"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		AllowedUsers:     allowedUsers,
		ReviewerName:     envOrDefault("REVIEWER_NAME", "You"),
		CatalogPath:      os.Getenv("CATALOG_PATH"),
	}, nil
}

// RequireBot checks the settings only the chat bot needs.
func (c *Config) RequireBot() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

// IsUserAllowed checks whether a user ID is in the allow list.
// Returns true if the allow list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	return slices.Contains(c.AllowedUsers, userID)
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
