package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvironmentType represents the application environment
type EnvironmentType string

const (
	EnvironmentDevelopment EnvironmentType = "development"
	EnvironmentProduction  EnvironmentType = "production"
)

// String returns the string representation of the environment type
func (e EnvironmentType) String() string {
	return string(e)
}

// IsValid checks if the environment type is valid
func (e EnvironmentType) IsValid() bool {
	switch e {
	case EnvironmentDevelopment, EnvironmentProduction:
		return true
	default:
		return false
	}
}

// Secrets are the shared credentials gating the dashboard. They are read
// once at startup and handed to the components that need them.
type Secrets struct {
	// Password is the plaintext login password (DASHBOARD_PASSWORD).
	Password string
	// PasswordHash is an argon2id encoded hash (DASHBOARD_PASSWORD_HASH).
	// When set it takes precedence over Password.
	PasswordHash string
	// AutomationSecret authenticates scheduled jobs (AUTOMATION_SECRET).
	AutomationSecret string
}

// PasswordConfigured reports whether any login credential is set.
func (s Secrets) PasswordConfigured() bool {
	return s.Password != "" || s.PasswordHash != ""
}

// Environment holds the environment variables
type Environment struct {
	Environment EnvironmentType `env:"ENVIRONMENT"`
	ConfigPath  string          `env:"CONFIG_PATH"`
	OriginURL   string          `env:"EDGE_ORIGIN_URL"`
	Secrets     Secrets
}

// IsProduction reports whether the process runs in production mode.
func (e *Environment) IsProduction() bool {
	return e.Environment == EnvironmentProduction
}

// LoadDotEnv loads variables from a .env file in the working directory.
// A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}
}

// LoadEnv loads the environment variables
func LoadEnv() *Environment {
	envStr := strings.ToLower(strings.TrimSpace(getEnv("ENVIRONMENT", string(EnvironmentDevelopment))))
	envType := EnvironmentType(envStr)

	// Validate and default to development if invalid
	if !envType.IsValid() {
		envType = EnvironmentDevelopment
	}

	return &Environment{
		Environment: envType,
		ConfigPath:  getEnv("CONFIG_PATH", "config.yaml"),
		OriginURL:   getEnv("EDGE_ORIGIN_URL", ""),
		Secrets: Secrets{
			Password:         os.Getenv("DASHBOARD_PASSWORD"),
			PasswordHash:     strings.TrimSpace(os.Getenv("DASHBOARD_PASSWORD_HASH")),
			AutomationSecret: os.Getenv("AUTOMATION_SECRET"),
		},
	}
}

// getEnv gets the environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
