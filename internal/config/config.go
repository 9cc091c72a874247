package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Config holds the application configuration
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Edge     EdgeConfig     `yaml:"edge"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AppConfig holds app-specific configuration
type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ServerConfig holds the origin server configuration
type ServerConfig struct {
	Host           string          `yaml:"host"`
	Port           int             `yaml:"port"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	// ProxyHeader is the header fiber reads the client IP from, e.g. X-Real-IP.
	// It is honoured only on connections from TrustedProxies.
	ProxyHeader    string   `yaml:"proxy_header"`
	TrustedProxies []string `yaml:"trusted_proxies"`
	// InlinePerimeter runs the edge checks inside the origin app as well.
	InlinePerimeter bool `yaml:"inline_perimeter"`
}

// RateLimitConfig configures the global request limiter. Max of 0 disables it.
type RateLimitConfig struct {
	Max        int `yaml:"max"`
	Expiration int `yaml:"expiration"` // seconds
}

// AuthConfig holds session and login tuning
type AuthConfig struct {
	CleanupIntervalSeconds int `yaml:"cleanup_interval_seconds"`
	LoginMaxAttempts       int `yaml:"login_max_attempts"`
	LoginWindowSeconds     int `yaml:"login_window_seconds"`
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig holds redis connection settings. Redis only backs the login throttle.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// EdgeConfig configures the standalone perimeter proxy
type EdgeConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	OriginURL string `yaml:"origin_url"`
}

// LoggingConfig holds logging-specific configuration
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

const (
	defaultLoginWindow = 15 * time.Minute
)

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot start without. env may be
// nil when only the file needs checking.
func (c *Config) Validate(env *Environment) error {
	var errs []error

	if env != nil && env.IsProduction() && !env.Secrets.PasswordConfigured() {
		errs = append(errs, fmt.Errorf("%w: DASHBOARD_PASSWORD or DASHBOARD_PASSWORD_HASH", ErrMissingSecret))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ProxyHeader != "" && len(c.Server.TrustedProxies) == 0 {
		errs = append(errs, errors.New("server.trusted_proxies is required when server.proxy_header is set"))
	}
	if c.Server.RateLimit.Max < 0 || c.Server.RateLimit.Expiration < 0 {
		errs = append(errs, errors.New("server.rate_limit values must not be negative"))
	}
	if c.Auth.CleanupIntervalSeconds < 0 {
		errs = append(errs, errors.New("auth.cleanup_interval_seconds must not be negative"))
	}
	if c.Auth.LoginMaxAttempts < 0 || c.Auth.LoginWindowSeconds < 0 {
		errs = append(errs, errors.New("auth.login_* values must not be negative"))
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		errs = append(errs, errors.New("redis.host is required when redis is enabled"))
	}

	return errors.Join(errs...)
}

// Address returns the server address in the format "host:port"
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Address returns the edge proxy listen address
func (e *EdgeConfig) Address() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// Address returns the redis address in the format "host:port"
func (r *RedisConfig) Address() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// CleanupInterval is the period of the expired-session janitor. Zero disables it.
func (a *AuthConfig) CleanupInterval() time.Duration {
	return time.Duration(a.CleanupIntervalSeconds) * time.Second
}

// LoginWindow is the period failed login attempts are counted over.
func (a *AuthConfig) LoginWindow() time.Duration {
	if a.LoginWindowSeconds <= 0 {
		return defaultLoginWindow
	}
	return time.Duration(a.LoginWindowSeconds) * time.Second
}

// quoteDSNValue wraps a libpq keyword value in single quotes when it holds
// anything outside a conservative safe set. Embedded quotes are doubled.
func quoteDSNValue(value string) string {
	if value == "" {
		return "''"
	}

	safe := true
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("._-/@:", r):
		default:
			safe = false
		}
		if !safe {
			break
		}
	}
	if safe {
		return value
	}

	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		quoteDSNValue(d.Host),
		d.Port,
		quoteDSNValue(d.User),
		quoteDSNValue(d.Password),
		quoteDSNValue(d.DBName),
		quoteDSNValue(d.SSLMode),
	)
}

// URL returns the database connection URL in postgres:// format for golang-migrate
func (d *DatabaseConfig) URL() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode) + "&search_path=public",
	}

	return u.String()
}
