package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type OAuthProvider struct {
	Key         string
	Secret      string
	CallbackURL string
}

func (p OAuthProvider) Enabled() bool {
	return p.Key != "" && p.Secret != ""
}

type Config struct {
	DBDriver          string
	DatabaseURL       string
	ServerPort        int
	BaseURL           string
	LogLevel          slog.Level
	AdminEmails       []string
	CORSOrigins       []string
	LockCheckInterval time.Duration
	SessionSecret     string
	Discord           OAuthProvider
	Google            OAuthProvider
}

// Load reads a .env file when there is one, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDriver:      strings.ToLower(strings.TrimSpace(getenv("DB_DRIVER"))),
		DatabaseURL:   getenv("DATABASE_URL"),
		BaseURL:       strings.TrimRight(getenv("BASE_URL"), "/"),
		LogLevel:      ParseLevel(getenv("LOG_LEVEL")),
		AdminEmails:   splitList(strings.ToLower(getenv("ADMIN_EMAILS"))),
		CORSOrigins:   splitList(getenv("CORS_ORIGINS")),
		SessionSecret: getenv("SESSION_SECRET"),
		Discord: OAuthProvider{
			Key:         getenv("DISCORD_KEY"),
			Secret:      getenv("DISCORD_SECRET"),
			CallbackURL: getenv("DISCORD_CALLBACK_URL"),
		},
		Google: OAuthProvider{
			Key:         getenv("GOOGLE_KEY"),
			Secret:      getenv("GOOGLE_SECRET"),
			CallbackURL: getenv("GOOGLE_CALLBACK_URL"),
		},
	}

	switch cfg.DBDriver {
	case "", DriverSQLite:
		cfg.DBDriver = DriverSQLite
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "bracket.db?_journal_mode=WAL"
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	portStr := getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", port)
	}

	cfg.LockCheckInterval = 30 * time.Second
	if raw := getenv("LOCK_CHECK_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LOCK_CHECK_INTERVAL: %w", err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("LOCK_CHECK_INTERVAL must be positive, got %s", interval)
		}
		cfg.LockCheckInterval = interval
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

// ParseLevel accepts debug, info, warn and error. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
