package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig collects everything needed to run the blog server.
type AppConfig struct {
	ListenAddr           string
	Port                 string
	Env                  string
	LogLevel             string
	GinMode              string
	DatabaseDriver       string
	DatabasePath         string
	DatabaseDSN          string
	SessionSecret        string
	SecureCookies        bool
	DefaultDomain        string
	DefaultProtocol      string
	PasswordResetTimeout time.Duration
	SMTP                 SMTPConfig
	Redis                RedisConfig
	SuperRootUserName    string
	SuperRootPassword    string
}

// SMTPConfig describes the outgoing mail server. An empty Host means mail is only logged.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

// RedisConfig is optional; when Addr is empty reset tokens live in the database.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads the application configuration from the environment, after
// merging an optional .env file, and fills safe defaults for missing values.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "config: ignoring .env: %v\n", err)
	}

	port := envOrDefault("PORT", "8080")

	listenAddr := envOrDefault("LISTEN_ADDR", fmt.Sprintf(":%s", port))

	env := envOrDefault("APP_ENV", "development")

	ginMode := envOrDefault("GIN_MODE", "release")
	if env == "development" && strings.TrimSpace(os.Getenv("GIN_MODE")) == "" {
		ginMode = "debug"
	}

	return AppConfig{
		ListenAddr:           listenAddr,
		Port:                 port,
		Env:                  env,
		LogLevel:             envOrDefault("LOG_LEVEL", "info"),
		GinMode:              ginMode,
		DatabaseDriver:       strings.ToLower(envOrDefault("DATABASE_DRIVER", "sqlite")),
		DatabasePath:         envOrDefault("DATABASE_PATH", "blogdesk.db"),
		DatabaseDSN:          strings.TrimSpace(os.Getenv("DATABASE_DSN")),
		SessionSecret:        envOrDefault("SESSION_SECRET", "blogdesk-dev-secret"),
		SecureCookies:        envBool("SECURE_COOKIES", false),
		DefaultDomain:        envOrDefault("DEFAULT_DOMAIN", "localhost:8080"),
		DefaultProtocol:      envOrDefault("DEFAULT_PROTOCOL", "http"),
		PasswordResetTimeout: envDuration("PASSWORD_RESET_TIMEOUT", 72*time.Hour),
		SMTP: SMTPConfig{
			Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
			Port:     envOrDefault("SMTP_PORT", "587"),
			User:     strings.TrimSpace(os.Getenv("SMTP_USER")),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOrDefault("SMTP_FROM", "noreply@blogdesk.local"),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		SuperRootUserName: strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME")),
		SuperRootPassword: strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD")),
	}
}

// DatabaseSource returns the connection string for the configured driver.
func (c AppConfig) DatabaseSource() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseDSN
	}
	return c.DatabasePath
}

// IsDevelopment reports whether the server runs with developer conveniences.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return value
}

// envDuration accepts Go duration strings ("90m") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}
