package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LISTEN_ADDR", "APP_ENV", "GIN_MODE", "DATABASE_DRIVER", "DATABASE_PATH",
		"DEFAULT_DOMAIN", "DEFAULT_PROTOCOL", "PASSWORD_RESET_TIMEOUT", "REDIS_ADDR", "SMTP_HOST",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.DatabaseDriver != "sqlite" || cfg.DatabaseSource() != "blogdesk.db" {
		t.Fatalf("unexpected database defaults: %q %q", cfg.DatabaseDriver, cfg.DatabaseSource())
	}
	if cfg.DefaultProtocol != "http" || cfg.DefaultDomain != "localhost:8080" {
		t.Fatalf("unexpected link defaults: %q %q", cfg.DefaultProtocol, cfg.DefaultDomain)
	}
	if cfg.PasswordResetTimeout != 72*time.Hour {
		t.Fatalf("expected 72h reset timeout, got %s", cfg.PasswordResetTimeout)
	}
	if cfg.GinMode != "debug" {
		t.Fatalf("expected debug gin mode in development, got %q", cfg.GinMode)
	}
	if cfg.Redis.Addr != "" || cfg.SMTP.Host != "" {
		t.Fatalf("expected optional services to be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("APP_ENV", "production")
	t.Setenv("GIN_MODE", "")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_DSN", "host=db user=blog")
	t.Setenv("DEFAULT_DOMAIN", "blog.example.com")
	t.Setenv("DEFAULT_PROTOCOL", "https")
	t.Setenv("PASSWORD_RESET_TIMEOUT", "3600")
	t.Setenv("REDIS_DB", "4")

	cfg := Load()

	if cfg.ListenAddr != ":9000" {
		t.Fatalf("expected listen addr derived from port, got %q", cfg.ListenAddr)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("expected release mode outside development, got %q", cfg.GinMode)
	}
	if cfg.DatabaseDriver != "postgres" || cfg.DatabaseSource() != "host=db user=blog" {
		t.Fatalf("unexpected database source: %q %q", cfg.DatabaseDriver, cfg.DatabaseSource())
	}
	if cfg.DefaultDomain != "blog.example.com" || cfg.DefaultProtocol != "https" {
		t.Fatalf("unexpected link config: %q %q", cfg.DefaultDomain, cfg.DefaultProtocol)
	}
	if cfg.PasswordResetTimeout != time.Hour {
		t.Fatalf("expected 1h reset timeout, got %s", cfg.PasswordResetTimeout)
	}
	if cfg.Redis.DB != 4 {
		t.Fatalf("expected redis db 4, got %d", cfg.Redis.DB)
	}
}

func TestEnvDurationAcceptsGoSyntax(t *testing.T) {
	t.Setenv("RESET_WINDOW", "90m")
	if got := envDuration("RESET_WINDOW", time.Minute); got != 90*time.Minute {
		t.Fatalf("expected 90m, got %s", got)
	}

	t.Setenv("RESET_WINDOW", "soon")
	if got := envDuration("RESET_WINDOW", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for invalid value, got %s", got)
	}
}
