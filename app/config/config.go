package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `validate:"required,numeric"`
	Timezone string

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`

	Feeds   FeedsConfig
	Auth    AuthConfig
	Refresh string `validate:"required"`
}

type FeedsConfig struct {
	PresentURL string `validate:"omitempty,url"`
	RosterURL  string `validate:"omitempty,url"`
	Timeout    time.Duration
}

type AuthConfig struct {
	Email          string `validate:"omitempty,email"`
	PasswordHash   string
	JWTSecret      string `validate:"required,min=16"`
	SessionTimeout time.Duration
}

const devJWTSecret = "dsu-attendance-dev-secret-key"

// Load reads .env (when present) and the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	feedTimeout, err := durationEnv("FEED_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	sessionTimeout, err := durationEnv("SESSION_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:      env("PORT", "8080"),
		Timezone:  env("TIMEZONE", "Asia/Kolkata"),
		LogLevel:  strings.ToLower(env("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(env("LOG_FORMAT", "console")),
		Refresh:   env("REFRESH_SCHEDULE", "@every 5m"),
		Feeds: FeedsConfig{
			PresentURL: os.Getenv("PRESENT_FEED_URL"),
			RosterURL:  os.Getenv("ROSTER_FEED_URL"),
			Timeout:    feedTimeout,
		},
		Auth: AuthConfig{
			Email:          os.Getenv("AUTH_EMAIL"),
			PasswordHash:   os.Getenv("AUTH_PASSWORD_HASH"),
			JWTSecret:      env("JWT_SECRET", devJWTSecret),
			SessionTimeout: sessionTimeout,
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoginEnabled reports whether a dashboard credential is configured.
func (c *Config) LoginEnabled() bool {
	return c.Auth.Email != "" && c.Auth.PasswordHash != ""
}

// Location resolves Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}
