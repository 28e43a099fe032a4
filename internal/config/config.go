package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "change-this-secret"

type Config struct {
	Host          string
	Port          string
	DBPath        string
	SettingsPath  string
	LockPath      string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string
	APIPassphrase string
	LogLevel      slog.Level
	IdlePoll      bool
	IdleThreshold time.Duration
}

func Load() (Config, error) {
	dbPath := getEnv("DB_PATH", "./data/focustracker.db")
	cfg := Config{
		Host:          getEnv("HOST", "127.0.0.1"),
		Port:          getEnv("PORT", "8080"),
		DBPath:        dbPath,
		SettingsPath:  getEnv("SETTINGS_PATH", ""),
		LockPath:      getEnv("LOCK_PATH", filepath.Join(filepath.Dir(dbPath), "focustracker.lock")),
		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:      time.Duration(getEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		CORSOrigins:   getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		APIPassphrase: os.Getenv("API_PASSPHRASE"),
		LogLevel:      parseLevel(getEnv("LOG_LEVEL", "info")),
		IdlePoll:      getEnvBool("IDLE_POLL_ENABLED", false),
		IdleThreshold: time.Duration(getEnvInt("IDLE_THRESHOLD_SECONDS", 120)) * time.Second,
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AuthEnabled reports whether the API requires a bearer token.
func (c Config) AuthEnabled() bool {
	return c.APIPassphrase != ""
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	if c.Host != "localhost" && net.ParseIP(c.Host) == nil {
		return fmt.Errorf("invalid HOST %q", c.Host)
	}
	if !c.AuthEnabled() && !isLoopback(c.Host) {
		return fmt.Errorf("HOST %q is not loopback: set API_PASSPHRASE to listen on other interfaces", c.Host)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive")
	}
	if c.IdleThreshold <= 0 {
		return fmt.Errorf("IDLE_THRESHOLD_SECONDS must be positive")
	}
	if c.AuthEnabled() && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set when API_PASSPHRASE is set")
	}
	return nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
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
