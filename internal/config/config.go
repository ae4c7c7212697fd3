package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds runtime configuration parsed from an optional TOML file and
// environment variables. Environment variables win over the file.
type Config struct {
	HTTPAddr        string
	DBConnString    string
	SQLitePath      string
	ShutdownTimeout time.Duration
	LogLevel        string

	// FileURLHost resolves relative product image paths into absolute URLs
	// for the payment processor. Empty means relative images are not sent.
	FileURLHost string

	AllowedOrigins []string
	DefaultOrigin  string
	VisitorSecret  string

	// VisitorSecretGenerated is set when no secret was configured and a
	// random one was made for this process. Visitor cookies then do not
	// survive a restart.
	VisitorSecretGenerated bool

	StripeSecretKey string
	Currency        string
	LoginDelay      time.Duration
}

type fileConfig struct {
	HTTPAddr               string   `toml:"http_addr"`
	DBDSN                  string   `toml:"db_dsn"`
	SQLitePath             string   `toml:"sqlite_path"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
	LogLevel               string   `toml:"log_level"`
	FileURLHost            string   `toml:"file_url_host"`
	AllowedOrigins         []string `toml:"allowed_origins"`
	DefaultOrigin          string   `toml:"default_origin"`
	VisitorSecret          string   `toml:"visitor_secret"`
	StripeSecretKey        string   `toml:"stripe_secret_key"`
	Currency               string   `toml:"currency"`
	LoginDelayMillis       int      `toml:"login_delay_ms"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		HTTPAddr:        ":4242",
		SQLitePath:      "data/zizi.db",
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		AllowedOrigins:  []string{"http://localhost:3000"},
		DefaultOrigin:   "http://localhost:3000",
		Currency:        "gbp",
		LoginDelay:      800 * time.Millisecond,
	}
}

// FromEnv builds Config with defaults, overlaid by CONFIG_FILE (if set) and
// then by environment variables.
func FromEnv() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.HTTPAddr = envOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DBConnString = envOrDefault("DB_DSN", cfg.DBConnString)
	cfg.SQLitePath = envOrDefault("SQLITE_PATH", cfg.SQLitePath)
	cfg.ShutdownTimeout = envDuration("SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownTimeout)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.FileURLHost = envOrDefault("FILE_URL_HOST", cfg.FileURLHost)
	cfg.AllowedOrigins = envList("ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.DefaultOrigin = envOrDefault("DEFAULT_ORIGIN", cfg.DefaultOrigin)
	cfg.VisitorSecret = envOrDefault("VISITOR_SECRET", cfg.VisitorSecret)
	cfg.StripeSecretKey = envOrDefault("STRIPE_SECRET_KEY", cfg.StripeSecretKey)
	cfg.Currency = strings.ToLower(envOrDefault("CURRENCY", cfg.Currency))
	if v := os.Getenv("LOGIN_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.LoginDelay = time.Duration(ms) * time.Millisecond
		}
	}
	if strings.TrimSpace(cfg.VisitorSecret) == "" {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, err
		}
		cfg.VisitorSecret = secret
		cfg.VisitorSecretGenerated = true
	}
	return cfg, nil
}

// UsePostgres reports whether a Postgres DSN was configured. Without one the
// storefront keeps its local state in SQLite.
func (c Config) UsePostgres() bool {
	return strings.TrimSpace(c.DBConnString) != ""
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&c.HTTPAddr, raw.HTTPAddr)
	setString(&c.DBConnString, raw.DBDSN)
	setString(&c.SQLitePath, raw.SQLitePath)
	setString(&c.LogLevel, raw.LogLevel)
	setString(&c.FileURLHost, raw.FileURLHost)
	setString(&c.DefaultOrigin, raw.DefaultOrigin)
	setString(&c.VisitorSecret, raw.VisitorSecret)
	setString(&c.StripeSecretKey, raw.StripeSecretKey)
	setString(&c.Currency, strings.ToLower(raw.Currency))
	if raw.ShutdownTimeoutSeconds > 0 {
		c.ShutdownTimeout = time.Duration(raw.ShutdownTimeoutSeconds) * time.Second
	}
	if raw.LoginDelayMillis > 0 {
		c.LoginDelay = time.Duration(raw.LoginDelayMillis) * time.Millisecond
	}
	if len(raw.AllowedOrigins) > 0 {
		c.AllowedOrigins = raw.AllowedOrigins
	}
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate visitor secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
