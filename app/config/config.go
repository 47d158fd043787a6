// Package config loads runtime settings from the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvLocal is the development environment name.
const EnvLocal = "local"

const devSessionSecret = "yatube-local-session-secret"

// Config holds everything the server and the CLI need.
type Config struct {
	Env           string
	DBPath        string
	BindAddress   string
	SessionSecret string
	PostsPerPage  int
	IndexCacheTTL time.Duration
	CacheMaxBytes int64
	LoginURL      string
	StaticDir     string
}

// Load reads the given .env files, ".env" when none are named, then the
// process environment. Variables already set in the environment win over
// file values. Missing files are not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return fromLookup(os.LookupEnv)
}

// LoadFromMap builds a Config from env without touching the process
// environment.
func LoadFromMap(env map[string]string) (*Config, error) {
	return fromLookup(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
}

type lookupFunc func(key string) (string, bool)

func fromLookup(lookup lookupFunc) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Env:           get("YATUBE_ENV", EnvLocal),
		DBPath:        get("YATUBE_DB_PATH", "data/badger"),
		BindAddress:   get("YATUBE_BIND_ADDRESS", ":8080"),
		SessionSecret: get("YATUBE_SESSION_SECRET", ""),
		LoginURL:      get("YATUBE_LOGIN_URL", "/auth/login/"),
		StaticDir:     get("YATUBE_STATIC_DIR", "static"),
	}

	var err error
	if cfg.PostsPerPage, err = strconv.Atoi(get("YATUBE_POSTS_PER_PAGE", "10")); err != nil {
		return nil, fmt.Errorf("YATUBE_POSTS_PER_PAGE: %w", err)
	}
	if cfg.IndexCacheTTL, err = time.ParseDuration(get("YATUBE_INDEX_CACHE_TTL", "20s")); err != nil {
		return nil, fmt.Errorf("YATUBE_INDEX_CACHE_TTL: %w", err)
	}
	if cfg.CacheMaxBytes, err = strconv.ParseInt(get("YATUBE_CACHE_MAX_BYTES", "67108864"), 10, 64); err != nil {
		return nil, fmt.Errorf("YATUBE_CACHE_MAX_BYTES: %w", err)
	}
	if cfg.SessionSecret == "" && cfg.Env == EnvLocal {
		cfg.SessionSecret = devSessionSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("YATUBE_SESSION_SECRET is required outside the local environment")
	}
	if c.PostsPerPage < 1 {
		return fmt.Errorf("YATUBE_POSTS_PER_PAGE must be positive, got %d", c.PostsPerPage)
	}
	if c.IndexCacheTTL < 0 {
		return fmt.Errorf("YATUBE_INDEX_CACHE_TTL must not be negative, got %s", c.IndexCacheTTL)
	}
	if c.CacheMaxBytes < 1 {
		return fmt.Errorf("YATUBE_CACHE_MAX_BYTES must be positive, got %d", c.CacheMaxBytes)
	}
	return nil
}

// IsLocal reports whether this is a development setup.
func (c *Config) IsLocal() bool { return c.Env == EnvLocal }

// NewLogger returns a debug text logger locally and an info JSON logger
// everywhere else.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if c.IsLocal() {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if c.IsLocal() {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}
