// Package config handles configuration for the server component: defaults,
// an optional .env file and the process environment, a JSON overlay and
// finally command-line flags, each layer overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/authboard/internal/flagx"
	"github.com/joho/godotenv"
)

// DefaultSecretKey is the development signing key. LoadConfig accepts it, the
// app warns about it.
const DefaultSecretKey = "jwt-secret"

// Config holds runtime settings for the authboard server.
//
// Fields:
//   - HTTPAddr: bind address for the HTTP endpoint.
//   - DatabaseDSN: postgres:// URL (pgx) or sqlite:// URL / file path (modernc).
//   - SecretKey: HMAC secret for signing access tokens (HS256).
//   - AccessTokenTTL: access token lifetime.
//   - BcryptCost: bcrypt work factor for new password hashes.
//   - StaticDir: frontend build directory served for non-API paths.
//   - CORSOrigins: origins allowed to call /api; "*" allows any.
//   - ReadTimeout / WriteTimeout / IdleTimeout / ShutdownTimeout: HTTP server limits.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	HTTPAddr        string
	DatabaseDSN     string
	SecretKey       string
	AccessTokenTTL  time.Duration
	BcryptCost      int
	StaticDir       string
	CORSOrigins     []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5000"
	c.DatabaseDSN = "sqlite:///app.db"
	c.SecretKey = DefaultSecretKey
	c.AccessTokenTTL = time.Hour
	c.BcryptCost = 12
	c.StaticDir = "build"
	c.CORSOrigins = []string{"*"}
	c.ReadTimeout = 10 * time.Second
	c.WriteTimeout = 30 * time.Second
	c.IdleTimeout = 60 * time.Second
	c.ShutdownTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.HTTPAddr == "":
		return errors.New("http address is empty")
	case c.DatabaseDSN == "":
		return errors.New("database dsn is empty")
	case c.SecretKey == "":
		return errors.New("secret key is empty")
	case c.AccessTokenTTL <= 0:
		return fmt.Errorf("access token ttl must be positive, got %s", c.AccessTokenTTL)
	case c.BcryptCost < 0:
		return fmt.Errorf("bcrypt cost must not be negative, got %d", c.BcryptCost)
	}
	return nil
}

// LoadConfig builds a Config from defaults, ./.env and the environment, the
// JSON file named by -c/-config and finally the flags in args (os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	return load(args, env.ToMap(os.Environ()))
}

func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, flagx.ConfigFilePath(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv exports the variables in path without overriding ones already
// set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
