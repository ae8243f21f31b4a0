package config

import (
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors the environment variables the server understands. PORT
// and DATABASE_URL follow the usual PaaS conventions; HTTP_ADDR wins over PORT.
type envConfig struct {
	Port            string        `env:"PORT"`
	HTTPAddr        string        `env:"HTTP_ADDR"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	SecretKey       string        `env:"JWT_SECRET_KEY"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"`
	BcryptCost      int           `env:"BCRYPT_COST"`
	StaticDir       string        `env:"STATIC_DIR"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:","`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	LogLevel        string        `env:"LOG_LEVEL"`
}

// parseEnv overlays the variables present in environ onto config.
func parseEnv(config *Config, environ map[string]string) error {
	var e envConfig
	if err := env.ParseWithOptions(&e, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if e.Port != "" {
		config.HTTPAddr = net.JoinHostPort("", e.Port)
	}
	setString(&config.HTTPAddr, e.HTTPAddr)
	setString(&config.DatabaseDSN, e.DatabaseURL)
	setString(&config.SecretKey, e.SecretKey)
	setDuration(&config.AccessTokenTTL, e.AccessTokenTTL)
	if e.BcryptCost != 0 {
		config.BcryptCost = e.BcryptCost
	}
	setString(&config.StaticDir, e.StaticDir)
	if len(e.CORSOrigins) > 0 {
		config.CORSOrigins = e.CORSOrigins
	}
	setDuration(&config.ReadTimeout, e.ReadTimeout)
	setDuration(&config.WriteTimeout, e.WriteTimeout)
	setDuration(&config.IdleTimeout, e.IdleTimeout)
	setDuration(&config.ShutdownTimeout, e.ShutdownTimeout)
	setString(&config.LogLevel, e.LogLevel)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
