package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authboard/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Durations
// use timex.Duration so both "30s" and integer nanoseconds are accepted.
// Absent fields leave the current value untouched.
type JsonConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	SecretKey       string         `json:"secret_key"`
	AccessTokenTTL  timex.Duration `json:"access_token_ttl"`
	BcryptCost      int            `json:"bcrypt_cost"`
	StaticDir       string         `json:"static_dir"`
	CORSOrigins     []string       `json:"cors_origins"`
	ReadTimeout     timex.Duration `json:"read_timeout"`
	WriteTimeout    timex.Duration `json:"write_timeout"`
	IdleTimeout     timex.Duration `json:"idle_timeout"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	LogLevel        string         `json:"log_level"`
}

// parseJSON overlays the file at path onto config. An empty path is a no-op.
func parseJSON(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenTTL, c.AccessTokenTTL.Duration)
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	setString(&config.StaticDir, c.StaticDir)
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
	setDuration(&config.ReadTimeout, c.ReadTimeout.Duration)
	setDuration(&config.WriteTimeout, c.WriteTimeout.Duration)
	setDuration(&config.IdleTimeout, c.IdleTimeout.Duration)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout.Duration)
	setString(&config.LogLevel, c.LogLevel)

	return nil
}
