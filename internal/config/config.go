// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

// Package config provides layered application configuration.
//
// Configuration is resolved in three layers, later layers overriding earlier:
//
//  1. Struct defaults (defaultConfig)
//  2. Optional YAML config file (TRASOWNIK_CONFIG or ./config.yaml, /etc/trasownik/config.yaml)
//  3. Environment variables (SECTION_FIELD, e.g. SECURITY_JWT_SECRET -> security.jwt_secret)
//
// The resolved config is validated before use; the server refuses to start on
// an invalid configuration (notably a missing or short JWT secret).
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`       // Database file path; ":memory:" for ephemeral
	MaxMemory string `koanf:"max_memory"` // DuckDB memory limit, e.g. "1GB"
	Threads   int    `koanf:"threads"`    // 0 means use runtime.NumCPU()
}

// SecurityConfig holds authentication and access-control settings.
type SecurityConfig struct {
	// JWTSecret signs bearer tokens (HS256). Required, minimum 32 characters.
	// There is no revocation list; token expiry is the only invalidation.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the token lifetime. Default: 30 days.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AdminEmail/AdminPassword provision an account at startup if absent.
	// This is the only way to create users while registration is disabled.
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`

	// RegistrationEnabled gates POST /api/v1/auth/register. When false
	// (the default) the endpoint always responds 403 regardless of input.
	RegistrationEnabled bool `koanf:"registration_enabled"`

	// BcryptCost is the password hashing cost factor. Minimum 10.
	BcryptCost int `koanf:"bcrypt_cost"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults (layer 1).
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/trasownik.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Security: SecurityConfig{
			SessionTimeout:      30 * 24 * time.Hour,
			RegistrationEnabled: false,
			BcryptCost:          10,
			CORSOrigins:         []string{},
			RateLimitRequests:   100,
			RateLimitWindow:     time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for fatal misconfiguration.
// The JWT secret check is fail-closed: the server must not come up
// issuing tokens signed with an empty or guessable secret.
func (c *Config) Validate() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("SECURITY_JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("SECURITY_JWT_SECRET must be at least 32 characters, got %d", len(c.Security.JWTSecret))
	}
	if c.Security.BcryptCost < 10 || c.Security.BcryptCost > 16 {
		return fmt.Errorf("security.bcrypt_cost must be between 10 and 16, got %d", c.Security.BcryptCost)
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive, got %s", c.Security.SessionTimeout)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}
