// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

// Package main is the entry point for the Trasownik server.
//
// Trasownik is a self-hosted tracker for infrastructure projects on a map:
// geographic markers ("points") and polyline routes ("tunnels") with Polish
// project statuses, per-entity comment journals, and shared editing across
// all authenticated users.
//
// # Startup order
//
//  1. Configuration: Koanf v2 layered load (defaults, YAML file, env vars)
//  2. Logging: zerolog, JSON or console format
//  3. Database: embedded DuckDB store with schema + versioned migrations
//  4. Admin account: seeded from SECURITY_ADMIN_EMAIL/SECURITY_ADMIN_PASSWORD
//     if absent - the only provisioning path while registration is disabled
//  5. HTTP server: Chi REST API under /api/v1, Prometheus under /metrics
//
// # Configuration
//
// Required:
//   - SECURITY_JWT_SECRET: 32+ character token signing secret (fail-closed)
//
// Common:
//   - SERVER_PORT (default 8080)
//   - DATABASE_PATH (default /data/trasownik.duckdb)
//   - SECURITY_ADMIN_EMAIL / SECURITY_ADMIN_PASSWORD: startup provisioning
//   - SECURITY_REGISTRATION_ENABLED (default false - register always 403)
//   - LOGGING_LEVEL / LOGGING_FORMAT
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the listener stops accepting,
// in-flight requests get server.shutdown_timeout to finish, then the store
// is closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/pbartnik/trasownik/internal/api"
	"github.com/pbartnik/trasownik/internal/auth"
	"github.com/pbartnik/trasownik/internal/config"
	"github.com/pbartnik/trasownik/internal/database"
	"github.com/pbartnik/trasownik/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config errors are logged with the default logger; the configured
		// one does not exist yet.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("registration_enabled", cfg.Security.RegistrationEnabled).
		Msg("Starting Trasownik")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}
	hasher, err := auth.NewPasswordHasher(cfg.Security.BcryptCost)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize password hasher")
	}

	if err := seedAdminUser(context.Background(), db, hasher, &cfg.Security); err != nil {
		logging.Fatal().Err(err).Msg("Failed to provision admin account")
	}

	handler := api.NewHandler(db, jwtManager, hasher, cfg)
	router := api.NewRouter(handler, jwtManager, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// seedAdminUser provisions the administrative account at startup if it does
// not exist. With registration disabled this is the only way users come
// into being, so a missing admin config on an empty database is fatal
// rather than silently producing an unusable instance.
func seedAdminUser(ctx context.Context, db *database.DB, hasher *auth.PasswordHasher, cfg *config.SecurityConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logging.Warn().Msg("No admin credentials configured; skipping provisioning")
		return nil
	}

	if _, err := db.GetUserByEmail(ctx, cfg.AdminEmail); err == nil {
		logging.Info().Str("email", cfg.AdminEmail).Msg("Admin account already exists")
		return nil
	} else if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	if len(cfg.AdminPassword) < 8 {
		return fmt.Errorf("admin password must be at least 8 characters")
	}

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user, err := db.CreateUser(ctx, cfg.AdminEmail, hash)
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	logging.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("Admin account provisioned")
	return nil
}
