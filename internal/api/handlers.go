// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

// Package api implements the HTTP surface: Chi routing, the JSON response
// envelope, and the handlers for auth, points, tunnels, and comments.
package api

import (
	"time"

	"github.com/pbartnik/trasownik/internal/auth"
	"github.com/pbartnik/trasownik/internal/config"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	store      Store
	jwtManager *auth.JWTManager
	hasher     *auth.PasswordHasher
	cfg        *config.Config
	startTime  time.Time
}

// NewHandler creates the handler set backed by the given store.
func NewHandler(store Store, jwtManager *auth.JWTManager, hasher *auth.PasswordHasher, cfg *config.Config) *Handler {
	return &Handler{
		store:      store,
		jwtManager: jwtManager,
		hasher:     hasher,
		cfg:        cfg,
		startTime:  time.Now(),
	}
}
