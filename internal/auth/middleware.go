// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pbartnik/trasownik/internal/logging"
)

type contextKey string

// ClaimsContextKey is the request-context key under which the authenticated
// caller's claims are stored by Middleware.Authenticate.
const ClaimsContextKey contextKey = "claims"

// UnauthorizedFunc writes the 401 response. The API layer injects its JSON
// envelope writer here so the auth package stays free of response-format
// concerns.
type UnauthorizedFunc func(w http.ResponseWriter, message string)

// Middleware enforces bearer-token authentication on protected routes.
type Middleware struct {
	jwtManager   *JWTManager
	unauthorized UnauthorizedFunc
}

// NewMiddleware creates an authentication middleware. If unauthorized is nil
// a plain-text 401 writer is used.
func NewMiddleware(jwtManager *JWTManager, unauthorized UnauthorizedFunc) *Middleware {
	if unauthorized == nil {
		unauthorized = func(w http.ResponseWriter, message string) {
			http.Error(w, message, http.StatusUnauthorized)
		}
	}
	return &Middleware{
		jwtManager:   jwtManager,
		unauthorized: unauthorized,
	}
}

// Authenticate rejects requests without a valid bearer token before any
// store access happens. On success the claims are stored in the request
// context for handlers to read via ClaimsFromContext.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r)
		if err != nil {
			m.unauthorized(w, err.Error())
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			m.unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// extractBearerToken extracts the JWT from the Authorization header.
func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("authorization header format must be Bearer {token}")
	}

	return parts[1], nil
}

// ClaimsFromContext retrieves the authenticated caller's claims.
// Returns nil if the request did not pass through Authenticate.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return claims
}
