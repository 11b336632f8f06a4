// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package api

import (
	"errors"
	"net/http"

	"github.com/pbartnik/trasownik/internal/auth"
	"github.com/pbartnik/trasownik/internal/database"
	"github.com/pbartnik/trasownik/internal/logging"
	"github.com/pbartnik/trasownik/internal/metrics"
	"github.com/pbartnik/trasownik/internal/models"
)

// Login handles POST /api/v1/auth/login. Credential failures are reported
// with one uniform 401 message; whether the email exists is never revealed.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusInternalServerError, codeDatabaseError, "Internal server error", err)
			return
		}
		metrics.RecordLoginAttempt(false)
		respondUnauthorized(w, "Invalid email or password")
		return
	}

	if !h.hasher.Compare(user.PasswordHash, req.Password) {
		metrics.RecordLoginAttempt(false)
		logging.Ctx(r.Context()).Warn().Str("email", sanitizeLogValue(req.Email)).Msg("Failed login attempt")
		respondUnauthorized(w, "Invalid email or password")
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Internal server error", err)
		return
	}

	metrics.RecordLoginAttempt(true)
	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("User logged in")
	respondSuccess(w, http.StatusOK, &models.LoginResponse{Token: token, User: user})
}

// Register handles POST /api/v1/auth/register. The endpoint is gated by
// security.registration_enabled; while disabled (the default policy) it
// responds 403 without reading the body.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.Security.RegistrationEnabled {
		respondError(w, http.StatusForbidden, codeForbidden, "Registration is disabled", nil)
		return
	}

	var req models.RegisterRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if _, err := h.store.GetUserByEmail(r.Context(), req.Email); err == nil {
		respondError(w, http.StatusConflict, codeValidation, "Email already registered", nil)
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Internal server error", err)
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Internal server error", err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Internal server error", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("User registered")
	respondSuccess(w, http.StatusCreated, user)
}

// Me handles GET /api/v1/auth/me and returns the authenticated account.
// Clients call it on startup to decide whether a stored token is still
// usable; a 401 here forces a re-login.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Token is valid but the account is gone.
			respondUnauthorized(w, "Account no longer exists")
			return
		}
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Internal server error", err)
		return
	}

	respondSuccess(w, http.StatusOK, user)
}

// currentUser resolves the authenticated caller from request context claims.
// Used by handlers that stamp authorship.
func (h *Handler) currentUser(r *http.Request) (*models.User, error) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		return nil, errors.New("no authenticated user in context")
	}
	return &models.User{ID: claims.UserID, Email: claims.Email}, nil
}
