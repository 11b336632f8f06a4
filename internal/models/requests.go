// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package models

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /api/v1/auth/register. The endpoint is
// policy-gated and rejects with 403 unless registration is explicitly enabled.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the issued bearer token and the authenticated user.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreatePointRequest is the body of POST /api/v1/points. Lat/Lng are pointers
// so that "missing" and "zero" can be told apart during validation.
type CreatePointRequest struct {
	Title    string   `json:"title"`
	Director string   `json:"director"`
	Winner   string   `json:"winner"`
	Note     string   `json:"note"`
	Status   string   `json:"status"`
	Lat      *float64 `json:"lat" validate:"required"`
	Lng      *float64 `json:"lng" validate:"required"`
}

// UpdatePointRequest is the body of PUT /api/v1/points/{id}. All fields are
// optional; absent fields leave the stored value untouched. Geometry is not
// editable after creation, so there are no coordinate fields here.
type UpdatePointRequest struct {
	Title    *string `json:"title,omitempty"`
	Director *string `json:"director,omitempty"`
	Winner   *string `json:"winner,omitempty"`
	Note     *string `json:"note,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// CreateTunnelRequest is the body of POST /api/v1/tunnels.
type CreateTunnelRequest struct {
	Name     string   `json:"name"`
	Director string   `json:"director"`
	Winner   string   `json:"winner"`
	Note     string   `json:"note"`
	Status   string   `json:"status"`
	Path     []LatLng `json:"path" validate:"required,min=1"`
}

// UpdateTunnelRequest is the body of PUT /api/v1/tunnels/{id}. A non-nil Path
// replaces the stored geometry wholesale; paths are never patched per-vertex.
type UpdateTunnelRequest struct {
	Name     *string   `json:"name,omitempty"`
	Director *string   `json:"director,omitempty"`
	Winner   *string   `json:"winner,omitempty"`
	Note     *string   `json:"note,omitempty"`
	Status   *string   `json:"status,omitempty"`
	Path     *[]LatLng `json:"path,omitempty"`
}

// CommentRequest is the body of comment create and update calls.
type CommentRequest struct {
	Body string `json:"body" validate:"required"`
}
