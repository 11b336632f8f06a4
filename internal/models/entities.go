// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

// Package models defines the domain entities and API request/response types
// shared by the store, the HTTP layer, and the client.
package models

import "time"

// Project status values. These are the only recognized statuses; anything
// else is coerced to StatusPlanned by NormalizeStatus before persistence.
const (
	StatusPlanned    = "planowany"   // planned
	StatusTender     = "przetarg"    // out for tender
	StatusInProgress = "realizacja"  // under construction
	StatusStale      = "nieaktualny" // no longer current
)

// EntityKind discriminates the polymorphic parent of a comment.
type EntityKind string

const (
	KindPoints  EntityKind = "points"
	KindTunnels EntityKind = "tunnels"
)

// Valid reports whether the kind names a known entity table.
func (k EntityKind) Valid() bool {
	return k == KindPoints || k == KindTunnels
}

// NormalizeStatus coerces an arbitrary status string to a recognized value.
// Missing or unrecognized statuses become StatusPlanned; this is deliberate
// server-side normalization rather than a validation error, so stale clients
// can never wedge an entity into an unknown state.
func NormalizeStatus(s string) string {
	switch s {
	case StatusPlanned, StatusTender, StatusInProgress, StatusStale:
		return s
	default:
		return StatusPlanned
	}
}

// User is an account record. Accounts are provisioned administratively;
// the password hash never leaves the store layer.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LatLng is a single geographic vertex in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point is a geographic marker with project metadata. Geometry is immutable
// after creation; only the metadata fields are editable.
type Point struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Director  string    `json:"director"`
	Winner    string    `json:"winner"`
	Note      string    `json:"note"`
	Status    string    `json:"status"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	CreatedAt time.Time `json:"created_at"`
}

// Tunnel is a polyline route with project metadata. Path is an ordered vertex
// sequence (length >= 1); insertion order defines the line geometry and is
// preserved exactly. Geometry edits replace the path wholesale.
type Tunnel struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Director  string    `json:"director"`
	Winner    string    `json:"winner"`
	Note      string    `json:"note"`
	Status    string    `json:"status"`
	Path      []LatLng  `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a journal entry attached to exactly one point or tunnel.
// UserID/UserEmail identify the author; only the author may edit or delete
// the comment, and any edit sets Edited.
type Comment struct {
	ID         int64      `json:"id"`
	EntityKind EntityKind `json:"entity_kind"`
	EntityID   int64      `json:"entity_id"`
	UserID     int64      `json:"user_id"`
	UserEmail  string     `json:"user_email"`
	Body       string     `json:"body"`
	CreatedAt  time.Time  `json:"created_at"`
	Edited     bool       `json:"edited"`
}
