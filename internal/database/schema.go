// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package database

import (
	"context"
	"fmt"
)

// schemaStatements defines the complete initial schema. All columns live in
// the initial CREATE TABLE statements; incremental changes go through the
// versioned migrations in migrations.go.
//
// Comments reference their parent polymorphically (entity_kind + entity_id),
// so referential integrity cannot be a foreign key; the store enforces it in
// CreateComment and cascade-deletes journals alongside their parent.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS seq_users_id START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_points_id START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_tunnels_id START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_comments_id START 1`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_users_id'),
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS points (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_points_id'),
		title TEXT NOT NULL DEFAULT '',
		director TEXT NOT NULL DEFAULT '',
		winner TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'planowany',
		lat DOUBLE NOT NULL,
		lng DOUBLE NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS tunnels (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_tunnels_id'),
		name TEXT NOT NULL DEFAULT '',
		director TEXT NOT NULL DEFAULT '',
		winner TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'planowany',
		path TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_comments_id'),
		entity_kind TEXT NOT NULL,
		entity_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		user_email TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		edited BOOLEAN NOT NULL DEFAULT FALSE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments (entity_kind, entity_id)`,
}

// createSchema executes the initial schema statements.
func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
