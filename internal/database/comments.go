// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pbartnik/trasownik/internal/models"
)

// ListComments returns the journal for one entity, newest first.
// Returns ErrNotFound when the parent entity does not exist.
func (db *DB) ListComments(ctx context.Context, kind models.EntityKind, entityID int64) ([]models.Comment, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	exists, err := db.entityExists(ctx, kind, entityID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, entity_kind, entity_id, user_id, user_email, body, created_at, edited
		 FROM comments WHERE entity_kind = ? AND entity_id = ? ORDER BY id DESC`,
		string(kind), entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.EntityKind, &c.EntityID, &c.UserID,
			&c.UserEmail, &c.Body, &c.CreatedAt, &c.Edited); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// GetComment returns a single comment by id.
func (db *DB) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	c := &models.Comment{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, entity_kind, entity_id, user_id, user_email, body, created_at, edited
		 FROM comments WHERE id = ?`, id,
	).Scan(&c.ID, &c.EntityKind, &c.EntityID, &c.UserID,
		&c.UserEmail, &c.Body, &c.CreatedAt, &c.Edited)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query comment: %w", err)
	}
	return c, nil
}

// CreateComment appends a journal entry to an existing entity. Returns
// ErrNotFound when the parent entity does not exist; the store never
// accepts orphaned comments.
func (db *DB) CreateComment(ctx context.Context, kind models.EntityKind, entityID int64, author *models.User, body string) (*models.Comment, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	exists, err := db.entityExists(ctx, kind, entityID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	c := &models.Comment{
		EntityKind: kind,
		EntityID:   entityID,
		UserID:     author.ID,
		UserEmail:  author.Email,
		Body:       body,
	}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO comments (entity_kind, entity_id, user_id, user_email, body)
		 VALUES (?, ?, ?, ?, ?) RETURNING id, created_at`,
		string(kind), entityID, author.ID, author.Email, body,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return c, nil
}

// UpdateComment replaces a comment's body and marks it edited. Authorship
// is enforced in the HTTP layer; the store applies the change as-is.
func (db *DB) UpdateComment(ctx context.Context, id int64, body string) (*models.Comment, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	c, err := db.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Body = body
	c.Edited = true
	_, err = db.conn.ExecContext(ctx,
		`UPDATE comments SET body = ?, edited = TRUE WHERE id = ?`, body, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return c, nil
}

// DeleteComment removes a single comment. Returns ErrNotFound when the
// comment does not exist.
func (db *DB) DeleteComment(ctx context.Context, id int64) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
