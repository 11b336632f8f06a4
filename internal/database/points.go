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
	"time"

	"github.com/pbartnik/trasownik/internal/metrics"
	"github.com/pbartnik/trasownik/internal/models"
)

// ListPoints returns all points, newest first.
func (db *DB) ListPoints(ctx context.Context) (points []models.Point, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "points", time.Since(start), err)
	}(time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, director, winner, note, status, lat, lng, created_at
		 FROM points ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	points = []models.Point{}
	for rows.Next() {
		var p models.Point
		if err := rows.Scan(&p.ID, &p.Title, &p.Director, &p.Winner, &p.Note,
			&p.Status, &p.Lat, &p.Lng, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GetPoint returns a single point by id.
func (db *DB) GetPoint(ctx context.Context, id int64) (*models.Point, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	p := &models.Point{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, director, winner, note, status, lat, lng, created_at
		 FROM points WHERE id = ?`, id,
	).Scan(&p.ID, &p.Title, &p.Director, &p.Winner, &p.Note,
		&p.Status, &p.Lat, &p.Lng, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query point: %w", err)
	}
	return p, nil
}

// CreatePoint inserts a new point and returns the canonical stored row.
// Status is normalized server-side; unknown values become "planowany".
func (db *DB) CreatePoint(ctx context.Context, req *models.CreatePointRequest) (point *models.Point, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) {
		metrics.RecordDBQuery("insert", "points", time.Since(start), err)
	}(time.Now())

	p := &models.Point{
		Title:    req.Title,
		Director: req.Director,
		Winner:   req.Winner,
		Note:     req.Note,
		Status:   models.NormalizeStatus(req.Status),
		Lat:      *req.Lat,
		Lng:      *req.Lng,
	}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO points (title, director, winner, note, status, lat, lng)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id, created_at`,
		p.Title, p.Director, p.Winner, p.Note, p.Status, p.Lat, p.Lng,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create point: %w", err)
	}
	return p, nil
}

// UpdatePoint applies a partial metadata update and returns the canonical
// row. Geometry is immutable; coordinates never change here. Last write
// wins - there is no revision check.
func (db *DB) UpdatePoint(ctx context.Context, id int64, req *models.UpdatePointRequest) (*models.Point, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	p, err := db.GetPoint(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Director != nil {
		p.Director = *req.Director
	}
	if req.Winner != nil {
		p.Winner = *req.Winner
	}
	if req.Note != nil {
		p.Note = *req.Note
	}
	if req.Status != nil {
		p.Status = models.NormalizeStatus(*req.Status)
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE points SET title = ?, director = ?, winner = ?, note = ?, status = ?
		 WHERE id = ?`,
		p.Title, p.Director, p.Winner, p.Note, p.Status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update point: %w", err)
	}
	return p, nil
}

// DeletePoint removes a point and its comment journal in one transaction.
// Returns ErrNotFound when the point does not exist.
func (db *DB) DeletePoint(ctx context.Context, id int64) error {
	return db.deleteEntity(ctx, models.KindPoints, id)
}

// deleteEntity removes an entity row and cascade-deletes its journal.
// Orphaned comments must never survive their parent.
func (db *DB) deleteEntity(ctx context.Context, kind models.EntityKind, id int64) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, kind), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s row: %w", kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM comments WHERE entity_kind = ? AND entity_id = ?`,
		string(kind), id); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}

	return tx.Commit()
}

// entityExists reports whether an entity row with the given id exists.
func (db *DB) entityExists(ctx context.Context, kind models.EntityKind, id int64) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = ?)`, kind), id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", kind, err)
	}
	return exists, nil
}
