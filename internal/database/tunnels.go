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

	json "github.com/goccy/go-json"

	"github.com/pbartnik/trasownik/internal/metrics"
	"github.com/pbartnik/trasownik/internal/models"
)

// encodePath serializes a tunnel path for storage. The JSON array preserves
// vertex order, which defines the line geometry.
func encodePath(path []models.LatLng) (string, error) {
	data, err := json.Marshal(path)
	if err != nil {
		return "", fmt.Errorf("failed to encode path: %w", err)
	}
	return string(data), nil
}

// decodePath deserializes a stored tunnel path.
func decodePath(raw string) ([]models.LatLng, error) {
	var path []models.LatLng
	if err := json.Unmarshal([]byte(raw), &path); err != nil {
		return nil, fmt.Errorf("failed to decode path: %w", err)
	}
	return path, nil
}

// ListTunnels returns all tunnels, newest first.
func (db *DB) ListTunnels(ctx context.Context) (tunnels []models.Tunnel, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "tunnels", time.Since(start), err)
	}(time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, director, winner, note, status, path, created_at
		 FROM tunnels ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tunnels: %w", err)
	}
	defer rows.Close()

	tunnels = []models.Tunnel{}
	for rows.Next() {
		var t models.Tunnel
		var rawPath string
		if err := rows.Scan(&t.ID, &t.Name, &t.Director, &t.Winner, &t.Note,
			&t.Status, &rawPath, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tunnel: %w", err)
		}
		if t.Path, err = decodePath(rawPath); err != nil {
			return nil, err
		}
		tunnels = append(tunnels, t)
	}
	return tunnels, rows.Err()
}

// GetTunnel returns a single tunnel by id.
func (db *DB) GetTunnel(ctx context.Context, id int64) (*models.Tunnel, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	t := &models.Tunnel{}
	var rawPath string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, director, winner, note, status, path, created_at
		 FROM tunnels WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Director, &t.Winner, &t.Note,
		&t.Status, &rawPath, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tunnel: %w", err)
	}
	if t.Path, err = decodePath(rawPath); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTunnel inserts a new tunnel and returns the canonical stored row.
// Status is normalized server-side; unknown values become "planowany".
func (db *DB) CreateTunnel(ctx context.Context, req *models.CreateTunnelRequest) (tunnel *models.Tunnel, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) {
		metrics.RecordDBQuery("insert", "tunnels", time.Since(start), err)
	}(time.Now())

	rawPath, err := encodePath(req.Path)
	if err != nil {
		return nil, err
	}

	t := &models.Tunnel{
		Name:     req.Name,
		Director: req.Director,
		Winner:   req.Winner,
		Note:     req.Note,
		Status:   models.NormalizeStatus(req.Status),
		Path:     req.Path,
	}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO tunnels (name, director, winner, note, status, path)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id, created_at`,
		t.Name, t.Director, t.Winner, t.Note, t.Status, rawPath,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create tunnel: %w", err)
	}
	return t, nil
}

// UpdateTunnel applies a partial update and returns the canonical row. A
// non-nil Path replaces the stored geometry wholesale. Last write wins.
func (db *DB) UpdateTunnel(ctx context.Context, id int64, req *models.UpdateTunnelRequest) (*models.Tunnel, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	t, err := db.GetTunnel(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Director != nil {
		t.Director = *req.Director
	}
	if req.Winner != nil {
		t.Winner = *req.Winner
	}
	if req.Note != nil {
		t.Note = *req.Note
	}
	if req.Status != nil {
		t.Status = models.NormalizeStatus(*req.Status)
	}
	if req.Path != nil {
		t.Path = *req.Path
	}

	rawPath, err := encodePath(t.Path)
	if err != nil {
		return nil, err
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE tunnels SET name = ?, director = ?, winner = ?, note = ?, status = ?, path = ?
		 WHERE id = ?`,
		t.Name, t.Director, t.Winner, t.Note, t.Status, rawPath, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update tunnel: %w", err)
	}
	return t, nil
}

// DeleteTunnel removes a tunnel and its comment journal in one transaction.
// Returns ErrNotFound when the tunnel does not exist.
func (db *DB) DeleteTunnel(ctx context.Context, id int64) error {
	return db.deleteEntity(ctx, models.KindTunnels, id)
}
