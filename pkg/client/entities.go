// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/pbartnik/trasownik/internal/models"
)

// CreatePoint creates a point and prepends the server's canonical row to the
// cache. The returned row, not the request payload, is what the cache holds:
// the server may have normalized the status or filled defaults.
func (c *Client) CreatePoint(ctx context.Context, req models.CreatePointRequest) (*models.Point, error) {
	var point models.Point
	if err := c.do(ctx, http.MethodPost, "/api/v1/points", req, &point); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache.Points = append([]models.Point{point}, c.cache.Points...)
	c.mu.Unlock()
	return &point, nil
}

// UpdatePoint applies a partial update and patches the cached row with the
// canonical result.
func (c *Client) UpdatePoint(ctx context.Context, id int64, req models.UpdatePointRequest) (*models.Point, error) {
	var point models.Point
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/points/%d", id), req, &point); err != nil {
		return nil, err
	}

	c.mu.Lock()
	for i := range c.cache.Points {
		if c.cache.Points[i].ID == point.ID {
			c.cache.Points[i] = point
			break
		}
	}
	c.mu.Unlock()
	return &point, nil
}

// DeletePoint removes a point server-side and drops it from the cache.
func (c *Client) DeletePoint(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/points/%d", id), nil, nil); err != nil {
		return err
	}

	c.mu.Lock()
	c.cache.Points = removePoint(c.cache.Points, id)
	c.mu.Unlock()
	return nil
}

// CreateTunnel creates a tunnel and prepends the canonical row to the cache.
func (c *Client) CreateTunnel(ctx context.Context, req models.CreateTunnelRequest) (*models.Tunnel, error) {
	var tunnel models.Tunnel
	if err := c.do(ctx, http.MethodPost, "/api/v1/tunnels", req, &tunnel); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache.Tunnels = append([]models.Tunnel{tunnel}, c.cache.Tunnels...)
	c.mu.Unlock()
	return &tunnel, nil
}

// UpdateTunnel applies a partial update and patches the cached row with the
// canonical result.
func (c *Client) UpdateTunnel(ctx context.Context, id int64, req models.UpdateTunnelRequest) (*models.Tunnel, error) {
	var tunnel models.Tunnel
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/tunnels/%d", id), req, &tunnel); err != nil {
		return nil, err
	}

	c.mu.Lock()
	for i := range c.cache.Tunnels {
		if c.cache.Tunnels[i].ID == tunnel.ID {
			c.cache.Tunnels[i] = tunnel
			break
		}
	}
	c.mu.Unlock()
	return &tunnel, nil
}

// DeleteTunnel removes a tunnel server-side and drops it from the cache.
func (c *Client) DeleteTunnel(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/tunnels/%d", id), nil, nil); err != nil {
		return err
	}

	c.mu.Lock()
	c.cache.Tunnels = removeTunnel(c.cache.Tunnels, id)
	c.mu.Unlock()
	return nil
}

// BatchError aggregates per-entity failures from a bulk operation. The
// client does not retry; after any failure the cache has been reloaded from
// the server (best effort), so the caller sees true state rather than a mix
// of applied and unapplied edits.
type BatchError struct {
	Failed map[int64]error
}

func (e *BatchError) Error() string {
	ids := make([]int64, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d: %v", id, e.Failed[id]))
	}
	return fmt.Sprintf("%d of batch failed [%s]", len(e.Failed), strings.Join(parts, "; "))
}

// batch runs op once per id in ascending order. On ErrSessionExpired it
// stops immediately and returns that error unwrapped. Other failures are
// collected into a *BatchError, and the cache is reloaded best-effort so
// partial application is visible to the caller. No retries.
func (c *Client) batch(ctx context.Context, ids []int64, op func(context.Context, int64) error) error {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	failed := make(map[int64]error)
	for _, id := range sorted {
		if err := op(ctx, id); err != nil {
			if errors.Is(err, ErrSessionExpired) {
				return err
			}
			failed[id] = err
		}
	}

	if len(failed) == 0 {
		return nil
	}
	if err := c.Refresh(ctx); err != nil && errors.Is(err, ErrSessionExpired) {
		return err
	}
	return &BatchError{Failed: failed}
}

// UpdateTunnelPaths pushes edited geometries one tunnel at a time.
// Successes patch the cache from canonical rows as they land.
func (c *Client) UpdateTunnelPaths(ctx context.Context, paths map[int64][]models.LatLng) error {
	ids := make([]int64, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}
	return c.batch(ctx, ids, func(ctx context.Context, id int64) error {
		path := paths[id]
		_, err := c.UpdateTunnel(ctx, id, models.UpdateTunnelRequest{Path: &path})
		return err
	})
}

// DeletePoints removes several points, one request per id.
func (c *Client) DeletePoints(ctx context.Context, ids []int64) error {
	return c.batch(ctx, ids, c.DeletePoint)
}

// DeleteTunnels removes several tunnels, one request per id.
func (c *Client) DeleteTunnels(ctx context.Context, ids []int64) error {
	return c.batch(ctx, ids, c.DeleteTunnel)
}

// ListComments returns the journal of a point or tunnel, newest first.
func (c *Client) ListComments(ctx context.Context, kind models.EntityKind, entityID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/api/v1/%s/%d/comments", kind, entityID), nil, &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment appends an entry to an entity's journal.
func (c *Client) CreateComment(ctx context.Context, kind models.EntityKind, entityID int64, body string) (*models.Comment, error) {
	var comment models.Comment
	err := c.do(ctx, http.MethodPost,
		fmt.Sprintf("/api/v1/%s/%d/comments", kind, entityID),
		models.CommentRequest{Body: body}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment edits an own comment. The server enforces authorship.
func (c *Client) UpdateComment(ctx context.Context, kind models.EntityKind, entityID, commentID int64, body string) (*models.Comment, error) {
	var comment models.Comment
	err := c.do(ctx, http.MethodPut,
		fmt.Sprintf("/api/v1/%s/%d/comments/%d", kind, entityID, commentID),
		models.CommentRequest{Body: body}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes an own comment.
func (c *Client) DeleteComment(ctx context.Context, kind models.EntityKind, entityID, commentID int64) error {
	return c.do(ctx, http.MethodDelete,
		fmt.Sprintf("/api/v1/%s/%d/comments/%d", kind, entityID, commentID), nil, nil)
}

func removePoint(points []models.Point, id int64) []models.Point {
	out := points[:0]
	for _, p := range points {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func removeTunnel(tunnels []models.Tunnel, id int64) []models.Tunnel {
	out := tunnels[:0]
	for _, t := range tunnels {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
