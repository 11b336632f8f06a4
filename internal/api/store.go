// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package api

import (
	"context"

	"github.com/pbartnik/trasownik/internal/models"
)

// Store is the persistence surface the handlers depend on. *database.DB
// satisfies it; tests substitute an in-memory implementation.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	ListPoints(ctx context.Context) ([]models.Point, error)
	GetPoint(ctx context.Context, id int64) (*models.Point, error)
	CreatePoint(ctx context.Context, req *models.CreatePointRequest) (*models.Point, error)
	UpdatePoint(ctx context.Context, id int64, req *models.UpdatePointRequest) (*models.Point, error)
	DeletePoint(ctx context.Context, id int64) error

	ListTunnels(ctx context.Context) ([]models.Tunnel, error)
	GetTunnel(ctx context.Context, id int64) (*models.Tunnel, error)
	CreateTunnel(ctx context.Context, req *models.CreateTunnelRequest) (*models.Tunnel, error)
	UpdateTunnel(ctx context.Context, id int64, req *models.UpdateTunnelRequest) (*models.Tunnel, error)
	DeleteTunnel(ctx context.Context, id int64) error

	ListComments(ctx context.Context, kind models.EntityKind, entityID int64) ([]models.Comment, error)
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	CreateComment(ctx context.Context, kind models.EntityKind, entityID int64, author *models.User, body string) (*models.Comment, error)
	UpdateComment(ctx context.Context, id int64, body string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}
