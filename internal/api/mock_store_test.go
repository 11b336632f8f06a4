// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package api

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pbartnik/trasownik/internal/database"
	"github.com/pbartnik/trasownik/internal/models"
)

// mockStore is an in-memory Store with the same semantics as the DuckDB
// implementation: newest-first lists, status normalization, cascade-deleted
// journals, ErrNotFound on missing rows.
type mockStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*models.User
	points   map[int64]*models.Point
	tunnels  map[int64]*models.Tunnel
	comments map[int64]*models.Comment
	failPing bool
}

func newMockStore() *mockStore {
	return &mockStore{
		nextID:   0,
		users:    make(map[int64]*models.User),
		points:   make(map[int64]*models.Point),
		tunnels:  make(map[int64]*models.Tunnel),
		comments: make(map[int64]*models.Comment),
	}
}

func (s *mockStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *mockStore) Ping(ctx context.Context) error {
	if s.failPing {
		return context.DeadlineExceeded
	}
	return nil
}

func (s *mockStore) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{
		ID:           s.id(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *mockStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == needle {
			return u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *mockStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, database.ErrNotFound
}

func (s *mockStore) ListPoints(ctx context.Context) ([]models.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Point{}
	for _, p := range s.points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *mockStore) GetPoint(ctx context.Context, id int64) (*models.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.points[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, database.ErrNotFound
}

func (s *mockStore) CreatePoint(ctx context.Context, req *models.CreatePointRequest) (*models.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &models.Point{
		ID:        s.id(),
		Title:     req.Title,
		Director:  req.Director,
		Winner:    req.Winner,
		Note:      req.Note,
		Status:    models.NormalizeStatus(req.Status),
		Lat:       *req.Lat,
		Lng:       *req.Lng,
		CreatedAt: time.Now(),
	}
	s.points[p.ID] = p
	cp := *p
	return &cp, nil
}

func (s *mockStore) UpdatePoint(ctx context.Context, id int64, req *models.UpdatePointRequest) (*models.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.points[id]
	if !ok {
		return nil, database.ErrNotFound
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
	cp := *p
	return &cp, nil
}

func (s *mockStore) DeletePoint(ctx context.Context, id int64) error {
	return s.deleteEntity(models.KindPoints, id)
}

func (s *mockStore) ListTunnels(ctx context.Context) ([]models.Tunnel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Tunnel{}
	for _, t := range s.tunnels {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *mockStore) GetTunnel(ctx context.Context, id int64) (*models.Tunnel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tunnels[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, database.ErrNotFound
}

func (s *mockStore) CreateTunnel(ctx context.Context, req *models.CreateTunnelRequest) (*models.Tunnel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &models.Tunnel{
		ID:        s.id(),
		Name:      req.Name,
		Director:  req.Director,
		Winner:    req.Winner,
		Note:      req.Note,
		Status:    models.NormalizeStatus(req.Status),
		Path:      append([]models.LatLng(nil), req.Path...),
		CreatedAt: time.Now(),
	}
	s.tunnels[t.ID] = t
	cp := *t
	return &cp, nil
}

func (s *mockStore) UpdateTunnel(ctx context.Context, id int64, req *models.UpdateTunnelRequest) (*models.Tunnel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tunnels[id]
	if !ok {
		return nil, database.ErrNotFound
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
		t.Path = append([]models.LatLng(nil), (*req.Path)...)
	}
	cp := *t
	return &cp, nil
}

func (s *mockStore) DeleteTunnel(ctx context.Context, id int64) error {
	return s.deleteEntity(models.KindTunnels, id)
}

func (s *mockStore) deleteEntity(kind models.EntityKind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case models.KindPoints:
		if _, ok := s.points[id]; !ok {
			return database.ErrNotFound
		}
		delete(s.points, id)
	case models.KindTunnels:
		if _, ok := s.tunnels[id]; !ok {
			return database.ErrNotFound
		}
		delete(s.tunnels, id)
	}
	for cid, c := range s.comments {
		if c.EntityKind == kind && c.EntityID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *mockStore) entityExists(kind models.EntityKind, id int64) bool {
	switch kind {
	case models.KindPoints:
		_, ok := s.points[id]
		return ok
	case models.KindTunnels:
		_, ok := s.tunnels[id]
		return ok
	}
	return false
}

func (s *mockStore) ListComments(ctx context.Context, kind models.EntityKind, entityID int64) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.entityExists(kind, entityID) {
		return nil, database.ErrNotFound
	}
	out := []models.Comment{}
	for _, c := range s.comments {
		if c.EntityKind == kind && c.EntityID == entityID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *mockStore) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, database.ErrNotFound
}

func (s *mockStore) CreateComment(ctx context.Context, kind models.EntityKind, entityID int64, author *models.User, body string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.entityExists(kind, entityID) {
		return nil, database.ErrNotFound
	}
	c := &models.Comment{
		ID:         s.id(),
		EntityKind: kind,
		EntityID:   entityID,
		UserID:     author.ID,
		UserEmail:  author.Email,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	s.comments[c.ID] = c
	cp := *c
	return &cp, nil
}

func (s *mockStore) UpdateComment(ctx context.Context, id int64, body string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	c.Body = body
	c.Edited = true
	cp := *c
	return &cp, nil
}

func (s *mockStore) DeleteComment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}
