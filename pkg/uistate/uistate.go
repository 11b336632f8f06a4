// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

// Package uistate models the map view's interaction state as an explicit
// serializable value advanced by a single pure reducer. Frontends hold one
// State, feed user actions through Update, and render from the result;
// nothing in here talks to the network or mutates in place.
package uistate

import (
	"github.com/pbartnik/trasownik/internal/models"
)

// Mode is the map's current interaction mode.
type Mode string

const (
	// ModeBrowse is the default: clicking selects, dragging pans.
	ModeBrowse Mode = "browse"
	// ModeAddPoint arms point placement: the next map click creates a point.
	ModeAddPoint Mode = "add_point"
	// ModeDrawTunnel collects polyline vertices until finished or cancelled.
	ModeDrawTunnel Mode = "draw_tunnel"
)

// Selection identifies the entity whose details panel is open, if any.
type Selection struct {
	Kind models.EntityKind `json:"kind"`
	ID   int64             `json:"id"`
}

// State is the whole UI state. It is JSON-serializable so a frontend can
// persist it across reloads alongside the API token.
type State struct {
	Mode      Mode       `json:"mode"`
	Selection *Selection `json:"selection,omitempty"`

	// StatusFilters maps status → visible. A status missing from the map is
	// visible; filters only ever hide.
	StatusFilters map[string]bool `json:"status_filters,omitempty"`

	// DraftPath accumulates vertices while in ModeDrawTunnel.
	DraftPath []models.LatLng `json:"draft_path,omitempty"`
}

// NewState returns the initial state: browse mode, nothing selected, all
// statuses visible.
func NewState() State {
	return State{Mode: ModeBrowse}
}

// Visible reports whether entities with the given status pass the filter.
func (s State) Visible(status string) bool {
	if s.StatusFilters == nil {
		return true
	}
	visible, ok := s.StatusFilters[status]
	return !ok || visible
}

// Action is a user interaction the reducer understands.
type Action interface{ isAction() }

// Select opens the details panel for an entity. Selecting dismisses any
// armed add/draw mode.
type Select struct {
	Kind models.EntityKind
	ID   int64
}

// Deselect closes the details panel.
type Deselect struct{}

// ToggleStatusFilter flips visibility for one status.
type ToggleStatusFilter struct {
	Status string
}

// StartAddPoint arms point placement.
type StartAddPoint struct{}

// StartDrawTunnel enters polyline drawing with an empty draft.
type StartDrawTunnel struct{}

// AddVertex appends a vertex to the draft path. Ignored outside draw mode.
type AddVertex struct {
	Vertex models.LatLng
}

// UndoVertex removes the most recent draft vertex. Ignored when the draft
// is empty or outside draw mode.
type UndoVertex struct{}

// FinishDraw leaves draw mode keeping nothing: the caller is expected to
// have read DraftPath and submitted it before dispatching this.
type FinishDraw struct{}

// Cancel leaves any armed mode and discards the draft.
type Cancel struct{}

// EntityDeleted clears the selection if it pointed at the removed entity.
// Dispatched after a delete succeeds, or after a sync reload drops a row.
type EntityDeleted struct {
	Kind models.EntityKind
	ID   int64
}

func (Select) isAction()             {}
func (Deselect) isAction()           {}
func (ToggleStatusFilter) isAction() {}
func (StartAddPoint) isAction()      {}
func (StartDrawTunnel) isAction()    {}
func (AddVertex) isAction()          {}
func (UndoVertex) isAction()         {}
func (FinishDraw) isAction()         {}
func (Cancel) isAction()             {}
func (EntityDeleted) isAction()      {}

// Update advances the state by one action. It never mutates its input;
// unknown or inapplicable actions return the state unchanged.
func Update(s State, action Action) State {
	switch a := action.(type) {
	case Select:
		s.Selection = &Selection{Kind: a.Kind, ID: a.ID}
		s.Mode = ModeBrowse
		s.DraftPath = nil
		return s

	case Deselect:
		s.Selection = nil
		return s

	case ToggleStatusFilter:
		filters := make(map[string]bool, len(s.StatusFilters)+1)
		for k, v := range s.StatusFilters {
			filters[k] = v
		}
		filters[a.Status] = !s.Visible(a.Status)
		s.StatusFilters = filters
		return s

	case StartAddPoint:
		s.Mode = ModeAddPoint
		s.Selection = nil
		s.DraftPath = nil
		return s

	case StartDrawTunnel:
		s.Mode = ModeDrawTunnel
		s.Selection = nil
		s.DraftPath = nil
		return s

	case AddVertex:
		if s.Mode != ModeDrawTunnel {
			return s
		}
		path := make([]models.LatLng, len(s.DraftPath), len(s.DraftPath)+1)
		copy(path, s.DraftPath)
		s.DraftPath = append(path, a.Vertex)
		return s

	case UndoVertex:
		if s.Mode != ModeDrawTunnel || len(s.DraftPath) == 0 {
			return s
		}
		s.DraftPath = append([]models.LatLng(nil), s.DraftPath[:len(s.DraftPath)-1]...)
		return s

	case FinishDraw, Cancel:
		s.Mode = ModeBrowse
		s.DraftPath = nil
		return s

	case EntityDeleted:
		if s.Selection != nil && s.Selection.Kind == a.Kind && s.Selection.ID == a.ID {
			s.Selection = nil
		}
		return s
	}

	return s
}
