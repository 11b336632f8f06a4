// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package uistate

import (
	"testing"

	json "github.com/goccy/go-json"

	"github.com/pbartnik/trasownik/internal/models"
)

func TestSelectClearsArmedMode(t *testing.T) {
	t.Parallel()

	s := Update(NewState(), StartDrawTunnel{})
	s = Update(s, AddVertex{Vertex: models.LatLng{Lat: 52, Lng: 21}})

	s = Update(s, Select{Kind: models.KindPoints, ID: 7})

	if s.Mode != ModeBrowse {
		t.Errorf("mode = %q, want browse", s.Mode)
	}
	if s.DraftPath != nil {
		t.Errorf("draft not discarded: %+v", s.DraftPath)
	}
	if s.Selection == nil || s.Selection.ID != 7 || s.Selection.Kind != models.KindPoints {
		t.Errorf("selection = %+v", s.Selection)
	}
}

func TestStatusFiltersDefaultVisible(t *testing.T) {
	t.Parallel()

	s := NewState()
	for _, status := range []string{models.StatusPlanned, models.StatusTender, models.StatusInProgress, models.StatusStale} {
		if !s.Visible(status) {
			t.Errorf("status %q hidden by default", status)
		}
	}
}

func TestToggleStatusFilter(t *testing.T) {
	t.Parallel()

	s := Update(NewState(), ToggleStatusFilter{Status: models.StatusStale})
	if s.Visible(models.StatusStale) {
		t.Error("nieaktualny still visible after toggle")
	}
	if !s.Visible(models.StatusPlanned) {
		t.Error("toggle leaked onto other statuses")
	}

	s = Update(s, ToggleStatusFilter{Status: models.StatusStale})
	if !s.Visible(models.StatusStale) {
		t.Error("second toggle did not restore visibility")
	}
}

func TestUpdateDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	before := Update(NewState(), ToggleStatusFilter{Status: models.StatusStale})
	_ = Update(before, ToggleStatusFilter{Status: models.StatusPlanned})

	// The second Update worked on a copy; before's filter map must be intact.
	if !before.Visible(models.StatusPlanned) {
		t.Error("input state mutated by reducer")
	}
	if before.Visible(models.StatusStale) {
		t.Error("original filter lost")
	}
}

func TestDrawTunnelVertexAccumulation(t *testing.T) {
	t.Parallel()

	s := Update(NewState(), StartDrawTunnel{})
	s = Update(s, AddVertex{Vertex: models.LatLng{Lat: 52, Lng: 21}})
	s = Update(s, AddVertex{Vertex: models.LatLng{Lat: 51, Lng: 19}})
	s = Update(s, AddVertex{Vertex: models.LatLng{Lat: 50, Lng: 20}})

	if len(s.DraftPath) != 3 {
		t.Fatalf("draft len = %d, want 3", len(s.DraftPath))
	}
	if s.DraftPath[0].Lat != 52 || s.DraftPath[2].Lat != 50 {
		t.Errorf("vertex order wrong: %+v", s.DraftPath)
	}

	s = Update(s, UndoVertex{})
	if len(s.DraftPath) != 2 {
		t.Errorf("undo: draft len = %d, want 2", len(s.DraftPath))
	}

	s = Update(s, FinishDraw{})
	if s.Mode != ModeBrowse || s.DraftPath != nil {
		t.Errorf("finish: mode = %q, draft = %+v", s.Mode, s.DraftPath)
	}
}

func TestAddVertexIgnoredOutsideDrawMode(t *testing.T) {
	t.Parallel()

	s := Update(NewState(), AddVertex{Vertex: models.LatLng{Lat: 52, Lng: 21}})
	if s.DraftPath != nil {
		t.Errorf("vertex accepted in browse mode: %+v", s.DraftPath)
	}

	s = Update(NewState(), UndoVertex{})
	if s.Mode != ModeBrowse {
		t.Errorf("mode = %q", s.Mode)
	}
}

func TestCancelDiscardsEverythingArmed(t *testing.T) {
	t.Parallel()

	s := Update(NewState(), StartAddPoint{})
	s = Update(s, Cancel{})
	if s.Mode != ModeBrowse {
		t.Errorf("mode = %q, want browse", s.Mode)
	}
}

func TestEntityDeletedClearsMatchingSelection(t *testing.T) {
	t.Parallel()

	s := Update(NewState(), Select{Kind: models.KindTunnels, ID: 3})

	// A delete of something else leaves the selection alone.
	s = Update(s, EntityDeleted{Kind: models.KindPoints, ID: 3})
	if s.Selection == nil {
		t.Fatal("selection cleared by unrelated delete")
	}

	s = Update(s, EntityDeleted{Kind: models.KindTunnels, ID: 3})
	if s.Selection != nil {
		t.Errorf("selection survived its entity: %+v", s.Selection)
	}
}

func TestStateSerializationRoundTrip(t *testing.T) {
	t.Parallel()

	s := Update(NewState(), StartDrawTunnel{})
	s = Update(s, AddVertex{Vertex: models.LatLng{Lat: 52.2297, Lng: 21.0122}})
	s = Update(s, ToggleStatusFilter{Status: models.StatusStale})

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var restored State
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if restored.Mode != ModeDrawTunnel {
		t.Errorf("mode = %q", restored.Mode)
	}
	if len(restored.DraftPath) != 1 || restored.DraftPath[0].Lat != 52.2297 {
		t.Errorf("draft = %+v", restored.DraftPath)
	}
	if restored.Visible(models.StatusStale) {
		t.Error("filter lost in round trip")
	}
}
