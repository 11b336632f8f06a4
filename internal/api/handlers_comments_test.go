// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pbartnik/trasownik/internal/models"
)

// createTestPoint inserts a point through the API and returns its id.
func createTestPoint(t *testing.T, env *testEnv, token string) int64 {
	t.Helper()
	rec, envelope := env.request(t, http.MethodPost, "/api/v1/points", token,
		models.CreatePointRequest{Title: "Punkt", Lat: ptrF(52.0), Lng: ptrF(21.0)})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create point: status = %d", rec.Code)
	}
	var point models.Point
	decodeData(t, envelope, &point)
	return point.ID
}

func TestCommentsCreateStampsAuthor(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userA, tokenA := env.addUser(t, "a@example.com", "haslo-123")
	pointID := createTestPoint(t, env, tokenA)

	// Authorship comes from the token; spoofed fields in the payload are
	// ignored.
	rec, envelope := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/points/%d/comments", pointID), tokenA,
		map[string]interface{}{"body": "pierwszy wpis", "user_id": 999, "user_email": "fake@example.com"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}

	var comment models.Comment
	decodeData(t, envelope, &comment)
	if comment.UserID != userA.ID || comment.UserEmail != userA.Email {
		t.Errorf("author = %d/%q, want %d/%q", comment.UserID, comment.UserEmail, userA.ID, userA.Email)
	}
	if comment.Edited {
		t.Error("new comment must not be marked edited")
	}
	if comment.EntityKind != models.KindPoints || comment.EntityID != pointID {
		t.Errorf("parent = %s/%d", comment.EntityKind, comment.EntityID)
	}
}

func TestCommentsRejectEmptyBody(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.addUser(t, "a@example.com", "haslo-123")
	pointID := createTestPoint(t, env, token)

	for _, body := range []string{"", "   ", "\t\n"} {
		rec, envelope := env.request(t, http.MethodPost,
			fmt.Sprintf("/api/v1/points/%d/comments", pointID), token,
			models.CommentRequest{Body: body})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
		if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
			t.Errorf("body %q: error = %+v", body, envelope.Error)
		}
	}
}

func TestCommentsOnMissingParent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.addUser(t, "a@example.com", "haslo-123")

	rec, _ := env.request(t, http.MethodPost, "/api/v1/points/9999/comments", token,
		models.CommentRequest{Body: "wpis"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("create status = %d, want 404", rec.Code)
	}

	rec, _ = env.request(t, http.MethodGet, "/api/v1/points/9999/comments", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("list status = %d, want 404", rec.Code)
	}
}

func TestCommentsAuthorOnlyMutation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, tokenA := env.addUser(t, "a@example.com", "haslo-123")
	_, tokenB := env.addUser(t, "b@example.com", "haslo-456")
	pointID := createTestPoint(t, env, tokenA)

	_, envelope := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/points/%d/comments", pointID), tokenA,
		models.CommentRequest{Body: "wpis uzytkownika A"})
	var comment models.Comment
	decodeData(t, envelope, &comment)

	commentPath := fmt.Sprintf("/api/v1/points/%d/comments/%d", pointID, comment.ID)

	// User B cannot edit or delete A's comment.
	rec, envelope := env.request(t, http.MethodPut, commentPath, tokenB,
		models.CommentRequest{Body: "podmieniony"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("update by non-author: status = %d, want 403", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "FORBIDDEN" {
		t.Errorf("error = %+v", envelope.Error)
	}

	rec, _ = env.request(t, http.MethodDelete, commentPath, tokenB, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("delete by non-author: status = %d, want 403", rec.Code)
	}

	// But user B can still list and read it.
	_, envelope = env.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/points/%d/comments", pointID), tokenB, nil)
	var comments []models.Comment
	decodeData(t, envelope, &comments)
	if len(comments) != 1 || comments[0].Body != "wpis uzytkownika A" {
		t.Errorf("comments = %+v", comments)
	}

	// The author can edit; the edit sets the flag.
	rec, envelope = env.request(t, http.MethodPut, commentPath, tokenA,
		models.CommentRequest{Body: "poprawiony wpis"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update by author: status = %d", rec.Code)
	}
	var updated models.Comment
	decodeData(t, envelope, &updated)
	if !updated.Edited {
		t.Error("edit must set edited=true")
	}
	if updated.Body != "poprawiony wpis" {
		t.Errorf("body = %q", updated.Body)
	}

	// And the author can delete.
	rec, _ = env.request(t, http.MethodDelete, commentPath, tokenA, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("delete by author: status = %d", rec.Code)
	}
}

func TestCommentsListNewestFirst(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.addUser(t, "a@example.com", "haslo-123")
	pointID := createTestPoint(t, env, token)

	for i := 0; i < 3; i++ {
		env.request(t, http.MethodPost,
			fmt.Sprintf("/api/v1/points/%d/comments", pointID), token,
			models.CommentRequest{Body: fmt.Sprintf("wpis %d", i)})
	}

	_, envelope := env.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/points/%d/comments", pointID), token, nil)
	var comments []models.Comment
	decodeData(t, envelope, &comments)

	if len(comments) != 3 {
		t.Fatalf("len = %d, want 3", len(comments))
	}
	if comments[0].Body != "wpis 2" || comments[2].Body != "wpis 0" {
		t.Errorf("order wrong: %q ... %q", comments[0].Body, comments[2].Body)
	}
}

func TestCommentsCascadeDeleteWithParent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.addUser(t, "a@example.com", "haslo-123")
	pointID := createTestPoint(t, env, token)

	_, envelope := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/points/%d/comments", pointID), token,
		models.CommentRequest{Body: "wpis"})
	var comment models.Comment
	decodeData(t, envelope, &comment)

	rec, _ := env.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/points/%d", pointID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete point: status = %d", rec.Code)
	}

	// The journal must not survive its parent.
	if _, ok := env.store.comments[comment.ID]; ok {
		t.Error("comment orphaned after parent delete")
	}
}

func TestCommentsOnTunnels(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.addUser(t, "a@example.com", "haslo-123")

	_, envelope := env.request(t, http.MethodPost, "/api/v1/tunnels", token,
		models.CreateTunnelRequest{Name: "Trasa", Path: testPath})
	var tunnel models.Tunnel
	decodeData(t, envelope, &tunnel)

	rec, envelope := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/tunnels/%d/comments", tunnel.ID), token,
		models.CommentRequest{Body: "wpis o trasie"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}

	var comment models.Comment
	decodeData(t, envelope, &comment)
	if comment.EntityKind != models.KindTunnels {
		t.Errorf("kind = %q, want tunnels", comment.EntityKind)
	}

	// A tunnel journal is not reachable through the points routes.
	rec, _ = env.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/points/%d/comments", tunnel.ID), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-kind list status = %d, want 404", rec.Code)
	}
}

func TestCommentsMutationRequiresMatchingParent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.addUser(t, "a@example.com", "haslo-123")
	pointID := createTestPoint(t, env, token)

	_, envelope := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/points/%d/comments", pointID), token,
		models.CommentRequest{Body: "wpis"})
	var comment models.Comment
	decodeData(t, envelope, &comment)

	// Same comment id addressed through the wrong journal: 404, even for
	// the author.
	rec, _ := env.request(t, http.MethodPut,
		fmt.Sprintf("/api/v1/tunnels/%d/comments/%d", pointID, comment.ID), token,
		models.CommentRequest{Body: "podmieniony"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-kind update status = %d, want 404", rec.Code)
	}

	rec, _ = env.request(t, http.MethodDelete,
		fmt.Sprintf("/api/v1/tunnels/%d/comments/%d", pointID, comment.ID), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-kind delete status = %d, want 404", rec.Code)
	}
}
