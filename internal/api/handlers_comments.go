// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package api

import (
	"net/http"
	"strings"

	"github.com/pbartnik/trasownik/internal/logging"
	"github.com/pbartnik/trasownik/internal/models"
)

// The comment handlers are factories parameterized by entity kind. The
// router binds them once per entity subtree, so the kind is a typed
// constant rather than a free-form URL segment.

// commentBody decodes and trims the comment body. Whitespace-only bodies
// are rejected.
func commentBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req models.CommentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid request body", err)
		return "", false
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "body must not be empty", nil)
		return "", false
	}
	return body, true
}

// authorizedComment loads a comment, verifies it belongs to the addressed
// entity, and verifies the caller authored it. Anyone may read a journal;
// only the author may change it.
func (h *Handler) authorizedComment(w http.ResponseWriter, r *http.Request, kind models.EntityKind) (*models.Comment, bool) {
	entityID, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "Entity not found", nil)
		return nil, false
	}
	commentID, err := idParam(r, "commentID")
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "Comment not found", nil)
		return nil, false
	}

	comment, err := h.store.GetComment(r.Context(), commentID)
	if err != nil {
		respondStoreError(w, err, "Comment not found")
		return nil, false
	}
	if comment.EntityKind != kind || comment.EntityID != entityID {
		// The comment exists but not under this journal.
		respondError(w, http.StatusNotFound, codeNotFound, "Comment not found", nil)
		return nil, false
	}

	user, err := h.currentUser(r)
	if err != nil {
		respondUnauthorized(w, "Authentication required")
		return nil, false
	}
	if comment.UserID != user.ID {
		logging.Ctx(r.Context()).Warn().
			Int64("comment_id", comment.ID).
			Int64("author_id", comment.UserID).
			Int64("caller_id", user.ID).
			Msg("Comment mutation denied")
		respondError(w, http.StatusForbidden, codeForbidden, "Only the author may modify this comment", nil)
		return nil, false
	}
	return comment, true
}

// CommentsList handles GET /api/v1/{points,tunnels}/{id}/comments. Newest
// first. Requires auth only; there is no ownership check to read a journal.
func (h *Handler) CommentsList(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityID, err := idParam(r, "id")
		if err != nil {
			respondError(w, http.StatusNotFound, codeNotFound, "Entity not found", nil)
			return
		}

		comments, err := h.store.ListComments(r.Context(), kind, entityID)
		if err != nil {
			respondStoreError(w, err, "Entity not found")
			return
		}
		respondSuccess(w, http.StatusOK, comments)
	}
}

// CommentsCreate handles POST /api/v1/{points,tunnels}/{id}/comments.
// Authorship is stamped from the authenticated caller, never the payload.
func (h *Handler) CommentsCreate(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityID, err := idParam(r, "id")
		if err != nil {
			respondError(w, http.StatusNotFound, codeNotFound, "Entity not found", nil)
			return
		}

		body, ok := commentBody(w, r)
		if !ok {
			return
		}

		user, err := h.currentUser(r)
		if err != nil {
			respondUnauthorized(w, "Authentication required")
			return
		}

		comment, err := h.store.CreateComment(r.Context(), kind, entityID, user, body)
		if err != nil {
			respondStoreError(w, err, "Entity not found")
			return
		}

		logging.Ctx(r.Context()).Info().
			Int64("comment_id", comment.ID).
			Str("entity_kind", string(kind)).
			Int64("entity_id", entityID).
			Msg("Comment created")
		respondSuccess(w, http.StatusCreated, comment)
	}
}

// CommentsUpdate handles PUT .../comments/{commentID}. Author-only; a
// successful edit sets edited=true.
func (h *Handler) CommentsUpdate(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comment, ok := h.authorizedComment(w, r, kind)
		if !ok {
			return
		}

		body, ok := commentBody(w, r)
		if !ok {
			return
		}

		updated, err := h.store.UpdateComment(r.Context(), comment.ID, body)
		if err != nil {
			respondStoreError(w, err, "Comment not found")
			return
		}
		respondSuccess(w, http.StatusOK, updated)
	}
}

// CommentsDelete handles DELETE .../comments/{commentID}. Author-only.
func (h *Handler) CommentsDelete(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comment, ok := h.authorizedComment(w, r, kind)
		if !ok {
			return
		}

		if err := h.store.DeleteComment(r.Context(), comment.ID); err != nil {
			respondStoreError(w, err, "Comment not found")
			return
		}

		logging.Ctx(r.Context()).Info().Int64("comment_id", comment.ID).Msg("Comment deleted")
		respondSuccess(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
