// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package api

import (
	"net/http"

	"github.com/pbartnik/trasownik/internal/logging"
	"github.com/pbartnik/trasownik/internal/models"
)

// validPath reports whether a tunnel path is a non-empty sequence of finite
// vertices.
func validPath(path []models.LatLng) bool {
	if len(path) == 0 {
		return false
	}
	for _, v := range path {
		if !validCoordinate(v.Lat, v.Lng) {
			return false
		}
	}
	return true
}

// TunnelsList handles GET /api/v1/tunnels. Newest first.
func (h *Handler) TunnelsList(w http.ResponseWriter, r *http.Request) {
	tunnels, err := h.store.ListTunnels(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Internal server error", err)
		return
	}
	respondSuccess(w, http.StatusOK, tunnels)
}

// TunnelsGet handles GET /api/v1/tunnels/{id}.
func (h *Handler) TunnelsGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "Tunnel not found", nil)
		return
	}

	tunnel, err := h.store.GetTunnel(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "Tunnel not found")
		return
	}
	respondSuccess(w, http.StatusOK, tunnel)
}

// TunnelsCreate handles POST /api/v1/tunnels. The path must contain at
// least one finite vertex; vertex order is preserved as the line geometry.
func (h *Handler) TunnelsCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTunnelRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if !validPath(req.Path) {
		respondError(w, http.StatusBadRequest, codeValidation, "path must contain at least one finite vertex", nil)
		return
	}

	tunnel, err := h.store.CreateTunnel(r.Context(), &req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Internal server error", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("tunnel_id", tunnel.ID).Int("vertices", len(tunnel.Path)).Msg("Tunnel created")
	respondSuccess(w, http.StatusCreated, tunnel)
}

// TunnelsUpdate handles PUT /api/v1/tunnels/{id}. A provided path replaces
// the stored geometry wholesale and must itself be valid.
func (h *Handler) TunnelsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "Tunnel not found", nil)
		return
	}

	var req models.UpdateTunnelRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid request body", err)
		return
	}
	if req.Path != nil && !validPath(*req.Path) {
		respondError(w, http.StatusBadRequest, codeValidation, "path must contain at least one finite vertex", nil)
		return
	}

	tunnel, err := h.store.UpdateTunnel(r.Context(), id, &req)
	if err != nil {
		respondStoreError(w, err, "Tunnel not found")
		return
	}
	respondSuccess(w, http.StatusOK, tunnel)
}

// TunnelsDelete handles DELETE /api/v1/tunnels/{id}. The comment journal
// is removed with the tunnel.
func (h *Handler) TunnelsDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "Tunnel not found", nil)
		return
	}

	if err := h.store.DeleteTunnel(r.Context(), id); err != nil {
		respondStoreError(w, err, "Tunnel not found")
		return
	}

	logging.Ctx(r.Context()).Info().Int64("tunnel_id", id).Msg("Tunnel deleted")
	respondSuccess(w, http.StatusOK, map[string]bool{"ok": true})
}
