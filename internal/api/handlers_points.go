// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package api

import (
	"math"
	"net/http"

	"github.com/pbartnik/trasownik/internal/logging"
	"github.com/pbartnik/trasownik/internal/models"
)

// validCoordinate reports whether a latitude/longitude value is a usable
// finite number. JSON cannot carry NaN/Inf directly but lenient decoders
// and extreme values still need rejecting before they reach the store.
func validCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// PointsList handles GET /api/v1/points. Newest first.
func (h *Handler) PointsList(w http.ResponseWriter, r *http.Request) {
	points, err := h.store.ListPoints(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Internal server error", err)
		return
	}
	respondSuccess(w, http.StatusOK, points)
}

// PointsGet handles GET /api/v1/points/{id}.
func (h *Handler) PointsGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "Point not found", nil)
		return
	}

	point, err := h.store.GetPoint(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "Point not found")
		return
	}
	respondSuccess(w, http.StatusOK, point)
}

// PointsCreate handles POST /api/v1/points. Coordinates are required and
// must be finite; status is normalized server-side. The response carries
// the canonical stored row, which clients patch into their cache.
func (h *Handler) PointsCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePointRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if !validCoordinate(*req.Lat, *req.Lng) {
		respondError(w, http.StatusBadRequest, codeValidation, "lat/lng must be finite coordinates", nil)
		return
	}

	point, err := h.store.CreatePoint(r.Context(), &req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Internal server error", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("point_id", point.ID).Msg("Point created")
	respondSuccess(w, http.StatusCreated, point)
}

// PointsUpdate handles PUT /api/v1/points/{id}. Partial metadata update;
// geometry is immutable. Any authenticated user may edit any point.
func (h *Handler) PointsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "Point not found", nil)
		return
	}

	var req models.UpdatePointRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid request body", err)
		return
	}

	point, err := h.store.UpdatePoint(r.Context(), id, &req)
	if err != nil {
		respondStoreError(w, err, "Point not found")
		return
	}
	respondSuccess(w, http.StatusOK, point)
}

// PointsDelete handles DELETE /api/v1/points/{id}. The comment journal is
// removed with the point.
func (h *Handler) PointsDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "Point not found", nil)
		return
	}

	if err := h.store.DeletePoint(r.Context(), id); err != nil {
		respondStoreError(w, err, "Point not found")
		return
	}

	logging.Ctx(r.Context()).Info().Int64("point_id", id).Msg("Point deleted")
	respondSuccess(w, http.StatusOK, map[string]bool{"ok": true})
}
