package handlers

import (
	"errors"
	"log"
	"net/http"

	"field-navigator/internal/directions"
)

// HandleGetDirections handles GET /api/v1/directions
func (h *Handler) HandleGetDirections(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("origin")
	destination := r.URL.Query().Get("destination")
	log.Printf("[HTTP] GET /api/v1/directions: origin=%s destination=%s", origin, destination)

	if origin == "" || destination == "" {
		h.handleValidationError(w, "Both origin and destination are required")
		return
	}

	summary, err := h.Directions.Steps(r.Context(), origin, destination)
	if err != nil {
		h.handleDirectionsError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

// HandleGetTraffic handles GET /api/v1/traffic
func (h *Handler) HandleGetTraffic(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("origin")
	destination := r.URL.Query().Get("destination")
	log.Printf("[HTTP] GET /api/v1/traffic: origin=%s destination=%s", origin, destination)

	if origin == "" || destination == "" {
		h.handleValidationError(w, "Both origin and destination are required")
		return
	}

	eta, err := h.Directions.TrafficETA(r.Context(), origin, destination)
	if err != nil {
		h.handleDirectionsError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, eta)
}

// handleDirectionsError maps directions failures onto API error codes
func (h *Handler) handleDirectionsError(w http.ResponseWriter, err error) {
	var noRoute *directions.ErrNoRoute
	if errors.As(err, &noRoute) {
		h.handleNotFound(w, noRoute.Error())
		return
	}
	h.handleUpstreamError(w, err)
}
