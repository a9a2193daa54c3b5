package handlers

import (
	"errors"
	"log"
	"net/http"

	"field-navigator/internal/geocoding"
	"field-navigator/internal/models"
)

// GeocodeResponse is the resolved location for a geocode query
type GeocodeResponse struct {
	Coords      models.Coordinates `json:"coords"`
	DisplayName string             `json:"display_name"`
}

// HandleGeocodeAddress handles GET /api/v1/geocode
func (h *Handler) HandleGeocodeAddress(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	log.Printf("[HTTP] GET /api/v1/geocode: query=%s", query)

	if query == "" {
		h.handleValidationError(w, "Query parameter q is required")
		return
	}

	result, err := h.Geocoder.Lookup(r.Context(), query)
	if err != nil {
		var geoErr *geocoding.ErrGeocodingFailed
		if errors.As(err, &geoErr) {
			h.handleNotFound(w, geoErr.Error())
			return
		}
		h.handleUpstreamError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, GeocodeResponse{
		Coords:      result.Coords,
		DisplayName: result.DisplayName,
	})
}
