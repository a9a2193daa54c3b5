package handlers

import (
	"errors"
	"log"
	"net/http"

	"field-navigator/internal/geocoding"
)

// HandleGetWeather handles GET /api/v1/weather
func (h *Handler) HandleGetWeather(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	log.Printf("[HTTP] GET /api/v1/weather: address=%s", address)

	if address == "" {
		h.handleValidationError(w, "Address is required")
		return
	}

	report, err := h.Weather.Current(r.Context(), address)
	if err != nil {
		var geoErr *geocoding.ErrGeocodingFailed
		if errors.As(err, &geoErr) {
			h.handleNotFound(w, geoErr.Error())
			return
		}
		h.handleUpstreamError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}
