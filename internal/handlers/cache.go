package handlers

import (
	"log"
	"net/http"
)

// HandleClearDistanceCache handles DELETE /api/v1/distance-cache
func (h *Handler) HandleClearDistanceCache(w http.ResponseWriter, r *http.Request) {
	log.Printf("[HTTP] DELETE /api/v1/distance-cache")

	if err := h.DB.DistanceCache().Clear(r.Context()); err != nil {
		h.handleInternalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
