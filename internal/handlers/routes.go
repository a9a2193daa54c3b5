package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// OptimizeRouteRequest represents the request for route optimization
type OptimizeRouteRequest struct {
	Addresses []string `json:"addresses"`
}

// HandleOptimizeRoute handles POST /api/v1/routes/optimize.
// The outcome is always HTTP 200; success, error, and infeasible are
// reported through the result's status field.
func (h *Handler) HandleOptimizeRoute(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[HTTP] POST /api/v1/routes/optimize: invalid_json err=%v", err)
		h.handleValidationError(w, "Invalid request body")
		return
	}

	log.Printf("[HTTP] POST /api/v1/routes/optimize: addresses=%d", len(req.Addresses))

	result := h.Optimizer.Optimize(r.Context(), req.Addresses)
	h.writeJSON(w, http.StatusOK, result)
}
