package handlers

import (
	"log"
	"net/http"
	"strings"

	"field-navigator/internal/models"
)

// CustomerAddressResponse pairs the customer record with the single-line
// address usable as a route stop
type CustomerAddressResponse struct {
	Customer *models.Customer `json:"customer"`
	Address  string           `json:"address"`
}

// HandleGetCustomerAddress handles GET /api/v1/customers/{username}/address
func (h *Handler) HandleGetCustomerAddress(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimPrefix(r.URL.Path, "/api/v1/customers/")
	username = strings.TrimSuffix(username, "/address")
	log.Printf("[HTTP] GET /api/v1/customers/%s/address", username)

	if username == "" || strings.Contains(username, "/") {
		h.handleValidationError(w, "Username is required")
		return
	}

	customer, err := h.DB.Customers().GetByUsername(r.Context(), username)
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	if customer == nil {
		h.handleNotFound(w, "Customer's address not found")
		return
	}

	h.writeJSON(w, http.StatusOK, CustomerAddressResponse{
		Customer: customer,
		Address:  customer.FullAddress(),
	})
}
