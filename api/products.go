package main

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"newsroom/internal/models"
)

func (s *server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product payload"})
		return
	}
	if product.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "product name is required"})
		return
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.ProductType == "" {
		product.ProductType = "wire"
	}

	if err := s.products.CreateProduct(r.Context(), &product); err != nil {
		s.serverError(w, r, err)
		return
	}

	// subscriptions changed, cached profiles may be stale
	for _, companyID := range product.Companies {
		s.resolver.Invalidate(companyID)
	}
	writeJSON(w, http.StatusCreated, product)
}
