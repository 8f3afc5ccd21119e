package api

import (
	"net/http"

	"crm-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

// handleCatalog (GET /products/catalog)
func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.Catalog(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, products)
}

// handleSearchCatalog (GET /products/name/{name})
func (h *Handler) handleSearchCatalog(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.SearchCatalog(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, products)
}

// handleGetPublicProduct (GET /products/public/{id})
func (h *Handler) handleGetPublicProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.productService.GetPublic(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, p)
}

// handleListProducts (GET /products)
func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, products)
}

// handleGetProduct (GET /products/{id})
func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.productService.Get(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, p)
}

// handleProductsByAccount (GET /products/account/{accountId})
func (h *Handler) handleProductsByAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	accountID, ok := h.pathID(w, r, "accountId")
	if !ok {
		return
	}
	products, err := h.productService.ListByAccount(r.Context(), caller, accountID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, products)
}

// handleAcquire (POST /products/acquire). Não é idempotente: cada chamada cria
// uma oportunidade nova.
func (h *Handler) handleAcquire(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req service.AcquireRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	opp, err := h.productService.Acquire(r.Context(), caller, req)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.metrics.acquisition()
	h.respondWithJSON(w, http.StatusCreated, opp)
}

// handleCreateProduct (POST /products)
func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	p, err := h.productService.Create(r.Context(), in)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, p)
}

// handleUpdateProduct (PUT /products)
func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	p, err := h.productService.Update(r.Context(), in)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, p)
}

// handleDeleteProduct (DELETE /products/{id})
func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(r.Context(), id); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
