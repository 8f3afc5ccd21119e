package api

import (
	"net/http"

	"crm-backend/internal/models"
	"crm-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.categoryService.List(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, cs)
}

func (h *Handler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, c)
}

func (h *Handler) handleSearchCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.categoryService.SearchByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, cs)
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	c, err := h.categoryService.Create(r.Context(), in)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	c, err := h.categoryService.Update(r.Context(), in)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListClients(w http.ResponseWriter, r *http.Request) {
	cs, err := h.clientService.List(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, cs)
}

func (h *Handler) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.clientService.Get(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, c)
}

func (h *Handler) handleSearchClients(w http.ResponseWriter, r *http.Request) {
	cs, err := h.clientService.SearchByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, cs)
}

func (h *Handler) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var c models.Client
	if !h.decodeJSON(w, r, &c) {
		return
	}
	created, err := h.clientService.Create(r.Context(), &c)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var c models.Client
	if !h.decodeJSON(w, r, &c) {
		return
	}
	updated, err := h.clientService.Update(r.Context(), &c)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.clientService.Delete(r.Context(), id); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
