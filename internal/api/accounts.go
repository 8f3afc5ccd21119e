package api

import (
	"errors"
	"net/http"

	"crm-backend/internal/models"
	"crm-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

type loginRequest struct {
	Usuario string `json:"usuario" validate:"required"`
	Senha   string `json:"senha" validate:"required"`
}

// handleLogin (POST /login)
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if err := service.ValidateStruct(req); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	resp, err := h.accountService.Login(r.Context(), req.Usuario, req.Senha)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			// Resposta genérica para evitar enumeração de usuários
			h.metrics.authFailure("login")
			h.respondWithError(w, http.StatusUnauthorized, "Credenciais inválidas")
			return
		}
		h.respondWithServiceError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, resp)
}

// handleCreateAccount (POST /accounts)
func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var in service.AccountInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	if in.Perfil == models.PerfilAdmin && !h.publicAdminSignup && !h.allowAdminSignup(w, r) {
		return
	}

	account, err := h.accountService.Create(r.Context(), in)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, account)
}

// allowAdminSignup exige token de ADMIN para criar outro ADMIN, exceto quando ainda não
// existe nenhum. Em caso de recusa já responde.
func (h *Handler) allowAdminSignup(w http.ResponseWriter, r *http.Request) bool {
	exists, err := h.accountService.AdminExists(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return false
	}
	if !exists {
		return true
	}
	identity, ok := h.authenticate(w, r)
	if !ok {
		return false
	}
	if !identity.IsAdmin() {
		h.metrics.authFailure("forbidden")
		h.respondWithError(w, http.StatusForbidden, "Apenas ADMIN pode criar contas ADMIN")
		return false
	}
	return true
}

// handleUpdateAccount (PUT /accounts)
func (h *Handler) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var in service.AccountInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	account, err := h.accountService.Update(r.Context(), caller, in)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, account)
}

// handleDeleteAccount (DELETE /accounts/{id})
func (h *Handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.accountService.Delete(r.Context(), caller, id); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListAccounts (GET /accounts)
func (h *Handler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.List(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, accounts)
}

// handleGetAccount (GET /accounts/{id})
func (h *Handler) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	account, err := h.accountService.Get(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, account)
}

// handleSearchAccounts (GET /accounts/name/{name})
func (h *Handler) handleSearchAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.SearchByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, accounts)
}

// handlePhotoUploadURL (POST /accounts/photo-upload-url)
func (h *Handler) handlePhotoUploadURL(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	// O cliente faz PUT do arquivo em uploadUrl e depois grava 'foto' no perfil
	upload, err := h.photoService.NewUploadURL(r.Context(), caller)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, upload)
}
