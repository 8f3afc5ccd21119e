package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"crm-backend/internal/auth"
	"crm-backend/internal/logger"
	"crm-backend/internal/repository"
	"crm-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

// Limite do corpo das requisições JSON
const maxBodyBytes = 1 << 20

// Deps reúne as dependências dos handlers HTTP
type Deps struct {
	Accounts   *service.AccountService
	Products   *service.ProductService
	Categories *service.CategoryService
	Clients    *service.ClientService
	Photos     *service.PhotoService // nil quando não há bucket configurado

	Tokens     *auth.TokenService
	Authorizer *auth.Authorizer
	Store      repository.Store
	Metrics    *Metrics

	// CheckAccount faz o AuthMiddleware confirmar a conta no store
	CheckAccount bool
	// PublicAdminSignup libera a criação de ADMIN em POST /accounts sem token
	PublicAdminSignup  bool
	CORSAllowedOrigins []string
}

// Handler gerencia as dependências para os handlers HTTP
type Handler struct {
	accountService  *service.AccountService
	productService  *service.ProductService
	categoryService *service.CategoryService
	clientService   *service.ClientService
	photoService    *service.PhotoService
	tokenService    *auth.TokenService
	authorizer      *auth.Authorizer
	store           repository.Store
	metrics         *Metrics

	checkAccount      bool
	publicAdminSignup bool
	corsOrigins       []string
}

// NewHandler cria uma nova instância do Handler
func NewHandler(d Deps) *Handler {
	return &Handler{
		accountService:    d.Accounts,
		productService:    d.Products,
		categoryService:   d.Categories,
		clientService:     d.Clients,
		photoService:      d.Photos,
		tokenService:      d.Tokens,
		authorizer:        d.Authorizer,
		store:             d.Store,
		metrics:           d.Metrics,
		checkAccount:      d.CheckAccount,
		publicAdminSignup: d.PublicAdminSignup,
		corsOrigins:       d.CORSAllowedOrigins,
	}
}

// === Funções Auxiliares de Resposta ===

func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.L().Error("erro ao serializar JSON", logger.Err(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"Erro interno ao serializar resposta"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithServiceError traduz a taxonomia de erros do serviço para o status HTTP.
// Falhas de autenticação saem com mensagem genérica; erros internos são logados e
// nunca ecoados.
func (h *Handler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		h.unauthenticated(w, "Credenciais inválidas")
	case errors.Is(err, service.ErrForbidden):
		h.metrics.authFailure("forbidden")
		h.respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		h.respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		h.respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		h.respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnavailable):
		h.respondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.From(r.Context()).Error("erro interno", logger.Err(err))
		h.respondWithError(w, http.StatusInternalServerError, "Erro interno")
	}
}

// decodeJSON lê o corpo em dst; em caso de erro já responde 400
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Payload JSON inválido")
		return false
	}
	return true
}

// pathID lê um parâmetro numérico da rota; em caso de erro já responde 400
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		h.respondWithError(w, http.StatusBadRequest, "Parâmetro '"+name+"' inválido")
		return 0, false
	}
	return id, true
}

// caller devolve a identidade autenticada; em caso de erro já responde 401
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := identityFrom(r.Context())
	if !ok {
		h.unauthenticated(w, "Contexto de usuário inválido")
	}
	return id, ok
}

// handleHealth (GET /healthz)
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		logger.From(r.Context()).Warn("healthcheck falhou", logger.Err(err))
		h.respondWithError(w, http.StatusServiceUnavailable, "Banco de dados indisponível")
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
