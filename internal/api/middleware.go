package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"crm-backend/internal/auth"
	"crm-backend/internal/logger"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// contextKey é um tipo privado para evitar colisões de chaves no contexto
type contextKey string

const identityContextKey = contextKey("identity")

// identityFrom devolve a identidade colocada no contexto pelo AuthMiddleware
func identityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*auth.Identity)
	if !ok || id == nil {
		return auth.Identity{}, false
	}
	return *id, true
}

// AuthMiddleware valida o bearer token e coloca a identidade no contexto.
// A verificação é só de assinatura e validade; a conta é consultada no store
// apenas quando checkAccount está ligado.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := h.authenticate(w, r)
		if !ok {
			return
		}

		// Armazenar a identidade no contexto da requisição
		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		ctx = logger.ToContext(ctx, logger.From(ctx).With(
			logger.AccountID(identity.ID),
			logger.Role(string(identity.Perfil)),
		))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate lê e valida o bearer token; em caso de erro já responde
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	// 1. Obter o header "Authorization"
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		h.unauthenticated(w, "Token de autorização não fornecido")
		return nil, false
	}

	// 2. Verificar se o formato é "Bearer <token>"
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		h.unauthenticated(w, "Formato do token inválido")
		return nil, false
	}

	// 3. Validar o token
	identity, err := h.tokenService.ValidateToken(parts[1])
	if err != nil {
		logger.From(r.Context()).Debug("token recusado", logger.Err(err))
		h.unauthenticated(w, "Token inválido")
		return nil, false
	}

	// 4. (Opcional) Verificar se a conta ainda existe com o mesmo perfil
	if h.checkAccount {
		if err := h.accountService.CheckIdentity(r.Context(), *identity); err != nil {
			h.respondWithServiceError(w, r, err)
			return nil, false
		}
	}
	return identity, true
}

func (h *Handler) unauthenticated(w http.ResponseWriter, message string) {
	h.metrics.authFailure("unauthenticated")
	h.respondWithError(w, http.StatusUnauthorized, message)
}

// RequireRoute consulta a tabela de perfis da rota. Deve vir depois do AuthMiddleware.
func (h *Handler) RequireRoute(routeID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFrom(r.Context())
			if !ok {
				h.unauthenticated(w, "Contexto de usuário inválido")
				return
			}
			if !h.authorizer.Allow(routeID, identity.Perfil) {
				h.metrics.authFailure("forbidden")
				logger.From(r.Context()).Info("acesso negado pelo perfil", logger.Op(routeID))
				h.respondWithError(w, http.StatusForbidden, "Perfil sem permissão para esta operação")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captura o status e os bytes escritos na resposta
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.status = http.StatusOK
		s.wroteHeader = true
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// RequestLogger injeta no contexto um logger com request id, método e caminho
// e registra o fim de cada request
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := logger.L().With(
			logger.RequestID(middleware.GetReqID(r.Context())),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
		)
		ctx := logger.ToContext(r.Context(), reqLog)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(ctx))

		fields := []zap.Field{
			logger.Status(rec.status),
			logger.Bytes(rec.bytes),
			logger.Duration(time.Since(start)),
		}
		switch {
		case rec.status >= 500:
			reqLog.Error("request falhou", fields...)
		case rec.status >= 400:
			reqLog.Warn("request com erro do cliente", fields...)
		default:
			reqLog.Info("request concluído", fields...)
		}
	})
}
