package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"crm-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken cobre assinatura inválida, token expirado ou malformado
var ErrInvalidToken = errors.New("token inválido")

// Identity é quem fez a requisição, reconstruído a partir das claims do token
type Identity struct {
	ID      int64         `json:"id"`
	Usuario string        `json:"usuario"`
	Perfil  models.Perfil `json:"perfil"`
}

// IsAdmin indica se a identidade tem perfil ADMIN
func (i Identity) IsAdmin() bool {
	return i.Perfil == models.PerfilAdmin
}

// Claims são as claims do bearer token: sub (id da conta), usuario, perfil, iat, exp
type Claims struct {
	Usuario string        `json:"usuario"`
	Perfil  models.Perfil `json:"perfil"`
	jwt.RegisteredClaims
}

// TokenService lida com a lógica de JWT
type TokenService struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// TokenOption customiza o TokenService
type TokenOption func(*TokenService)

// WithClock injeta o relógio usado na emissão e na validação
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenService cria um novo serviço de token
func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("segredo JWT não pode ser vazio")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("validade do token deve ser positiva")
	}
	s := &TokenService{
		jwtSecret: []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL retorna a validade configurada dos tokens
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// NewToken cria um novo token JWT para uma conta já validada
func (s *TokenService) NewToken(account models.PublicAccount) (string, error) {
	now := s.now()
	claims := Claims{
		Usuario: account.Usuario,
		Perfil:  account.Perfil,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken verifica assinatura e validade do token e devolve a identidade nele contida.
// Não consulta o store.
func (s *TokenService) ValidateToken(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: 'sub' não é um id de conta", ErrInvalidToken)
	}
	if !claims.Perfil.IsValid() {
		return nil, fmt.Errorf("%w: perfil desconhecido %q", ErrInvalidToken, claims.Perfil)
	}

	return &Identity{
		ID:      id,
		Usuario: claims.Usuario,
		Perfil:  claims.Perfil,
	}, nil
}
