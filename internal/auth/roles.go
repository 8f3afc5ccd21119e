package auth

import (
	"fmt"
	"sort"

	"crm-backend/internal/models"
)

// Policy mapeia o identificador de uma rota para os perfis que podem acessá-la.
// Uma lista vazia significa "qualquer perfil autenticado".
type Policy map[string][]models.Perfil

// Authorizer decide acesso por perfil consultando uma Policy fixa
type Authorizer struct {
	policy Policy
}

// NewAuthorizer valida a tabela e cria o autorizador
func NewAuthorizer(policy Policy) (*Authorizer, error) {
	for route, roles := range policy {
		for _, r := range roles {
			if !r.IsValid() {
				return nil, fmt.Errorf("rota %q: perfil desconhecido %q", route, r)
			}
		}
	}
	return &Authorizer{policy: policy}, nil
}

// RoleAllowed retorna true se role pertence a allowed, ou se allowed é vazio
func RoleAllowed(role models.Perfil, allowed []models.Perfil) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}

// Allow decide se o perfil pode acessar a rota. Rotas fora da tabela são negadas.
func (a *Authorizer) Allow(routeID string, role models.Perfil) bool {
	allowed, ok := a.policy[routeID]
	if !ok {
		return false
	}
	return RoleAllowed(role, allowed)
}

// Has indica se a rota está declarada na tabela
func (a *Authorizer) Has(routeID string) bool {
	_, ok := a.policy[routeID]
	return ok
}

// Routes lista as rotas declaradas, em ordem
func (a *Authorizer) Routes() []string {
	out := make([]string, 0, len(a.policy))
	for r := range a.policy {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// CanActOn implementa a regra "dono ou admin": a identidade pode agir sobre um recurso
// cujo dono é ownerID se for o próprio dono ou se tiver perfil ADMIN.
func CanActOn(id Identity, ownerID int64) bool {
	return id.IsAdmin() || (ownerID != 0 && id.ID == ownerID)
}
