package api

import (
	"crm-backend/internal/auth"
	"crm-backend/internal/models"
)

// Identificadores das rotas protegidas
const (
	routeAccountsList   = "accounts.list"
	routeAccountsGet    = "accounts.get"
	routeAccountsSearch = "accounts.search"
	routeAccountsUpdate = "accounts.update"
	routeAccountsDelete = "accounts.delete"
	routeAccountsPhoto  = "accounts.photo"

	routeProductsList      = "products.list"
	routeProductsGet       = "products.get"
	routeProductsByAccount = "products.by_account"
	routeProductsAcquire   = "products.acquire"
	routeProductsCreate    = "products.create"
	routeProductsUpdate    = "products.update"
	routeProductsDelete    = "products.delete"

	routeCategoriesCreate = "categories.create"
	routeCategoriesUpdate = "categories.update"
	routeCategoriesDelete = "categories.delete"

	routeClientsList   = "clients.list"
	routeClientsGet    = "clients.get"
	routeClientsSearch = "clients.search"
	routeClientsCreate = "clients.create"
	routeClientsUpdate = "clients.update"
	routeClientsDelete = "clients.delete"
)

var (
	adminOnly     = []models.Perfil{models.PerfilAdmin}
	anyRole       = []models.Perfil{}
	adminOrClient = []models.Perfil{models.PerfilAdmin, models.PerfilCliente}
)

// routePolicies é a tabela rota → perfis aceitos. Lista vazia aceita qualquer
// perfil autenticado; regras de dono ficam nos serviços.
var routePolicies = auth.Policy{
	routeAccountsList:   adminOnly,
	routeAccountsGet:    adminOnly,
	routeAccountsSearch: adminOnly,
	routeAccountsUpdate: adminOrClient,
	routeAccountsDelete: anyRole,
	routeAccountsPhoto:  anyRole,

	routeProductsList:      adminOnly,
	routeProductsGet:       adminOnly,
	routeProductsByAccount: anyRole,
	routeProductsAcquire:   anyRole,
	routeProductsCreate:    adminOnly,
	routeProductsUpdate:    adminOnly,
	routeProductsDelete:    adminOnly,

	routeCategoriesCreate: adminOnly,
	routeCategoriesUpdate: adminOnly,
	routeCategoriesDelete: adminOnly,

	routeClientsList:   adminOnly,
	routeClientsGet:    adminOnly,
	routeClientsSearch: adminOnly,
	routeClientsCreate: adminOnly,
	routeClientsUpdate: adminOnly,
	routeClientsDelete: adminOnly,
}

// NewRouteAuthorizer cria o autorizador com a tabela de rotas da API
func NewRouteAuthorizer() (*auth.Authorizer, error) {
	return auth.NewAuthorizer(routePolicies)
}
