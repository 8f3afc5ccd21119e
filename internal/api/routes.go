package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes configura e retorna o roteador Chi
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middlewares globais
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	if h.metrics != nil {
		r.Use(h.metrics.WithMetrics)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	origins := h.corsOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300, // Tempo de cache da preflight
	}))

	// Operacional
	r.Get("/healthz", h.handleHealth)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	// Endpoints públicos (sem autenticação)
	r.Post("/login", h.handleLogin)

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.handleCreateAccount)

		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.With(h.RequireRoute(routeAccountsList)).Get("/", h.handleListAccounts)
			r.With(h.RequireRoute(routeAccountsUpdate)).Put("/", h.handleUpdateAccount)
			r.With(h.RequireRoute(routeAccountsPhoto)).Post("/photo-upload-url", h.handlePhotoUploadURL)
			r.With(h.RequireRoute(routeAccountsSearch)).Get("/name/{name}", h.handleSearchAccounts)
			r.With(h.RequireRoute(routeAccountsGet)).Get("/{id}", h.handleGetAccount)
			r.With(h.RequireRoute(routeAccountsDelete)).Delete("/{id}", h.handleDeleteAccount)
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/catalog", h.handleCatalog)
		r.Get("/public/{id}", h.handleGetPublicProduct)
		r.Get("/name/{name}", h.handleSearchCatalog)

		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.With(h.RequireRoute(routeProductsList)).Get("/", h.handleListProducts)
			r.With(h.RequireRoute(routeProductsCreate)).Post("/", h.handleCreateProduct)
			r.With(h.RequireRoute(routeProductsUpdate)).Put("/", h.handleUpdateProduct)
			r.With(h.RequireRoute(routeProductsAcquire)).Post("/acquire", h.handleAcquire)
			r.With(h.RequireRoute(routeProductsByAccount)).Get("/account/{accountId}", h.handleProductsByAccount)
			r.With(h.RequireRoute(routeProductsGet)).Get("/{id}", h.handleGetProduct)
			r.With(h.RequireRoute(routeProductsDelete)).Delete("/{id}", h.handleDeleteProduct)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.handleListCategories)
		r.Get("/name/{name}", h.handleSearchCategories)
		r.Get("/{id}", h.handleGetCategory)

		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.With(h.RequireRoute(routeCategoriesCreate)).Post("/", h.handleCreateCategory)
			r.With(h.RequireRoute(routeCategoriesUpdate)).Put("/", h.handleUpdateCategory)
			r.With(h.RequireRoute(routeCategoriesDelete)).Delete("/{id}", h.handleDeleteCategory)
		})
	})

	r.Route("/clients", func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		r.With(h.RequireRoute(routeClientsList)).Get("/", h.handleListClients)
		r.With(h.RequireRoute(routeClientsCreate)).Post("/", h.handleCreateClient)
		r.With(h.RequireRoute(routeClientsUpdate)).Put("/", h.handleUpdateClient)
		r.With(h.RequireRoute(routeClientsSearch)).Get("/name/{name}", h.handleSearchClients)
		r.With(h.RequireRoute(routeClientsGet)).Get("/{id}", h.handleGetClient)
		r.With(h.RequireRoute(routeClientsDelete)).Delete("/{id}", h.handleDeleteClient)
	})

	return r
}
