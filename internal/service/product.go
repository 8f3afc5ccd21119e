package service

import (
	"context"
	"fmt"
	"time"

	"crm-backend/internal/auth"
	"crm-backend/internal/logger"
	"crm-backend/internal/models"
	"crm-backend/internal/repository"

	gocache "github.com/patrickmn/go-cache"
)

const catalogCacheKey = "catalogo"

// ProductInput é o payload de criação e atualização de produto
type ProductInput struct {
	ID          int64                `json:"id"`
	Nome        string               `json:"nome" validate:"required,max=100"`
	Descricao   string               `json:"descricao" validate:"required,max=1000"`
	Preco       models.Price         `json:"preco" validate:"gt=0,lte=9999999999"`
	Carencia    *int                 `json:"carencia" validate:"omitempty,gte=0"`
	Status      models.ProductStatus `json:"status"`
	CategoriaID int64                `json:"categoriaId" validate:"required,gt=0"`
}

// AcquireRequest identifica o item de catálogo e o cliente da aquisição
type AcquireRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	AccountID int64 `json:"accountId" validate:"required,gt=0"`
}

// ProductService lida com catálogo, aquisições e oportunidades
type ProductService struct {
	store repository.Store
	cache *gocache.Cache
	now   func() time.Time
}

// NewProductService cria o serviço. cacheTTL <= 0 desliga o cache do catálogo.
func NewProductService(store repository.Store, cacheTTL time.Duration) *ProductService {
	s := &ProductService{store: store, now: time.Now}
	if cacheTTL > 0 {
		s.cache = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return s
}

// WithClock troca o relógio usado em DataAtualizacao
func (s *ProductService) WithClock(now func() time.Time) *ProductService {
	s.now = now
	return s
}

// InvalidateCatalog descarta o catálogo em cache
func (s *ProductService) InvalidateCatalog() {
	if s.cache != nil {
		s.cache.Delete(catalogCacheKey)
	}
}

// Catalog lista os itens de catálogo (DISPONIVEL, sem dono)
func (s *ProductService) Catalog(ctx context.Context) ([]*models.Product, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(catalogCacheKey); ok {
			return v.([]*models.Product), nil
		}
	}

	products, err := s.store.ListProducts(ctx, repository.ProductFilter{Status: models.StatusDisponivel})
	if err != nil {
		return nil, fromStore(err, "catálogo")
	}
	if s.cache != nil {
		s.cache.SetDefault(catalogCacheKey, products)
	}
	return products, nil
}

// SearchCatalog busca itens de catálogo pelo nome
func (s *ProductService) SearchCatalog(ctx context.Context, nome string) ([]*models.Product, error) {
	products, err := s.store.ListProducts(ctx, repository.ProductFilter{
		Status:       models.StatusDisponivel,
		NameContains: nome,
	})
	if err != nil {
		return nil, fromStore(err, "catálogo")
	}
	return products, nil
}

// GetPublic busca um item de catálogo. Oportunidades não são visíveis por aqui.
func (s *ProductService) GetPublic(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsCatalogItem() {
		return nil, fmt.Errorf("%w: produto %d", ErrNotFound, id)
	}
	return p, nil
}

// Get busca qualquer produto pelo ID
func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, fromStore(err, fmt.Sprintf("produto %d", id))
	}
	return p, nil
}

// List lista todos os produtos, catálogo e oportunidades
func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	products, err := s.store.ListProducts(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, fromStore(err, "produtos")
	}
	return products, nil
}

// ListByAccount lista as oportunidades de uma conta. Só o dono ou um ADMIN.
func (s *ProductService) ListByAccount(ctx context.Context, caller auth.Identity, accountID int64) ([]*models.Product, error) {
	if !auth.CanActOn(caller, accountID) {
		return nil, fmt.Errorf("%w: conta %d pertence a outro usuário", ErrForbidden, accountID)
	}
	if _, err := s.store.GetAccountByID(ctx, accountID); err != nil {
		return nil, fromStore(err, fmt.Sprintf("conta %d", accountID))
	}
	products, err := s.store.ListProducts(ctx, repository.ProductFilter{OwnerID: accountID})
	if err != nil {
		return nil, fromStore(err, "produtos")
	}
	return products, nil
}

// Create cadastra um item de catálogo
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.Status != "" && in.Status != models.StatusDisponivel {
		return nil, invalid("produto novo deve ter status %s", models.StatusDisponivel)
	}

	category, err := s.store.GetCategoryByID(ctx, in.CategoriaID)
	if err != nil {
		return nil, fromStore(err, fmt.Sprintf("categoria %d", in.CategoriaID))
	}

	p := &models.Product{
		Nome:            in.Nome,
		Descricao:       in.Descricao,
		Preco:           in.Preco,
		Carencia:        in.Carencia,
		Status:          models.StatusDisponivel,
		DataAtualizacao: s.now(),
		Categoria:       *category,
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return nil, fromStore(err, "produto")
	}
	s.InvalidateCatalog()

	logger.From(ctx).Info("produto criado", logger.ProductID(p.ID), logger.CategoryID(category.ID))
	return p, nil
}

// Acquire transforma um item de catálogo numa nova oportunidade do cliente.
// Cada chamada cria um registro novo; a origem não é alterada.
func (s *ProductService) Acquire(ctx context.Context, caller auth.Identity, req AcquireRequest) (*models.Product, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	if !auth.CanActOn(caller, req.AccountID) {
		return nil, fmt.Errorf("%w: aquisição em nome de outra conta", ErrForbidden)
	}

	source, err := s.store.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, fromStore(err, fmt.Sprintf("produto %d", req.ProductID))
	}
	if !source.IsCatalogItem() {
		return nil, fmt.Errorf("%w: produto %d não está disponível", ErrNotFound, req.ProductID)
	}

	owner, err := s.store.GetAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fromStore(err, fmt.Sprintf("conta %d", req.AccountID))
	}

	opp := NewOpportunity(source, owner, s.now())
	if err := s.store.CreateProduct(ctx, opp); err != nil {
		return nil, fromStore(err, "oportunidade")
	}

	logger.From(ctx).Info("produto adquirido",
		logger.ProductID(opp.ID),
		logger.SourceProductID(source.ID),
		logger.AccountID(owner.ID),
	)
	return opp, nil
}

// Update altera um produto existente. O dono é preservado e o status só avança
// conforme CanTransition.
func (s *ProductService) Update(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.ID <= 0 {
		return nil, invalid("id do produto é obrigatório")
	}
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.store.GetProductByID(ctx, in.ID)
	if err != nil {
		return nil, fromStore(err, fmt.Sprintf("produto %d", in.ID))
	}

	status := in.Status
	if status == "" {
		status = existing.Status
	}
	if !CanTransition(existing.Status, status) {
		return nil, invalid("transição de %s para %s não permitida", existing.Status, status)
	}

	category, err := s.store.GetCategoryByID(ctx, in.CategoriaID)
	if err != nil {
		return nil, fromStore(err, fmt.Sprintf("categoria %d", in.CategoriaID))
	}

	p := &models.Product{
		ID:              existing.ID,
		Nome:            in.Nome,
		Descricao:       in.Descricao,
		Preco:           in.Preco,
		Carencia:        in.Carencia,
		Status:          status,
		DataAtualizacao: s.now(),
		Categoria:       *category,
		Usuario:         existing.Usuario,
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return nil, fromStore(err, fmt.Sprintf("produto %d", in.ID))
	}
	s.InvalidateCatalog()

	if status != existing.Status {
		logger.From(ctx).Info("status do produto alterado",
			logger.ProductID(p.ID),
			logger.Op(string(existing.Status)+"->"+string(status)),
		)
	}
	return p, nil
}

// Delete remove um produto
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return fromStore(err, fmt.Sprintf("produto %d", id))
	}
	s.InvalidateCatalog()
	return nil
}
