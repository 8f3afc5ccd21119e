package service

import (
	"context"
	"fmt"

	"crm-backend/internal/logger"
	"crm-backend/internal/models"
	"crm-backend/internal/repository"
)

// CategoryInput é o payload de criação e atualização de categoria
type CategoryInput struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome" validate:"required,max=255"`
}

// CategoryService lida com o cadastro de categorias
type CategoryService struct {
	store   repository.CategoryStore
	catalog interface{ InvalidateCatalog() }
}

// NewCategoryService cria o serviço. catalog é avisado quando uma remoção leva produtos junto.
func NewCategoryService(store repository.CategoryStore, catalog interface{ InvalidateCatalog() }) *CategoryService {
	return &CategoryService{store: store, catalog: catalog}
}

// Create valida e cadastra uma categoria
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	c := &models.Category{Nome: in.Nome}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, fromStore(err, "categoria")
	}
	return c, nil
}

// Update renomeia uma categoria existente
func (s *CategoryService) Update(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if in.ID <= 0 {
		return nil, invalid("id da categoria é obrigatório")
	}
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	c := &models.Category{ID: in.ID, Nome: in.Nome}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, fromStore(err, fmt.Sprintf("categoria %d", in.ID))
	}
	if s.catalog != nil {
		s.catalog.InvalidateCatalog()
	}
	return c, nil
}

// Delete remove a categoria e, em cascata, os produtos dela
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return fromStore(err, fmt.Sprintf("categoria %d", id))
	}
	if s.catalog != nil {
		s.catalog.InvalidateCatalog()
	}
	logger.From(ctx).Info("categoria removida", logger.CategoryID(id))
	return nil
}

// Get busca uma categoria pelo ID
func (s *CategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	c, err := s.store.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, fromStore(err, fmt.Sprintf("categoria %d", id))
	}
	return c, nil
}

// List lista todas as categorias
func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	cs, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fromStore(err, "categorias")
	}
	return cs, nil
}

// SearchByName busca categorias cujo nome contém o termo
func (s *CategoryService) SearchByName(ctx context.Context, nome string) ([]*models.Category, error) {
	cs, err := s.store.SearchCategoriesByName(ctx, nome)
	if err != nil {
		return nil, fromStore(err, "categorias")
	}
	return cs, nil
}
