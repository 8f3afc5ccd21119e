package service

import (
	"context"
	"fmt"

	"crm-backend/internal/models"
	"crm-backend/internal/repository"
)

// ClientService lida com o cadastro de clientes
type ClientService struct {
	store repository.ClientStore
}

// NewClientService cria o serviço de clientes
func NewClientService(store repository.ClientStore) *ClientService {
	return &ClientService{store: store}
}

// Create valida e cadastra um cliente
func (s *ClientService) Create(ctx context.Context, c *models.Client) (*models.Client, error) {
	c.ID = 0
	if err := ValidateStruct(c); err != nil {
		return nil, err
	}
	c.Telefone = NormalizePhone(c.Telefone)
	if err := s.store.CreateClient(ctx, c); err != nil {
		return nil, fromStore(err, "cliente")
	}
	return c, nil
}

// Update altera um cliente existente
func (s *ClientService) Update(ctx context.Context, c *models.Client) (*models.Client, error) {
	if c.ID <= 0 {
		return nil, invalid("id do cliente é obrigatório")
	}
	if err := ValidateStruct(c); err != nil {
		return nil, err
	}
	c.Telefone = NormalizePhone(c.Telefone)
	if err := s.store.UpdateClient(ctx, c); err != nil {
		return nil, fromStore(err, fmt.Sprintf("cliente %d", c.ID))
	}
	return c, nil
}

// Delete remove um cliente
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteClient(ctx, id); err != nil {
		return fromStore(err, fmt.Sprintf("cliente %d", id))
	}
	return nil
}

// Get busca um cliente pelo ID
func (s *ClientService) Get(ctx context.Context, id int64) (*models.Client, error) {
	c, err := s.store.GetClientByID(ctx, id)
	if err != nil {
		return nil, fromStore(err, fmt.Sprintf("cliente %d", id))
	}
	return c, nil
}

// List lista todos os clientes
func (s *ClientService) List(ctx context.Context) ([]*models.Client, error) {
	cs, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, fromStore(err, "clientes")
	}
	return cs, nil
}

// SearchByName busca clientes cujo nome contém o termo
func (s *ClientService) SearchByName(ctx context.Context, nome string) ([]*models.Client, error) {
	cs, err := s.store.SearchClientsByName(ctx, nome)
	if err != nil {
		return nil, fromStore(err, "clientes")
	}
	return cs, nil
}
