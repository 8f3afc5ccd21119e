package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"crm-backend/internal/models"
)

// InMemoryStore é uma implementação em-memória da interface Store
type InMemoryStore struct {
	mu         sync.RWMutex
	accounts   map[int64]*models.Account
	categories map[int64]*models.Category
	products   map[int64]*models.Product
	clients    map[int64]*models.Client

	nextAccountID  int64
	nextCategoryID int64
	nextProductID  int64
	nextClientID   int64
}

// NewInMemoryStore cria uma nova instância do store em memória
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		accounts:   make(map[int64]*models.Account),
		categories: make(map[int64]*models.Category),
		products:   make(map[int64]*models.Product),
		clients:    make(map[int64]*models.Client),
	}
}

func (s *InMemoryStore) Ping(ctx context.Context) error { return nil }

func (s *InMemoryStore) Close() {}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// --- AccountStore ---

// accountConflict procura outra conta com o mesmo usuario, cpf ou telefone
func (s *InMemoryStore) accountConflict(a *models.Account) error {
	for _, other := range s.accounts {
		if other.ID == a.ID {
			continue
		}
		switch {
		case strings.EqualFold(other.Usuario, a.Usuario):
			return fmt.Errorf("%w: usuario '%s'", ErrDuplicate, a.Usuario)
		case a.CPF != "" && other.CPF == a.CPF:
			return fmt.Errorf("%w: cpf", ErrDuplicate)
		case a.Telefone != "" && other.Telefone == a.Telefone:
			return fmt.Errorf("%w: telefone", ErrDuplicate)
		}
	}
	return nil
}

func (s *InMemoryStore) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.accountConflict(account); err != nil {
		return err
	}

	s.nextAccountID++
	account.ID = s.nextAccountID
	cp := *account
	s.accounts[cp.ID] = &cp
	return nil
}

func (s *InMemoryStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.ID]; !exists {
		return fmt.Errorf("%w: conta %d", ErrNotFound, account.ID)
	}
	if err := s.accountConflict(account); err != nil {
		return err
	}
	cp := *account
	s.accounts[cp.ID] = &cp
	return nil
}

func (s *InMemoryStore) DeleteAccount(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[id]; !exists {
		return fmt.Errorf("%w: conta %d", ErrNotFound, id)
	}
	delete(s.accounts, id)

	// ON DELETE CASCADE
	for pid, p := range s.products {
		if p.OwnerID() == id {
			delete(s.products, pid)
		}
	}
	return nil
}

func (s *InMemoryStore) findAccount(match func(*models.Account) bool) (*models.Account, bool) {
	for _, a := range s.accounts {
		if match(a) {
			cp := *a
			return &cp, true
		}
	}
	return nil, false
}

func (s *InMemoryStore) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.accounts[id]
	if !exists {
		return nil, fmt.Errorf("%w: conta %d", ErrNotFound, id)
	}
	cp := *account
	return &cp, nil
}

func (s *InMemoryStore) GetAccountByLogin(ctx context.Context, usuario string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.findAccount(func(a *models.Account) bool { return strings.EqualFold(a.Usuario, usuario) }); ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: usuario '%s'", ErrNotFound, usuario)
}

func (s *InMemoryStore) GetAccountByCPF(ctx context.Context, cpf string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.findAccount(func(a *models.Account) bool { return a.CPF != "" && a.CPF == cpf }); ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: cpf", ErrNotFound)
}

func (s *InMemoryStore) GetAccountByTelefone(ctx context.Context, telefone string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.findAccount(func(a *models.Account) bool { return a.Telefone != "" && a.Telefone == telefone }); ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: telefone", ErrNotFound)
}

func (s *InMemoryStore) listAccounts(match func(*models.Account) bool) []*models.Account {
	// Retorna lista vazia em vez de nil, para consistência
	out := []*models.Account{}
	for _, a := range s.accounts {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *InMemoryStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAccounts(func(*models.Account) bool { return true }), nil
}

func (s *InMemoryStore) SearchAccountsByName(ctx context.Context, nome string) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAccounts(func(a *models.Account) bool { return containsFold(a.Nome, nome) }), nil
}

// --- CategoryStore ---

func (s *InMemoryStore) CreateCategory(ctx context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCategoryID++
	category.ID = s.nextCategoryID
	cp := *category
	s.categories[cp.ID] = &cp
	return nil
}

func (s *InMemoryStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[category.ID]; !exists {
		return fmt.Errorf("%w: categoria %d", ErrNotFound, category.ID)
	}
	cp := *category
	s.categories[cp.ID] = &cp
	return nil
}

func (s *InMemoryStore) DeleteCategory(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[id]; !exists {
		return fmt.Errorf("%w: categoria %d", ErrNotFound, id)
	}
	delete(s.categories, id)

	for pid, p := range s.products {
		if p.Categoria.ID == id {
			delete(s.products, pid)
		}
	}
	return nil
}

func (s *InMemoryStore) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.categories[id]
	if !exists {
		return nil, fmt.Errorf("%w: categoria %d", ErrNotFound, id)
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryStore) listCategories(match func(*models.Category) bool) []*models.Category {
	out := []*models.Category{}
	for _, c := range s.categories {
		if match(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *InMemoryStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listCategories(func(*models.Category) bool { return true }), nil
}

func (s *InMemoryStore) SearchCategoriesByName(ctx context.Context, nome string) ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listCategories(func(c *models.Category) bool { return containsFold(c.Nome, nome) }), nil
}

// --- ProductStore ---

// checkProductRefs garante que categoria e dono existem (equivalente às FKs)
// e que o preço cabe na coluna NUMERIC(10, 2)
func (s *InMemoryStore) checkProductRefs(p *models.Product) error {
	if _, ok := s.categories[p.Categoria.ID]; !ok {
		return fmt.Errorf("%w: categoria %d", ErrNotFound, p.Categoria.ID)
	}
	if p.Usuario != nil {
		if _, ok := s.accounts[p.Usuario.ID]; !ok {
			return fmt.Errorf("%w: conta %d", ErrNotFound, p.Usuario.ID)
		}
	}
	if !p.Preco.Valid() {
		return fmt.Errorf("%w: preço %s", ErrInvalid, p.Preco)
	}
	return nil
}

// storedProduct guarda apenas os ids das referências
func storedProduct(p *models.Product) *models.Product {
	cp := *p
	cp.Categoria = models.Category{ID: p.Categoria.ID}
	if p.Usuario != nil {
		cp.Usuario = &models.AccountRef{ID: p.Usuario.ID}
	}
	if p.Carencia != nil {
		c := *p.Carencia
		cp.Carencia = &c
	}
	return &cp
}

// resolveProduct devolve uma cópia com categoria e dono preenchidos
func (s *InMemoryStore) resolveProduct(p *models.Product) *models.Product {
	cp := storedProduct(p)
	if c, ok := s.categories[cp.Categoria.ID]; ok {
		cp.Categoria = *c
	}
	if cp.Usuario != nil {
		if a, ok := s.accounts[cp.Usuario.ID]; ok {
			cp.Usuario = &models.AccountRef{ID: a.ID, Nome: a.Nome, Usuario: a.Usuario}
		}
	}
	return cp
}

func (s *InMemoryStore) CreateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkProductRefs(product); err != nil {
		return err
	}
	s.nextProductID++
	product.ID = s.nextProductID
	s.products[product.ID] = storedProduct(product)
	return nil
}

func (s *InMemoryStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; !exists {
		return fmt.Errorf("%w: produto %d", ErrNotFound, product.ID)
	}
	if err := s.checkProductRefs(product); err != nil {
		return err
	}
	s.products[product.ID] = storedProduct(product)
	return nil
}

func (s *InMemoryStore) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return fmt.Errorf("%w: produto %d", ErrNotFound, id)
	}
	delete(s.products, id)
	return nil
}

func (s *InMemoryStore) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.products[id]
	if !exists {
		return nil, fmt.Errorf("%w: produto %d", ErrNotFound, id)
	}
	return s.resolveProduct(p), nil
}

func (s *InMemoryStore) ListProducts(ctx context.Context, filter ProductFilter) ([]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Product{}
	for _, p := range s.products {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.OwnerID != 0 && p.OwnerID() != filter.OwnerID {
			continue
		}
		if filter.NameContains != "" && !containsFold(p.Nome, filter.NameContains) {
			continue
		}
		out = append(out, s.resolveProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- ClientStore ---

func (s *InMemoryStore) clientConflict(c *models.Client) error {
	for _, other := range s.clients {
		if other.ID == c.ID {
			continue
		}
		if other.RG == c.RG || other.CPF == c.CPF || other.Telefone == c.Telefone ||
			strings.EqualFold(other.Email, c.Email) {
			return fmt.Errorf("%w: cliente", ErrDuplicate)
		}
	}
	return nil
}

func (s *InMemoryStore) CreateClient(ctx context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.clientConflict(client); err != nil {
		return err
	}
	s.nextClientID++
	client.ID = s.nextClientID
	cp := *client
	s.clients[cp.ID] = &cp
	return nil
}

func (s *InMemoryStore) UpdateClient(ctx context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[client.ID]; !exists {
		return fmt.Errorf("%w: cliente %d", ErrNotFound, client.ID)
	}
	if err := s.clientConflict(client); err != nil {
		return err
	}
	cp := *client
	s.clients[cp.ID] = &cp
	return nil
}

func (s *InMemoryStore) DeleteClient(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[id]; !exists {
		return fmt.Errorf("%w: cliente %d", ErrNotFound, id)
	}
	delete(s.clients, id)
	return nil
}

func (s *InMemoryStore) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.clients[id]
	if !exists {
		return nil, fmt.Errorf("%w: cliente %d", ErrNotFound, id)
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryStore) listClients(match func(*models.Client) bool) []*models.Client {
	out := []*models.Client{}
	for _, c := range s.clients {
		if match(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *InMemoryStore) ListClients(ctx context.Context) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listClients(func(*models.Client) bool { return true }), nil
}

func (s *InMemoryStore) SearchClientsByName(ctx context.Context, nome string) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listClients(func(c *models.Client) bool { return containsFold(c.Nome, nome) }), nil
}
