package repository

import (
	"context"
	"errors"

	"crm-backend/internal/models"
)

var (
	// ErrNotFound indica que o registro (ou uma referência dele) não existe
	ErrNotFound = errors.New("registro não encontrado")
	// ErrDuplicate indica violação de unicidade
	ErrDuplicate = errors.New("registro duplicado")
	// ErrInvalid indica valor fora do domínio da coluna
	ErrInvalid = errors.New("valor inválido para o registro")
)

// AccountStore define a interface para operações de conta no DB.
// É também o adaptador de credenciais usado no login (GetAccountByLogin).
type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, id int64) error
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	GetAccountByLogin(ctx context.Context, usuario string) (*models.Account, error)
	GetAccountByCPF(ctx context.Context, cpf string) (*models.Account, error)
	GetAccountByTelefone(ctx context.Context, telefone string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)
	SearchAccountsByName(ctx context.Context, nome string) ([]*models.Account, error)
}

// CategoryStore define a interface para operações de categoria no DB
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	SearchCategoriesByName(ctx context.Context, nome string) ([]*models.Category, error)
}

// ProductFilter restringe ListProducts. Campos zerados não filtram.
type ProductFilter struct {
	Status       models.ProductStatus
	OwnerID      int64
	NameContains string
}

// ProductStore define a interface para operações de produto no DB.
// Produtos lidos vêm com Categoria e Usuario (quando houver) preenchidos.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*models.Product, error)
}

// ClientStore define a interface para o cadastro de clientes
type ClientStore interface {
	CreateClient(ctx context.Context, client *models.Client) error
	UpdateClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id int64) error
	GetClientByID(ctx context.Context, id int64) (*models.Client, error)
	ListClients(ctx context.Context) ([]*models.Client, error)
	SearchClientsByName(ctx context.Context, nome string) ([]*models.Client, error)
}

// Store é uma interface agregada para todas as operações de store
// Facilita a injeção de dependência
type Store interface {
	AccountStore
	CategoryStore
	ProductStore
	ClientStore
	Ping(ctx context.Context) error
	Close()
}
