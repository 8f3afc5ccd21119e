package service

import (
	"context"
	"testing"
	"time"

	"crm-backend/internal/auth"
	"crm-backend/internal/models"
	"crm-backend/internal/repository"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	store    *repository.InMemoryStore
	tokens   *auth.TokenService
	accounts *AccountService
	products *ProductService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewInMemoryStore()

	tokens, err := auth.NewTokenService("segredo-teste", time.Hour, auth.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)

	accounts, err := NewAccountService(store, auth.NewPasswordHasher(4), tokens)
	require.NoError(t, err)

	return &testEnv{
		store:    store,
		tokens:   tokens,
		accounts: accounts,
		products: NewProductService(store, time.Minute).WithClock(func() time.Time { return testNow }),
	}
}

func adminInput(usuario string) AccountInput {
	return AccountInput{
		Nome:    "Admin",
		Usuario: usuario,
		Senha:   "senhaAdmin123",
		Perfil:  models.PerfilAdmin,
	}
}

func clienteInput(usuario, cpf, telefone string) AccountInput {
	return AccountInput{
		Nome:     "Cliente",
		Usuario:  usuario,
		Senha:    "senhaCliente123",
		Perfil:   models.PerfilCliente,
		CPF:      cpf,
		DataNasc: "1990-04-12",
		Telefone: telefone,
		Endereco: "Rua das Flores, 10",
	}
}

func (e *testEnv) createAccount(t *testing.T, in AccountInput) *models.PublicAccount {
	t.Helper()
	a, err := e.accounts.Create(context.Background(), in)
	require.NoError(t, err)
	return a
}

func (e *testEnv) createCategory(t *testing.T, nome string) *models.Category {
	t.Helper()
	c := &models.Category{Nome: nome}
	require.NoError(t, e.store.CreateCategory(context.Background(), c))
	return c
}

func (e *testEnv) createCatalogItem(t *testing.T, nome string, preco models.Price, cat *models.Category) *models.Product {
	t.Helper()
	p, err := e.products.Create(context.Background(), ProductInput{
		Nome:        nome,
		Descricao:   "Descrição de " + nome,
		Preco:       preco,
		CategoriaID: cat.ID,
	})
	require.NoError(t, err)
	return p
}

func identityOf(a *models.PublicAccount) auth.Identity {
	return auth.Identity{ID: a.ID, Usuario: a.Usuario, Perfil: a.Perfil}
}
