package service

import (
	"context"
	"fmt"
	"testing"

	"crm-backend/internal/auth"
	"crm-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedAcquireScenario monta o catálogo com o produto 5 ("Seguros", 199.90) e a conta
// cliente 2
func seedAcquireScenario(t *testing.T, env *testEnv) (admin, cliente *models.PublicAccount, product *models.Product) {
	t.Helper()
	admin = env.createAccount(t, adminInput("admin@crm.com"))
	cliente = env.createAccount(t, clienteInput("ana@crm.com", "12345678901", "+5511987654321"))
	require.Equal(t, int64(2), cliente.ID)

	seguros := env.createCategory(t, "Seguros")
	for i := 1; i <= 4; i++ {
		env.createCatalogItem(t, fmt.Sprintf("Plano %d", i), 1000, seguros)
	}
	product = env.createCatalogItem(t, "Seguro Residencial", 19990, seguros)
	require.Equal(t, int64(5), product.ID)
	return admin, cliente, product
}

func TestProductService_AcquireScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, cliente, source := seedAcquireScenario(t, env)

	opp, err := env.products.Acquire(ctx, identityOf(cliente), AcquireRequest{ProductID: 5, AccountID: 2})
	require.NoError(t, err)

	assert.NotEqual(t, source.ID, opp.ID)
	assert.Equal(t, models.StatusEmNegociacao, opp.Status)
	require.NotNil(t, opp.Usuario)
	assert.Equal(t, int64(2), opp.Usuario.ID)
	assert.Equal(t, source.Nome, opp.Nome)
	assert.Equal(t, source.Descricao, opp.Descricao)
	assert.Equal(t, "199.90", opp.Preco.String())
	assert.Equal(t, "Seguros", opp.Categoria.Nome)
	assert.Equal(t, testNow, opp.DataAtualizacao)

	after, err := env.products.Get(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDisponivel, after.Status)
	assert.Nil(t, after.Usuario)
}

func TestProductService_AcquireIsNotIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, cliente, source := seedAcquireScenario(t, env)
	req := AcquireRequest{ProductID: source.ID, AccountID: cliente.ID}

	first, err := env.products.Acquire(ctx, identityOf(cliente), req)
	require.NoError(t, err)
	second, err := env.products.Acquire(ctx, identityOf(cliente), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Nome, second.Nome)
	assert.Equal(t, first.Preco, second.Preco)

	mine, err := env.products.ListByAccount(ctx, identityOf(cliente), cliente.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestProductService_AcquireFailures(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	admin, cliente, source := seedAcquireScenario(t, env)

	opp, err := env.products.Acquire(ctx, identityOf(cliente), AcquireRequest{ProductID: source.ID, AccountID: cliente.ID})
	require.NoError(t, err)

	tests := []struct {
		name    string
		caller  auth.Identity
		req     AcquireRequest
		wantErr error
	}{
		{"produto inexistente", identityOf(cliente), AcquireRequest{ProductID: 99, AccountID: cliente.ID}, ErrNotFound},
		{"conta inexistente", identityOf(admin), AcquireRequest{ProductID: source.ID, AccountID: 99}, ErrNotFound},
		{"origem já é oportunidade", identityOf(cliente), AcquireRequest{ProductID: opp.ID, AccountID: cliente.ID}, ErrNotFound},
		{"em nome de outra conta", identityOf(cliente), AcquireRequest{ProductID: source.ID, AccountID: admin.ID}, ErrForbidden},
		{"ids ausentes", identityOf(cliente), AcquireRequest{}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.products.Acquire(ctx, tt.caller, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// ADMIN pode adquirir em nome do cliente
	_, err = env.products.Acquire(ctx, identityOf(admin), AcquireRequest{ProductID: source.ID, AccountID: cliente.ID})
	assert.NoError(t, err)
}

func TestProductService_UpdateTransitions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, cliente, source := seedAcquireScenario(t, env)

	opp, err := env.products.Acquire(ctx, identityOf(cliente), AcquireRequest{ProductID: source.ID, AccountID: cliente.ID})
	require.NoError(t, err)

	in := ProductInput{
		ID:          opp.ID,
		Nome:        opp.Nome,
		Descricao:   opp.Descricao,
		Preco:       opp.Preco,
		CategoriaID: opp.Categoria.ID,
		Status:      models.StatusFechado,
	}
	closed, err := env.products.Update(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFechado, closed.Status)
	require.NotNil(t, closed.Usuario)
	assert.Equal(t, cliente.ID, closed.Usuario.ID)

	in.Status = models.StatusEmNegociacao
	_, err = env.products.Update(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	catalog := ProductInput{
		ID:          source.ID,
		Nome:        source.Nome,
		Descricao:   source.Descricao,
		Preco:       source.Preco,
		CategoriaID: source.Categoria.ID,
		Status:      models.StatusEmNegociacao,
	}
	_, err = env.products.Update(ctx, catalog)
	assert.ErrorIs(t, err, ErrInvalidInput)

	catalog.Status = ""
	catalog.Preco = 25000
	updated, err := env.products.Update(ctx, catalog)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDisponivel, updated.Status)
	assert.Nil(t, updated.Usuario)

	catalog.CategoriaID = 99
	_, err = env.products.Update(ctx, catalog)
	assert.ErrorIs(t, err, ErrNotFound)

	catalog.ID = 999
	catalog.CategoriaID = source.Categoria.ID
	_, err = env.products.Update(ctx, catalog)
	assert.ErrorIs(t, err, ErrNotFound)

	catalog.Preco = 0
	_, err = env.products.Update(ctx, catalog)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProductService_CatalogCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, cliente, source := seedAcquireScenario(t, env)

	catalog, err := env.products.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 5)

	// oportunidades não entram no catálogo
	_, err = env.products.Acquire(ctx, identityOf(cliente), AcquireRequest{ProductID: source.ID, AccountID: cliente.ID})
	require.NoError(t, err)

	// escrita direta no store não invalida o cache
	require.NoError(t, env.store.DeleteProduct(ctx, 1))
	cached, err := env.products.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 5)

	require.NoError(t, env.products.Delete(ctx, 2))
	fresh, err := env.products.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)

	cats := NewCategoryService(env.store, env.products)
	require.NoError(t, cats.Delete(ctx, source.Categoria.ID))
	empty, err := env.products.Catalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProductService_PublicLookups(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	admin, cliente, source := seedAcquireScenario(t, env)

	opp, err := env.products.Acquire(ctx, identityOf(cliente), AcquireRequest{ProductID: source.ID, AccountID: cliente.ID})
	require.NoError(t, err)

	got, err := env.products.GetPublic(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, source.Nome, got.Nome)

	_, err = env.products.GetPublic(ctx, opp.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := env.products.SearchCatalog(ctx, "residencial")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, source.ID, found[0].ID)

	_, err = env.products.ListByAccount(ctx, identityOf(cliente), admin.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.products.ListByAccount(ctx, identityOf(admin), 99)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := env.products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	cat := env.createCategory(t, "Consórcios")

	_, err := env.products.Create(ctx, ProductInput{Nome: "X", Descricao: "Y", Preco: 100, CategoriaID: 99})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.products.Create(ctx, ProductInput{Nome: "X", Descricao: "Y", Preco: 100, CategoriaID: cat.ID, Status: models.StatusFechado})
	assert.ErrorIs(t, err, ErrInvalidInput)

	neg := -1
	_, err = env.products.Create(ctx, ProductInput{Nome: "X", Descricao: "Y", Preco: 100, CategoriaID: cat.ID, Carencia: &neg})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// NUMERIC(10, 2) vai até 99.999.999,99
	_, err = env.products.Create(ctx, ProductInput{Nome: "X", Descricao: "Y", Preco: models.MaxPrice + 1, CategoriaID: cat.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	top, err := env.products.Create(ctx, ProductInput{Nome: "Teto", Descricao: "Y", Preco: models.MaxPrice, CategoriaID: cat.ID})
	require.NoError(t, err)
	assert.Equal(t, "99999999.99", top.Preco.String())

	p, err := env.products.Create(ctx, ProductInput{Nome: "X", Descricao: "Y", Preco: 100, CategoriaID: cat.ID})
	require.NoError(t, err)
	assert.True(t, p.IsCatalogItem())
	assert.Equal(t, "Consórcios", p.Categoria.Nome)
}
