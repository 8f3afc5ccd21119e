package service

import (
	"context"
	"testing"

	"crm-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewCategoryService(env.store, env.products)

	_, err := svc.Create(ctx, CategoryInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	c, err := svc.Create(ctx, CategoryInput{Nome: "Seguros"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, CategoryInput{ID: c.ID, Nome: "Seguros Auto"})
	require.NoError(t, err)
	assert.Equal(t, "Seguros Auto", updated.Nome)

	_, err = svc.Update(ctx, CategoryInput{ID: 99, Nome: "X"})
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := svc.SearchByName(ctx, "auto")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	env.createCatalogItem(t, "Plano", 1000, c)
	require.NoError(t, svc.Delete(ctx, c.ID))

	products, err := env.products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	assert.ErrorIs(t, svc.Delete(ctx, c.ID), ErrNotFound)
}

func TestClientService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewClientService(env.store)

	valid := func() *models.Client {
		return &models.Client{
			Nome:     "Carlos Lima",
			RG:       "123456789",
			CPF:      "12345678901",
			DataNasc: "1985-07-20",
			Telefone: "(11) 98765-4321",
			Email:    "carlos@exemplo.com",
			Endereco: "Av. Paulista, 1000",
		}
	}

	c, err := svc.Create(ctx, valid())
	require.NoError(t, err)
	assert.Equal(t, "+5511987654321", c.Telefone)

	dup := valid()
	dup.RG = "987654321"
	dup.CPF = "10987654321"
	dup.Telefone = "+5521987654321"
	_, err = svc.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrConflict)

	bad := valid()
	bad.Email = "sem-arroba"
	_, err = svc.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	c.Nome = "Carlos A. Lima"
	_, err = svc.Update(ctx, c)
	require.NoError(t, err)

	found, err := svc.SearchByName(ctx, "a. lima")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
