package service

import (
	"testing"

	"crm-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpportunity(t *testing.T) {
	carencia := 30
	source := &models.Product{
		ID:              5,
		Nome:            "Seguro Vida",
		Descricao:       "Cobertura total",
		Preco:           19990,
		Carencia:        &carencia,
		Status:          models.StatusDisponivel,
		DataAtualizacao: testNow.AddDate(0, -1, 0),
		Categoria:       models.Category{ID: 3, Nome: "Seguros"},
	}
	owner := &models.Account{ID: 2, Nome: "Ana", Usuario: "ana@crm.com", Perfil: models.PerfilCliente}

	opp := NewOpportunity(source, owner, testNow)

	assert.Zero(t, opp.ID)
	assert.Equal(t, models.StatusEmNegociacao, opp.Status)
	assert.Equal(t, testNow, opp.DataAtualizacao)
	require.NotNil(t, opp.Usuario)
	assert.Equal(t, int64(2), opp.Usuario.ID)
	assert.Equal(t, source.Nome, opp.Nome)
	assert.Equal(t, source.Descricao, opp.Descricao)
	assert.Equal(t, source.Preco, opp.Preco)
	assert.Equal(t, source.Categoria, opp.Categoria)
	require.NotNil(t, opp.Carencia)
	assert.Equal(t, 30, *opp.Carencia)

	// a origem fica intacta, inclusive a carência
	*opp.Carencia = 60
	assert.Equal(t, 30, *source.Carencia)
	assert.Equal(t, models.StatusDisponivel, source.Status)
	assert.Nil(t, source.Usuario)
}

func TestCanTransition(t *testing.T) {
	d, n, f := models.StatusDisponivel, models.StatusEmNegociacao, models.StatusFechado

	tests := []struct {
		from, to models.ProductStatus
		want     bool
	}{
		{d, d, true},
		{n, n, true},
		{f, f, true},
		{n, f, true},
		{d, n, false},
		{d, f, false},
		{n, d, false},
		{f, n, false},
		{f, d, false},
		{n, models.ProductStatus("CANCELADO"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}
