package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    Price
		wantErr bool
	}{
		{"199.90", 19990, false},
		{"199.9", 19990, false},
		{"199", 19900, false},
		{"0.01", 1, false},
		{"-5.5", -550, false},
		{"199.901", 0, true},
		{"1e3", 0, true},
		{"", 0, true},
		{"12.", 0, true},
		{".5", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrice_JSON(t *testing.T) {
	var p struct {
		Preco Price `json:"preco"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"preco":199.9}`), &p))
	assert.Equal(t, Price(19990), p.Preco)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"preco":199.90}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"preco":1.999}`), &p))
}

func TestPrice_Valid(t *testing.T) {
	assert.True(t, Price(1).Valid())
	assert.True(t, MaxPrice.Valid())
	assert.False(t, (MaxPrice + 1).Valid())
	assert.False(t, Price(0).Valid())
	assert.False(t, Price(-100).Valid())

	p, err := ParsePrice("100000000.00")
	require.NoError(t, err)
	assert.False(t, p.Valid())
}

func TestAccount_PublicOmitsSecret(t *testing.T) {
	a := &Account{ID: 2, Nome: "Ana", Usuario: "ana@crm.com", SenhaHash: "$2a$hash", Perfil: PerfilCliente}

	out, err := json.Marshal(a.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hash")
	assert.NotContains(t, string(out), "senha")

	raw, err := json.Marshal(a)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "$2a$hash")
}

func TestEnums(t *testing.T) {
	assert.True(t, PerfilAdmin.IsValid())
	assert.True(t, PerfilCliente.IsValid())
	assert.False(t, Perfil("USER").IsValid())

	assert.True(t, StatusFechado.IsValid())
	assert.False(t, ProductStatus("VENDIDO").IsValid())
}

func TestProduct_IsCatalogItem(t *testing.T) {
	p := Product{Status: StatusDisponivel}
	assert.True(t, p.IsCatalogItem())
	assert.Equal(t, int64(0), p.OwnerID())

	p.Usuario = &AccountRef{ID: 2}
	assert.False(t, p.IsCatalogItem())
	assert.Equal(t, int64(2), p.OwnerID())
}
