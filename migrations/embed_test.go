package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQL(t *testing.T) {
	sql, err := SQL()
	require.NoError(t, err)
	for _, table := range []string{"tb_usuarios", "tb_categorias", "tb_produtos", "tb_clientes"} {
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, sql, "ck_produtos_dono")
}
