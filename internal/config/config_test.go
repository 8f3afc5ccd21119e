package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo")
	t.Setenv("STORE_DRIVER", "memory")

	var cfg Config
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 4000, cfg.ServerPort)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.TokenCheckAccount)
	assert.True(t, cfg.PublicAdminSignup)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.PhotoUploadsEnabled())
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "memory")

	var cfg Config
	assert.Error(t, Load(&cfg))
}

func TestValidate(t *testing.T) {
	base := Config{JWTSecret: "x", TokenTTL: time.Hour, ServerPort: 4000}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"memory sem DSN", func(c *Config) { c.StoreDriver = StoreDriverMemory }, false},
		{"postgres sem DSN", func(c *Config) { c.StoreDriver = StoreDriverPostgres }, true},
		{"postgres com DSN", func(c *Config) {
			c.StoreDriver = StoreDriverPostgres
			c.DatabaseURL = "postgres://localhost/db_crm"
		}, false},
		{"driver desconhecido", func(c *Config) { c.StoreDriver = "mysql" }, true},
		{"ttl zero", func(c *Config) {
			c.StoreDriver = StoreDriverMemory
			c.TokenTTL = 0
		}, true},
		{"porta inválida", func(c *Config) {
			c.StoreDriver = StoreDriverMemory
			c.ServerPort = 70000
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
