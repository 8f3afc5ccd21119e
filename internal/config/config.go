package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Drivers de armazenamento suportados
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config armazena a configuração da aplicação
type Config struct {
	ServerPort int `envconfig:"SERVER_PORT" default:"4000"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"1h"`
	// TokenCheckAccount faz o middleware confirmar no store que a conta do token ainda existe
	// e mantém o mesmo perfil.
	TokenCheckAccount bool `envconfig:"TOKEN_CHECK_ACCOUNT" default:"false"`
	BcryptCost        int  `envconfig:"BCRYPT_COST" default:"10"`
	// PublicAdminSignup deixa POST /accounts criar ADMIN sem token. Desligado, só um ADMIN
	// autenticado cria outro (o primeiro ADMIN continua livre).
	PublicAdminSignup bool `envconfig:"PUBLIC_ADMIN_SIGNUP" default:"true"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	CatalogCacheTTL    time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"30s"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	AWSBucketName string `envconfig:"AWS_BUCKET_NAME"`
	AWSRegion     string `envconfig:"AWS_REGION" default:"us-east-1"`

	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load carrega a configuração das variáveis de ambiente
func Load(cfg *Config) error {
	if err := envconfig.Process("", cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate rejeita combinações inconsistentes
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET não pode ser vazio")
	}

	switch strings.ToLower(c.StoreDriver) {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL é obrigatório quando STORE_DRIVER=%s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER desconhecido: %q", c.StoreDriver)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL deve ser positivo")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT inválida: %d", c.ServerPort)
	}
	return nil
}

// PhotoUploadsEnabled indica se há bucket configurado para fotos de perfil
func (c *Config) PhotoUploadsEnabled() bool {
	return c.AWSBucketName != ""
}
