package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"crm-backend/internal/api"
	"crm-backend/internal/auth"
	"crm-backend/internal/config"
	"crm-backend/internal/logger"
	"crm-backend/internal/repository"
	"crm-backend/internal/service"
	"crm-backend/migrations"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	root := &cobra.Command{
		Use:           "crm-server",
		Short:         "Backend do CRM (contas, catálogo e oportunidades)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Em produção o app roda sem .env, com as variáveis já no ambiente
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "aviso: não foi possível carregar o arquivo .env: %v\n", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Inicia o servidor HTTP (padrão)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Aplica as migrações no PostgreSQL e sai",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context())
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "erro: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var cfg config.Config
	if err := config.Load(&cfg); err != nil {
		return nil, fmt.Errorf("falha ao carregar configuração: %w", err)
	}
	logger.Init(logger.Config{Env: cfg.AppEnv, Level: cfg.LogLevel, ServiceName: "crm-backend"})
	return &cfg, nil
}

func runMigrate(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !strings.EqualFold(cfg.StoreDriver, config.StoreDriverPostgres) {
		return fmt.Errorf("migrate exige STORE_DRIVER=%s", config.StoreDriverPostgres)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, err := repository.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := applyMigrations(ctx, store); err != nil {
		return err
	}
	logger.L().Info("migrações do banco de dados aplicadas com sucesso")
	return nil
}

func applyMigrations(ctx context.Context, store *repository.PostgresStore) error {
	migrationSQL, err := migrations.SQL()
	if err != nil {
		return fmt.Errorf("falha ao ler migrações: %w", err)
	}
	return store.RunMigrations(ctx, migrationSQL)
}

// openStore escolhe o store pelo STORE_DRIVER. pool é nil no modo em memória.
func openStore(ctx context.Context, cfg *config.Config) (store repository.Store, pool func() *pgxpool.Pool, err error) {
	log := logger.L()

	if strings.EqualFold(cfg.StoreDriver, config.StoreDriverMemory) {
		log.Warn("usando store em memória; os dados se perdem ao reiniciar")
		return repository.NewInMemoryStore(), nil, nil
	}

	pg, err := repository.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}
	log.Info("conectado ao PostgreSQL")

	if err := applyMigrations(ctx, pg); err != nil {
		log.Warn("aviso ao rodar migrações, continuando", logger.Err(err))
	} else {
		log.Info("migrações do banco de dados aplicadas com sucesso")
	}
	return pg, pg.Pool, nil
}

func newPhotoService(ctx context.Context, cfg *config.Config) (*service.PhotoService, error) {
	if !cfg.PhotoUploadsEnabled() {
		logger.L().Info("AWS_BUCKET_NAME vazio; upload de fotos desligado")
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar configuração AWS: %w", err)
	}
	return service.NewPhotoService(s3.NewFromConfig(awsCfg), cfg.AWSBucketName, cfg.AWSRegion), nil
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.L()

	// 1. Camada de repositório
	initCtx, cancelInit := context.WithTimeout(ctx, 10*time.Second)
	defer cancelInit()

	store, pool, err := openStore(initCtx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// 2. Camada de autenticação
	tokenService, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("falha ao iniciar TokenService: %w", err)
	}
	authorizer, err := api.NewRouteAuthorizer()
	if err != nil {
		return fmt.Errorf("tabela de rotas inválida: %w", err)
	}

	// 3. Camada de serviço
	accountService, err := service.NewAccountService(store, auth.NewPasswordHasher(cfg.BcryptCost), tokenService)
	if err != nil {
		return err
	}
	productService := service.NewProductService(store, cfg.CatalogCacheTTL)
	photoService, err := newPhotoService(initCtx, cfg)
	if err != nil {
		return err
	}

	metrics, err := api.NewMetrics(pool)
	if err != nil {
		return fmt.Errorf("falha ao registrar métricas: %w", err)
	}

	// 4. Camada de API
	handler := api.NewHandler(api.Deps{
		Accounts:           accountService,
		Products:           productService,
		Categories:         service.NewCategoryService(store, productService),
		Clients:            service.NewClientService(store),
		Photos:             photoService,
		Tokens:             tokenService,
		Authorizer:         authorizer,
		Store:              store,
		Metrics:            metrics,
		CheckAccount:       cfg.TokenCheckAccount,
		PublicAdminSignup:  cfg.PublicAdminSignup,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// 5. Servidor HTTP
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("servidor iniciado",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.StoreDriver),
			zap.Duration("token_ttl", cfg.TokenTTL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Aguardar sinal de interrupção
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("erro ao iniciar servidor: %w", err)
	case sig := <-quit:
		log.Info("recebido sinal de desligamento, encerrando servidor", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("erro no graceful shutdown: %w", err)
	}
	log.Info("servidor encerrado")
	return nil
}
