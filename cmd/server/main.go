package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flexprice/proposals/internal/api"
	v1 "github.com/flexprice/proposals/internal/api/v1"
	"github.com/flexprice/proposals/internal/cache"
	"github.com/flexprice/proposals/internal/config"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/flexprice/proposals/internal/postgres"
	"github.com/flexprice/proposals/internal/repository"
	"github.com/flexprice/proposals/internal/service"
	"github.com/flexprice/proposals/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// @title Proposals API
// @version 1.0
// @description Proposal invoice estimator
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// a missing .env is fine, the environment and config.yaml still apply
	_ = godotenv.Load()

	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// Postgres
			postgres.NewDB,
			provideDBClient,

			// Repositories
			repository.NewProposalRepository,
			repository.NewProductRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewSessionRegistry,
			service.NewServiceParams,

			service.NewInvoiceService,
			service.NewProductService,
			service.NewProposalService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			migrateDB,
			startAPIServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideDBClient(db *postgres.DB) postgres.IClient {
	return db
}

func provideHandlers(
	logger *logger.Logger,
	invoiceService service.InvoiceService,
	proposalService service.ProposalService,
	productService service.ProductService,
) api.Handlers {
	return api.Handlers{
		Health:   v1.NewHealthHandler(logger),
		Invoice:  v1.NewInvoiceHandler(invoiceService, logger),
		Proposal: v1.NewProposalHandler(proposalService, logger),
		Product:  v1.NewProductHandler(productService, logger),
	}
}

func migrateDB(lc fx.Lifecycle, cfg *config.Configuration, db *postgres.DB, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.Postgres.AutoMigrate {
				return nil
			}
			log.Info("Applying database schema...")
			return db.Migrate(ctx)
		},
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
