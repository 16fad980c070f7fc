package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/bizquote/quotation-system/internal/api"
	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/service"
	"github.com/bizquote/quotation-system/internal/infrastructure/config"
	mongodb "github.com/bizquote/quotation-system/internal/infrastructure/db/mongo"
	redisdb "github.com/bizquote/quotation-system/internal/infrastructure/db/redis"
	"github.com/bizquote/quotation-system/internal/infrastructure/notify"
	"github.com/bizquote/quotation-system/internal/infrastructure/pdf"
	"github.com/bizquote/quotation-system/pkg/logger"
)

const tokenTTL = 24 * time.Hour

func main() {
	log := logger.Init(logger.Options{
		Level:   os.Getenv("LOG_LEVEL"),
		Service: "quotation-api",
		Pretty:  os.Getenv("ENV") == "development",
	})

	cfg := config.Load(log)
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connection established")

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connection established")

	// --- NATS ---
	nc, err := nats.Connect(cfg.NATS.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to nats")
	}
	defer nc.Close()
	log.Info().Str("url", cfg.NATS.URL).Msg("nats connection established")

	// --- Repositories ---
	quotationRepo := mongodb.NewQuotationRepository(db)
	clientRepo := mongodb.NewClientRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	invoiceRepo := mongodb.NewInvoiceRepository(db)

	for _, idx := range []interface {
		EnsureIndexes(context.Context) error
	}{quotationRepo, clientRepo, userRepo, invoiceRepo} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure indexes")
		}
	}

	// --- Services ---
	profile := domain.CompanyProfile{
		Name:      cfg.Company.Name,
		Address:   cfg.Company.Address,
		Email:     cfg.Company.Email,
		Phone:     cfg.Company.Phone,
		GSTNumber: cfg.Company.GSTNumber,
		PSTNumber: cfg.Company.PSTNumber,
	}

	quotationService := service.NewQuotationService(service.Deps{
		Quotations: quotationRepo,
		Clients:    clientRepo,
		Users:      userRepo,
		Renderer:   pdf.NewRenderer(),
		Notifier:   notify.NewNATSNotifier(nc, log),
		Invoices:   service.NewInvoiceGenerator(invoiceRepo),
		SendDedup:  redisdb.NewSendDeduper(rdb),
		Profile:    profile,
		Logger:     log,
	})
	clientService := service.NewClientService(clientRepo, quotationRepo, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, tokenTTL)

	// --- HTTP server ---
	e := api.NewRouter(api.RouterDeps{
		Quotations: quotationService,
		Clients:    clientService,
		Auth:       authService,
		JWTSecret:  cfg.JWTSecret,
		Logger:     log,
		Mongo:      db,
		Redis:      rdb,
		NATS:       nc,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("quotation api listening")

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
}
