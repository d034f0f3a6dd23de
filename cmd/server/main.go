package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/facturaIA/paytext-invoice-service/api"
	"github.com/facturaIA/paytext-invoice-service/internal/ai"
	"github.com/facturaIA/paytext-invoice-service/internal/auth"
	"github.com/facturaIA/paytext-invoice-service/internal/extract"
	"github.com/facturaIA/paytext-invoice-service/internal/models"
	"github.com/facturaIA/paytext-invoice-service/internal/numbering"
	"github.com/facturaIA/paytext-invoice-service/internal/reconcile"
	"github.com/facturaIA/paytext-invoice-service/internal/services"
	"github.com/facturaIA/paytext-invoice-service/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	// Load configuration
	config, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(config.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(config, logger); err != nil {
		logger.Fatal("server.failed", zap.Error(err))
	}
}

func run(config *models.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, config.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", config.Storage.Backend, err)
	}
	defer store.Close()
	logger.Info("storage.ready", zap.String("backend", config.Storage.Backend))

	// AI is optional; without a provider extraction runs regex-only
	var aiExtractor *ai.Extractor
	if config.AI.DefaultProvider != "" {
		provider, err := ai.NewProvider(config.AI, "", "")
		if err != nil {
			return err
		}
		aiExtractor = ai.NewExtractor(provider, ai.WithTimeout(config.AI.Timeout), ai.WithLogger(logger))
		logger.Info("ai.ready", zap.String("provider", provider.Name()), zap.Duration("timeout", config.AI.Timeout))
	} else {
		logger.Warn("ai.disabled", zap.String("reason", "no default_provider configured"))
	}

	regexOpts := []extract.Option{extract.WithLogger(logger)}
	if config.Extraction.MaxItemAmount > 0 {
		regexOpts = append(regexOpts, extract.WithMaxItemAmount(decimal.NewFromFloat(config.Extraction.MaxItemAmount)))
	}

	handler := api.NewHandler(config, api.Deps{
		Extraction: services.NewExtractionService(
			extract.NewExtractor(regexOpts...),
			aiExtractor,
			reconcile.NewEngine(nil),
			logger,
		),
		Numbering: numbering.NewService(store,
			numbering.WithPrefix(config.Numbering.Prefix),
			numbering.WithLogger(logger),
		),
		Profiles: services.NewProfileStore(store),
		Store:    store,
		Logger:   logger,
	})
	router := handler.SetupRoutes()

	authenticator := auth.NewAuthenticator(config.Auth.JWTSecret, 0, logger)
	router.Use(authenticator.Middleware)
	if !authenticator.Enabled() {
		logger.Warn("auth.disabled", zap.String("reason", "no jwt_secret configured"))
	}

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.start", zap.String("addr", addr), zap.String("version", api.Version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(cfg models.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}
