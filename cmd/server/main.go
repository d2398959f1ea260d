package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wekeepgrowing/semo-billing/internal/config"
	domainProvider "github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"github.com/wekeepgrowing/semo-billing/internal/infrastructure/database"
	grpcServer "github.com/wekeepgrowing/semo-billing/internal/infrastructure/grpc"
	httpServer "github.com/wekeepgrowing/semo-billing/internal/infrastructure/http"
	"github.com/wekeepgrowing/semo-billing/internal/infrastructure/identity/github"
	"github.com/wekeepgrowing/semo-billing/internal/infrastructure/messaging"
	"github.com/wekeepgrowing/semo-billing/internal/infrastructure/provider"
	"github.com/wekeepgrowing/semo-billing/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-billing/internal/usecase"
	"github.com/wekeepgrowing/semo-billing/pkg/logger"
	pkgMessaging "github.com/wekeepgrowing/semo-billing/pkg/messaging"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	// Initialize billing provider
	billing, err := provider.NewFactory(cfg, zapLogger).GetProvider(domainProvider.ProviderTypeStripe)
	if err != nil {
		zapLogger.Fatal("Failed to create billing provider", zap.Error(err))
	}

	// Subscription change publisher is optional
	var publisher usecase.SubscriptionPublisher
	if cfg.Redis.Enabled() {
		client, err := pkgMessaging.NewRedisClient(pkgMessaging.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		redisPublisher := messaging.NewRedisSubscriptionPublisher(client, cfg.Redis.Channel)
		defer redisPublisher.Close()
		publisher = redisPublisher
	}

	// Initialize usecases
	tokens := auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	linker := usecase.NewAccountLinker(repos.Users, repos.Accounts, billing, zapLogger)

	services := &httpServer.Services{
		Checkout: usecase.NewCheckoutIssuer(repos.Accounts, billing, cfg.Service.BaseURL, zapLogger),
		Portal:   usecase.NewPortalIssuer(repos.Accounts, billing, cfg.Service.BaseURL, zapLogger),
		Webhooks: usecase.NewWebhookSynchronizer(billing, repos.WebhookEvents, repos.Accounts, publisher, zapLogger),
		Sessions: usecase.NewSessionService(repos.Accounts, zapLogger),
		Prices:   usecase.NewPriceCatalog(billing, zapLogger),
		SignIn:   usecase.NewSignInService(repos.Users, repos.Accounts, linker, tokens, zapLogger),
		Identity: github.NewProvider(cfg.Auth.GitHub, zapLogger),
		States:   tokens,
	}

	// Initialize servers
	httpSrv := httpServer.NewServer(cfg, zapLogger, services)

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	var grpcSrv *grpcServer.Server
	if cfg.Server.GRPC.Enabled {
		grpcSrv = grpcServer.NewServer(cfg, zapLogger)
		go func() {
			if err := grpcSrv.Start(); err != nil {
				zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
			}
		}()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if grpcSrv != nil {
		if err := grpcSrv.Shutdown(ctx); err != nil {
			zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
		}
	}

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Servers shut down successfully")
}
