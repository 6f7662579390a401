package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/freemarket-app/freemarket_client/config"
	"github.com/freemarket-app/freemarket_client/data"
	"github.com/freemarket-app/freemarket_client/data/cache"
	"github.com/freemarket-app/freemarket_client/data/repository/postgres"
	"github.com/freemarket-app/freemarket_client/data/session"
	"github.com/freemarket-app/freemarket_client/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/freemarket-app/freemarket_client/internal/externalApi/marketApi"
	"github.com/freemarket-app/freemarket_client/internal/identity"
	"github.com/freemarket-app/freemarket_client/internal/reportGenerator/xlsxGenerator"
	"github.com/freemarket-app/freemarket_client/internal/scheduler"
	"github.com/freemarket-app/freemarket_client/internal/service/tradingService"
	"github.com/freemarket-app/freemarket_client/internal/store"
	"github.com/freemarket-app/freemarket_client/utils"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(cfg, pgClient)

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)
	redisSession := session.NewRedisSession(redisClient, cfg)

	sessionStore := store.NewSessionStore()
	portfolioStore := store.NewPortfolioStore()

	identityProvider := identity.NewStaticProvider(cfg.Identity.AccessToken)

	marketApiClient := marketApi.New(cfg, sessionStore, identityProvider)

	reportGenerator := xlsxGenerator.New()

	googleCloudStorage := googleDriveApi.New(ctx, cfg)

	tradingSrv := tradingService.New(
		sessionStore,
		portfolioStore,
		marketApiClient,
		redisCache,
		redisSession,
		pgRepo,
		reportGenerator,
		googleCloudStorage,
		identityProvider,
	)

	if err := tradingSrv.RestoreSession(utils.CtxWithRqID(ctx)); err != nil {
		slog.Error("session restore failed", slog.String("err", err.Error()))
	}

	sched := scheduler.New()
	sched.NewIntervalJob("refresh portfolio", tradingSrv.RefreshPortfolioJob, cfg.Jobs.PortfolioRefreshInterval, false)
	sched.NewIntervalJob("delete old drive reports", googleCloudStorage.DeleteOldReports, cfg.Jobs.DriveCleanupInterval, false)
	sched.Start()
	defer sched.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
