package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"rebalancer/config"
	"rebalancer/data/repository/memory"
	"rebalancer/internal/externalApi/moexApi"
	"rebalancer/internal/importer"
	"rebalancer/internal/restserver"
	"rebalancer/internal/scheduler"
	"rebalancer/internal/service/importService"
	"rebalancer/internal/service/marketDataService"
	"rebalancer/internal/service/portfolioService"
	"rebalancer/internal/transport/rest"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	repo := memory.New()

	moexApiClient := moexApi.New(cfg)

	parser := importer.NewParser()

	importSrv := importService.New(cfg, parser)
	portfolioSrv := portfolioService.New(repo)
	marketDataSrv := marketDataService.New(repo, moexApiClient)

	sched := scheduler.New()
	if cfg.Jobs.SchedulerEnabled {
		sched.NewCrontabJob("daily market data update", marketDataSrv.RefreshMarketData, cfg.Jobs.MarketDataSyncCrontab, false)
	}
	sched.Start()
	defer sched.Stop()

	restController := rest.NewController(cfg, importSrv, portfolioSrv, marketDataSrv)

	restServer := restserver.New(cfg, restController)
	restServer.Start()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Rest.ShutdownTimeout)
	defer cancel()
	restServer.Stop(shutdownCtx)
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
