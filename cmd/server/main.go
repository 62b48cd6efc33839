package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avegas/cashfolio/internal/clients/yahoo"
	"github.com/avegas/cashfolio/internal/config"
	"github.com/avegas/cashfolio/internal/database"
	"github.com/avegas/cashfolio/internal/marketdata"
	"github.com/avegas/cashfolio/internal/modules/dca"
	"github.com/avegas/cashfolio/internal/modules/export"
	"github.com/avegas/cashfolio/internal/modules/quotes"
	"github.com/avegas/cashfolio/internal/modules/recommendations"
	"github.com/avegas/cashfolio/internal/modules/valuation"
	"github.com/avegas/cashfolio/internal/scheduler"
	"github.com/avegas/cashfolio/internal/server"
	"github.com/avegas/cashfolio/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Cashfolio")

	// Application database (snapshot history)
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Market data: Yahoo behind the daily-bar cache
	cache, err := marketdata.NewHistoryCache(cfg.HistoryCacheDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history cache")
	}
	provider := marketdata.NewCachedProvider(yahoo.NewClient(log), cache, log)

	// Services and handlers
	snapshotRepo := database.NewSnapshotRepository(db.Conn(), log)
	valuationService := valuation.NewService(provider, log)
	formatter := quotes.NewFormatter(provider, log)

	quotesHandler := quotes.NewHandler(provider, formatter, log)
	valuationHandler := valuation.NewHandler(valuationService, snapshotRepo, log)
	dcaHandler := dca.NewHandler(provider, log)
	recsHandler := recommendations.NewHandler(recommendations.NewService(provider, log), log)
	exportHandler := export.NewHandler(valuationService, log)

	// Background refresh of the watch set
	sched := scheduler.New(log)
	if len(cfg.WatchSymbols) > 0 {
		job := scheduler.NewRefreshJob(cfg.WatchSymbols, provider, log)
		if err := sched.AddJob(cfg.RefreshSchedule, job); err != nil {
			log.Fatal().Err(err).Msg("Failed to register refresh job")
		}
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		DevMode: cfg.DevMode,

		Quotes:          quotesHandler,
		Valuation:       valuationHandler,
		DCA:             dcaHandler,
		Recommendations: recsHandler,
		Export:          exportHandler,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
