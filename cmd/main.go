// @title Wrestling League API
// @version 1.0
// @description Матчи, титулы, турниры и аукционы лиги.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/wrestling-league/app"
	"github.com/Dosada05/wrestling-league/brackets"
	"github.com/Dosada05/wrestling-league/config"
	_ "github.com/Dosada05/wrestling-league/docs"
	"github.com/Dosada05/wrestling-league/handlers"
	api "github.com/Dosada05/wrestling-league/routes"
	"github.com/Dosada05/wrestling-league/services"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	league, err := app.New(ctx, cfg, logger, wsHub)
	if err != nil {
		return err
	}
	defer func() {
		if err := league.Close(); err != nil {
			logger.Error("failed to close connections", slog.Any("error", err))
		} else {
			logger.Info("connections closed")
		}
	}()
	logger.Info("Services initialized")

	if err := league.Leaderboard.Rebuild(ctx); err != nil {
		logger.Warn("leaderboard rebuild failed", slog.Any("error", err))
	}

	if cfg.AuctionInterval > 0 {
		go runOpenMarketScheduler(ctx, league.Auctions, cfg.AuctionInterval, logger)
	}

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(league.Auth, cfg.JWTSecretKey)
	playerHandler := handlers.NewPlayerHandler(league.Players, league.Auctions)
	bandHandler := handlers.NewBandHandler(league.Bands)
	championshipHandler := handlers.NewChampionshipHandler(league.Championships)
	matchHandler := handlers.NewMatchHandler(league.Matches)
	tournamentHandler := handlers.NewTournamentHandler(league.Tournaments)
	auctionHandler := handlers.NewAuctionHandler(league.Auctions)
	leaderboardHandler := handlers.NewLeaderboardHandler(league.Leaderboard)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			JWTSecret:         []byte(cfg.JWTSecretKey),
			AllowedOrigins:    cfg.CORSAllowedOrigins,
			RateLimitRequests: cfg.RateLimitRequests,
			RateLimitWindow:   cfg.RateLimitWindow,
		},
		authHandler,
		playerHandler,
		bandHandler,
		championshipHandler,
		matchHandler,
		tournamentHandler,
		auctionHandler,
		leaderboardHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера. WriteTimeout больше обычного: прогон турнира идет в одном запросе.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
	}
	return nil
}

// runOpenMarketScheduler продает игроков открытого рынка по тикеру, пока ctx не отменен.
func runOpenMarketScheduler(ctx context.Context, auctions services.AuctionService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("open market scheduler started", slog.Duration("interval", interval))

	run := func() {
		report, err := auctions.RunOpenMarket(ctx)
		if err != nil {
			logger.Error("Scheduler: open market run failed", slog.Any("error", err))
			return
		}
		logger.Info("Scheduler: open market run finished",
			slog.Int("auctioned", len(report.Auctioned)),
			slog.Int("ineligible", len(report.Ineligible)),
			slog.Int("failed", len(report.Failed)))
	}

	run()
	for {
		select {
		case <-ctx.Done():
			logger.Info("open market scheduler stopped")
			return
		case <-ticker.C:
			run()
		}
	}
}
