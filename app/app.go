// Package app собирает репозитории и сервисы лиги. Используется сервером и leaguectl.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/wrestling-league/cache"
	"github.com/Dosada05/wrestling-league/config"
	"github.com/Dosada05/wrestling-league/db"
	"github.com/Dosada05/wrestling-league/outcome"
	"github.com/Dosada05/wrestling-league/repositories"
	"github.com/Dosada05/wrestling-league/services"
	"github.com/Dosada05/wrestling-league/storage"
)

type App struct {
	DB    *sql.DB
	Board services.NetWorthBoard // nil, если Redis не настроен

	Auth          services.AuthService
	Players       services.PlayerService
	Bands         services.BandService
	Championships services.ChampionshipService
	Matches       services.MatchService
	Tournaments   services.TournamentService
	Auctions      services.AuctionService
	Leaderboard   services.LeaderboardService

	closers []func() error
}

// New connects to postgres (and Redis when configured) and builds every service.
// hub may be nil: events are then dropped.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, hub services.Broadcaster) (*App, error) {
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, db.PoolOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a := &App{DB: dbConn}
	a.closers = append(a.closers, dbConn.Close)
	logger.Info("database connection established")

	var uploader storage.FileUploader
	r2 := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, r2)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		uploader = storage.NewDisabledUploader()
		logger.Info("image uploads disabled")
	}

	// Лидерборд необязателен: без Redis читаем из postgres.
	if cfg.RedisAddr != "" {
		board, err := cache.NewNetWorthBoard(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, logger)
		if err != nil {
			logger.Warn("leaderboard cache unavailable, falling back to postgres", slog.Any("error", err))
		} else {
			a.Board = board
			a.closers = append(a.closers, board.Close)
			logger.Info("leaderboard cache connected", slog.String("addr", cfg.RedisAddr))
		}
	}

	tx := repositories.NewPostgresTxRunner(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	bandRepo := repositories.NewPostgresBandRepository(dbConn)
	championshipRepo := repositories.NewPostgresChampionshipRepository(dbConn)
	historyRepo := repositories.NewPostgresChampionshipHistoryRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	notificationRepo := repositories.NewPostgresNotificationRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	auctionRepo := repositories.NewPostgresAuctionRepository(dbConn)

	rnd := outcome.NewSource(cfg.RandomSeed)
	tracker := services.NewChampionshipTracker(historyRepo, logger)

	a.Auth = services.NewAuthService(cfg.AdminEmail, cfg.AdminPasswordHash)
	a.Players = services.NewPlayerService(tx, playerRepo, bandRepo, uploader, a.Board, logger)
	a.Bands = services.NewBandService(tx, bandRepo, playerRepo, uploader, a.Board, logger)
	a.Championships = services.NewChampionshipService(tx, championshipRepo, historyRepo, tracker, uploader, hub, logger)
	a.Matches = services.NewMatchService(
		tx,
		matchRepo,
		playerRepo,
		bandRepo,
		championshipRepo,
		tournamentRepo,
		notificationRepo,
		tracker,
		rnd,
		uploader,
		hub,
		a.Board,
		logger,
		cfg.ChampionshipFreezeDays,
	)
	a.Tournaments = services.NewTournamentService(
		tx,
		tournamentRepo,
		matchRepo,
		playerRepo,
		bandRepo,
		championshipRepo,
		tracker,
		rnd,
		hub,
		a.Board,
		logger,
		cfg.MaxTiebreakRounds,
	)
	a.Auctions = services.NewAuctionService(tx, playerRepo, bandRepo, auctionRepo, rnd, hub, a.Board, logger, cfg.OpenMarketBandID)
	a.Leaderboard = services.NewLeaderboardService(playerRepo, bandRepo, a.Board, logger)

	return a, nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
