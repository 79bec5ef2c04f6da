package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/repositories"
)

const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 100
)

type LeaderboardService interface {
	TopPlayers(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
	TopBands(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
	// Rebuild loads every active player and band from postgres into the cache.
	Rebuild(ctx context.Context) error
}

type leaderboardService struct {
	playerRepo repositories.PlayerRepository
	bandRepo   repositories.BandRepository
	board      NetWorthBoard
	logger     *slog.Logger
}

// NewLeaderboardService reads from board when it is not nil, otherwise straight from postgres.
func NewLeaderboardService(playerRepo repositories.PlayerRepository, bandRepo repositories.BandRepository, board NetWorthBoard, logger *slog.Logger) LeaderboardService {
	return &leaderboardService{playerRepo: playerRepo, bandRepo: bandRepo, board: board, logger: logger}
}

func clampLeaderboardSize(n int) int {
	if n <= 0 {
		return DefaultLeaderboardSize
	}
	if n > MaxLeaderboardSize {
		return MaxLeaderboardSize
	}
	return n
}

func (s *leaderboardService) TopPlayers(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	n = clampLeaderboardSize(n)
	if s.board != nil {
		entries, err := s.board.TopPlayers(ctx, n)
		if err == nil && len(entries) > 0 {
			return s.namePlayers(ctx, entries)
		}
		if err != nil {
			s.logger.Warn("leaderboard cache read failed, using postgres", slog.String("board", "players"), slog.Any("error", err))
		}
	}

	players, err := s.playerRepo.ListTopByNetWorth(ctx, nil, n)
	if err != nil {
		return nil, fmt.Errorf("failed to load top players: %w", err)
	}
	entries := make([]models.LeaderboardEntry, 0, len(players))
	for i, p := range players {
		entries = append(entries, models.LeaderboardEntry{Rank: i + 1, ID: p.ID, Name: p.Name, NetWorth: p.NetWorth})
	}
	return entries, nil
}

func (s *leaderboardService) TopBands(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	n = clampLeaderboardSize(n)
	if s.board != nil {
		entries, err := s.board.TopBands(ctx, n)
		if err == nil && len(entries) > 0 {
			return s.nameBands(ctx, entries)
		}
		if err != nil {
			s.logger.Warn("leaderboard cache read failed, using postgres", slog.String("board", "bands"), slog.Any("error", err))
		}
	}

	bands, err := s.bandRepo.ListTopByNetWorth(ctx, nil, n)
	if err != nil {
		return nil, fmt.Errorf("failed to load top bands: %w", err)
	}
	entries := make([]models.LeaderboardEntry, 0, len(bands))
	for i, b := range bands {
		entries = append(entries, models.LeaderboardEntry{Rank: i + 1, ID: b.ID, Name: b.Name, NetWorth: b.NetWorth})
	}
	return entries, nil
}

func (s *leaderboardService) namePlayers(ctx context.Context, entries []models.LeaderboardEntry) ([]models.LeaderboardEntry, error) {
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	players, err := s.playerRepo.ListByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard players: %w", err)
	}
	names := make(map[int]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	for i := range entries {
		entries[i].Name = names[entries[i].ID]
	}
	return entries, nil
}

func (s *leaderboardService) nameBands(ctx context.Context, entries []models.LeaderboardEntry) ([]models.LeaderboardEntry, error) {
	bands, err := s.bandRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard bands: %w", err)
	}
	names := make(map[int]string, len(bands))
	for _, b := range bands {
		names[b.ID] = b.Name
	}
	for i := range entries {
		entries[i].Name = names[entries[i].ID]
	}
	return entries, nil
}

func (s *leaderboardService) Rebuild(ctx context.Context) error {
	if s.board == nil {
		return nil
	}
	players, err := s.playerRepo.List(ctx, nil, repositories.ListPlayersFilter{})
	if err != nil {
		return fmt.Errorf("failed to list players: %w", err)
	}
	bands, err := s.bandRepo.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list bands: %w", err)
	}
	if err := s.board.SetPlayers(ctx, players); err != nil {
		return fmt.Errorf("failed to cache players: %w", err)
	}
	if err := s.board.SetBands(ctx, bands); err != nil {
		return fmt.Errorf("failed to cache bands: %w", err)
	}
	s.logger.Info("leaderboard rebuilt", slog.Int("players", len(players)), slog.Int("bands", len(bands)))
	return nil
}
