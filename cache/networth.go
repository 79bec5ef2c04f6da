// Package cache keeps the net-worth leaderboards in Redis sorted sets.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/redis/go-redis/v9"
)

const (
	playersKey = "league:networth:players"
	bandsKey   = "league:networth:bands"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// NetWorthBoard mirrors player and band net worth. Postgres stays the source of truth.
type NetWorthBoard struct {
	client *redis.Client
	logger *slog.Logger
}

func NewNetWorthBoard(ctx context.Context, opts Options, logger *slog.Logger) (*NetWorthBoard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewNetWorthBoardWithClient(client, logger), nil
}

func NewNetWorthBoardWithClient(client *redis.Client, logger *slog.Logger) *NetWorthBoard {
	return &NetWorthBoard{client: client, logger: logger}
}

func (b *NetWorthBoard) Close() error {
	return b.client.Close()
}

// SetPlayers writes the current net worth of the players. Inactive players are removed from the board.
func (b *NetWorthBoard) SetPlayers(ctx context.Context, players []*models.Player) error {
	pipe := b.client.Pipeline()
	for _, p := range players {
		if p == nil {
			continue
		}
		member := strconv.Itoa(p.ID)
		if !p.Active {
			pipe.ZRem(ctx, playersKey, member)
			continue
		}
		pipe.ZAdd(ctx, playersKey, redis.Z{Score: p.NetWorth, Member: member})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("updating player net worth: %w", err)
	}
	return nil
}

func (b *NetWorthBoard) SetBands(ctx context.Context, bands []*models.Band) error {
	pipe := b.client.Pipeline()
	for _, band := range bands {
		if band == nil {
			continue
		}
		pipe.ZAdd(ctx, bandsKey, redis.Z{Score: band.NetWorth, Member: strconv.Itoa(band.ID)})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("updating band net worth: %w", err)
	}
	return nil
}

func (b *NetWorthBoard) RemoveBand(ctx context.Context, bandID int) error {
	if err := b.client.ZRem(ctx, bandsKey, strconv.Itoa(bandID)).Err(); err != nil {
		return fmt.Errorf("removing band %d: %w", bandID, err)
	}
	return nil
}

func (b *NetWorthBoard) TopPlayers(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	return b.top(ctx, playersKey, n)
}

func (b *NetWorthBoard) TopBands(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	return b.top(ctx, bandsKey, n)
}

func (b *NetWorthBoard) top(ctx context.Context, key string, n int) ([]models.LeaderboardEntry, error) {
	if n <= 0 {
		return []models.LeaderboardEntry{}, nil
	}
	results, err := b.client.ZRevRangeWithScores(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("getting top %d from %s: %w", n, key, err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(results))
	for _, result := range results {
		member, _ := result.Member.(string)
		id, convErr := strconv.Atoi(member)
		if convErr != nil {
			b.logger.Warn("skipping malformed leaderboard member", slog.String("key", key), slog.String("member", member))
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:     len(entries) + 1,
			ID:       id,
			NetWorth: result.Score,
		})
	}
	return entries, nil
}
