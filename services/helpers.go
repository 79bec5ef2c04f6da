package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/storage"
)

// Broadcaster доставляет события live-клиентам. Реализуется brackets.Hub.
type Broadcaster interface {
	Publish(roomID, eventType string, payload interface{})
	BroadcastToRoom(roomID string, message interface{})
}

// NetWorthBoard is the leaderboard cache updated after commits. Реализуется cache.NetWorthBoard.
type NetWorthBoard interface {
	SetPlayers(ctx context.Context, players []*models.Player) error
	SetBands(ctx context.Context, bands []*models.Band) error
	RemoveBand(ctx context.Context, bandID int) error
	TopPlayers(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
	TopBands(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
}

type noopBroadcaster struct{}

func (noopBroadcaster) Publish(string, string, interface{}) {}

func (noopBroadcaster) BroadcastToRoom(string, interface{}) {}

func broadcasterOrNoop(b Broadcaster) Broadcaster {
	if b == nil {
		return noopBroadcaster{}
	}
	return b
}

// pushNetWorth обновляет кэш лидерборда. Ошибки только логируются: postgres остается источником истины.
func pushNetWorth(ctx context.Context, board NetWorthBoard, logger *slog.Logger, players []*models.Player, bands []*models.Band) {
	if board == nil {
		return
	}
	if len(players) > 0 {
		if err := board.SetPlayers(ctx, players); err != nil {
			logger.Warn("leaderboard player update failed", slog.Any("error", err))
		}
	}
	if len(bands) > 0 {
		if err := board.SetBands(ctx, bands); err != nil {
			logger.Warn("leaderboard band update failed", slog.Any("error", err))
		}
	}
}

// uploadImage stores an image under a fresh key and returns that key.
func uploadImage(ctx context.Context, uploader storage.FileUploader, entity string, id int, contentType string, file io.Reader) (string, error) {
	key, err := storage.NewObjectKey(entity, id, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if _, err := uploader.Upload(ctx, key, contentType, file); err != nil {
		return "", fmt.Errorf("failed to upload %s image: %w", entity, err)
	}
	return key, nil
}

// deleteImage удаляет старое изображение после успешной замены, ошибка не фатальна.
func deleteImage(ctx context.Context, uploader storage.FileUploader, logger *slog.Logger, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := uploader.Delete(ctx, *key); err != nil {
		logger.Warn("failed to delete replaced image", slog.String("key", *key), slog.Any("error", err))
	}
}

func imageURL(uploader storage.FileUploader, key *string) *string {
	if uploader == nil || key == nil || *key == "" {
		return nil
	}
	url := uploader.GetPublicURL(*key)
	if url == "" {
		return nil
	}
	return &url
}

func populatePlayerImage(p *models.Player, uploader storage.FileUploader) {
	if p != nil {
		p.ImageURL = imageURL(uploader, p.ImageKey)
	}
}

func populateBandImage(b *models.Band, uploader storage.FileUploader) {
	if b != nil {
		b.ImageURL = imageURL(uploader, b.ImageKey)
	}
}

func populateChampionshipImage(c *models.Championship, uploader storage.FileUploader) {
	if c != nil {
		c.ImageURL = imageURL(uploader, c.ImageKey)
	}
}

// sortedUnique returns the distinct positive ids in ascending order, the order rows are locked in.
func sortedUnique(ids ...int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func intPtr(v int) *int {
	return &v
}

func sameHolder(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
