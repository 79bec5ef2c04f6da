package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/repositories"
	"github.com/Dosada05/wrestling-league/storage"
	"golang.org/x/sync/errgroup"
)

type BandInput struct {
	Name     string  `json:"name"`
	NetWorth float64 `json:"net_worth"`
}

type BandUpdate struct {
	Name     *string  `json:"name,omitempty"`
	NetWorth *float64 `json:"net_worth,omitempty"`
}

type BandService interface {
	CreateBand(ctx context.Context, input BandInput) (*models.Band, error)
	GetBand(ctx context.Context, id int) (*models.Band, error)
	// GetBandDetails returns the band with its active members and their aggregated stats.
	GetBandDetails(ctx context.Context, id int) (*models.Band, error)
	ListBands(ctx context.Context) ([]*models.Band, error)
	UpdateBand(ctx context.Context, id int, input BandUpdate) (*models.Band, error)
	DeleteBand(ctx context.Context, id int) error
	UploadImage(ctx context.Context, id int, file io.Reader, contentType string) (*models.Band, error)
}

type bandService struct {
	tx         repositories.TxRunner
	bandRepo   repositories.BandRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	board      NetWorthBoard
	logger     *slog.Logger
}

func NewBandService(
	tx repositories.TxRunner,
	bandRepo repositories.BandRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
	board NetWorthBoard,
	logger *slog.Logger,
) BandService {
	return &bandService{
		tx:         tx,
		bandRepo:   bandRepo,
		playerRepo: playerRepo,
		uploader:   uploader,
		board:      board,
		logger:     logger,
	}
}

func (s *bandService) CreateBand(ctx context.Context, input BandInput) (*models.Band, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: band name is required", ErrValidationFailed)
	}
	b := &models.Band{Name: name, NetWorth: input.NetWorth}
	if err := s.bandRepo.Create(ctx, nil, b); err != nil {
		return nil, fmt.Errorf("failed to create band: %w", mapRepositoryError(err))
	}
	pushNetWorth(ctx, s.board, s.logger, nil, []*models.Band{b})
	return b, nil
}

func (s *bandService) GetBand(ctx context.Context, id int) (*models.Band, error) {
	b, err := s.bandRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	populateBandImage(b, s.uploader)
	return b, nil
}

func (s *bandService) GetBandDetails(ctx context.Context, id int) (*models.Band, error) {
	var (
		band    *models.Band
		members []*models.Player
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Загрузка группы
	g.Go(func() error {
		var err error
		band, err = s.bandRepo.GetByID(gCtx, nil, id)
		return mapRepositoryError(err)
	})

	// 2. Загрузка участников
	g.Go(func() error {
		var err error
		members, err = s.playerRepo.List(gCtx, nil, repositories.ListPlayersFilter{BandID: &id, ActiveOnly: true})
		if err != nil {
			return fmt.Errorf("failed to load members of band %d: %w", id, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := models.ComputeBandStats(members)
	band.Stats = &stats
	band.Players = make([]models.Player, 0, len(members))
	for _, p := range members {
		populatePlayerImage(p, s.uploader)
		band.Players = append(band.Players, *p)
	}
	populateBandImage(band, s.uploader)
	return band, nil
}

func (s *bandService) ListBands(ctx context.Context) ([]*models.Band, error) {
	bands, err := s.bandRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list bands: %w", err)
	}
	for _, b := range bands {
		populateBandImage(b, s.uploader)
	}
	return bands, nil
}

func (s *bandService) UpdateBand(ctx context.Context, id int, input BandUpdate) (*models.Band, error) {
	var b *models.Band
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		b, err = s.bandRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if input.Name != nil {
			b.Name = strings.TrimSpace(*input.Name)
			if b.Name == "" {
				return fmt.Errorf("%w: band name is required", ErrValidationFailed)
			}
		}
		if input.NetWorth != nil {
			b.NetWorth = *input.NetWorth
		}
		return mapRepositoryError(s.bandRepo.Update(ctx, exec, b))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update band %d: %w", id, err)
	}

	pushNetWorth(ctx, s.board, s.logger, nil, []*models.Band{b})
	populateBandImage(b, s.uploader)
	return b, nil
}

// DeleteBand fails with ErrBandInUse while players still reference the band.
func (s *bandService) DeleteBand(ctx context.Context, id int) error {
	b, err := s.bandRepo.GetByID(ctx, nil, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if err := s.bandRepo.Delete(ctx, nil, id); err != nil {
		return mapRepositoryError(err)
	}

	deleteImage(ctx, s.uploader, s.logger, b.ImageKey)
	if s.board != nil {
		if err := s.board.RemoveBand(ctx, id); err != nil {
			s.logger.Warn("leaderboard band removal failed", slog.Int("band_id", id), slog.Any("error", err))
		}
	}
	return nil
}

func (s *bandService) UploadImage(ctx context.Context, id int, file io.Reader, contentType string) (*models.Band, error) {
	if _, err := s.bandRepo.GetByID(ctx, nil, id); err != nil {
		return nil, mapRepositoryError(err)
	}
	key, err := uploadImage(ctx, s.uploader, "bands", id, contentType, file)
	if err != nil {
		return nil, err
	}

	var (
		b      *models.Band
		oldKey *string
	)
	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		b, err = s.bandRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		oldKey = b.ImageKey
		b.ImageKey = &key
		return mapRepositoryError(s.bandRepo.Update(ctx, exec, b))
	})
	if err != nil {
		deleteImage(ctx, s.uploader, s.logger, &key)
		return nil, fmt.Errorf("failed to store band image: %w", err)
	}

	deleteImage(ctx, s.uploader, s.logger, oldKey)
	populateBandImage(b, s.uploader)
	return b, nil
}
