package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/wrestling-league/brackets"
	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/outcome"
	"github.com/Dosada05/wrestling-league/repositories"
)

// AuctionResult - итог одного переезда игрока.
type AuctionResult struct {
	Auction     *models.Auction `json:"auction"`
	Player      *models.Player  `json:"player"`
	Destination *models.Band    `json:"destination"`
	Eligible    int             `json:"eligible_bands"`
}

// OpenMarketReport summarizes one pass over the open market.
type OpenMarketReport struct {
	Auctioned  []*AuctionResult `json:"auctioned"`
	Ineligible []int            `json:"ineligible_player_ids"`
	Failed     []int            `json:"failed_player_ids"`
}

type AuctionService interface {
	Auction(ctx context.Context, playerID int) (*AuctionResult, error)
	RunOpenMarket(ctx context.Context) (*OpenMarketReport, error)
	ListAuctions(ctx context.Context, playerID *int, limit, offset int) ([]*models.Auction, error)
}

type auctionService struct {
	tx               repositories.TxRunner
	playerRepo       repositories.PlayerRepository
	bandRepo         repositories.BandRepository
	auctionRepo      repositories.AuctionRepository
	rnd              outcome.Rand
	hub              Broadcaster
	board            NetWorthBoard
	logger           *slog.Logger
	openMarketBandID int
	now              func() time.Time
}

func NewAuctionService(
	tx repositories.TxRunner,
	playerRepo repositories.PlayerRepository,
	bandRepo repositories.BandRepository,
	auctionRepo repositories.AuctionRepository,
	rnd outcome.Rand,
	hub Broadcaster,
	board NetWorthBoard,
	logger *slog.Logger,
	openMarketBandID int,
) AuctionService {
	return &auctionService{
		tx:               tx,
		playerRepo:       playerRepo,
		bandRepo:         bandRepo,
		auctionRepo:      auctionRepo,
		rnd:              rnd,
		hub:              broadcasterOrNoop(hub),
		board:            board,
		logger:           logger,
		openMarketBandID: openMarketBandID,
		now:              time.Now,
	}
}

// EligibleDestinations returns the bands whose net worth is at least 2/3 of the player's.
func EligibleDestinations(player *models.Player, bands []*models.Band, openMarketBandID int) []*models.Band {
	threshold := player.NetWorth * 2 / 3
	eligible := make([]*models.Band, 0, len(bands))
	for _, b := range bands {
		if b.ID == openMarketBandID {
			continue
		}
		if b.NetWorth >= threshold {
			eligible = append(eligible, b)
		}
	}
	return eligible
}

func (s *auctionService) Auction(ctx context.Context, playerID int) (*AuctionResult, error) {
	if s.openMarketBandID <= 0 {
		return nil, ErrAuctionsDisabled
	}

	var result *AuctionResult
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		player, err := s.playerRepo.GetForUpdate(ctx, exec, playerID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if player.BandID != s.openMarketBandID {
			return fmt.Errorf("%w: player %d is in band %d", ErrPlayerNotOnOpenMarket, player.ID, player.BandID)
		}
		if !player.Active {
			return fmt.Errorf("%w: player %d", ErrPlayerInactive, player.ID)
		}

		bands, err := s.bandRepo.ListForUpdateExcept(ctx, exec, s.openMarketBandID)
		if err != nil {
			return fmt.Errorf("failed to lock bands: %w", err)
		}
		eligible := EligibleDestinations(player, bands, s.openMarketBandID)
		if len(eligible) == 0 {
			return fmt.Errorf("%w: player %d with net worth %.2f", ErrNoEligibleDestination, player.ID, player.NetWorth)
		}
		dest := eligible[outcome.Pick(s.rnd, len(eligible))]

		// цена - net worth игрока до переезда
		price := player.NetWorth
		auction := &models.Auction{
			PlayerID:    player.ID,
			FromBandID:  player.BandID,
			ToBandID:    dest.ID,
			Price:       price,
			AuctionedAt: s.now(),
		}

		dest.NetWorth -= price
		if err := s.bandRepo.Update(ctx, exec, dest); err != nil {
			return fmt.Errorf("failed to update band %d: %w", dest.ID, mapRepositoryError(err))
		}
		player.BandID = dest.ID
		if err := s.playerRepo.Update(ctx, exec, player); err != nil {
			return fmt.Errorf("failed to move player %d: %w", player.ID, mapRepositoryError(err))
		}
		if err := s.auctionRepo.Create(ctx, exec, auction); err != nil {
			return fmt.Errorf("failed to record auction: %w", err)
		}

		result = &AuctionResult{Auction: auction, Player: player, Destination: dest, Eligible: len(eligible)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player auctioned",
		slog.Int("player_id", result.Player.ID),
		slog.Int("from_band_id", result.Auction.FromBandID),
		slog.Int("to_band_id", result.Auction.ToBandID),
		slog.Float64("price", result.Auction.Price),
		slog.Int("eligible_bands", result.Eligible),
	)
	s.hub.Publish(brackets.LeagueRoom, brackets.EventPlayerAuctioned, result)
	pushNetWorth(ctx, s.board, s.logger, []*models.Player{result.Player}, []*models.Band{result.Destination})
	return result, nil
}

// RunOpenMarket auctions every active open-market player. Each auction is its own transaction,
// so a failed one does not undo the others.
func (s *auctionService) RunOpenMarket(ctx context.Context) (*OpenMarketReport, error) {
	if s.openMarketBandID <= 0 {
		return nil, ErrAuctionsDisabled
	}
	bandID := s.openMarketBandID
	players, err := s.playerRepo.List(ctx, nil, repositories.ListPlayersFilter{BandID: &bandID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list open-market players: %w", err)
	}

	report := &OpenMarketReport{Auctioned: []*AuctionResult{}, Ineligible: []int{}, Failed: []int{}}
	for _, p := range players {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		res, err := s.Auction(ctx, p.ID)
		switch {
		case err == nil:
			report.Auctioned = append(report.Auctioned, res)
		case errors.Is(err, ErrNoEligibleDestination):
			s.logger.Info("no eligible destination", slog.Int("player_id", p.ID), slog.Float64("net_worth", p.NetWorth))
			report.Ineligible = append(report.Ineligible, p.ID)
		case errors.Is(err, ErrPlayerNotOnOpenMarket), errors.Is(err, ErrPlayerInactive):
			// игрок успел уйти из open market между List и блокировкой
			continue
		default:
			s.logger.Error("auction failed", slog.Int("player_id", p.ID), slog.Any("error", err))
			report.Failed = append(report.Failed, p.ID)
		}
	}
	return report, nil
}

func (s *auctionService) ListAuctions(ctx context.Context, playerID *int, limit, offset int) ([]*models.Auction, error) {
	auctions, err := s.auctionRepo.List(ctx, nil, playerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}
	return auctions, nil
}
