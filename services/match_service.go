package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/wrestling-league/brackets"
	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/outcome"
	"github.com/Dosada05/wrestling-league/repositories"
	"github.com/Dosada05/wrestling-league/storage"
)

type CreateMatchInput struct {
	Name           string    `json:"name"`
	Date           time.Time `json:"date"`
	TournamentID   *int      `json:"tournament_id,omitempty"`
	ChampionshipID *int      `json:"championship_id,omitempty"`
	P1ID           int       `json:"p1_id"`
	P2ID           int       `json:"p2_id"`
	PrizeAmount    float64   `json:"prize_amount"`
	EntryAmount    float64   `json:"entry_amount"`
}

type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.SingleMatch, error)
	GetMatch(ctx context.Context, id int) (*models.SingleMatch, error)
	ListMatches(ctx context.Context, filter repositories.ListMatchesFilter) ([]*models.SingleMatch, error)
	DeleteMatch(ctx context.Context, id int) error
	ResolveMatch(ctx context.Context, id int) (*ResolvedMatch, error)
	PostNotification(ctx context.Context, matchID int, content string, image io.Reader, contentType string) (*models.Notification, error)
	ListNotifications(ctx context.Context, matchID int) ([]*models.Notification, error)
}

type matchService struct {
	tx               repositories.TxRunner
	matchRepo        repositories.MatchRepository
	playerRepo       repositories.PlayerRepository
	championshipRepo repositories.ChampionshipRepository
	tournamentRepo   repositories.TournamentRepository
	notificationRepo repositories.NotificationRepository
	ledger           *ledger
	uploader         storage.FileUploader
	hub              Broadcaster
	board            NetWorthBoard
	logger           *slog.Logger
	freezeDays       int
	now              func() time.Time
}

func NewMatchService(
	tx repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	bandRepo repositories.BandRepository,
	championshipRepo repositories.ChampionshipRepository,
	tournamentRepo repositories.TournamentRepository,
	notificationRepo repositories.NotificationRepository,
	tracker *ChampionshipTracker,
	rnd outcome.Rand,
	uploader storage.FileUploader,
	hub Broadcaster,
	board NetWorthBoard,
	logger *slog.Logger,
	freezeDays int,
) MatchService {
	return &matchService{
		tx:               tx,
		matchRepo:        matchRepo,
		playerRepo:       playerRepo,
		championshipRepo: championshipRepo,
		tournamentRepo:   tournamentRepo,
		notificationRepo: notificationRepo,
		ledger: &ledger{
			matchRepo:        matchRepo,
			playerRepo:       playerRepo,
			bandRepo:         bandRepo,
			championshipRepo: championshipRepo,
			tracker:          tracker,
			rnd:              rnd,
			logger:           logger,
		},
		uploader:   uploader,
		hub:        broadcasterOrNoop(hub),
		board:      board,
		logger:     logger,
		freezeDays: freezeDays,
		now:        time.Now,
	}
}

func validateAmounts(prize, entry float64) error {
	if prize < 0 || entry < 0 {
		return fmt.Errorf("%w: prize and entry amounts must not be negative", ErrValidationFailed)
	}
	return nil
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.SingleMatch, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: match name is required", ErrValidationFailed)
	}
	if input.P1ID <= 0 || input.P2ID <= 0 {
		return nil, fmt.Errorf("%w: both players are required", ErrValidationFailed)
	}
	if input.P1ID == input.P2ID {
		return nil, fmt.Errorf("%w: a player cannot face itself", ErrValidationFailed)
	}
	if err := validateAmounts(input.PrizeAmount, input.EntryAmount); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		input.Date = s.now()
	}

	m := &models.SingleMatch{
		Name:           input.Name,
		Date:           input.Date,
		TournamentID:   input.TournamentID,
		ChampionshipID: input.ChampionshipID,
		P1ID:           intPtr(input.P1ID),
		P2ID:           intPtr(input.P2ID),
		PrizeAmount:    input.PrizeAmount,
		EntryAmount:    input.EntryAmount,
		IsChampionship: input.ChampionshipID != nil,
	}

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		players, err := s.playerRepo.ListByIDs(ctx, exec, []int{input.P1ID, input.P2ID})
		if err != nil {
			return err
		}
		if len(players) != 2 {
			return ErrPlayerNotFound
		}
		for _, p := range players {
			if !p.Active {
				return fmt.Errorf("%w: player %d", ErrPlayerInactive, p.ID)
			}
		}

		if m.TournamentID != nil {
			t, err := s.tournamentRepo.GetByID(ctx, exec, *m.TournamentID)
			if err != nil {
				return mapRepositoryError(err)
			}
			if t.Completed {
				return ErrTournamentCompleted
			}
		}
		if m.ChampionshipID != nil {
			if _, err := s.championshipRepo.GetByID(ctx, exec, *m.ChampionshipID); err != nil {
				return mapRepositoryError(err)
			}
			if err := s.checkFreeze(ctx, exec, m); err != nil {
				return err
			}
		}

		return mapRepositoryError(s.matchRepo.Create(ctx, exec, m))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	publishMatchEvent(s.hub, m, brackets.EventMatchesCreated, []*models.SingleMatch{m})
	return m, nil
}

// checkFreeze rejects a title match dated within freezeDays before a pending main event.
// Matches of that main event itself are allowed.
func (s *matchService) checkFreeze(ctx context.Context, exec repositories.SQLExecutor, m *models.SingleMatch) error {
	if s.freezeDays <= 0 {
		return nil
	}
	events, err := s.tournamentRepo.ListMainEventsBetween(ctx, exec, m.Date, m.Date.AddDate(0, 0, s.freezeDays))
	if err != nil {
		return fmt.Errorf("failed to check main events: %w", err)
	}
	for _, t := range events {
		if m.TournamentID != nil && *m.TournamentID == t.ID {
			continue
		}
		if t.InFreezeWindow(m.Date, s.freezeDays) {
			return fmt.Errorf("%w: %q on %s", ErrChampionshipFreeze, t.Name, t.Date.Format("2006-01-02"))
		}
	}
	return nil
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.SingleMatch, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return m, nil
}

func (s *matchService) ListMatches(ctx context.Context, filter repositories.ListMatchesFilter) ([]*models.SingleMatch, error) {
	matches, err := s.matchRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// DeleteMatch deletes a pending match. Resolved matches are part of the league record and stay.
func (s *matchService) DeleteMatch(ctx context.Context, id int) error {
	return s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if m.Resolved() {
			return ErrMatchResolved
		}
		return mapRepositoryError(s.matchRepo.Delete(ctx, exec, id))
	})
}

// ResolveMatch decides a pending match in one transaction. Resolving twice is a no-op.
func (s *matchService) ResolveMatch(ctx context.Context, id int) (*ResolvedMatch, error) {
	var result *ResolvedMatch
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		result, err = s.ledger.resolve(ctx, exec, id, s.now())
		return err
	})
	if err != nil {
		if errors.Is(err, ErrIncompleteMatchup) {
			s.logger.Warn("match left pending", slog.Int("match_id", id), slog.Any("error", err))
		}
		return nil, err
	}

	publishResolved(ctx, s.hub, s.board, s.logger, result)
	return result, nil
}

func (s *matchService) PostNotification(ctx context.Context, matchID int, content string, image io.Reader, contentType string) (*models.Notification, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: notification content is required", ErrValidationFailed)
	}
	m, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	n := &models.Notification{MatchID: matchID, Content: content, CreatedAt: s.now()}
	if image != nil {
		key, err := uploadImage(ctx, s.uploader, "notifications", matchID, contentType, image)
		if err != nil {
			return nil, err
		}
		n.ImageKey = &key
	}

	if err := s.notificationRepo.Create(ctx, nil, n); err != nil {
		deleteImage(ctx, s.uploader, s.logger, n.ImageKey)
		return nil, fmt.Errorf("failed to post notification: %w", mapRepositoryError(err))
	}
	n.ImageURL = imageURL(s.uploader, n.ImageKey)

	publishMatchEvent(s.hub, m, brackets.EventNotificationPosted, n)
	return n, nil
}

func (s *matchService) ListNotifications(ctx context.Context, matchID int) ([]*models.Notification, error) {
	if _, err := s.matchRepo.GetByID(ctx, nil, matchID); err != nil {
		return nil, mapRepositoryError(err)
	}
	notifications, err := s.notificationRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	for _, n := range notifications {
		n.ImageURL = imageURL(s.uploader, n.ImageKey)
	}
	return notifications, nil
}
