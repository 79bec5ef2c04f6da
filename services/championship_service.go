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
	"github.com/Dosada05/wrestling-league/repositories"
	"github.com/Dosada05/wrestling-league/storage"
)

// ReignChange describes one holder transition of a championship.
type ReignChange struct {
	ChampionshipID   int                         `json:"championship_id"`
	PreviousHolderID *int                        `json:"previous_holder_id,omitempty"`
	NewHolderID      *int                        `json:"new_holder_id,omitempty"`
	At               time.Time                   `json:"at"`
	Opened           *models.ChampionshipHistory `json:"opened,omitempty"`
}

// ChampionshipTracker keeps the reign history in step with championship holder writes.
// Every call runs inside the transaction of the write it observes, so a transition is recorded exactly once.
type ChampionshipTracker struct {
	historyRepo repositories.ChampionshipHistoryRepository
	logger      *slog.Logger
}

func NewChampionshipTracker(historyRepo repositories.ChampionshipHistoryRepository, logger *slog.Logger) *ChampionshipTracker {
	return &ChampionshipTracker{historyRepo: historyRepo, logger: logger}
}

// RecordChampionshipWrite compares the holder before and after a write. previous is nil for a new record.
// It returns nil when the holder did not change.
func (t *ChampionshipTracker) RecordChampionshipWrite(ctx context.Context, exec repositories.SQLExecutor, championshipID int, previous, current *int, at time.Time) (*ReignChange, error) {
	if sameHolder(previous, current) {
		return nil, nil
	}

	change := &ReignChange{ChampionshipID: championshipID, PreviousHolderID: previous, NewHolderID: current, At: at}

	if previous != nil {
		err := t.historyRepo.CloseReign(ctx, exec, championshipID, *previous, at)
		switch {
		case errors.Is(err, repositories.ErrOpenReignNotFound):
			t.logger.Warn("no open reign to close",
				slog.Int("championship_id", championshipID), slog.Int("player_id", *previous))
		case err != nil:
			return nil, fmt.Errorf("failed to close reign of player %d: %w", *previous, err)
		}
	}

	if current != nil {
		reign := &models.ChampionshipHistory{ChampionshipID: championshipID, PlayerID: *current, StartedAt: at}
		if err := t.historyRepo.OpenReign(ctx, exec, reign); err != nil {
			return nil, fmt.Errorf("failed to open reign of player %d: %w", *current, err)
		}
		change.Opened = reign
	}

	return change, nil
}

// transfer locks nothing itself: c must already be locked by the caller.
func (t *ChampionshipTracker) transfer(ctx context.Context, exec repositories.SQLExecutor, repo repositories.ChampionshipRepository, c *models.Championship, holder *int, at time.Time) (*ReignChange, error) {
	previous := c.PlayerID
	c.PlayerID = holder
	c.UpdatedAt = at
	if err := repo.Update(ctx, exec, c); err != nil {
		return nil, mapRepositoryError(err)
	}
	return t.RecordChampionshipWrite(ctx, exec, c.ID, previous, holder, at)
}

type ChampionshipInput struct {
	Name     string  `json:"name"`
	Hike     float64 `json:"hike"`
	PlayerID *int    `json:"player_id,omitempty"`
}

// ChampionshipUpdate - частичное обновление. ClearHolder снимает титул с текущего обладателя.
type ChampionshipUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Hike        *float64 `json:"hike,omitempty"`
	PlayerID    *int     `json:"player_id,omitempty"`
	ClearHolder bool     `json:"clear_holder,omitempty"`
}

type ChampionshipService interface {
	CreateChampionship(ctx context.Context, input ChampionshipInput) (*models.Championship, error)
	GetChampionship(ctx context.Context, id int) (*models.Championship, error)
	ListChampionships(ctx context.Context) ([]*models.Championship, error)
	UpdateChampionship(ctx context.Context, id int, input ChampionshipUpdate) (*models.Championship, *ReignChange, error)
	GetHistory(ctx context.Context, id int) ([]*models.ChampionshipHistory, error)
	UploadImage(ctx context.Context, id int, file io.Reader, contentType string) (*models.Championship, error)
}

type championshipService struct {
	tx               repositories.TxRunner
	championshipRepo repositories.ChampionshipRepository
	historyRepo      repositories.ChampionshipHistoryRepository
	tracker          *ChampionshipTracker
	uploader         storage.FileUploader
	hub              Broadcaster
	logger           *slog.Logger
	now              func() time.Time
}

func NewChampionshipService(
	tx repositories.TxRunner,
	championshipRepo repositories.ChampionshipRepository,
	historyRepo repositories.ChampionshipHistoryRepository,
	tracker *ChampionshipTracker,
	uploader storage.FileUploader,
	hub Broadcaster,
	logger *slog.Logger,
) ChampionshipService {
	return &championshipService{
		tx:               tx,
		championshipRepo: championshipRepo,
		historyRepo:      historyRepo,
		tracker:          tracker,
		uploader:         uploader,
		hub:              broadcasterOrNoop(hub),
		logger:           logger,
		now:              time.Now,
	}
}

func validateChampionship(name string, hike float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: championship name is required", ErrValidationFailed)
	}
	if hike < 0 {
		return fmt.Errorf("%w: hike must not be negative", ErrValidationFailed)
	}
	return nil
}

func (s *championshipService) CreateChampionship(ctx context.Context, input ChampionshipInput) (*models.Championship, error) {
	if err := validateChampionship(input.Name, input.Hike); err != nil {
		return nil, err
	}

	at := s.now()
	c := &models.Championship{
		Name:      strings.TrimSpace(input.Name),
		Hike:      input.Hike,
		PlayerID:  input.PlayerID,
		UpdatedAt: at,
	}

	var change *ReignChange
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.championshipRepo.Create(ctx, exec, c); err != nil {
			return mapRepositoryError(err)
		}
		var err error
		change, err = s.tracker.RecordChampionshipWrite(ctx, exec, c.ID, nil, c.PlayerID, at)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create championship: %w", err)
	}

	s.publishReign(change)
	populateChampionshipImage(c, s.uploader)
	return c, nil
}

func (s *championshipService) GetChampionship(ctx context.Context, id int) (*models.Championship, error) {
	c, err := s.championshipRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	populateChampionshipImage(c, s.uploader)
	return c, nil
}

func (s *championshipService) ListChampionships(ctx context.Context) ([]*models.Championship, error) {
	championships, err := s.championshipRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list championships: %w", err)
	}
	for _, c := range championships {
		populateChampionshipImage(c, s.uploader)
	}
	return championships, nil
}

// UpdateChampionship locks the record, so the previous holder read here is the one the write replaces.
func (s *championshipService) UpdateChampionship(ctx context.Context, id int, input ChampionshipUpdate) (*models.Championship, *ReignChange, error) {
	if input.ClearHolder && input.PlayerID != nil {
		return nil, nil, fmt.Errorf("%w: player_id and clear_holder are mutually exclusive", ErrValidationFailed)
	}

	at := s.now()
	var (
		c      *models.Championship
		change *ReignChange
	)
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		c, err = s.championshipRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		previous := c.PlayerID

		if input.Name != nil {
			c.Name = strings.TrimSpace(*input.Name)
		}
		if input.Hike != nil {
			c.Hike = *input.Hike
		}
		if err := validateChampionship(c.Name, c.Hike); err != nil {
			return err
		}
		switch {
		case input.ClearHolder:
			c.PlayerID = nil
		case input.PlayerID != nil:
			c.PlayerID = intPtr(*input.PlayerID)
		}
		c.UpdatedAt = at

		if err := s.championshipRepo.Update(ctx, exec, c); err != nil {
			return mapRepositoryError(err)
		}
		change, err = s.tracker.RecordChampionshipWrite(ctx, exec, c.ID, previous, c.PlayerID, at)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update championship %d: %w", id, err)
	}

	s.publishReign(change)
	populateChampionshipImage(c, s.uploader)
	return c, change, nil
}

func (s *championshipService) GetHistory(ctx context.Context, id int) ([]*models.ChampionshipHistory, error) {
	if _, err := s.championshipRepo.GetByID(ctx, nil, id); err != nil {
		return nil, mapRepositoryError(err)
	}
	history, err := s.historyRepo.ListByChampionship(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list history of championship %d: %w", id, err)
	}
	return history, nil
}

func (s *championshipService) UploadImage(ctx context.Context, id int, file io.Reader, contentType string) (*models.Championship, error) {
	c, err := s.championshipRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	key, err := uploadImage(ctx, s.uploader, "championships", id, contentType, file)
	if err != nil {
		return nil, err
	}

	var oldKey *string
	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		locked, err := s.championshipRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		oldKey = locked.ImageKey
		locked.ImageKey = &key
		locked.UpdatedAt = s.now()
		if err := s.championshipRepo.Update(ctx, exec, locked); err != nil {
			return mapRepositoryError(err)
		}
		c = locked
		return nil
	})
	if err != nil {
		deleteImage(ctx, s.uploader, s.logger, &key)
		return nil, fmt.Errorf("failed to store championship image: %w", err)
	}

	deleteImage(ctx, s.uploader, s.logger, oldKey)
	populateChampionshipImage(c, s.uploader)
	return c, nil
}

func (s *championshipService) publishReign(change *ReignChange) {
	if change == nil {
		return
	}
	s.hub.Publish(brackets.LeagueRoom, brackets.EventReignChanged, change)
}
