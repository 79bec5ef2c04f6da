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
)

type PlayerInput struct {
	Name          string        `json:"name"`
	Gender        models.Gender `json:"gender"`
	BandID        int           `json:"band_id"`
	Wins          int           `json:"wins"`
	MatchesPlayed int           `json:"matches_played"`
	NetWorth      float64       `json:"net_worth"`
	SpouseID      *int          `json:"spouse_id,omitempty"`
}

// PlayerUpdate - частичное обновление, nil поля не меняются.
type PlayerUpdate struct {
	Name          *string        `json:"name,omitempty"`
	Gender        *models.Gender `json:"gender,omitempty"`
	BandID        *int           `json:"band_id,omitempty"`
	Wins          *int           `json:"wins,omitempty"`
	MatchesPlayed *int           `json:"matches_played,omitempty"`
	NetWorth      *float64       `json:"net_worth,omitempty"`
	Active        *bool          `json:"active,omitempty"`
	SpouseID      *int           `json:"spouse_id,omitempty"`
	ClearSpouse   bool           `json:"clear_spouse,omitempty"`
}

type PlayerService interface {
	CreatePlayer(ctx context.Context, input PlayerInput) (*models.Player, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	ListPlayers(ctx context.Context, filter repositories.ListPlayersFilter) ([]*models.Player, error)
	UpdatePlayer(ctx context.Context, id int, input PlayerUpdate) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
	UploadImage(ctx context.Context, id int, file io.Reader, contentType string) (*models.Player, error)
}

type playerService struct {
	tx         repositories.TxRunner
	playerRepo repositories.PlayerRepository
	bandRepo   repositories.BandRepository
	uploader   storage.FileUploader
	board      NetWorthBoard
	logger     *slog.Logger
}

func NewPlayerService(
	tx repositories.TxRunner,
	playerRepo repositories.PlayerRepository,
	bandRepo repositories.BandRepository,
	uploader storage.FileUploader,
	board NetWorthBoard,
	logger *slog.Logger,
) PlayerService {
	return &playerService{
		tx:         tx,
		playerRepo: playerRepo,
		bandRepo:   bandRepo,
		uploader:   uploader,
		board:      board,
		logger:     logger,
	}
}

func validatePlayer(p *models.Player) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}
	if !p.Gender.Valid() {
		return fmt.Errorf("%w: unknown gender %q", ErrValidationFailed, p.Gender)
	}
	if p.BandID <= 0 {
		return fmt.Errorf("%w: band_id is required", ErrValidationFailed)
	}
	if p.Wins < 0 || p.MatchesPlayed < 0 {
		return fmt.Errorf("%w: wins and matches_played must not be negative", ErrValidationFailed)
	}
	if p.Wins > p.MatchesPlayed {
		return fmt.Errorf("%w: wins (%d) exceed matches played (%d)", ErrValidationFailed, p.Wins, p.MatchesPlayed)
	}
	return nil
}

func (s *playerService) CreatePlayer(ctx context.Context, input PlayerInput) (*models.Player, error) {
	p := &models.Player{
		Name:          strings.TrimSpace(input.Name),
		Gender:        input.Gender,
		BandID:        input.BandID,
		Wins:          input.Wins,
		MatchesPlayed: input.MatchesPlayed,
		NetWorth:      input.NetWorth,
		Active:        true,
	}
	if err := validatePlayer(p); err != nil {
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		p.SpouseID = nil
		if err := s.playerRepo.Create(ctx, exec, p); err != nil {
			return mapRepositoryError(err)
		}
		if input.SpouseID == nil {
			return nil
		}
		// новый игрок еще никем не заблокирован, супруга блокируем внутри reconcile
		return s.reconcileSpouse(ctx, exec, p, input.SpouseID, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	pushNetWorth(ctx, s.board, s.logger, []*models.Player{p}, nil)
	populatePlayerImage(p, s.uploader)
	return p, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	p, err := s.playerRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	band, err := s.bandRepo.GetByID(ctx, nil, p.BandID)
	if err != nil {
		s.logger.Warn("failed to load player band", slog.Int("player_id", id), slog.Any("error", err))
	} else {
		populateBandImage(band, s.uploader)
		p.Band = band
	}
	populatePlayerImage(p, s.uploader)
	return p, nil
}

func (s *playerService) ListPlayers(ctx context.Context, filter repositories.ListPlayersFilter) ([]*models.Player, error) {
	if filter.Gender != nil && !filter.Gender.Valid() {
		return nil, fmt.Errorf("%w: unknown gender %q", ErrValidationFailed, *filter.Gender)
	}
	players, err := s.playerRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	for _, p := range players {
		populatePlayerImage(p, s.uploader)
	}
	return players, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int, input PlayerUpdate) (*models.Player, error) {
	if input.ClearSpouse && input.SpouseID != nil {
		return nil, fmt.Errorf("%w: spouse_id and clear_spouse are mutually exclusive", ErrValidationFailed)
	}
	if input.SpouseID != nil && *input.SpouseID == id {
		return nil, ErrInvalidSpouse
	}

	var p *models.Player
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		// игрок и новый супруг блокируются по возрастанию id
		locked := make(map[int]*models.Player, 2)
		lockIDs := []int{id}
		if input.SpouseID != nil {
			lockIDs = append(lockIDs, *input.SpouseID)
		}
		for _, lid := range sortedUnique(lockIDs...) {
			lp, err := s.playerRepo.GetForUpdate(ctx, exec, lid)
			if err != nil {
				if lid != id {
					return fmt.Errorf("%w: spouse %d: %w", ErrInvalidSpouse, lid, mapRepositoryError(err))
				}
				return mapRepositoryError(err)
			}
			locked[lid] = lp
		}
		p = locked[id]

		if input.Name != nil {
			p.Name = strings.TrimSpace(*input.Name)
		}
		if input.Gender != nil {
			p.Gender = *input.Gender
		}
		if input.BandID != nil {
			p.BandID = *input.BandID
		}
		if input.Wins != nil {
			p.Wins = *input.Wins
		}
		if input.MatchesPlayed != nil {
			p.MatchesPlayed = *input.MatchesPlayed
		}
		if input.NetWorth != nil {
			p.NetWorth = *input.NetWorth
		}
		if input.Active != nil {
			p.Active = *input.Active
		}
		if err := validatePlayer(p); err != nil {
			return err
		}

		switch {
		case input.ClearSpouse:
			if err := s.reconcileSpouse(ctx, exec, p, nil, nil); err != nil {
				return err
			}
		case input.SpouseID != nil:
			if err := s.reconcileSpouse(ctx, exec, p, input.SpouseID, locked[*input.SpouseID]); err != nil {
				return err
			}
		}
		return mapRepositoryError(s.playerRepo.Update(ctx, exec, p))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update player %d: %w", id, err)
	}

	pushNetWorth(ctx, s.board, s.logger, []*models.Player{p}, nil)
	populatePlayerImage(p, s.uploader)
	return p, nil
}

// reconcileSpouse makes a and spouseID point at each other and clears the stale partners of both.
// spouseID nil divorces a. a must already be locked; spouse is the locked spouse row or nil to lock it here.
func (s *playerService) reconcileSpouse(ctx context.Context, exec repositories.SQLExecutor, a *models.Player, spouseID *int, spouse *models.Player) error {
	if spouseID != nil && *spouseID == a.ID {
		return ErrInvalidSpouse
	}
	if sameHolder(a.SpouseID, spouseID) {
		return nil
	}

	if spouseID != nil && spouse == nil {
		var err error
		spouse, err = s.playerRepo.GetForUpdate(ctx, exec, *spouseID)
		if err != nil {
			return fmt.Errorf("%w: spouse %d: %w", ErrInvalidSpouse, *spouseID, mapRepositoryError(err))
		}
	}

	var stale []int
	if a.SpouseID != nil {
		stale = append(stale, *a.SpouseID)
	}
	if spouse != nil && spouse.SpouseID != nil && *spouse.SpouseID != a.ID {
		stale = append(stale, *spouse.SpouseID)
	}
	for _, sid := range sortedUnique(stale...) {
		if _, err := s.playerRepo.GetForUpdate(ctx, exec, sid); err != nil {
			return fmt.Errorf("failed to lock former spouse %d: %w", sid, mapRepositoryError(err))
		}
		if err := s.playerRepo.UpdateSpouse(ctx, exec, sid, nil); err != nil {
			return fmt.Errorf("failed to clear former spouse %d: %w", sid, mapRepositoryError(err))
		}
	}

	// сначала обнуляем, иначе уникальный индекс по spouse_id сработает на промежуточном состоянии
	if err := s.playerRepo.UpdateSpouse(ctx, exec, a.ID, nil); err != nil {
		return mapRepositoryError(err)
	}
	a.SpouseID = nil
	if spouse == nil {
		return nil
	}
	if err := s.playerRepo.UpdateSpouse(ctx, exec, spouse.ID, nil); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.playerRepo.UpdateSpouse(ctx, exec, a.ID, intPtr(spouse.ID)); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.playerRepo.UpdateSpouse(ctx, exec, spouse.ID, intPtr(a.ID)); err != nil {
		return mapRepositoryError(err)
	}
	a.SpouseID = intPtr(spouse.ID)
	spouse.SpouseID = intPtr(a.ID)
	return nil
}

// DeletePlayer деактивирует игрока: история матчей и аукционов остается.
func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	var p *models.Player
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		p, err = s.playerRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if !p.Active {
			return nil
		}
		p.Active = false
		return mapRepositoryError(s.playerRepo.Update(ctx, exec, p))
	})
	if err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}

	pushNetWorth(ctx, s.board, s.logger, []*models.Player{p}, nil)
	s.logger.Info("player deactivated", slog.Int("player_id", id))
	return nil
}

func (s *playerService) UploadImage(ctx context.Context, id int, file io.Reader, contentType string) (*models.Player, error) {
	if _, err := s.playerRepo.GetByID(ctx, nil, id); err != nil {
		return nil, mapRepositoryError(err)
	}
	key, err := uploadImage(ctx, s.uploader, "players", id, contentType, file)
	if err != nil {
		return nil, err
	}

	var (
		p      *models.Player
		oldKey *string
	)
	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		p, err = s.playerRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		oldKey = p.ImageKey
		p.ImageKey = &key
		return mapRepositoryError(s.playerRepo.Update(ctx, exec, p))
	})
	if err != nil {
		deleteImage(ctx, s.uploader, s.logger, &key)
		return nil, fmt.Errorf("failed to store player image: %w", err)
	}

	deleteImage(ctx, s.uploader, s.logger, oldKey)
	populatePlayerImage(p, s.uploader)
	return p, nil
}
