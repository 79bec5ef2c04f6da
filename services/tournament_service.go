package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Dosada05/wrestling-league/brackets"
	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/outcome"
	"github.com/Dosada05/wrestling-league/repositories"
	"golang.org/x/sync/errgroup"
)

type TournamentInput struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	IsMainEvent bool      `json:"is_main_event"`
}

type TournamentUpdate struct {
	Name        *string    `json:"name,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	IsMainEvent *bool      `json:"is_main_event,omitempty"`
}

// TournamentWinnerPayload - событие о чемпионе турнира.
type TournamentWinnerPayload struct {
	TournamentID int    `json:"tournament_id"`
	WinnerID     int    `json:"winner_id"`
	Rounds       int    `json:"rounds"`
	SuddenDeath  bool   `json:"sudden_death"`
	Message      string `json:"message"`
}

// TournamentResult is returned by RunTournamentToCompletion.
type TournamentResult struct {
	Tournament      *models.Tournament          `json:"tournament"`
	ChampionID      int                         `json:"champion_id"`
	TiebreakRounds  int                         `json:"tiebreak_rounds"`
	SuddenDeath     bool                        `json:"sudden_death"`
	MatchesResolved int                         `json:"matches_resolved"`
	Standings       []models.TournamentStanding `json:"standings"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input TournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error)
	UpdateTournament(ctx context.Context, id int, input TournamentUpdate) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id int) error

	// tournamentID <= 0 creates matches outside any tournament.
	CreateLeague(ctx context.Context, tournamentID int, format models.LeagueFormat) ([]*models.SingleMatch, error)
	CreateMatchSetup(ctx context.Context, tournamentID int, playerIDs []int, prize, entry float64, namePrefix string) ([]*models.SingleMatch, error)
	RunTournamentToCompletion(ctx context.Context, tournamentID int, prize, entry float64) (*TournamentResult, error)
	GetStandings(ctx context.Context, tournamentID int) ([]models.TournamentStanding, error)
}

type tournamentService struct {
	tx             repositories.TxRunner
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	playerRepo     repositories.PlayerRepository
	bandRepo       repositories.BandRepository
	ledger         *ledger
	roundRobin     brackets.BracketGenerator
	hub            Broadcaster
	board          NetWorthBoard
	logger         *slog.Logger
	maxRounds      int
	now            func() time.Time
}

func NewTournamentService(
	tx repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	bandRepo repositories.BandRepository,
	championshipRepo repositories.ChampionshipRepository,
	tracker *ChampionshipTracker,
	rnd outcome.Rand,
	hub Broadcaster,
	board NetWorthBoard,
	logger *slog.Logger,
	maxTiebreakRounds int,
) TournamentService {
	if maxTiebreakRounds < 1 {
		maxTiebreakRounds = 1
	}
	return &tournamentService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		playerRepo:     playerRepo,
		bandRepo:       bandRepo,
		ledger: &ledger{
			matchRepo:        matchRepo,
			playerRepo:       playerRepo,
			bandRepo:         bandRepo,
			championshipRepo: championshipRepo,
			tracker:          tracker,
			rnd:              rnd,
			logger:           logger,
		},
		roundRobin: brackets.NewRoundRobinGenerator(),
		hub:        broadcasterOrNoop(hub),
		board:      board,
		logger:     logger,
		maxRounds:  maxTiebreakRounds,
		now:        time.Now,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input TournamentInput) (*models.Tournament, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: tournament date is required", ErrValidationFailed)
	}
	t := &models.Tournament{Name: input.Name, Date: input.Date, IsMainEvent: input.IsMainEvent}
	if err := s.tournamentRepo.Create(ctx, nil, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", mapRepositoryError(err))
	}
	return t, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	var (
		t       *models.Tournament
		matches []*models.SingleMatch
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t, err = s.tournamentRepo.GetByID(gCtx, nil, id)
		return mapRepositoryError(err)
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, nil, id, nil)
		if err != nil {
			return fmt.Errorf("failed to load matches of tournament %d: %w", id, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t.Matches = make([]models.SingleMatch, 0, len(matches))
	for _, m := range matches {
		t.Matches = append(t.Matches, *m)
	}
	return t, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id int, input TournamentUpdate) (*models.Tournament, error) {
	var t *models.Tournament
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		t, err = s.tournamentRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if input.Name != nil {
			t.Name = strings.TrimSpace(*input.Name)
			if t.Name == "" {
				return fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
			}
		}
		if input.Date != nil {
			if input.Date.IsZero() {
				return fmt.Errorf("%w: tournament date is required", ErrValidationFailed)
			}
			t.Date = *input.Date
		}
		if input.IsMainEvent != nil {
			t.IsMainEvent = *input.IsMainEvent
		}
		return mapRepositoryError(s.tournamentRepo.Update(ctx, exec, t))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update tournament %d: %w", id, err)
	}
	return t, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, nil, id); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

// lockOpenTournament returns nil for id <= 0 (matches without a tournament).
func (s *tournamentService) lockOpenTournament(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	if id <= 0 {
		return nil, nil
	}
	t, err := s.tournamentRepo.GetForUpdate(ctx, exec, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if t.Completed {
		return nil, fmt.Errorf("%w: %d", ErrTournamentCompleted, id)
	}
	return t, nil
}

func (s *tournamentService) matchDate(t *models.Tournament) time.Time {
	if t != nil && !t.Date.IsZero() {
		return t.Date
	}
	return models.DefaultLeagueDate(s.now())
}

// createPairings stores one match per unordered pair of playerIDs, numbered from startOrder+1.
func (s *tournamentService) createPairings(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, playerIDs []int, startOrder int, prize, entry float64, date time.Time, name func(order int) string) ([]*models.SingleMatch, error) {
	planned, err := s.roundRobin.GenerateBracket(ctx, brackets.GenerateBracketParams{PlayerIDs: playerIDs, StartOrder: startOrder})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotEnoughPlayers, err)
	}

	created := make([]*models.SingleMatch, 0, len(planned))
	for _, bm := range planned {
		m := &models.SingleMatch{
			Name:        name(bm.Order),
			Date:        date,
			P1ID:        intPtr(bm.Player1ID),
			P2ID:        intPtr(bm.Player2ID),
			PrizeAmount: prize,
			EntryAmount: entry,
		}
		if t != nil {
			m.TournamentID = intPtr(t.ID)
		}
		if err := s.matchRepo.Create(ctx, exec, m); err != nil {
			return nil, fmt.Errorf("failed to create match %q: %w", m.Name, mapRepositoryError(err))
		}
		created = append(created, m)
	}
	return created, nil
}

// CreateLeague pairs every two active players of the same band and gender.
func (s *tournamentService) CreateLeague(ctx context.Context, tournamentID int, format models.LeagueFormat) ([]*models.SingleMatch, error) {
	if err := validateAmounts(format.Prize, format.Entry); err != nil {
		return nil, err
	}
	genders := format.GendersOrDefault()
	for _, g := range genders {
		if !g.Valid() {
			return nil, fmt.Errorf("%w: unknown gender %q", ErrValidationFailed, g)
		}
	}

	var created []*models.SingleMatch
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		created = nil
		t, err := s.lockOpenTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		bands, err := s.leagueBands(ctx, exec, format.BandIDs)
		if err != nil {
			return err
		}

		date := s.matchDate(t)
		order := 0
		for _, band := range bands {
			for _, gender := range genders {
				g := gender
				players, err := s.playerRepo.List(ctx, exec, repositories.ListPlayersFilter{BandID: &band.ID, Gender: &g, ActiveOnly: true})
				if err != nil {
					return fmt.Errorf("failed to list players of band %d: %w", band.ID, err)
				}
				if len(players) < 2 {
					continue
				}
				ids := make([]int, 0, len(players))
				for _, p := range players {
					ids = append(ids, p.ID)
				}

				bandName := band.Name
				matches, err := s.createPairings(ctx, exec, t, ids, order, format.Prize, format.Entry, date, func(n int) string {
					return fmt.Sprintf("%s %s Stage Match: %d", format.Prefix(), bandName, n)
				})
				if err != nil {
					return err
				}
				order += len(matches)
				created = append(created, matches...)
			}
		}
		if len(created) == 0 {
			return ErrNotEnoughPlayers
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}

	s.publishCreated(tournamentID, created)
	s.logger.Info("league created", slog.Int("tournament_id", tournamentID), slog.Int("matches", len(created)))
	return created, nil
}

func (s *tournamentService) leagueBands(ctx context.Context, exec repositories.SQLExecutor, bandIDs []int) ([]*models.Band, error) {
	if len(bandIDs) == 0 {
		bands, err := s.bandRepo.List(ctx, exec)
		if err != nil {
			return nil, fmt.Errorf("failed to list bands: %w", err)
		}
		return bands, nil
	}

	bands := make([]*models.Band, 0, len(bandIDs))
	seen := make(map[int]struct{}, len(bandIDs))
	for _, id := range bandIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		b, err := s.bandRepo.GetByID(ctx, exec, id)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", id, mapRepositoryError(err))
		}
		bands = append(bands, b)
	}
	return bands, nil
}

func (s *tournamentService) CreateMatchSetup(ctx context.Context, tournamentID int, playerIDs []int, prize, entry float64, namePrefix string) ([]*models.SingleMatch, error) {
	if err := validateAmounts(prize, entry); err != nil {
		return nil, err
	}
	ids := sortedUnique(playerIDs...)
	if len(ids) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	prefix := strings.TrimSpace(namePrefix)
	if prefix == "" {
		prefix = models.DefaultLeagueNamePrefix
	}

	var created []*models.SingleMatch
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.lockOpenTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		players, err := s.playerRepo.ListByIDs(ctx, exec, ids)
		if err != nil {
			return fmt.Errorf("failed to load players: %w", err)
		}
		if len(players) != len(ids) {
			return fmt.Errorf("%w: %d of %d players exist", ErrPlayerNotFound, len(players), len(ids))
		}
		for _, p := range players {
			if !p.Active {
				return fmt.Errorf("%w: player %d", ErrPlayerInactive, p.ID)
			}
		}

		created, err = s.createPairings(ctx, exec, t, ids, 0, prize, entry, s.matchDate(t), func(n int) string {
			return fmt.Sprintf("%s Match: %d", prefix, n)
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create match setup: %w", err)
	}

	s.publishCreated(tournamentID, created)
	return created, nil
}

func (s *tournamentService) publishCreated(tournamentID int, created []*models.SingleMatch) {
	if tournamentID > 0 {
		s.hub.Publish(brackets.TournamentRoom(tournamentID), brackets.EventMatchesCreated, created)
		return
	}
	s.hub.Publish(brackets.LeagueRoom, brackets.EventMatchesCreated, created)
}

// RunTournamentToCompletion resolves the pending matches, then plays rounds among the tied leaders
// until one player has the most wins. After maxRounds tie-break rounds the remaining leaders
// play a knockout. Each step runs in its own transaction.
func (s *tournamentService) RunTournamentToCompletion(ctx context.Context, tournamentID int, prize, entry float64) (*TournamentResult, error) {
	if err := validateAmounts(prize, entry); err != nil {
		return nil, err
	}
	result := &TournamentResult{}

	var (
		resolved []*ResolvedMatch
		done     bool
	)
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		resolved, done = nil, false
		t, err := s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if t.Completed {
			if t.WinnerID == nil {
				return fmt.Errorf("%w: %d has no recorded winner", ErrTournamentCompleted, tournamentID)
			}
			result.Tournament, result.ChampionID, done = t, *t.WinnerID, true
			return nil
		}

		pending := models.MatchStatusPending
		matches, err := s.matchRepo.ListByTournament(ctx, exec, tournamentID, &pending)
		if err != nil {
			return fmt.Errorf("failed to list pending matches: %w", err)
		}
		for _, m := range matches {
			r, err := s.ledger.resolve(ctx, exec, m.ID, s.now())
			if errors.Is(err, ErrIncompleteMatchup) {
				s.logger.Warn("skipping incomplete match", slog.Int("tournament_id", tournamentID), slog.Int("match_id", m.ID))
				continue
			}
			if err != nil {
				return err
			}
			resolved = append(resolved, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pending matches of tournament %d: %w", tournamentID, err)
	}
	publishResolved(ctx, s.hub, s.board, s.logger, resolved...)
	result.MatchesResolved += len(resolved)

	if done {
		return s.finish(ctx, result, false)
	}

	var leaders []int
	for round := 1; ; round++ {
		resolved, leaders = nil, nil
		err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
			resolved, leaders, done = nil, nil, false
			t, err := s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID)
			if err != nil {
				return mapRepositoryError(err)
			}
			if t.Completed && t.WinnerID != nil {
				// турнир завершил параллельный запуск
				result.Tournament, result.ChampionID, done = t, *t.WinnerID, true
				return nil
			}

			matches, err := s.matchRepo.ListByTournament(ctx, exec, tournamentID, nil)
			if err != nil {
				return fmt.Errorf("failed to list matches: %w", err)
			}
			leaders = TiedLeaders(ComputeStandings(matches))
			switch {
			case len(leaders) == 0:
				return ErrNoResolvedMatches
			case len(leaders) == 1:
				done = true
				return s.complete(ctx, exec, t, leaders[0], result)
			case round > s.maxRounds:
				return nil
			}

			s.logger.Info("tie-break round",
				slog.Int("tournament_id", tournamentID), slog.Int("round", round), slog.Any("leaders", leaders))
			created, err := s.createPairings(ctx, exec, t, leaders, len(matches), prize, entry, s.now(), func(n int) string {
				return fmt.Sprintf("%s Tiebreak Round %d Match: %d", t.Name, round, n)
			})
			if err != nil {
				return err
			}
			for _, m := range created {
				r, err := s.ledger.resolve(ctx, exec, m.ID, s.now())
				if err != nil {
					return err
				}
				resolved = append(resolved, r)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("tournament %d round %d: %w", tournamentID, round, err)
		}
		publishResolved(ctx, s.hub, s.board, s.logger, resolved...)
		result.MatchesResolved += len(resolved)

		if done {
			result.TiebreakRounds = round - 1
			return s.finish(ctx, result, true)
		}
		if round > s.maxRounds {
			result.TiebreakRounds = s.maxRounds
			break
		}
	}

	return s.suddenDeath(ctx, tournamentID, leaders, prize, entry, result)
}

// suddenDeath plays knockout stages among leaders until exactly one player tops the standings.
// Neighbours by id meet; an odd player out sits the stage out. After every stage the field is
// recomputed as the tied leaders, so it is always the stage winners.
func (s *tournamentService) suddenDeath(ctx context.Context, tournamentID int, leaders []int, prize, entry float64, result *TournamentResult) (*TournamentResult, error) {
	s.logger.Warn("tie-break cap reached, starting sudden death",
		slog.Int("tournament_id", tournamentID), slog.Int("rounds", s.maxRounds), slog.Any("leaders", leaders))

	var resolved []*ResolvedMatch
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		resolved = nil
		t, err := s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if t.Completed && t.WinnerID != nil {
			result.Tournament, result.ChampionID = t, *t.WinnerID
			return nil
		}

		existing, err := s.matchRepo.ListByTournament(ctx, exec, tournamentID, nil)
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		order := len(existing)

		field := sortedUnique(leaders...)
		for stage := 1; len(field) > 1; stage++ {
			pairs, bye, err := brackets.KnockoutRound(field)
			if err != nil {
				return err
			}
			if bye != nil {
				s.logger.Info("sudden death bye",
					slog.Int("tournament_id", tournamentID), slog.Int("stage", stage), slog.Int("player_id", *bye))
			}
			for _, p := range pairs {
				order++
				m := &models.SingleMatch{
					Name:         fmt.Sprintf("%s Sudden Death %d Match: %d", t.Name, stage, order),
					Date:         s.now(),
					TournamentID: intPtr(t.ID),
					P1ID:         intPtr(p.Player1ID),
					P2ID:         intPtr(p.Player2ID),
					PrizeAmount:  prize,
					EntryAmount:  entry,
				}
				if err := s.matchRepo.Create(ctx, exec, m); err != nil {
					return fmt.Errorf("failed to create sudden death match: %w", mapRepositoryError(err))
				}
				r, err := s.ledger.resolve(ctx, exec, m.ID, s.now())
				if err != nil {
					return err
				}
				resolved = append(resolved, r)
				existing = append(existing, r.Match)
			}
			field = TiedLeaders(ComputeStandings(existing))
		}
		result.SuddenDeath = true
		return s.complete(ctx, exec, t, field[0], result)
	})
	if err != nil {
		return nil, fmt.Errorf("tournament %d sudden death: %w", tournamentID, err)
	}
	publishResolved(ctx, s.hub, s.board, s.logger, resolved...)
	result.MatchesResolved += len(resolved)
	return s.finish(ctx, result, result.SuddenDeath)
}

func (s *tournamentService) complete(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, championID int, result *TournamentResult) error {
	at := s.now()
	if err := s.tournamentRepo.MarkCompleted(ctx, exec, t.ID, championID, at); err != nil {
		return fmt.Errorf("failed to complete tournament %d: %w", t.ID, mapRepositoryError(err))
	}
	t.Completed = true
	t.WinnerID = intPtr(championID)
	t.UpdatedAt = at
	result.Tournament = t
	result.ChampionID = championID
	return nil
}

// finish loads the final standings and, when this call decided the champion, announces it.
func (s *tournamentService) finish(ctx context.Context, result *TournamentResult, announce bool) (*TournamentResult, error) {
	standings, err := s.GetStandings(ctx, result.Tournament.ID)
	if err != nil {
		return nil, err
	}
	result.Standings = standings

	if announce {
		s.hub.Publish(brackets.TournamentRoom(result.Tournament.ID), brackets.EventTournamentWinner, TournamentWinnerPayload{
			TournamentID: result.Tournament.ID,
			WinnerID:     result.ChampionID,
			Rounds:       result.TiebreakRounds,
			SuddenDeath:  result.SuddenDeath,
			Message:      fmt.Sprintf("Player %d wins %s", result.ChampionID, result.Tournament.Name),
		})
		s.logger.Info("tournament completed",
			slog.Int("tournament_id", result.Tournament.ID),
			slog.Int("champion_id", result.ChampionID),
			slog.Int("tiebreak_rounds", result.TiebreakRounds),
			slog.Bool("sudden_death", result.SuddenDeath),
		)
	}
	return result, nil
}

func (s *tournamentService) GetStandings(ctx context.Context, tournamentID int) ([]models.TournamentStanding, error) {
	var matches []*models.SingleMatch
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.tournamentRepo.GetByID(gCtx, nil, tournamentID)
		return mapRepositoryError(err)
	})
	g.Go(func() error {
		resolved := models.MatchStatusResolved
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, nil, tournamentID, &resolved)
		if err != nil {
			return fmt.Errorf("failed to load matches of tournament %d: %w", tournamentID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ComputeStandings(matches), nil
}

// ComputeStandings counts wins and matches per player over the resolved matches,
// ordered by wins (desc) then player id.
func ComputeStandings(matches []*models.SingleMatch) []models.TournamentStanding {
	byPlayer := make(map[int]*models.TournamentStanding)
	entry := func(id int) *models.TournamentStanding {
		st, ok := byPlayer[id]
		if !ok {
			st = &models.TournamentStanding{PlayerID: id}
			byPlayer[id] = st
		}
		return st
	}

	for _, m := range matches {
		if m == nil || !m.Resolved() {
			continue
		}
		for _, id := range []*int{m.P1ID, m.P2ID} {
			if id != nil {
				entry(*id).MatchesPlayed++
			}
		}
		entry(*m.WinnerID).Wins++
	}

	standings := make([]models.TournamentStanding, 0, len(byPlayer))
	for _, st := range byPlayer {
		standings = append(standings, *st)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].PlayerID < standings[j].PlayerID
	})
	return standings
}

// TiedLeaders returns the ids sharing the highest win count, ascending. Empty when nobody has won.
func TiedLeaders(standings []models.TournamentStanding) []int {
	best := 0
	for _, st := range standings {
		if st.Wins > best {
			best = st.Wins
		}
	}
	if best == 0 {
		return nil
	}
	leaders := make([]int, 0)
	for _, st := range standings {
		if st.Wins == best {
			leaders = append(leaders, st.PlayerID)
		}
	}
	sort.Ints(leaders)
	return leaders
}
