package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/wrestling-league/brackets"
	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/outcome"
	"github.com/Dosada05/wrestling-league/repositories"
)

// Payouts - денежные изменения одного разрешенного матча.
type Payouts struct {
	WinnerPayout       float64 `json:"winner_payout"`
	WinnerBandGain     float64 `json:"winner_band_gain"`
	LoserFee           float64 `json:"loser_fee"`
	LoserBandFee       float64 `json:"loser_band_fee"`
	HikeChampionshipID *int    `json:"hike_championship_id,omitempty"`
	Hike               float64 `json:"hike"`
}

// ComputePayouts splits prize and entry between players and bands.
// The winner takes 2/3 of the prize plus the title hike on that share, the winner's band 1/3.
// The loser pays 2/3 of the entry, the loser's band 1/3.
func ComputePayouts(prize, entry float64, title *models.Championship) Payouts {
	// x*2/3, а не x*(2.0/3.0): для 300 и 90 результат ровно 200 и 60
	p := Payouts{
		WinnerPayout:   prize * 2 / 3,
		WinnerBandGain: prize / 3,
		LoserFee:       entry * 2 / 3,
		LoserBandFee:   entry / 3,
	}
	if title != nil {
		p.WinnerPayout += p.WinnerPayout * title.Hike
		p.HikeChampionshipID = intPtr(title.ID)
		p.Hike = title.Hike
	}
	return p
}

// ResolvedMatch is the outcome of resolve_match. AlreadyResolved marks the idempotent no-op.
type ResolvedMatch struct {
	Match           *models.SingleMatch `json:"match"`
	AlreadyResolved bool                `json:"already_resolved"`
	Winner          *models.Player      `json:"winner,omitempty"`
	Loser           *models.Player      `json:"loser,omitempty"`
	ProbabilityA    float64             `json:"probability_p1,omitempty"`
	Payouts         *Payouts            `json:"payouts,omitempty"`
	TitleChange     *ReignChange        `json:"title_change,omitempty"`

	bands []*models.Band
}

// ledger applies match outcomes to the roster. Its methods run inside the caller's transaction.
type ledger struct {
	matchRepo        repositories.MatchRepository
	playerRepo       repositories.PlayerRepository
	bandRepo         repositories.BandRepository
	championshipRepo repositories.ChampionshipRepository
	tracker          *ChampionshipTracker
	rnd              outcome.Rand
	logger           *slog.Logger
}

// resolve locks the match, both players and their bands (in that order, ascending ids),
// decides the winner and writes every economic change through exec.
func (l *ledger) resolve(ctx context.Context, exec repositories.SQLExecutor, matchID int, at time.Time) (*ResolvedMatch, error) {
	m, err := l.matchRepo.GetForUpdate(ctx, exec, matchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if m.Resolved() {
		return &ResolvedMatch{Match: m, AlreadyResolved: true}, nil
	}
	if m.P1ID == nil || m.P2ID == nil {
		return nil, fmt.Errorf("%w: match %d", ErrIncompleteMatchup, m.ID)
	}
	if *m.P1ID == *m.P2ID {
		return nil, fmt.Errorf("%w: match %d pairs player %d with itself", ErrValidationFailed, m.ID, *m.P1ID)
	}

	players := make(map[int]*models.Player, 2)
	for _, id := range sortedUnique(*m.P1ID, *m.P2ID) {
		p, err := l.playerRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return nil, fmt.Errorf("match %d: %w", m.ID, mapRepositoryError(err))
		}
		players[id] = p
	}
	p1, p2 := players[*m.P1ID], players[*m.P2ID]

	bands := make(map[int]*models.Band, 2)
	bandIDs := sortedUnique(p1.BandID, p2.BandID)
	for _, id := range bandIDs {
		b, err := l.bandRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return nil, fmt.Errorf("match %d: %w", m.ID, mapRepositoryError(err))
		}
		bands[id] = b
	}

	result, err := outcome.Resolve(
		outcome.NewCompetitor(p1.ID, p1.WinningPercentage),
		outcome.NewCompetitor(p2.ID, p2.WinningPercentage),
		l.rnd,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	winner, loser := players[result.WinnerID], players[result.LoserID]

	// хайк считается по титулам, которыми победитель владел до этого матча
	held, err := l.championshipRepo.ListByHolder(ctx, exec, winner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load titles of player %d: %w", winner.ID, err)
	}
	payouts := ComputePayouts(m.PrizeAmount, m.EntryAmount, models.BestHike(held))

	winner.RecordWin(payouts.WinnerPayout)
	loser.RecordLoss(payouts.LoserFee)
	bands[winner.BandID].NetWorth += payouts.WinnerBandGain
	bands[loser.BandID].NetWorth -= payouts.LoserBandFee

	for _, id := range sortedUnique(winner.ID, loser.ID) {
		if err := l.playerRepo.Update(ctx, exec, players[id]); err != nil {
			return nil, fmt.Errorf("failed to update player %d: %w", id, mapRepositoryError(err))
		}
	}
	bandList := make([]*models.Band, 0, len(bandIDs))
	for _, id := range bandIDs {
		if err := l.bandRepo.Update(ctx, exec, bands[id]); err != nil {
			return nil, fmt.Errorf("failed to update band %d: %w", id, mapRepositoryError(err))
		}
		bandList = append(bandList, bands[id])
	}

	if err := l.matchRepo.SetWinner(ctx, exec, m.ID, winner.ID, at); err != nil {
		return nil, fmt.Errorf("failed to store winner of match %d: %w", m.ID, err)
	}
	m.WinnerID = intPtr(winner.ID)
	m.UpdatedAt = at

	resolved := &ResolvedMatch{
		Match:        m,
		Winner:       winner,
		Loser:        loser,
		ProbabilityA: result.ProbabilityA,
		Payouts:      &payouts,
		bands:        bandList,
	}

	if m.ChampionshipID != nil {
		title, err := l.championshipRepo.GetForUpdate(ctx, exec, *m.ChampionshipID)
		if err != nil {
			return nil, fmt.Errorf("title match %d: %w", m.ID, mapRepositoryError(err))
		}
		if !sameHolder(title.PlayerID, m.WinnerID) {
			resolved.TitleChange, err = l.tracker.transfer(ctx, exec, l.championshipRepo, title, intPtr(winner.ID), at)
			if err != nil {
				return nil, fmt.Errorf("failed to transfer championship %d: %w", title.ID, err)
			}
		}
	}

	l.logger.Info("match resolved",
		slog.Int("match_id", m.ID),
		slog.Int("winner_id", winner.ID),
		slog.Int("loser_id", loser.ID),
		slog.Float64("probability_p1", result.ProbabilityA),
		slog.Float64("winner_payout", payouts.WinnerPayout),
	)
	return resolved, nil
}

// publishResolved sends committed results to live clients and the leaderboard cache.
func publishResolved(ctx context.Context, hub Broadcaster, board NetWorthBoard, logger *slog.Logger, results ...*ResolvedMatch) {
	var (
		players []*models.Player
		bands   []*models.Band
	)
	for _, r := range results {
		if r == nil || r.AlreadyResolved {
			continue
		}
		publishMatchEvent(hub, r.Match, brackets.EventMatchResolved, r)
		if r.TitleChange != nil {
			hub.Publish(brackets.LeagueRoom, brackets.EventReignChanged, r.TitleChange)
		}
		players = append(players, r.Winner, r.Loser)
		bands = append(bands, r.bands...)
	}
	pushNetWorth(ctx, board, logger, players, bands)
}

// publishMatchEvent пишет в комнату матча (и лиги) и, если матч турнирный, в комнату турнира.
func publishMatchEvent(hub Broadcaster, m *models.SingleMatch, eventType string, payload interface{}) {
	hub.Publish(brackets.MatchRoom(m.ID), eventType, payload)
	if m.TournamentID != nil {
		room := brackets.TournamentRoom(*m.TournamentID)
		hub.BroadcastToRoom(room, brackets.WebSocketMessage{Type: eventType, Payload: payload, RoomID: room})
	}
}
