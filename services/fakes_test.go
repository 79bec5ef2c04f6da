package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/outcome"
	"github.com/Dosada05/wrestling-league/repositories"
	"github.com/Dosada05/wrestling-league/storage"
)

var errOutsideTx = errors.New("row lock requested outside a transaction")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// constRand always returns v. With 0 the first player wins while neither side has a better record.
type constRand float64

func (r constRand) Float64() float64 { return float64(r) }

// winScript decides matches in order: 1 makes p1 win, 2 makes p2 win, whatever the records.
// Once exhausted it repeats the last decision.
type winScript struct {
	mu    sync.Mutex
	draws []float64
	calls int
}

func script(winners ...int) *winScript {
	s := &winScript{}
	for _, w := range winners {
		if w == 1 {
			// luck draw favours p1, then any probability above 0 picks p1
			s.draws = append(s.draws, 0.9999, 0)
		} else {
			// luck draw favours p2 (probability of p1 <= 0.2), then 0.9999 picks p2
			s.draws = append(s.draws, 0, 0.9999)
		}
	}
	return s
}

func (s *winScript) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	if n := len(s.draws); idx >= n {
		idx = n - 2 + (idx-n)%2
	}
	s.calls++
	return s.draws[idx]
}

// txExec marks calls made inside fakeTx.RunInTx. It never talks to a database.
type txExec struct{}

func (txExec) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errors.New("txExec: no database")
}

func (txExec) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("txExec: no database")
}

func (txExec) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

type storeState struct {
	players       map[int]models.Player
	bands         map[int]models.Band
	championships map[int]models.Championship
	history       []models.ChampionshipHistory
	matches       map[int]models.SingleMatch
	notifications []models.Notification
	tournaments   map[int]models.Tournament
	auctions      []models.Auction
	nextID        int
}

// fakeStore implements every repository in memory. Rows are copied in and out,
// so a service sees its changes only after calling Update.
type fakeStore struct {
	mu sync.Mutex
	storeState

	// failOn makes the named operation (e.g. "auctions.Create") return the error.
	failOn map[string]error
	txRuns int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		storeState: storeState{
			players:       map[int]models.Player{},
			bands:         map[int]models.Band{},
			championships: map[int]models.Championship{},
			matches:       map[int]models.SingleMatch{},
			tournaments:   map[int]models.Tournament{},
		},
		failOn: map[string]error{},
	}
}

func (s *fakeStore) snapshot() storeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := storeState{
		players:       make(map[int]models.Player, len(s.players)),
		bands:         make(map[int]models.Band, len(s.bands)),
		championships: make(map[int]models.Championship, len(s.championships)),
		history:       append([]models.ChampionshipHistory(nil), s.history...),
		matches:       make(map[int]models.SingleMatch, len(s.matches)),
		notifications: append([]models.Notification(nil), s.notifications...),
		tournaments:   make(map[int]models.Tournament, len(s.tournaments)),
		auctions:      append([]models.Auction(nil), s.auctions...),
		nextID:        s.nextID,
	}
	for k, v := range s.players {
		cp.players[k] = v
	}
	for k, v := range s.bands {
		cp.bands[k] = v
	}
	for k, v := range s.championships {
		cp.championships[k] = v
	}
	for k, v := range s.matches {
		cp.matches[k] = v
	}
	for k, v := range s.tournaments {
		cp.tournaments[k] = v
	}
	return cp
}

func (s *fakeStore) restore(st storeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeState = st
}

func (s *fakeStore) fail(op string) error {
	return s.failOn[op]
}

func (s *fakeStore) id() int {
	s.nextID++
	return s.nextID
}

// fakeTx serializes transactions and restores the store when the callback fails.
type fakeTx struct {
	mu    sync.Mutex
	store *fakeStore
}

func (t *fakeTx) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.store.snapshot()
	t.store.mu.Lock()
	t.store.txRuns++
	t.store.mu.Unlock()
	if err := fn(txExec{}); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// seed helpers

func (s *fakeStore) addBand(name string, netWorth float64) *models.Band {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := models.Band{ID: s.id(), Name: name, NetWorth: netWorth}
	s.bands[b.ID] = b
	return &b
}

func (s *fakeStore) addPlayer(name string, gender models.Gender, bandID int, netWorth float64) *models.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Player{ID: s.id(), Name: name, Gender: gender, BandID: bandID, NetWorth: netWorth, Active: true}
	s.players[p.ID] = p
	return &p
}

func (s *fakeStore) addChampionship(name string, hike float64, holder *int) *models.Championship {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Championship{ID: s.id(), Name: name, Hike: hike, PlayerID: holder}
	s.championships[c.ID] = c
	return &c
}

func (s *fakeStore) addTournament(name string, date time.Time, mainEvent bool) *models.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := models.Tournament{ID: s.id(), Name: name, Date: date, IsMainEvent: mainEvent}
	s.tournaments[t.ID] = t
	return &t
}

func (s *fakeStore) addMatch(m models.SingleMatch) *models.SingleMatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	m.IsChampionship = m.ChampionshipID != nil
	s.matches[m.ID] = m
	return &m
}

func (s *fakeStore) player(id int) models.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players[id]
}

func (s *fakeStore) band(id int) models.Band {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bands[id]
}

func (s *fakeStore) match(id int) models.SingleMatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches[id]
}

func (s *fakeStore) championship(id int) models.Championship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.championships[id]
}

func (s *fakeStore) tournament(id int) models.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tournaments[id]
}

func (s *fakeStore) reigns(championshipID int) []models.ChampionshipHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ChampionshipHistory
	for _, h := range s.history {
		if h.ChampionshipID == championshipID {
			out = append(out, h)
		}
	}
	return out
}

func (s *fakeStore) tournamentMatches(tournamentID int) []models.SingleMatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SingleMatch
	for _, m := range s.matches {
		if m.TournamentID != nil && *m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeStore) auctionLog() []models.Auction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Auction(nil), s.auctions...)
}

// ---- players ----

type fakePlayerRepo struct{ s *fakeStore }

func (r fakePlayerRepo) checkSpouse(p models.Player) error {
	if p.SpouseID == nil {
		return nil
	}
	if *p.SpouseID == p.ID {
		return repositories.ErrPlayerSpouseInvalid
	}
	if _, ok := r.s.players[*p.SpouseID]; !ok {
		return repositories.ErrPlayerSpouseInvalid
	}
	for _, other := range r.s.players {
		if other.ID != p.ID && other.SpouseID != nil && *other.SpouseID == *p.SpouseID {
			return repositories.ErrPlayerSpouseConflict
		}
	}
	return nil
}

func (r fakePlayerRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("players.Create"); err != nil {
		return err
	}
	if _, ok := r.s.bands[p.BandID]; !ok {
		return repositories.ErrPlayerBandInvalid
	}
	p.Recompute()
	p.ID = r.s.id()
	if err := r.checkSpouse(*p); err != nil {
		return err
	}
	r.s.players[p.ID] = *p
	return nil
}

func (r fakePlayerRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (r fakePlayerRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Player, error) {
	if exec == nil {
		return nil, errOutsideTx
	}
	return r.GetByID(ctx, exec, id)
}

func (r fakePlayerRepo) List(ctx context.Context, exec repositories.SQLExecutor, filter repositories.ListPlayersFilter) ([]*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Player, 0)
	for _, p := range r.s.players {
		if filter.BandID != nil && p.BandID != *filter.BandID {
			continue
		}
		if filter.Gender != nil && p.Gender != *filter.Gender {
			continue
		}
		if filter.ActiveOnly && !p.Active {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakePlayerRepo) ListByIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int) ([]*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Player, 0, len(ids))
	for _, id := range sortedUnique(ids...) {
		if p, ok := r.s.players[id]; ok {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakePlayerRepo) Update(ctx context.Context, exec repositories.SQLExecutor, p *models.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("players.Update"); err != nil {
		return err
	}
	if _, ok := r.s.players[p.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	if _, ok := r.s.bands[p.BandID]; !ok {
		return repositories.ErrPlayerBandInvalid
	}
	if err := r.checkSpouse(*p); err != nil {
		return err
	}
	p.Recompute()
	r.s.players[p.ID] = *p
	return nil
}

func (r fakePlayerRepo) UpdateSpouse(ctx context.Context, exec repositories.SQLExecutor, playerID int, spouseID *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.SpouseID = spouseID
	if err := r.checkSpouse(p); err != nil {
		return err
	}
	r.s.players[playerID] = p
	return nil
}

func (r fakePlayerRepo) ListTopByNetWorth(ctx context.Context, exec repositories.SQLExecutor, limit int) ([]*models.Player, error) {
	all, _ := r.List(ctx, exec, repositories.ListPlayersFilter{ActiveOnly: true})
	sort.SliceStable(all, func(i, j int) bool { return all[i].NetWorth > all[j].NetWorth })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ---- bands ----

type fakeBandRepo struct{ s *fakeStore }

func (r fakeBandRepo) Create(ctx context.Context, exec repositories.SQLExecutor, b *models.Band) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.bands {
		if other.Name == b.Name {
			return repositories.ErrBandNameConflict
		}
	}
	b.ID = r.s.id()
	r.s.bands[b.ID] = *b
	return nil
}

func (r fakeBandRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Band, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bands[id]
	if !ok {
		return nil, repositories.ErrBandNotFound
	}
	return &b, nil
}

func (r fakeBandRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Band, error) {
	if exec == nil {
		return nil, errOutsideTx
	}
	return r.GetByID(ctx, exec, id)
}

func (r fakeBandRepo) sorted(less func(a, b models.Band) bool, keep func(models.Band) bool) []*models.Band {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Band, 0, len(r.s.bands))
	for _, b := range r.s.bands {
		if keep != nil && !keep(b) {
			continue
		}
		cp := b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return less(*out[i], *out[j]) })
	return out
}

func (r fakeBandRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Band, error) {
	return r.sorted(func(a, b models.Band) bool {
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	}, nil), nil
}

func (r fakeBandRepo) ListForUpdateExcept(ctx context.Context, exec repositories.SQLExecutor, excludeID int) ([]*models.Band, error) {
	if exec == nil {
		return nil, errOutsideTx
	}
	return r.sorted(func(a, b models.Band) bool { return a.ID < b.ID }, func(b models.Band) bool { return b.ID != excludeID }), nil
}

func (r fakeBandRepo) Update(ctx context.Context, exec repositories.SQLExecutor, b *models.Band) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("bands.Update"); err != nil {
		return err
	}
	if _, ok := r.s.bands[b.ID]; !ok {
		return repositories.ErrBandNotFound
	}
	r.s.bands[b.ID] = *b
	return nil
}

func (r fakeBandRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bands[id]; !ok {
		return repositories.ErrBandNotFound
	}
	for _, p := range r.s.players {
		if p.BandID == id {
			return repositories.ErrBandInUse
		}
	}
	delete(r.s.bands, id)
	return nil
}

func (r fakeBandRepo) ListTopByNetWorth(ctx context.Context, exec repositories.SQLExecutor, limit int) ([]*models.Band, error) {
	out := r.sorted(func(a, b models.Band) bool {
		if a.NetWorth != b.NetWorth {
			return a.NetWorth > b.NetWorth
		}
		return a.ID < b.ID
	}, nil)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- championships ----

type fakeChampionshipRepo struct{ s *fakeStore }

func (r fakeChampionshipRepo) Create(ctx context.Context, exec repositories.SQLExecutor, c *models.Championship) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.championships {
		if other.Name == c.Name {
			return repositories.ErrChampionshipNameConflict
		}
	}
	if c.PlayerID != nil {
		if _, ok := r.s.players[*c.PlayerID]; !ok {
			return repositories.ErrChampionshipPlayerInvalid
		}
	}
	c.ID = r.s.id()
	r.s.championships[c.ID] = *c
	return nil
}

func (r fakeChampionshipRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Championship, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.championships[id]
	if !ok {
		return nil, repositories.ErrChampionshipNotFound
	}
	return &c, nil
}

func (r fakeChampionshipRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Championship, error) {
	if exec == nil {
		return nil, errOutsideTx
	}
	return r.GetByID(ctx, exec, id)
}

func (r fakeChampionshipRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Championship, error) {
	return r.filter(func(models.Championship) bool { return true }), nil
}

func (r fakeChampionshipRepo) ListByHolder(ctx context.Context, exec repositories.SQLExecutor, playerID int) ([]*models.Championship, error) {
	return r.filter(func(c models.Championship) bool { return c.PlayerID != nil && *c.PlayerID == playerID }), nil
}

func (r fakeChampionshipRepo) filter(keep func(models.Championship) bool) []*models.Championship {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Championship, 0)
	for _, c := range r.s.championships {
		if keep(c) {
			cp := c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r fakeChampionshipRepo) Update(ctx context.Context, exec repositories.SQLExecutor, c *models.Championship) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.championships[c.ID]; !ok {
		return repositories.ErrChampionshipNotFound
	}
	if c.PlayerID != nil {
		if _, ok := r.s.players[*c.PlayerID]; !ok {
			return repositories.ErrChampionshipPlayerInvalid
		}
	}
	r.s.championships[c.ID] = *c
	return nil
}

type fakeHistoryRepo struct{ s *fakeStore }

func (r fakeHistoryRepo) OpenReign(ctx context.Context, exec repositories.SQLExecutor, h *models.ChampionshipHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.history {
		if other.ChampionshipID == h.ChampionshipID && other.Open() {
			// partial unique index: one open reign per championship
			return repositories.ErrTransactionConflict
		}
	}
	h.ID = r.s.id()
	r.s.history = append(r.s.history, *h)
	return nil
}

func (r fakeHistoryRepo) CloseReign(ctx context.Context, exec repositories.SQLExecutor, championshipID, playerID int, endedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, h := range r.s.history {
		if h.ChampionshipID == championshipID && h.PlayerID == playerID && h.Open() {
			ended := endedAt
			r.s.history[i].EndedAt = &ended
			return nil
		}
	}
	return repositories.ErrOpenReignNotFound
}

func (r fakeHistoryRepo) GetOpenReign(ctx context.Context, exec repositories.SQLExecutor, championshipID int) (*models.ChampionshipHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, h := range r.s.history {
		if h.ChampionshipID == championshipID && h.Open() {
			cp := h
			return &cp, nil
		}
	}
	return nil, repositories.ErrOpenReignNotFound
}

func (r fakeHistoryRepo) ListByChampionship(ctx context.Context, exec repositories.SQLExecutor, championshipID int) ([]*models.ChampionshipHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.ChampionshipHistory, 0)
	for _, h := range r.s.history {
		if h.ChampionshipID == championshipID {
			cp := h
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- matches ----

type fakeMatchRepo struct{ s *fakeStore }

func (r fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.SingleMatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("matches.Create"); err != nil {
		return err
	}
	for _, id := range []*int{m.P1ID, m.P2ID} {
		if id != nil {
			if _, ok := r.s.players[*id]; !ok {
				return repositories.ErrMatchPlayerInvalid
			}
		}
	}
	if m.TournamentID != nil {
		if _, ok := r.s.tournaments[*m.TournamentID]; !ok {
			return repositories.ErrMatchTournamentInvalid
		}
	}
	if m.ChampionshipID != nil {
		if _, ok := r.s.championships[*m.ChampionshipID]; !ok {
			return repositories.ErrMatchChampionshipInvalid
		}
	}
	m.ID = r.s.id()
	m.IsChampionship = m.ChampionshipID != nil
	r.s.matches[m.ID] = *m
	return nil
}

func (r fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.SingleMatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return &m, nil
}

func (r fakeMatchRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.SingleMatch, error) {
	if exec == nil {
		return nil, errOutsideTx
	}
	return r.GetByID(ctx, exec, id)
}

func (r fakeMatchRepo) List(ctx context.Context, exec repositories.SQLExecutor, filter repositories.ListMatchesFilter) ([]*models.SingleMatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.SingleMatch, 0)
	for _, m := range r.s.matches {
		if filter.TournamentID != nil && (m.TournamentID == nil || *m.TournamentID != *filter.TournamentID) {
			continue
		}
		if filter.PlayerID != nil && !(m.P1ID != nil && *m.P1ID == *filter.PlayerID) && !(m.P2ID != nil && *m.P2ID == *filter.PlayerID) {
			continue
		}
		if filter.Status != nil && m.Status() != *filter.Status {
			continue
		}
		cp := m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, status *models.MatchStatus) ([]*models.SingleMatch, error) {
	return r.List(ctx, exec, repositories.ListMatchesFilter{TournamentID: &tournamentID, Status: status})
}

func (r fakeMatchRepo) SetWinner(ctx context.Context, exec repositories.SQLExecutor, id int, winnerID int, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if m.WinnerID != nil {
		return repositories.ErrMatchAlreadyResolved
	}
	w := winnerID
	m.WinnerID = &w
	m.UpdatedAt = at
	r.s.matches[id] = m
	return nil
}

func (r fakeMatchRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.s.matches, id)
	return nil
}

type fakeNotificationRepo struct{ s *fakeStore }

func (r fakeNotificationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.matches[n.MatchID]; !ok {
		return repositories.ErrNotificationMatchInvalid
	}
	n.ID = r.s.id()
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r fakeNotificationRepo) ListByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) ([]*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Notification, 0)
	for _, n := range r.s.notifications {
		if n.MatchID == matchID {
			cp := n
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- tournaments ----

type fakeTournamentRepo struct{ s *fakeStore }

func (r fakeTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.tournaments {
		if other.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	t.ID = r.s.id()
	r.s.tournaments[t.ID] = *t
	return nil
}

func (r fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	t.Matches = nil
	return &t, nil
}

func (r fakeTournamentRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	if exec == nil {
		return nil, errOutsideTx
	}
	return r.GetByID(ctx, exec, id)
}

func (r fakeTournamentRepo) List(ctx context.Context, exec repositories.SQLExecutor, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Tournament, 0)
	for _, t := range r.s.tournaments {
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		if filter.IsMainEvent != nil && t.IsMainEvent != *filter.IsMainEvent {
			continue
		}
		cp := t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r fakeTournamentRepo) Update(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	r.s.tournaments[t.ID] = *t
	return nil
}

func (r fakeTournamentRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	for _, m := range r.s.matches {
		if m.TournamentID != nil && *m.TournamentID == id {
			return repositories.ErrTournamentInUse
		}
	}
	delete(r.s.tournaments, id)
	return nil
}

func (r fakeTournamentRepo) MarkCompleted(ctx context.Context, exec repositories.SQLExecutor, id int, winnerID int, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	if _, ok := r.s.players[winnerID]; !ok {
		return repositories.ErrTournamentWinnerInvalid
	}
	w := winnerID
	t.Completed = true
	t.WinnerID = &w
	t.UpdatedAt = at
	r.s.tournaments[id] = t
	return nil
}

func (r fakeTournamentRepo) ListMainEventsBetween(ctx context.Context, exec repositories.SQLExecutor, from, to time.Time) ([]*models.Tournament, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Tournament, 0)
	for _, t := range r.s.tournaments {
		if !t.IsMainEvent || t.Completed || t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		cp := t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- auctions ----

type fakeAuctionRepo struct{ s *fakeStore }

func (r fakeAuctionRepo) Create(ctx context.Context, exec repositories.SQLExecutor, a *models.Auction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("auctions.Create"); err != nil {
		return err
	}
	a.ID = r.s.id()
	r.s.auctions = append(r.s.auctions, *a)
	return nil
}

func (r fakeAuctionRepo) List(ctx context.Context, exec repositories.SQLExecutor, playerID *int, limit, offset int) ([]*models.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Auction, 0)
	for i := len(r.s.auctions) - 1; i >= 0; i-- {
		a := r.s.auctions[i]
		if playerID != nil && a.PlayerID != *playerID {
			continue
		}
		out = append(out, &a)
	}
	return out, nil
}

// ---- live events, cache, storage ----

type publishedEvent struct {
	Room    string
	Type    string
	Payload interface{}
}

type recordingHub struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (h *recordingHub) Publish(roomID, eventType string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, publishedEvent{Room: roomID, Type: eventType, Payload: payload})
}

func (h *recordingHub) BroadcastToRoom(roomID string, message interface{}) {
	h.Publish(roomID, "", message)
}

func (h *recordingHub) count(room, eventType string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e.Room == room && e.Type == eventType {
			n++
		}
	}
	return n
}

type fakeBoard struct {
	mu      sync.Mutex
	players map[int]float64
	bands   map[int]float64
	err     error
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{players: map[int]float64{}, bands: map[int]float64{}}
}

func (b *fakeBoard) SetPlayers(ctx context.Context, players []*models.Player) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	for _, p := range players {
		if p.Active {
			b.players[p.ID] = p.NetWorth
		} else {
			delete(b.players, p.ID)
		}
	}
	return nil
}

func (b *fakeBoard) SetBands(ctx context.Context, bands []*models.Band) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	for _, band := range bands {
		b.bands[band.ID] = band.NetWorth
	}
	return nil
}

func (b *fakeBoard) RemoveBand(ctx context.Context, bandID int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.bands, bandID)
	return b.err
}

func (b *fakeBoard) top(m map[int]float64, n int) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(m))
	for id, nw := range m {
		entries = append(entries, models.LeaderboardEntry{ID: id, NetWorth: nw})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].NetWorth != entries[j].NetWorth {
			return entries[i].NetWorth > entries[j].NetWorth
		}
		return entries[i].ID < entries[j].ID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func (b *fakeBoard) TopPlayers(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	return b.top(b.players, n), nil
}

func (b *fakeBoard) TopBands(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	return b.top(b.bands, n), nil
}

type memoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: map[string][]byte{}}
}

func (u *memoryUploader) Upload(ctx context.Context, key, contentType string, file io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *memoryUploader) GetPublicURL(key string) string {
	return "https://cdn.example.test/" + key
}

// league bundles every service over one fake store.
type league struct {
	store *fakeStore
	hub   *recordingHub
	board *fakeBoard
	files *memoryUploader
	now   time.Time

	tracker       *ChampionshipTracker
	matches       *matchService
	tournaments   *tournamentService
	championships *championshipService
	auctions      *auctionService
	players       *playerService
	bands         *bandService
}

func newLeague(rnd outcome.Rand) *league {
	store := newFakeStore()
	tx := &fakeTx{store: store}
	hub := &recordingHub{}
	board := newFakeBoard()
	files := newMemoryUploader()
	logger := discardLogger()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	players := fakePlayerRepo{store}
	bands := fakeBandRepo{store}
	champs := fakeChampionshipRepo{store}
	history := fakeHistoryRepo{store}
	matches := fakeMatchRepo{store}
	notes := fakeNotificationRepo{store}
	tournaments := fakeTournamentRepo{store}

	tracker := NewChampionshipTracker(history, logger)

	l := &league{store: store, hub: hub, board: board, files: files, now: now, tracker: tracker}
	l.matches = NewMatchService(tx, matches, players, bands, champs, tournaments, notes, tracker, rnd, files, hub, board, logger, 7).(*matchService)
	l.matches.now = clock
	l.tournaments = NewTournamentService(tx, tournaments, matches, players, bands, champs, tracker, rnd, hub, board, logger, 3).(*tournamentService)
	l.tournaments.now = clock
	l.championships = NewChampionshipService(tx, champs, history, tracker, files, hub, logger).(*championshipService)
	l.championships.now = clock
	l.players = NewPlayerService(tx, players, bands, files, board, logger).(*playerService)
	l.bands = NewBandService(tx, bands, players, files, board, logger).(*bandService)
	return l
}

func (l *league) withAuctions(openMarketBandID int, rnd outcome.Rand) *auctionService {
	tx := &fakeTx{store: l.store}
	l.auctions = NewAuctionService(tx, fakePlayerRepo{l.store}, fakeBandRepo{l.store}, fakeAuctionRepo{l.store}, rnd, l.hub, l.board, discardLogger(), openMarketBandID).(*auctionService)
	l.auctions.now = func() time.Time { return l.now }
	return l.auctions
}
