package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/wrestling-league/brackets"
	"github.com/Dosada05/wrestling-league/models"
)

func TestComputePayouts(t *testing.T) {
	tests := []struct {
		name         string
		prize, entry float64
		title        *models.Championship
		want         Payouts
	}{
		{
			name: "no title", prize: 300, entry: 90,
			want: Payouts{WinnerPayout: 200, WinnerBandGain: 100, LoserFee: 60, LoserBandFee: 30},
		},
		{
			name: "title hike applies to the winner share only", prize: 300, entry: 90,
			title: &models.Championship{ID: 4, Hike: 0.5},
			want:  Payouts{WinnerPayout: 300, WinnerBandGain: 100, LoserFee: 60, LoserBandFee: 30, HikeChampionshipID: intPtr(4), Hike: 0.5},
		},
		{
			name: "zero amounts", prize: 0, entry: 0,
			want: Payouts{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePayouts(tt.prize, tt.entry, tt.title)
			if got.WinnerPayout != tt.want.WinnerPayout || got.WinnerBandGain != tt.want.WinnerBandGain ||
				got.LoserFee != tt.want.LoserFee || got.LoserBandFee != tt.want.LoserBandFee || got.Hike != tt.want.Hike {
				t.Fatalf("ComputePayouts() = %+v, want %+v", got, tt.want)
			}
			if !sameHolder(got.HikeChampionshipID, tt.want.HikeChampionshipID) {
				t.Errorf("HikeChampionshipID = %v, want %v", got.HikeChampionshipID, tt.want.HikeChampionshipID)
			}
		})
	}
}

// duel seeds two players in two bands and one pending 300/90 match between them.
func duel(l *league) (p1, p2 *models.Player, m *models.SingleMatch) {
	a := l.store.addBand("Alpha", 1000)
	b := l.store.addBand("Bravo", 1000)
	p1 = l.store.addPlayer("Rey", models.GenderMale, a.ID, 500)
	p2 = l.store.addPlayer("Kane", models.GenderMale, b.ID, 500)
	m = l.store.addMatch(models.SingleMatch{Name: "Opener", P1ID: intPtr(p1.ID), P2ID: intPtr(p2.ID), PrizeAmount: 300, EntryAmount: 90})
	return p1, p2, m
}

func TestResolveMatchArithmetic(t *testing.T) {
	l := newLeague(constRand(0))
	p1, p2, m := duel(l)

	res, err := l.matches.ResolveMatch(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("ResolveMatch: %v", err)
	}
	if res.AlreadyResolved || res.Winner.ID != p1.ID || res.Loser.ID != p2.ID {
		t.Fatalf("unexpected result: already=%v winner=%d loser=%d", res.AlreadyResolved, res.Winner.ID, res.Loser.ID)
	}

	winner, loser := l.store.player(p1.ID), l.store.player(p2.ID)
	if winner.NetWorth != 700 || winner.Wins != 1 || winner.MatchesPlayed != 1 || winner.WinningPercentage != 100 {
		t.Errorf("winner = %+v", winner)
	}
	if loser.NetWorth != 440 || loser.Wins != 0 || loser.MatchesPlayed != 1 || loser.WinningPercentage != 0 {
		t.Errorf("loser = %+v", loser)
	}
	if got := l.store.band(p1.BandID).NetWorth; got != 1100 {
		t.Errorf("winner band net worth = %v, want 1100", got)
	}
	if got := l.store.band(p2.BandID).NetWorth; got != 970 {
		t.Errorf("loser band net worth = %v, want 970", got)
	}
	stored := l.store.match(m.ID)
	if stored.WinnerID == nil || *stored.WinnerID != p1.ID {
		t.Errorf("stored winner = %v, want %d", stored.WinnerID, p1.ID)
	}

	if n := l.hub.count(brackets.MatchRoom(m.ID), brackets.EventMatchResolved); n != 1 {
		t.Errorf("match room got %d MATCH_RESOLVED events, want 1", n)
	}
	if got := l.board.players[p1.ID]; got != 700 {
		t.Errorf("leaderboard has %v for the winner, want 700", got)
	}
}

func TestResolveMatchSecondPlayerWins(t *testing.T) {
	l := newLeague(constRand(0.999))
	p1, p2, m := duel(l)

	res, err := l.matches.ResolveMatch(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("ResolveMatch: %v", err)
	}
	if res.Winner.ID != p2.ID {
		t.Fatalf("winner = %d, want %d", res.Winner.ID, p2.ID)
	}
	if got := l.store.player(p1.ID).NetWorth; got != 440 {
		t.Errorf("p1 net worth = %v, want 440", got)
	}
}

func TestResolveMatchIsIdempotent(t *testing.T) {
	l := newLeague(constRand(0))
	p1, _, m := duel(l)
	ctx := context.Background()

	if _, err := l.matches.ResolveMatch(ctx, m.ID); err != nil {
		t.Fatalf("first ResolveMatch: %v", err)
	}
	res, err := l.matches.ResolveMatch(ctx, m.ID)
	if err != nil {
		t.Fatalf("second ResolveMatch: %v", err)
	}
	if !res.AlreadyResolved {
		t.Error("second resolution should report AlreadyResolved")
	}
	if got := l.store.player(p1.ID); got.NetWorth != 700 || got.MatchesPlayed != 1 {
		t.Errorf("second resolution changed the winner: %+v", got)
	}
	if n := l.hub.count(brackets.MatchRoom(m.ID), brackets.EventMatchResolved); n != 1 {
		t.Errorf("got %d MATCH_RESOLVED events, want 1", n)
	}
}

func TestResolveMatchIncomplete(t *testing.T) {
	l := newLeague(constRand(0))
	p1, _, _ := duel(l)
	m := l.store.addMatch(models.SingleMatch{Name: "Walkover", P1ID: intPtr(p1.ID), PrizeAmount: 300})

	_, err := l.matches.ResolveMatch(context.Background(), m.ID)
	if !errors.Is(err, ErrIncompleteMatchup) {
		t.Fatalf("err = %v, want ErrIncompleteMatchup", err)
	}
	if got := l.store.player(p1.ID); got.NetWorth != 500 || got.MatchesPlayed != 0 {
		t.Errorf("incomplete match changed the player: %+v", got)
	}
	if l.store.match(m.ID).Resolved() {
		t.Error("incomplete match was resolved")
	}
}

func TestResolveMatchNotFound(t *testing.T) {
	l := newLeague(constRand(0))
	if _, err := l.matches.ResolveMatch(context.Background(), 404); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("err = %v, want ErrMatchNotFound", err)
	}
}

func TestResolveMatchRollsBackOnFailure(t *testing.T) {
	l := newLeague(constRand(0))
	p1, p2, m := duel(l)
	l.store.failOn["bands.Update"] = errors.New("disk full")

	if _, err := l.matches.ResolveMatch(context.Background(), m.ID); err == nil {
		t.Fatal("expected an error")
	}
	if got := l.store.player(p1.ID); got.NetWorth != 500 || got.Wins != 0 {
		t.Errorf("winner kept partial changes: %+v", got)
	}
	if got := l.store.player(p2.ID); got.NetWorth != 500 {
		t.Errorf("loser kept partial changes: %+v", got)
	}
	if l.store.match(m.ID).Resolved() {
		t.Error("match resolved despite the failure")
	}
}

func TestResolveMatchSameBand(t *testing.T) {
	l := newLeague(constRand(0))
	band := l.store.addBand("Shield", 0)
	p1 := l.store.addPlayer("Seth", models.GenderMale, band.ID, 0)
	p2 := l.store.addPlayer("Dean", models.GenderMale, band.ID, 0)
	m := l.store.addMatch(models.SingleMatch{Name: "Civil war", P1ID: intPtr(p1.ID), P2ID: intPtr(p2.ID), PrizeAmount: 300, EntryAmount: 90})

	if _, err := l.matches.ResolveMatch(context.Background(), m.ID); err != nil {
		t.Fatalf("ResolveMatch: %v", err)
	}
	if got := l.store.band(band.ID).NetWorth; got != 70 {
		t.Errorf("band net worth = %v, want 70", got)
	}
}

func TestResolveMatchHighestHikeApplies(t *testing.T) {
	l := newLeague(constRand(0))
	p1, _, m := duel(l)
	l.store.addChampionship("Tag Team", 0.25, intPtr(p1.ID))
	best := l.store.addChampionship("World", 0.5, intPtr(p1.ID))

	res, err := l.matches.ResolveMatch(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("ResolveMatch: %v", err)
	}
	if res.Payouts.HikeChampionshipID == nil || *res.Payouts.HikeChampionshipID != best.ID {
		t.Errorf("hike from %v, want championship %d", res.Payouts.HikeChampionshipID, best.ID)
	}
	if got := l.store.player(p1.ID).NetWorth; got != 800 {
		t.Errorf("winner net worth = %v, want 800", got)
	}
}

func TestResolveTitleMatchTransfersChampionship(t *testing.T) {
	l := newLeague(constRand(0))
	p1, p2, _ := duel(l)
	title := l.store.addChampionship("Intercontinental", 1, nil)
	ctx := context.Background()

	// p2 wins the title first through the tracker
	if _, _, err := l.championships.UpdateChampionship(ctx, title.ID, ChampionshipUpdate{PlayerID: intPtr(p2.ID)}); err != nil {
		t.Fatalf("UpdateChampionship: %v", err)
	}

	m := l.store.addMatch(models.SingleMatch{
		Name: "Title bout", P1ID: intPtr(p1.ID), P2ID: intPtr(p2.ID),
		PrizeAmount: 300, EntryAmount: 90, ChampionshipID: intPtr(title.ID),
	})
	res, err := l.matches.ResolveMatch(ctx, m.ID)
	if err != nil {
		t.Fatalf("ResolveMatch: %v", err)
	}

	// хайк по титулам до матча: у p1 их не было
	if got := l.store.player(p1.ID).NetWorth; got != 700 {
		t.Errorf("challenger net worth = %v, want 700", got)
	}
	if holder := l.store.championship(title.ID).PlayerID; holder == nil || *holder != p1.ID {
		t.Fatalf("holder = %v, want %d", holder, p1.ID)
	}
	if res.TitleChange == nil || *res.TitleChange.PreviousHolderID != p2.ID {
		t.Fatalf("title change = %+v", res.TitleChange)
	}

	reigns := l.store.reigns(title.ID)
	if len(reigns) != 2 {
		t.Fatalf("got %d reigns, want 2", len(reigns))
	}
	if reigns[0].PlayerID != p2.ID || reigns[0].Open() || !reigns[0].EndedAt.Equal(l.now) {
		t.Errorf("old reign = %+v", reigns[0])
	}
	if reigns[1].PlayerID != p1.ID || !reigns[1].Open() {
		t.Errorf("new reign = %+v", reigns[1])
	}
	if n := l.hub.count(brackets.LeagueRoom, brackets.EventReignChanged); n != 2 {
		t.Errorf("got %d REIGN_CHANGED events, want 2", n)
	}
}

func TestResolveTitleMatchDefended(t *testing.T) {
	l := newLeague(constRand(0))
	p1, p2, _ := duel(l)
	title := l.store.addChampionship("Universal", 0.5, nil)
	ctx := context.Background()
	if _, _, err := l.championships.UpdateChampionship(ctx, title.ID, ChampionshipUpdate{PlayerID: intPtr(p1.ID)}); err != nil {
		t.Fatalf("UpdateChampionship: %v", err)
	}
	m := l.store.addMatch(models.SingleMatch{
		Name: "Defense", P1ID: intPtr(p1.ID), P2ID: intPtr(p2.ID),
		PrizeAmount: 300, ChampionshipID: intPtr(title.ID),
	})

	res, err := l.matches.ResolveMatch(ctx, m.ID)
	if err != nil {
		t.Fatalf("ResolveMatch: %v", err)
	}
	if res.TitleChange != nil {
		t.Errorf("defended title recorded a change: %+v", res.TitleChange)
	}
	if reigns := l.store.reigns(title.ID); len(reigns) != 1 || !reigns[0].Open() {
		t.Errorf("reigns = %+v, want one open reign", reigns)
	}
	// 200 + 50% хайк
	if got := l.store.player(p1.ID).NetWorth; got != 800 {
		t.Errorf("champion net worth = %v, want 800", got)
	}
}

func TestCreateMatchValidation(t *testing.T) {
	l := newLeague(constRand(0))
	p1, p2, _ := duel(l)
	inactive := l.store.addPlayer("Retired", models.GenderMale, p1.BandID, 0)
	l.store.mu.Lock()
	r := l.store.players[inactive.ID]
	r.Active = false
	l.store.players[inactive.ID] = r
	l.store.mu.Unlock()

	tests := []struct {
		name  string
		input CreateMatchInput
		want  error
	}{
		{"missing name", CreateMatchInput{P1ID: p1.ID, P2ID: p2.ID}, ErrValidationFailed},
		{"same player", CreateMatchInput{Name: "x", P1ID: p1.ID, P2ID: p1.ID}, ErrValidationFailed},
		{"negative prize", CreateMatchInput{Name: "x", P1ID: p1.ID, P2ID: p2.ID, PrizeAmount: -1}, ErrValidationFailed},
		{"unknown player", CreateMatchInput{Name: "x", P1ID: p1.ID, P2ID: 999}, ErrPlayerNotFound},
		{"inactive player", CreateMatchInput{Name: "x", P1ID: p1.ID, P2ID: inactive.ID}, ErrPlayerInactive},
		{"unknown championship", CreateMatchInput{Name: "x", P1ID: p1.ID, P2ID: p2.ID, ChampionshipID: intPtr(999)}, ErrChampionshipNotFound},
		{"unknown tournament", CreateMatchInput{Name: "x", P1ID: p1.ID, P2ID: p2.ID, TournamentID: intPtr(999)}, ErrTournamentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.matches.CreateMatch(context.Background(), tt.input); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateMatchFreezeWindow(t *testing.T) {
	l := newLeague(constRand(0))
	p1, p2, _ := duel(l)
	title := l.store.addChampionship("World", 0.5, nil)
	event := l.store.addTournament("WrestleMania", l.now.AddDate(0, 0, 3), true)
	l.store.addTournament("House Show", l.now.AddDate(0, 0, 2), false)
	ctx := context.Background()

	base := CreateMatchInput{Name: "Title shot", Date: l.now, P1ID: p1.ID, P2ID: p2.ID, ChampionshipID: intPtr(title.ID)}
	if _, err := l.matches.CreateMatch(ctx, base); !errors.Is(err, ErrChampionshipFreeze) {
		t.Fatalf("title match before the main event: err = %v, want ErrChampionshipFreeze", err)
	}

	inEvent := base
	inEvent.Name = "Main event title match"
	inEvent.TournamentID = intPtr(event.ID)
	if _, err := l.matches.CreateMatch(ctx, inEvent); err != nil {
		t.Errorf("title match of the main event itself: %v", err)
	}

	later := base
	later.Name = "After the show"
	later.Date = l.now.AddDate(0, 0, 4)
	if _, err := l.matches.CreateMatch(ctx, later); err != nil {
		t.Errorf("title match after the main event: %v", err)
	}

	nonTitle := base
	nonTitle.Name = "Non-title"
	nonTitle.ChampionshipID = nil
	if _, err := l.matches.CreateMatch(ctx, nonTitle); err != nil {
		t.Errorf("non-title match: %v", err)
	}
}

func TestDeleteMatch(t *testing.T) {
	l := newLeague(constRand(0))
	_, _, m := duel(l)
	ctx := context.Background()

	if _, err := l.matches.ResolveMatch(ctx, m.ID); err != nil {
		t.Fatalf("ResolveMatch: %v", err)
	}
	if err := l.matches.DeleteMatch(ctx, m.ID); !errors.Is(err, ErrMatchResolved) {
		t.Fatalf("deleting a resolved match: err = %v, want ErrMatchResolved", err)
	}

	pending := l.store.addMatch(models.SingleMatch{Name: "Later", P1ID: m.P1ID, P2ID: m.P2ID})
	if err := l.matches.DeleteMatch(ctx, pending.ID); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}
	if _, err := l.matches.GetMatch(ctx, pending.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("deleted match still found: %v", err)
	}
}

func TestPostNotification(t *testing.T) {
	l := newLeague(constRand(0))
	_, _, m := duel(l)
	ctx := context.Background()

	if _, err := l.matches.PostNotification(ctx, m.ID, "  ", nil, ""); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("empty content: err = %v", err)
	}

	n, err := l.matches.PostNotification(ctx, m.ID, "Chair shot!", strings.NewReader("img"), "image/png")
	if err != nil {
		t.Fatalf("PostNotification: %v", err)
	}
	if n.ImageKey == nil || !strings.HasPrefix(*n.ImageKey, "notifications/") || n.ImageURL == nil {
		t.Errorf("image not stored: key=%v url=%v", n.ImageKey, n.ImageURL)
	}
	if _, err := l.matches.PostNotification(ctx, m.ID, "bad image", strings.NewReader("x"), "text/plain"); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("unsupported image: err = %v, want ErrValidationFailed", err)
	}

	list, err := l.matches.ListNotifications(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(list) != 1 || list[0].Content != "Chair shot!" {
		t.Errorf("notifications = %+v", list)
	}
	if n := l.hub.count(brackets.MatchRoom(m.ID), brackets.EventNotificationPosted); n != 1 {
		t.Errorf("got %d NOTIFICATION_POSTED events, want 1", n)
	}
	if _, err := l.matches.ListNotifications(ctx, 999); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("unknown match: err = %v", err)
	}
}
