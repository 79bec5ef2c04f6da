package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/repositories"
)

func spouseOf(l *league, id int) *int {
	return l.store.player(id).SpouseID
}

func assertMarried(t *testing.T, l *league, a, b int) {
	t.Helper()
	if s := spouseOf(l, a); s == nil || *s != b {
		t.Errorf("spouse of %d = %v, want %d", a, s, b)
	}
	if s := spouseOf(l, b); s == nil || *s != a {
		t.Errorf("spouse of %d = %v, want %d", b, s, a)
	}
}

func assertSingle(t *testing.T, l *league, id int) {
	t.Helper()
	if s := spouseOf(l, id); s != nil {
		t.Errorf("spouse of %d = %d, want none", id, *s)
	}
}

func TestCreatePlayer(t *testing.T) {
	l := newLeague(constRand(0))
	band := l.store.addBand("Alpha", 0)
	ctx := context.Background()

	p, err := l.players.CreatePlayer(ctx, PlayerInput{Name: " Becky ", Gender: models.GenderFemale, BandID: band.ID, Wins: 3, MatchesPlayed: 4, NetWorth: 50})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if p.Name != "Becky" || !p.Active || p.WinningPercentage != 75 {
		t.Errorf("player = %+v", p)
	}
	if got := l.board.players[p.ID]; got != 50 {
		t.Errorf("leaderboard = %v, want 50", got)
	}

	tests := []struct {
		name  string
		input PlayerInput
		want  error
	}{
		{"blank name", PlayerInput{Gender: models.GenderMale, BandID: band.ID}, ErrValidationFailed},
		{"bad gender", PlayerInput{Name: "x", Gender: "Robot", BandID: band.ID}, ErrValidationFailed},
		{"wins over matches", PlayerInput{Name: "x", Gender: models.GenderMale, BandID: band.ID, Wins: 2, MatchesPlayed: 1}, ErrValidationFailed},
		{"unknown band", PlayerInput{Name: "x", Gender: models.GenderMale, BandID: 999}, ErrBandNotFound},
		{"missing spouse", PlayerInput{Name: "x", Gender: models.GenderMale, BandID: band.ID, SpouseID: intPtr(999)}, ErrInvalidSpouse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.players.CreatePlayer(ctx, tt.input); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreatePlayerWithSpouse(t *testing.T) {
	l := newLeague(constRand(0))
	band := l.store.addBand("Alpha", 0)
	miz := l.store.addPlayer("Miz", models.GenderMale, band.ID, 0)

	maryse, err := l.players.CreatePlayer(context.Background(), PlayerInput{Name: "Maryse", Gender: models.GenderFemale, BandID: band.ID, SpouseID: intPtr(miz.ID)})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	assertMarried(t, l, miz.ID, maryse.ID)
}

func TestUpdatePlayerSpouseReconciliation(t *testing.T) {
	l := newLeague(constRand(0))
	band := l.store.addBand("Alpha", 0)
	a := l.store.addPlayer("A", models.GenderMale, band.ID, 0).ID
	b := l.store.addPlayer("B", models.GenderFemale, band.ID, 0).ID
	c := l.store.addPlayer("C", models.GenderMale, band.ID, 0).ID
	d := l.store.addPlayer("D", models.GenderFemale, band.ID, 0).ID
	ctx := context.Background()

	if _, err := l.players.UpdatePlayer(ctx, a, PlayerUpdate{SpouseID: intPtr(b)}); err != nil {
		t.Fatalf("marry a-b: %v", err)
	}
	assertMarried(t, l, a, b)
	if _, err := l.players.UpdatePlayer(ctx, c, PlayerUpdate{SpouseID: intPtr(d)}); err != nil {
		t.Fatalf("marry c-d: %v", err)
	}

	// a marries d: b and c become single
	p, err := l.players.UpdatePlayer(ctx, a, PlayerUpdate{SpouseID: intPtr(d)})
	if err != nil {
		t.Fatalf("marry a-d: %v", err)
	}
	if p.SpouseID == nil || *p.SpouseID != d {
		t.Errorf("returned player spouse = %v", p.SpouseID)
	}
	assertMarried(t, l, a, d)
	assertSingle(t, l, b)
	assertSingle(t, l, c)

	// same spouse again is a no-op
	if _, err := l.players.UpdatePlayer(ctx, d, PlayerUpdate{SpouseID: intPtr(a)}); err != nil {
		t.Fatalf("remarry: %v", err)
	}
	assertMarried(t, l, a, d)

	if _, err := l.players.UpdatePlayer(ctx, d, PlayerUpdate{ClearSpouse: true}); err != nil {
		t.Fatalf("divorce: %v", err)
	}
	assertSingle(t, l, a)
	assertSingle(t, l, d)
}

func TestUpdatePlayerSpouseErrors(t *testing.T) {
	l := newLeague(constRand(0))
	band := l.store.addBand("Alpha", 0)
	a := l.store.addPlayer("A", models.GenderMale, band.ID, 0).ID
	ctx := context.Background()

	if _, err := l.players.UpdatePlayer(ctx, a, PlayerUpdate{SpouseID: intPtr(a)}); !errors.Is(err, ErrInvalidSpouse) {
		t.Errorf("self spouse: err = %v", err)
	}
	if _, err := l.players.UpdatePlayer(ctx, a, PlayerUpdate{SpouseID: intPtr(999)}); !errors.Is(err, ErrInvalidSpouse) {
		t.Errorf("missing spouse: err = %v", err)
	}
	if _, err := l.players.UpdatePlayer(ctx, a, PlayerUpdate{SpouseID: intPtr(1), ClearSpouse: true}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("both spouse options: err = %v", err)
	}
	if _, err := l.players.UpdatePlayer(ctx, 999, PlayerUpdate{}); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("unknown player: err = %v", err)
	}
}

func TestUpdatePlayerRecomputesPercentage(t *testing.T) {
	l := newLeague(constRand(0))
	band := l.store.addBand("Alpha", 0)
	p := l.store.addPlayer("A", models.GenderMale, band.ID, 0)

	wins, matches := 1, 4
	got, err := l.players.UpdatePlayer(context.Background(), p.ID, PlayerUpdate{Wins: &wins, MatchesPlayed: &matches})
	if err != nil {
		t.Fatalf("UpdatePlayer: %v", err)
	}
	if got.WinningPercentage != 25 || l.store.player(p.ID).WinningPercentage != 25 {
		t.Errorf("winning percentage = %v", got.WinningPercentage)
	}
}

func TestDeletePlayerDeactivates(t *testing.T) {
	l := newLeague(constRand(0))
	band := l.store.addBand("Alpha", 0)
	p := l.store.addPlayer("A", models.GenderMale, band.ID, 10)
	l.board.players[p.ID] = 10
	ctx := context.Background()

	if err := l.players.DeletePlayer(ctx, p.ID); err != nil {
		t.Fatalf("DeletePlayer: %v", err)
	}
	if l.store.player(p.ID).Active {
		t.Error("player still active")
	}
	if _, ok := l.board.players[p.ID]; ok {
		t.Error("inactive player left on the leaderboard")
	}
	active, err := l.players.ListPlayers(ctx, repositories.ListPlayersFilter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("ListPlayers: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active players = %d, want 0", len(active))
	}
}

func TestPlayerUploadImage(t *testing.T) {
	l := newLeague(constRand(0))
	band := l.store.addBand("Alpha", 0)
	p := l.store.addPlayer("A", models.GenderMale, band.ID, 0)
	ctx := context.Background()

	first, err := l.players.UploadImage(ctx, p.ID, strings.NewReader("one"), "image/jpeg")
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	firstKey := *first.ImageKey
	if !strings.HasPrefix(firstKey, "players/") || !strings.HasSuffix(firstKey, ".jpg") || first.ImageURL == nil {
		t.Errorf("image key = %q url = %v", firstKey, first.ImageURL)
	}

	if _, err := l.players.UploadImage(ctx, p.ID, strings.NewReader("two"), "image/png"); err != nil {
		t.Fatalf("second UploadImage: %v", err)
	}
	if _, ok := l.files.objects[firstKey]; ok {
		t.Error("replaced image was not deleted")
	}
}
