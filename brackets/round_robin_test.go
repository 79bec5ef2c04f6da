package brackets

import (
	"context"
	"testing"
)

func TestRoundRobinGeneratesUniquePairs(t *testing.T) {
	gen := NewRoundRobinGenerator()
	for n := 2; n <= 7; n++ {
		ids := make([]int, n)
		for i := range ids {
			ids[i] = i + 1
		}
		matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{PlayerIDs: ids})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(matches) != PairCount(n) {
			t.Fatalf("n=%d: got %d matches, want %d", n, len(matches), PairCount(n))
		}

		seen := make(map[[2]int]bool)
		for i, m := range matches {
			if m.Order != i+1 {
				t.Errorf("n=%d: match %d has order %d", n, i, m.Order)
			}
			if m.Player1ID == m.Player2ID {
				t.Errorf("n=%d: self pairing %+v", n, m.Pairing)
			}
			key := [2]int{min(m.Player1ID, m.Player2ID), max(m.Player1ID, m.Player2ID)}
			if seen[key] {
				t.Errorf("n=%d: repeated pairing %v", n, key)
			}
			seen[key] = true
		}
	}
}

func TestRoundRobinDeduplicatesAndContinuesOrder(t *testing.T) {
	gen := NewRoundRobinGenerator()
	matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
		PlayerIDs:  []int{5, 9, 5, 11},
		StartOrder: 10,
	})
	if err != nil {
		t.Fatalf("GenerateBracket: %v", err)
	}
	want := []Pairing{{5, 9}, {5, 11}, {9, 11}}
	if len(matches) != len(want) {
		t.Fatalf("got %d matches, want %d", len(matches), len(want))
	}
	for i, m := range matches {
		if m.Pairing != want[i] {
			t.Errorf("match %d = %+v, want %+v", i, m.Pairing, want[i])
		}
		if m.Order != 11+i {
			t.Errorf("match %d order = %d, want %d", i, m.Order, 11+i)
		}
	}
}

func TestRoundRobinNeedsTwoPlayers(t *testing.T) {
	gen := NewRoundRobinGenerator()
	if _, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{PlayerIDs: []int{4, 4}}); err == nil {
		t.Fatal("expected an error for a single distinct player")
	}
}

func TestKnockoutRound(t *testing.T) {
	pairs, bye, err := KnockoutRound([]int{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("KnockoutRound: %v", err)
	}
	if len(pairs) != 2 || pairs[0] != (Pairing{1, 2}) || pairs[1] != (Pairing{3, 4}) {
		t.Errorf("unexpected pairs %+v", pairs)
	}
	if bye == nil || *bye != 5 {
		t.Errorf("bye = %v, want 5", bye)
	}

	pairs, bye, err = KnockoutRound([]int{8, 3})
	if err != nil || len(pairs) != 1 || bye != nil {
		t.Errorf("two players: pairs=%v bye=%v err=%v", pairs, bye, err)
	}

	if _, _, err := KnockoutRound([]int{1}); err != ErrNotEnoughPlayers {
		t.Errorf("err = %v, want ErrNotEnoughPlayers", err)
	}
}
