package brackets

import (
	"context"
	"fmt"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket creates one match per unordered pair of distinct players.
// Player order is preserved: (p0,p1), (p0,p2), ..., (p1,p2), ...
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	players := uniqueIDs(params.PlayerIDs)
	if len(players) < 2 {
		return nil, fmt.Errorf("RoundRobinGenerator: not enough players (found %d, min 2 required)", len(players))
	}

	matches := make([]*BracketMatch, 0, PairCount(len(players)))
	order := params.StartOrder
	for i := 0; i < len(players); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(players); j++ {
			order++
			matches = append(matches, &BracketMatch{
				Order:   order,
				Pairing: Pairing{Player1ID: players[i], Player2ID: players[j]},
			})
		}
	}
	return matches, nil
}

// PairCount is C(n,2).
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}
