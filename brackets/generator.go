package brackets

import "context"

// Pairing - пара игроков для одного матча.
type Pairing struct {
	Player1ID int `json:"player1_id"`
	Player2ID int `json:"player2_id"`
}

// BracketMatch is a match planned by a generator, not yet stored.
type BracketMatch struct {
	Order int `json:"order"` // порядковый номер, используется в названии матча
	Pairing
}

type GenerateBracketParams struct {
	PlayerIDs  []int
	StartOrder int // первый матч получит StartOrder+1
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}

// uniqueIDs drops duplicates and non-positive ids, keeping the first occurrence order.
func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
