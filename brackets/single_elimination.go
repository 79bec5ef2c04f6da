package brackets

import "errors"

var ErrNotEnoughPlayers = errors.New("not enough players to generate a knockout round (minimum 2)")

// KnockoutRound plans one single-elimination stage: players (0,1), (2,3), ... are paired and
// the last player of an odd field is returned as bye. The next stage is planned from the winners.
func KnockoutRound(playerIDs []int) ([]Pairing, *int, error) {
	players := uniqueIDs(playerIDs)
	if len(players) < 2 {
		return nil, nil, ErrNotEnoughPlayers
	}

	pairs := make([]Pairing, 0, len(players)/2)
	for i := 0; i+1 < len(players); i += 2 {
		pairs = append(pairs, Pairing{Player1ID: players[i], Player2ID: players[i+1]})
	}

	var bye *int
	if len(players)%2 == 1 {
		last := players[len(players)-1]
		bye = &last
	}
	return pairs, bye, nil
}
