package models

import "time"

type Band struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	NetWorth  float64   `json:"net_worth" db:"net_worth"`
	ImageKey  *string   `json:"-" db:"image_key"`
	ImageURL  *string   `json:"image_url,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Stats   *BandStats `json:"stats,omitempty" db:"-"`
	Players []Player   `json:"players,omitempty" db:"-"`
}

// BandStats агрегаты по участникам группы, не хранятся в БД.
type BandStats struct {
	PlayerCount       int     `json:"player_count"`
	Wins              int     `json:"wins"`
	MatchesPlayed     int     `json:"matches_played"`
	WinningPercentage float64 `json:"winning_percentage"`
}

// ComputeBandStats aggregates the records of the given members. Inactive players are not counted.
func ComputeBandStats(members []*Player) BandStats {
	var stats BandStats
	for _, p := range members {
		if p == nil || !p.Active {
			continue
		}
		stats.PlayerCount++
		stats.Wins += p.Wins
		stats.MatchesPlayed += p.MatchesPlayed
	}
	stats.WinningPercentage = WinningPercentage(stats.Wins, stats.MatchesPlayed)
	return stats
}
