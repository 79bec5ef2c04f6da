package models

import "time"

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOthers Gender = "Others"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOthers:
		return true
	}
	return false
}

// Player - участник лиги (рестлер).
type Player struct {
	ID                int       `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Gender            Gender    `json:"gender" db:"gender"`
	BandID            int       `json:"band_id" db:"band_id"`
	Wins              int       `json:"wins" db:"wins"`
	MatchesPlayed     int       `json:"matches_played" db:"matches_played"`
	WinningPercentage float64   `json:"winning_percentage" db:"winning_percentage"`
	NetWorth          float64   `json:"net_worth" db:"net_worth"`
	Active            bool      `json:"active" db:"active"`
	SpouseID          *int      `json:"spouse_id,omitempty" db:"spouse_id"`
	ImageKey          *string   `json:"-" db:"image_key"`
	ImageURL          *string   `json:"image_url,omitempty" db:"-"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	Band *Band `json:"band,omitempty" db:"-"`
}

// WinningPercentage is wins/matches*100, or 0 when no matches were played.
func WinningPercentage(wins, matchesPlayed int) float64 {
	if matchesPlayed <= 0 {
		return 0
	}
	return float64(wins) / float64(matchesPlayed) * 100
}

// Recompute refreshes the derived fields. Repositories call it right before every write.
func (p *Player) Recompute() {
	p.WinningPercentage = WinningPercentage(p.Wins, p.MatchesPlayed)
}

// RecordWin applies a won match to the player's record and net worth.
func (p *Player) RecordWin(payout float64) {
	p.NetWorth += payout
	p.MatchesPlayed++
	p.Wins++
	p.Recompute()
}

// RecordLoss applies a lost match to the player's record and net worth.
func (p *Player) RecordLoss(fee float64) {
	p.NetWorth -= fee
	p.MatchesPlayed++
	p.Recompute()
}
