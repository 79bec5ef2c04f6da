package models

import "time"

// Tournament представляет турнир.
type Tournament struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Date        time.Time `json:"date" db:"date"`
	Completed   bool      `json:"completed" db:"completed"`
	IsMainEvent bool      `json:"is_main_event" db:"is_main_event"`
	WinnerID    *int      `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	Matches []SingleMatch `json:"matches,omitempty" db:"-"`
}

// FreezeWindow returns the interval before a main event during which title matches are not allowed.
func (t Tournament) FreezeWindow(days int) (from, to time.Time) {
	return t.Date.AddDate(0, 0, -days), t.Date
}

// InFreezeWindow reports whether at falls inside the freeze window of a pending main event.
func (t Tournament) InFreezeWindow(at time.Time, days int) bool {
	if !t.IsMainEvent || t.Completed || days <= 0 {
		return false
	}
	from, to := t.FreezeWindow(days)
	return !at.Before(from) && !at.After(to)
}

// TournamentStanding - победы игрока внутри одного турнира.
type TournamentStanding struct {
	PlayerID      int `json:"player_id"`
	Wins          int `json:"wins"`
	MatchesPlayed int `json:"matches_played"`
}
