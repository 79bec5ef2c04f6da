package models

import "time"

type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusResolved MatchStatus = "resolved"
)

// SingleMatch - поединок двух игроков. P1/P2 могут стать NULL, если игрока удалили после создания матча.
type SingleMatch struct {
	ID             int       `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Date           time.Time `json:"date" db:"date"`
	TournamentID   *int      `json:"tournament_id,omitempty" db:"tournament_id"`
	ChampionshipID *int      `json:"championship_id,omitempty" db:"championship_id"`
	P1ID           *int      `json:"p1_id,omitempty" db:"p1_id"`
	P2ID           *int      `json:"p2_id,omitempty" db:"p2_id"`
	WinnerID       *int      `json:"winner_id,omitempty" db:"winner_id"`
	PrizeAmount    float64   `json:"prize_amount" db:"prize_amount"`
	EntryAmount    float64   `json:"entry_amount" db:"entry_amount"`
	IsChampionship bool      `json:"is_championship" db:"is_championship"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (m SingleMatch) Status() MatchStatus {
	if m.WinnerID != nil {
		return MatchStatusResolved
	}
	return MatchStatusPending
}

func (m SingleMatch) Resolved() bool {
	return m.WinnerID != nil
}

// Notification - комментарий к матчу.
type Notification struct {
	ID        int       `json:"id" db:"id"`
	MatchID   int       `json:"match_id" db:"match_id"`
	Content   string    `json:"content" db:"content"`
	ImageKey  *string   `json:"-" db:"image_key"`
	ImageURL  *string   `json:"image_url,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
