package models

// LeaderboardEntry - место игрока или группы в рейтинге по net worth.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	ID       int     `json:"id"`
	Name     string  `json:"name,omitempty"`
	NetWorth float64 `json:"net_worth"`
}
