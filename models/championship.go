package models

import "time"

type Championship struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Hike      float64   `json:"hike" db:"hike"`
	PlayerID  *int      `json:"player_id,omitempty" db:"player_id"` // текущий обладатель титула
	ImageKey  *string   `json:"-" db:"image_key"`
	ImageURL  *string   `json:"image_url,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ChampionshipHistory is one reign. EndedAt is nil while the reign is open.
type ChampionshipHistory struct {
	ID             int        `json:"id" db:"id"`
	ChampionshipID int        `json:"championship_id" db:"championship_id"`
	PlayerID       int        `json:"player_id" db:"player_id"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty" db:"ended_at"`
}

func (h ChampionshipHistory) Open() bool {
	return h.EndedAt == nil
}

// BestHike picks the championship whose hike applies to a holder of several titles:
// the highest hike, ties going to the lowest id. Returns nil for an empty slice.
func BestHike(held []*Championship) *Championship {
	var best *Championship
	for _, c := range held {
		if c == nil {
			continue
		}
		if best == nil || c.Hike > best.Hike || (c.Hike == best.Hike && c.ID < best.ID) {
			best = c
		}
	}
	return best
}
