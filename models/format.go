package models

import "time"

const DefaultLeagueNamePrefix = "BWE Championship"

// LeagueFormat describes how create_league pairs players.
type LeagueFormat struct {
	BandIDs    []int    `json:"band_ids,omitempty"`
	Genders    []Gender `json:"genders,omitempty"`
	NamePrefix string   `json:"name_prefix,omitempty"`
	Prize      float64  `json:"prize"`
	Entry      float64  `json:"entry"`
}

// GendersOrDefault returns the genders to pair, Male and Female when none were given.
func (f LeagueFormat) GendersOrDefault() []Gender {
	if len(f.Genders) == 0 {
		return []Gender{GenderMale, GenderFemale}
	}
	return f.Genders
}

func (f LeagueFormat) Prefix() string {
	if f.NamePrefix == "" {
		return DefaultLeagueNamePrefix
	}
	return f.NamePrefix
}

// DefaultLeagueDate is the 30th of the month of now, clamped to the last day of short months.
func DefaultLeagueDate(now time.Time) time.Time {
	year, month, _ := now.Date()
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, now.Location()).Day()
	day := 30
	if lastDay < day {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}
