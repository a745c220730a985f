// Package model contains domain models passed between layers.
package model

import "fmt"

// GameDay identifies a single round of games.
type GameDay struct {
	// Season is the year the season starts in, even for games played after January 1st.
	Season int
	Week   int
}

// String renders the gameday as "2025/16".
func (g GameDay) String() string {
	return fmt.Sprintf("%d/%d", g.Season, g.Week)
}

// Key identifies one team-game row in the historical dataset.
type Key struct {
	Team   string
	Season int
	Week   int
}

// SackStatLine is one team's sack performance in one game.
type SackStatLine struct {
	GameDay         GameDay
	Team            string
	OpponentTeam    string
	SacksSuffered   int
	SackYardsLost   int // conventionally <= 0
	SackFumbles     int
	SackFumblesLost int
}

// Key returns the identity tuple of the stat line.
func (s SackStatLine) Key() Key {
	return Key{Team: s.Team, Season: s.GameDay.Season, Week: s.GameDay.Week}
}

// SameStats reports whether both lines carry the exact same four sack stats.
func (s SackStatLine) SameStats(o SackStatLine) bool {
	return s.SacksSuffered == o.SacksSuffered &&
		s.SackYardsLost == o.SackYardsLost &&
		s.SackFumbles == o.SackFumbles &&
		s.SackFumblesLost == o.SackFumblesLost
}

// Record returns the key/value form used by the posted-games ledger.
func (s SackStatLine) Record() Record {
	return Record{
		Season:          s.GameDay.Season,
		Week:            s.GameDay.Week,
		Team:            s.Team,
		OpponentTeam:    s.OpponentTeam,
		SacksSuffered:   s.SacksSuffered,
		SackYardsLost:   s.SackYardsLost,
		SackFumbles:     s.SackFumbles,
		SackFumblesLost: s.SackFumblesLost,
	}
}

// Validate reports rows that break the upstream conventions. Callers log
// the error; the upstream data stays authoritative.
func (s SackStatLine) Validate() error {
	switch {
	case s.SacksSuffered < 0:
		return fmt.Errorf("%w: negative sacks_suffered %d", ErrInconsistentStatLine, s.SacksSuffered)
	case s.SackFumbles > s.SacksSuffered:
		return fmt.Errorf("%w: sack_fumbles %d > sacks_suffered %d", ErrInconsistentStatLine, s.SackFumbles, s.SacksSuffered)
	case s.SackFumblesLost > s.SackFumbles:
		return fmt.Errorf("%w: sack_fumbles_lost %d > sack_fumbles %d", ErrInconsistentStatLine, s.SackFumblesLost, s.SackFumbles)
	}
	return nil
}

// Record is the ledger representation of a SackStatLine. Field order and
// JSON names match the key/value map form.
type Record struct {
	Season          int    `json:"season"`
	Week            int    `json:"week"`
	Team            string `json:"team"`
	OpponentTeam    string `json:"opponent_team"`
	SacksSuffered   int    `json:"sacks_suffered"`
	SackYardsLost   int    `json:"sack_yards_lost"`
	SackFumbles     int    `json:"sack_fumbles"`
	SackFumblesLost int    `json:"sack_fumbles_lost"`
}

// StatLine converts the record back into its canonical form.
func (r Record) StatLine() SackStatLine {
	return SackStatLine{
		GameDay:         GameDay{Season: r.Season, Week: r.Week},
		Team:            r.Team,
		OpponentTeam:    r.OpponentTeam,
		SacksSuffered:   r.SacksSuffered,
		SackYardsLost:   r.SackYardsLost,
		SackFumbles:     r.SackFumbles,
		SackFumblesLost: r.SackFumblesLost,
	}
}

// SimilarStatLines summarises the historical precedents of a stat line.
// A nil *SimilarStatLines means the line never happened before; Count is
// therefore always positive.
type SimilarStatLines struct {
	LastGameDay GameDay
	Count       int
}
