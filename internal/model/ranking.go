package model

import "time"

// Ranking records which tier a user placed a person into. At most one row
// exists per (user, person) pair; saving again overwrites the tier. The
// absence of a row means "unranked".
type Ranking struct {
	UserID    string    `json:"user_id"`
	PersonID  int64     `json:"person_id"`
	Tier      Tier      `json:"tier"`
	UpdatedAt time.Time `json:"-"`
}

// PersonResult is one leaderboard row: the per-tier vote tally for a
// person plus the weighted average of those votes.
//
// AverageScore is nil — not zero — when nobody has ranked the person yet.
// The leaderboard sorts nil averages strictly after every scored entry.
type PersonResult struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	AvatarURL    *string      `json:"avatar_url"`
	Tiers        map[Tier]int `json:"tiers"` // always carries all six tiers
	Total        int          `json:"total"`
	AverageScore *float64     `json:"average_score"`
}
