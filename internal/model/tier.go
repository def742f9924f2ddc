package model

import "strings"

// Tier is one of the six rank buckets a person can be placed into.
// The ordering is S > A > B > C > D > F.
type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
	TierF Tier = "F"
)

// AllTiers returns the tiers in display order, best first.
func AllTiers() []Tier {
	return []Tier{TierS, TierA, TierB, TierC, TierD, TierF}
}

// tierScores holds the weights used for the leaderboard average.
var tierScores = map[Tier]int{
	TierS: 5,
	TierA: 4,
	TierB: 3,
	TierC: 2,
	TierD: 1,
	TierF: 0,
}

// ParseTier normalizes a user-supplied tier value (case-insensitive,
// surrounding whitespace ignored). Returns false for anything that is not
// one of the six tiers.
func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := tierScores[t]
	return t, ok
}

// Score returns the weight of the tier (S=5 down to F=0).
// Calling Score on an invalid tier returns 0; use ParseTier first.
func (t Tier) Score() int {
	return tierScores[t]
}

// Valid reports whether t is one of the six defined tiers.
func (t Tier) Valid() bool {
	_, ok := tierScores[t]
	return ok
}
