package model

import "time"

// Person is a rankable member of the roster. People are distinct from
// Users: a person may never have logged in, and a user is only rankable
// if an admin has added a matching person.
//
// DiscordID is optional. When present it links the person to a Discord
// account, which enables avatar derivation and the self-ranking check.
// It is surfaced as a string for the same precision reason as User.ID.
//
// People are never physically deleted. "Deleting" a person flips Active
// off; their historical rankings stay in storage but drop out of listings
// and the leaderboard.
type Person struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	DiscordID *string   `json:"discord_id"`
	AvatarURL *string   `json:"avatar_url"`
	Active    bool      `json:"-"`
	AddedBy   *string   `json:"-"` // user ID of the admin who added them
	CreatedAt time.Time `json:"-"`
}
