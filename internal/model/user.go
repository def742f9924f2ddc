// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents an account created through Discord login.
//
// The primary key is the Discord user ID. Discord IDs are snowflakes —
// 64-bit integers — but we carry them as strings end to end. Parsing them
// as numbers loses precision the moment they cross a JavaScript boundary,
// so the only place an ID is ever treated numerically is the default
// avatar derivation in the discord package.
//
// A user row is upserted on every successful login and never deleted.
type User struct {
	ID             string     `json:"id"`       // Discord snowflake, kept as a string
	Username       string     `json:"username"` // display name at last login
	Avatar         *string    `json:"avatar"`   // Discord avatar hash, nil when the user has none
	IsAdmin        bool       `json:"is_admin"`
	AccessToken    string     `json:"-"` // OAuth tokens never leave the server
	RefreshToken   string     `json:"-"`
	TokenExpiresAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`
}
