// Package session owns the browser-session lifecycle.
//
// Every inbound request is bound to a Session loaded from (or created in)
// a Store. Sessions move through three states:
//
//	ANONYMOUS     — fresh session, no user attached
//	STATE_ISSUED  — a login is in progress; a single-use CSRF state token
//	                is stored for the session
//	AUTHENTICATED — a Discord user ID is attached
//
// The Store is pluggable: MemoryStore backs tests, the sqlite repository
// backs production. All session state is external — nothing is cached in
// process between requests.
package session

import (
	"context"
	"time"
)

// Session is the per-browser state the server tracks.
type Session struct {
	ID        string
	UserID    string // Discord user ID; empty while anonymous
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Authenticated reports whether a user is attached to the session.
func (s *Session) Authenticated() bool {
	return s.UserID != ""
}

// Store persists sessions and their single-use login state tokens.
//
// Implementations must make ConsumeState atomic: when two concurrent
// callers race on the same session, at most one may observe the token.
type Store interface {
	// Get returns the session with the given ID, or apperror.ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Create persists a new session.
	Create(ctx context.Context, sess *Session) error

	// SetUser attaches a user to the session, marking it authenticated.
	SetUser(ctx context.Context, id, userID string) error

	// Delete removes the session and any pending login state. Deleting a
	// session that does not exist is a no-op.
	Delete(ctx context.Context, id string) error

	// PutState stores the CSRF state token for a session, overwriting any
	// prior token. A session holds at most one live token.
	PutState(ctx context.Context, id, state string) error

	// ConsumeState removes and returns the session's state token in one
	// atomic step. Returns apperror.ErrNotFound when no token is live.
	// The token is gone after the call regardless of what the caller does
	// with it — validation failures must not leave it replayable.
	ConsumeState(ctx context.Context, id string) (string, error)
}
