package sqlite

import (
	"context"
	"database/sql"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/session"
)

// SessionDB implements session.Store. Sessions are persisted so logins
// survive a server restart; state tokens live in their own table keyed by
// session so consuming one is a single DELETE.
type SessionDB struct {
	conn *sql.DB
}

var _ session.Store = (*SessionDB)(nil)

func (s *SessionDB) Get(ctx context.Context, id string) (*session.Session, error) {
	var (
		sess   session.Session
		userID sql.NullString
	)

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, updated_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &userID, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("session", id)
		}
		return nil, apperror.Persistence("getting session", err)
	}

	if userID.Valid {
		sess.UserID = userID.String
	}

	return &sess, nil
}

func (s *SessionDB) Create(ctx context.Context, sess *session.Session) error {
	err := s.conn.QueryRowContext(ctx,
		`INSERT INTO sessions (id) VALUES (?) RETURNING created_at, updated_at`,
		sess.ID,
	).Scan(&sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return apperror.Persistence("creating session", err)
	}
	return nil
}

func (s *SessionDB) SetUser(ctx context.Context, id, userID string) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE sessions SET user_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		userID, id,
	)
	if err != nil {
		return apperror.Persistence("updating session", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Persistence("updating session", err)
	}
	if affected == 0 {
		return apperror.NotFound("session", id)
	}

	return nil
}

// Delete removes the session; the login_states row goes with it via the
// ON DELETE CASCADE foreign key. No-op for unknown IDs.
func (s *SessionDB) Delete(ctx context.Context, id string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return apperror.Persistence("deleting session", err)
	}
	return nil
}

// PutState stores the session's CSRF state token, replacing any prior
// token. The PRIMARY KEY on session_id enforces at most one live token.
func (s *SessionDB) PutState(ctx context.Context, id, state string) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO login_states (session_id, state)
		 VALUES (?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
			state      = excluded.state,
			created_at = CURRENT_TIMESTAMP`,
		id, state,
	)
	if err != nil {
		return apperror.Persistence("storing login state", err)
	}
	return nil
}

// ConsumeState removes and returns the token in one statement. The
// DELETE .. RETURNING makes the read-and-destroy atomic: of two racing
// login completions, at most one ever sees the token.
func (s *SessionDB) ConsumeState(ctx context.Context, id string) (string, error) {
	var state string

	err := s.conn.QueryRowContext(ctx,
		`DELETE FROM login_states WHERE session_id = ? RETURNING state`,
		id,
	).Scan(&state)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", apperror.NotFound("login state", id)
		}
		return "", apperror.Persistence("consuming login state", err)
	}

	return state, nil
}
