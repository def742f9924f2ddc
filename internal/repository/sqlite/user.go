package sqlite

import (
	"context"
	"database/sql"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/model"
	"github.com/chillgc/tierlist/internal/repository"
)

// UserDB implements repository.UserRepository.
type UserDB struct {
	conn *sql.DB
}

var _ repository.UserRepository = (*UserDB)(nil)

// Upsert inserts or updates a user keyed by Discord ID.
//
// A single INSERT .. ON CONFLICT DO UPDATE keeps concurrent logins for the
// same account from interleaving partial writes. The admin flag is OR'd
// with the stored value: an upsert can grant admin (bootstrap list) but a
// later login never revokes it.
func (u *UserDB) Upsert(ctx context.Context, user *model.User) error {
	isAdmin := 0
	if user.IsAdmin {
		isAdmin = 1
	}

	_, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, avatar, is_admin, access_token, refresh_token, token_expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			username         = excluded.username,
			avatar           = excluded.avatar,
			is_admin         = MAX(users.is_admin, excluded.is_admin),
			access_token     = excluded.access_token,
			refresh_token    = excluded.refresh_token,
			token_expires_at = excluded.token_expires_at,
			updated_at       = CURRENT_TIMESTAMP`,
		user.ID,
		user.Username,
		user.Avatar,
		isAdmin,
		user.AccessToken,
		user.RefreshToken,
		user.TokenExpiresAt,
	)
	if err != nil {
		return apperror.Persistence("upserting user "+user.ID, err)
	}

	return nil
}

// GetByID retrieves a user by Discord ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	var (
		user      model.User
		avatar    sql.NullString
		isAdmin   int
		expiresAt sql.NullTime
	)

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, username, avatar, is_admin, access_token, refresh_token, token_expires_at, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&user.ID,
		&user.Username,
		&avatar,
		&isAdmin,
		&user.AccessToken,
		&user.RefreshToken,
		&expiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, apperror.Persistence("getting user "+id, err)
	}

	if avatar.Valid {
		user.Avatar = &avatar.String
	}
	user.IsAdmin = isAdmin != 0
	if expiresAt.Valid {
		user.TokenExpiresAt = &expiresAt.Time
	}

	return &user, nil
}
