package sqlite

import (
	"context"
	"database/sql"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/model"
	"github.com/chillgc/tierlist/internal/repository"
)

// RankingDB implements repository.RankingRepository.
type RankingDB struct {
	conn *sql.DB
}

var _ repository.RankingRepository = (*RankingDB)(nil)

// Upsert inserts or overwrites the (user, person) ranking in one atomic
// statement. Concurrent writers to the same pair cannot interleave.
func (r *RankingDB) Upsert(ctx context.Context, userID string, personID int64, tier model.Tier) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO rankings (user_id, person_id, tier)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id, person_id) DO UPDATE SET
			tier       = excluded.tier,
			updated_at = CURRENT_TIMESTAMP`,
		userID, personID, string(tier),
	)
	if err != nil {
		return apperror.Persistence("upserting ranking", err)
	}
	return nil
}

// Delete reverts a person to unranked for the user. Deleting a ranking
// that does not exist is a no-op.
func (r *RankingDB) Delete(ctx context.Context, userID string, personID int64) error {
	_, err := r.conn.ExecContext(ctx,
		`DELETE FROM rankings WHERE user_id = ? AND person_id = ?`,
		userID, personID,
	)
	if err != nil {
		return apperror.Persistence("deleting ranking", err)
	}
	return nil
}

// ListByUser maps person ID → tier for everything the user has ranked.
func (r *RankingDB) ListByUser(ctx context.Context, userID string) (map[int64]model.Tier, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT person_id, tier FROM rankings WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, apperror.Persistence("listing rankings", err)
	}
	defer rows.Close()

	rankings := make(map[int64]model.Tier)
	for rows.Next() {
		var (
			personID int64
			tier     string
		)
		if err := rows.Scan(&personID, &tier); err != nil {
			return nil, apperror.Persistence("scanning ranking", err)
		}
		rankings[personID] = model.Tier(tier)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Persistence("listing rankings", err)
	}

	return rankings, nil
}

// ListAll returns every ranking row, soft-deleted people included; the
// aggregator joins against the active roster itself.
func (r *RankingDB) ListAll(ctx context.Context) ([]model.Ranking, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT user_id, person_id, tier, updated_at FROM rankings`,
	)
	if err != nil {
		return nil, apperror.Persistence("listing all rankings", err)
	}
	defer rows.Close()

	rankings := []model.Ranking{}
	for rows.Next() {
		var (
			ranking model.Ranking
			tier    string
		)
		if err := rows.Scan(&ranking.UserID, &ranking.PersonID, &tier, &ranking.UpdatedAt); err != nil {
			return nil, apperror.Persistence("scanning ranking", err)
		}
		ranking.Tier = model.Tier(tier)
		rankings = append(rankings, ranking)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Persistence("listing all rankings", err)
	}

	return rankings, nil
}
