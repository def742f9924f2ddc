// Package repository defines the storage interfaces the services depend
// on. The sqlite subpackage is the production implementation; tests use
// hand-written in-memory fakes.
package repository

import (
	"context"

	"github.com/chillgc/tierlist/internal/model"
)

type UserRepository interface {
	// Upsert inserts or updates the user keyed by Discord ID in a single
	// atomic statement. The admin flag is only ever raised by an upsert,
	// never lowered.
	Upsert(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type PersonRepository interface {
	// Create inserts a new person and fills in the generated ID.
	Create(ctx context.Context, person *model.Person) error
	GetByID(ctx context.Context, id int64) (*model.Person, error)
	// ListActive returns active people ordered by name ascending.
	ListActive(ctx context.Context) ([]model.Person, error)
	// SoftDelete flips the active flag off. Unknown ID → ErrNotFound;
	// an already-inactive person is a no-op success.
	SoftDelete(ctx context.Context, id int64) error
}

type RankingRepository interface {
	// Upsert inserts or overwrites the (user, person) ranking atomically.
	Upsert(ctx context.Context, userID string, personID int64, tier model.Tier) error
	// Delete reverts a person to unranked for the user. Idempotent.
	Delete(ctx context.Context, userID string, personID int64) error
	// ListByUser maps person ID → tier for everything the user has ranked.
	ListByUser(ctx context.Context, userID string) (map[int64]model.Tier, error)
	// ListAll returns every ranking row, including rows that reference
	// soft-deleted people; the aggregator filters by the active roster.
	ListAll(ctx context.Context) ([]model.Ranking, error)
}
