package sqlite

import (
	"context"
	"testing"

	"github.com/chillgc/tierlist/internal/model"
)

// newTestDB opens a fresh in-memory database with the schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// mustUser inserts a user row; rankings reference users by foreign key.
func mustUser(t *testing.T, db *DB, id, username string) {
	t.Helper()
	err := db.Users().Upsert(context.Background(), &model.User{ID: id, Username: username})
	if err != nil {
		t.Fatalf("inserting user %s: %v", id, err)
	}
}

// mustPerson inserts a roster entry and returns its generated ID.
func mustPerson(t *testing.T, db *DB, name string) int64 {
	t.Helper()
	person := &model.Person{Name: name}
	if err := db.People().Create(context.Background(), person); err != nil {
		t.Fatalf("inserting person %s: %v", name, err)
	}
	return person.ID
}
