package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/session"
)

func mustSession(t *testing.T, db *DB, id string) {
	t.Helper()
	if err := db.Sessions().Create(context.Background(), &session.Session{ID: id}); err != nil {
		t.Fatalf("creating session %s: %v", id, err)
	}
}

func TestSessionCreateGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	sess := &session.Session{ID: "s1"}
	if err := db.Sessions().Create(ctx, sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.CreatedAt.IsZero() || sess.UpdatedAt.IsZero() {
		t.Error("Create() should fill the timestamps")
	}

	got, err := db.Sessions().Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "s1" {
		t.Errorf("ID = %q, want %q", got.ID, "s1")
	}
	if got.Authenticated() {
		t.Error("new session should be anonymous")
	}
}

func TestSessionGet_Unknown(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Sessions().Get(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSessionSetUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustSession(t, db, "s1")
	if err := db.Sessions().SetUser(ctx, "s1", "user-1"); err != nil {
		t.Fatalf("SetUser() error = %v", err)
	}

	got, err := db.Sessions().Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UserID != "user-1" || !got.Authenticated() {
		t.Errorf("session = %+v, want user-1 attached", got)
	}

	if err := db.Sessions().SetUser(ctx, "missing", "user-1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("SetUser() on unknown session error = %v, want ErrNotFound", err)
	}
}

func TestSessionDelete_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustSession(t, db, "s1")
	if err := db.Sessions().Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := db.Sessions().Delete(ctx, "s1"); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}
	if _, err := db.Sessions().Get(ctx, "s1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSessionConsumeState_SingleUse(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustSession(t, db, "s1")
	if err := db.Sessions().PutState(ctx, "s1", "state-1"); err != nil {
		t.Fatalf("PutState() error = %v", err)
	}

	state, err := db.Sessions().ConsumeState(ctx, "s1")
	if err != nil {
		t.Fatalf("ConsumeState() error = %v", err)
	}
	if state != "state-1" {
		t.Errorf("ConsumeState() = %q, want %q", state, "state-1")
	}

	if _, err := db.Sessions().ConsumeState(ctx, "s1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second ConsumeState() error = %v, want ErrNotFound", err)
	}
}

func TestSessionPutState_Overwrites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustSession(t, db, "s1")
	db.Sessions().PutState(ctx, "s1", "old")
	if err := db.Sessions().PutState(ctx, "s1", "new"); err != nil {
		t.Fatalf("PutState() error = %v", err)
	}

	state, err := db.Sessions().ConsumeState(ctx, "s1")
	if err != nil {
		t.Fatalf("ConsumeState() error = %v", err)
	}
	if state != "new" {
		t.Errorf("ConsumeState() = %q, want the latest state", state)
	}
}

func TestSessionDelete_CascadesState(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustSession(t, db, "s1")
	db.Sessions().PutState(ctx, "s1", "state-1")
	if err := db.Sessions().Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := db.Sessions().ConsumeState(ctx, "s1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ConsumeState() after Delete error = %v, want ErrNotFound", err)
	}
}
