package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/model"
)

type rankingFixture struct {
	svc      *RankingService
	people   *fakePersonRepo
	rankings *fakeRankingRepo
	user     *model.User
}

func newRankingFixture() *rankingFixture {
	people := newFakePersonRepo()
	rankings := newFakeRankingRepo()
	return &rankingFixture{
		svc:      NewRankingService(people, rankings, testLogger()),
		people:   people,
		rankings: rankings,
		user:     &model.User{ID: "111", Username: "alice"},
	}
}

func (f *rankingFixture) addPerson(t *testing.T, name string, discordID *string) int64 {
	t.Helper()
	person := &model.Person{Name: name, DiscordID: discordID}
	require.NoError(t, f.people.Create(context.Background(), person))
	return person.ID
}

func TestRankingSet(t *testing.T) {
	f := newRankingFixture()
	ctx := context.Background()
	personID := f.addPerson(t, "Bob", nil)

	require.NoError(t, f.svc.Set(ctx, f.user, personID, "b"))

	got, err := f.svc.Rankings(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, map[int64]model.Tier{personID: model.TierB}, got)

	// Overwrite, not duplicate.
	require.NoError(t, f.svc.Set(ctx, f.user, personID, "S"))
	got, err = f.svc.Rankings(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, map[int64]model.Tier{personID: model.TierS}, got)
}

func TestRankingSet_InvalidTier(t *testing.T) {
	f := newRankingFixture()
	personID := f.addPerson(t, "Bob", nil)

	for _, raw := range []string{"E", "", "SS", "1"} {
		err := f.svc.Set(context.Background(), f.user, personID, raw)
		assert.ErrorIs(t, err, apperror.ErrValidation, "tier %q should be rejected", raw)
	}
	assert.Empty(t, f.rankings.rankings, "nothing should be written")
}

func TestRankingSet_UnknownPerson(t *testing.T) {
	f := newRankingFixture()

	err := f.svc.Set(context.Background(), f.user, 999, "A")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRankingSet_InactivePerson(t *testing.T) {
	f := newRankingFixture()
	ctx := context.Background()
	personID := f.addPerson(t, "Bob", nil)
	require.NoError(t, f.people.SoftDelete(ctx, personID))

	err := f.svc.Set(ctx, f.user, personID, "A")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRankingSet_SelfRankForbidden(t *testing.T) {
	f := newRankingFixture()
	ctx := context.Background()

	self := f.user.ID
	personID := f.addPerson(t, "Alice", &self)

	err := f.svc.Set(ctx, f.user, personID, "S")
	assert.ErrorIs(t, err, apperror.ErrSelfRank)
	assert.Empty(t, f.rankings.rankings, "no ranking should be written")

	// Another user may rank the same person.
	other := &model.User{ID: "222", Username: "bob"}
	require.NoError(t, f.svc.Set(ctx, other, personID, "S"))
}

func TestRankingClear_Idempotent(t *testing.T) {
	f := newRankingFixture()
	ctx := context.Background()
	personID := f.addPerson(t, "Bob", nil)

	require.NoError(t, f.svc.Set(ctx, f.user, personID, "A"))
	require.NoError(t, f.svc.Clear(ctx, f.user, personID))

	got, err := f.svc.Rankings(ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Clearing again succeeds.
	require.NoError(t, f.svc.Clear(ctx, f.user, personID))
}
