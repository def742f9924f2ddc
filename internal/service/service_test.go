package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/discord"
	"github.com/chillgc/tierlist/internal/model"
)

// Shared in-memory fakes for the service tests. They implement the
// repository interfaces and the provider interfaces with just enough
// behavior to exercise the business rules.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Upsert(_ context.Context, user *model.User) error {
	stored := *user
	if prev, ok := f.users[user.ID]; ok && prev.IsAdmin {
		stored.IsAdmin = true
	}
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *user
	return &copied, nil
}

type fakePersonRepo struct {
	people map[int64]*model.Person
	nextID int64
}

func newFakePersonRepo() *fakePersonRepo {
	return &fakePersonRepo{people: make(map[int64]*model.Person), nextID: 1}
}

func (f *fakePersonRepo) Create(_ context.Context, person *model.Person) error {
	person.ID = f.nextID
	f.nextID++
	person.Active = true
	stored := *person
	f.people[person.ID] = &stored
	return nil
}

func (f *fakePersonRepo) GetByID(_ context.Context, id int64) (*model.Person, error) {
	person, ok := f.people[id]
	if !ok {
		return nil, apperror.NotFound("person", strconv.FormatInt(id, 10))
	}
	copied := *person
	return &copied, nil
}

func (f *fakePersonRepo) ListActive(_ context.Context) ([]model.Person, error) {
	people := []model.Person{}
	for _, p := range f.people {
		if p.Active {
			people = append(people, *p)
		}
	}
	sort.Slice(people, func(i, j int) bool { return people[i].Name < people[j].Name })
	return people, nil
}

func (f *fakePersonRepo) SoftDelete(_ context.Context, id int64) error {
	person, ok := f.people[id]
	if !ok {
		return apperror.NotFound("person", strconv.FormatInt(id, 10))
	}
	person.Active = false
	return nil
}

type rankingKey struct {
	userID   string
	personID int64
}

type fakeRankingRepo struct {
	rankings map[rankingKey]model.Tier
}

func newFakeRankingRepo() *fakeRankingRepo {
	return &fakeRankingRepo{rankings: make(map[rankingKey]model.Tier)}
}

func (f *fakeRankingRepo) Upsert(_ context.Context, userID string, personID int64, tier model.Tier) error {
	f.rankings[rankingKey{userID, personID}] = tier
	return nil
}

func (f *fakeRankingRepo) Delete(_ context.Context, userID string, personID int64) error {
	delete(f.rankings, rankingKey{userID, personID})
	return nil
}

func (f *fakeRankingRepo) ListByUser(_ context.Context, userID string) (map[int64]model.Tier, error) {
	out := make(map[int64]model.Tier)
	for key, tier := range f.rankings {
		if key.userID == userID {
			out[key.personID] = tier
		}
	}
	return out, nil
}

func (f *fakeRankingRepo) ListAll(_ context.Context) ([]model.Ranking, error) {
	out := []model.Ranking{}
	for key, tier := range f.rankings {
		out = append(out, model.Ranking{
			UserID:    key.userID,
			PersonID:  key.personID,
			Tier:      tier,
			UpdatedAt: time.Now(),
		})
	}
	return out, nil
}

// fakeProvider scripts the identity provider's responses.
type fakeProvider struct {
	profile       *discord.Profile
	guilds        []discord.Guild
	exchangeErr   error
	profileErr    error
	guildsErr     error
	exchangedCode string
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://discord.test/authorize?state=" + state
}

func (f *fakeProvider) ExchangeCode(_ context.Context, code string) (*discord.Tokens, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	f.exchangedCode = code
	return &discord.Tokens{
		AccessToken:  "access-" + code,
		RefreshToken: "refresh-" + code,
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeProvider) FetchProfile(_ context.Context, _ string) (*discord.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeProvider) FetchGuilds(_ context.Context, _ string) ([]discord.Guild, error) {
	if f.guildsErr != nil {
		return nil, f.guildsErr
	}
	return f.guilds, nil
}

// fakeBot scripts the privileged profile-by-ID lookup.
type fakeBot struct {
	profiles map[string]*discord.Profile
	err      error
}

func (f *fakeBot) FetchProfileByID(_ context.Context, discordID string) (*discord.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.profiles[discordID]
	if !ok {
		return nil, apperror.ProfileFetch(errors.New("unknown user"))
	}
	return profile, nil
}
