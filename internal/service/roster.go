package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/discord"
	"github.com/chillgc/tierlist/internal/model"
	"github.com/chillgc/tierlist/internal/repository"
)

// BotLookup is the privileged profile fetch used when an admin adds a
// person by Discord ID alone.
type BotLookup interface {
	FetchProfileByID(ctx context.Context, discordID string) (*discord.Profile, error)
}

// RosterService manages the roster of rankable people.
type RosterService struct {
	people repository.PersonRepository
	bot    BotLookup
	logger *slog.Logger
}

func NewRosterService(people repository.PersonRepository, bot BotLookup, logger *slog.Logger) *RosterService {
	return &RosterService{people: people, bot: bot, logger: logger}
}

// ListActive returns the active roster, name-ascending.
func (s *RosterService) ListActive(ctx context.Context) ([]model.Person, error) {
	people, err := s.people.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/roster: listing people: %w", err)
	}
	return people, nil
}

// AddPersonInput is the admin's add-person request. Any subset of fields
// may be supplied; a Discord ID alone is enough because the missing name
// and avatar are resolved through the bot lookup.
type AddPersonInput struct {
	Name      string
	DiscordID string
	AvatarURL string
}

// Add creates a new roster entry.
//
// Resolution order mirrors the add-person form: explicit values win; a
// Discord ID fills gaps via the bot lookup; a still-missing avatar falls
// back to the deterministic default derived from the ID. A name must be
// resolvable one way or another.
func (s *RosterService) Add(ctx context.Context, actor *model.User, in AddPersonInput) (*model.Person, error) {
	name := strings.TrimSpace(in.Name)
	discordID := strings.TrimSpace(in.DiscordID)
	avatarURL := strings.TrimSpace(in.AvatarURL)

	if discordID != "" && (name == "" || avatarURL == "") {
		profile, err := s.bot.FetchProfileByID(ctx, discordID)
		if err != nil {
			// The lookup is best-effort: an explicit name can still carry
			// the request. Only the validation below decides failure.
			s.logger.Warn("bot profile lookup failed",
				slog.String("discordID", discordID),
				slog.String("error", err.Error()),
			)
		} else {
			if name == "" {
				name = profile.DisplayName()
			}
			if avatarURL == "" {
				avatarURL = discord.AvatarURL(discordID, profile.Avatar, 128)
			}
		}
	}

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required (or provide a valid discord_id)")
	}

	if avatarURL == "" && discordID != "" {
		avatarURL = discord.AvatarURL(discordID, nil, 128)
	}

	person := &model.Person{
		Name:    name,
		Active:  true,
		AddedBy: &actor.ID,
	}
	if discordID != "" {
		person.DiscordID = &discordID
	}
	if avatarURL != "" {
		person.AvatarURL = &avatarURL
	}

	if err := s.people.Create(ctx, person); err != nil {
		return nil, fmt.Errorf("service/roster: adding person: %w", err)
	}

	s.logger.Info("person added",
		slog.Int64("personID", person.ID),
		slog.String("name", person.Name),
		slog.String("addedBy", actor.ID),
	)

	return person, nil
}

// Delete soft-deletes a person. Their rankings stay stored but vanish
// from listings and the leaderboard.
func (s *RosterService) Delete(ctx context.Context, id int64) error {
	if err := s.people.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("person removed", slog.Int64("personID", id))
	return nil
}
