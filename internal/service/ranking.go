package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/model"
	"github.com/chillgc/tierlist/internal/repository"
)

// RankingService manages a user's own tier placements.
type RankingService struct {
	people   repository.PersonRepository
	rankings repository.RankingRepository
	logger   *slog.Logger
}

func NewRankingService(people repository.PersonRepository, rankings repository.RankingRepository, logger *slog.Logger) *RankingService {
	return &RankingService{people: people, rankings: rankings, logger: logger}
}

// Rankings returns person ID → tier for everything the user has ranked.
func (s *RankingService) Rankings(ctx context.Context, user *model.User) (map[int64]model.Tier, error) {
	rankings, err := s.rankings.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/ranking: listing rankings for %s: %w", user.ID, err)
	}
	return rankings, nil
}

// Set places a person into a tier for the user, overwriting any previous
// placement.
//
// Checked before anything is written:
//   - the tier must parse to one of the six values (case-insensitive)
//   - the person must exist and be active
//   - the person must not be the user themself — a person whose linked
//     Discord ID equals the acting user's ID can never be ranked by them
func (s *RankingService) Set(ctx context.Context, user *model.User, personID int64, rawTier string) error {
	tier, ok := model.ParseTier(rawTier)
	if !ok {
		return apperror.ValidationFailed("tier", "invalid tier, must be S, A, B, C, D, or F")
	}

	person, err := s.people.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return fmt.Errorf("service/ranking: loading person %d: %w", personID, err)
	}
	if !person.Active {
		return apperror.NotFound("person", strconv.FormatInt(personID, 10))
	}

	if person.DiscordID != nil && *person.DiscordID == user.ID {
		return apperror.SelfRank()
	}

	if err := s.rankings.Upsert(ctx, user.ID, personID, tier); err != nil {
		return fmt.Errorf("service/ranking: saving ranking: %w", err)
	}

	s.logger.Debug("ranking saved",
		slog.String("userID", user.ID),
		slog.Int64("personID", personID),
		slog.String("tier", string(tier)),
	)

	return nil
}

// Clear reverts a person to unranked for the user. Idempotent — clearing
// an absent ranking succeeds.
func (s *RankingService) Clear(ctx context.Context, user *model.User, personID int64) error {
	if err := s.rankings.Delete(ctx, user.ID, personID); err != nil {
		return fmt.Errorf("service/ranking: clearing ranking: %w", err)
	}
	return nil
}
