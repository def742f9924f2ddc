package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/chillgc/tierlist/internal/model"
	"github.com/chillgc/tierlist/internal/repository"
)

// LeaderboardService produces the aggregated results view.
type LeaderboardService struct {
	people   repository.PersonRepository
	rankings repository.RankingRepository
}

func NewLeaderboardService(people repository.PersonRepository, rankings repository.RankingRepository) *LeaderboardService {
	return &LeaderboardService{people: people, rankings: rankings}
}

// Compute loads the active roster and every ranking row and aggregates
// them. Aggregation itself is the pure Leaderboard function.
func (s *LeaderboardService) Compute(ctx context.Context) ([]model.PersonResult, error) {
	people, err := s.people.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/leaderboard: listing people: %w", err)
	}

	rankings, err := s.rankings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/leaderboard: listing rankings: %w", err)
	}

	return Leaderboard(people, rankings), nil
}

// Leaderboard aggregates rankings into one sorted result row per person.
//
// Every person in the roster appears, including people nobody has ranked
// yet (all-zero tallies, absent average). Rankings for people outside the
// roster — soft-deleted ones — are dropped.
//
// Scoring: total = sum of tier counts; when total > 0 the average is the
// weighted mean (S=5 .. F=0) rounded to two decimals, otherwise absent.
//
// Ordering is load-bearing for the UI's gold/silver/bronze badges:
// descending by average, absent averages strictly last, ties between
// present averages broken by name ascending, and two absent averages keep
// their roster (name) order.
func Leaderboard(people []model.Person, rankings []model.Ranking) []model.PersonResult {
	results := make([]model.PersonResult, 0, len(people))
	index := make(map[int64]int, len(people))

	for i, p := range people {
		tiers := make(map[model.Tier]int, 6)
		for _, t := range model.AllTiers() {
			tiers[t] = 0
		}
		results = append(results, model.PersonResult{
			ID:        p.ID,
			Name:      p.Name,
			AvatarURL: p.AvatarURL,
			Tiers:     tiers,
		})
		index[p.ID] = i
	}

	for _, r := range rankings {
		i, ok := index[r.PersonID]
		if !ok {
			continue // ranking for a soft-deleted person
		}
		results[i].Tiers[r.Tier]++
		results[i].Total++
	}

	for i := range results {
		if results[i].Total == 0 {
			continue
		}
		sum := 0
		for tier, count := range results[i].Tiers {
			sum += tier.Score() * count
		}
		avg := math.Round(float64(sum)/float64(results[i].Total)*100) / 100
		results[i].AverageScore = &avg
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].AverageScore, results[j].AverageScore
		switch {
		case a == nil && b == nil:
			return false // both unranked: keep roster order
		case a == nil:
			return false // unranked sorts after ranked
		case b == nil:
			return true
		case *a != *b:
			return *a > *b
		default:
			return results[i].Name < results[j].Name
		}
	})

	return results
}
