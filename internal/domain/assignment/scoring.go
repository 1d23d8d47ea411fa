package assignment

import (
	"github.com/google/uuid"

	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/domain/person"
)

// Penalty weights. An exact matchup repeat must dominate everything else,
// and a spousal co-placement must dominate every balance term, so the
// fixed penalties sit orders of magnitude apart from realistic variance
// sums.
const (
	repeatPenalty = 1_000_000.0
	spousePenalty = 10_000.0

	abilityWeight = 10.0
	ageWeight     = 5.0
	weightWeight  = 1.0
)

// scorePartition scores a candidate partition; lower is better, zero is
// unbeatable. history holds the matchup signatures of prior completed
// rounds in the same game.
func scorePartition(teams [][]*person.Person, history map[string]struct{}, couplesOnly bool) float64 {
	score := 0.0

	if _, seen := history[event.TeamsSignature(teamMemberIDs(teams))]; seen {
		score += repeatPenalty
	}

	if !couplesOnly {
		score += spousePenalty * float64(coPlacedCouples(teams))
	}

	score += abilityWeight * sumVariance(teams, func(p *person.Person) (float64, bool) {
		if p.Ability == nil {
			return 0, false
		}
		return float64(*p.Ability), true
	})
	score += ageWeight * sumVariance(teams, func(p *person.Person) (float64, bool) {
		if p.Age == nil {
			return 0, false
		}
		return float64(*p.Age), true
	})
	score += weightWeight * sumVariance(teams, func(p *person.Person) (float64, bool) {
		if p.WeightKg == nil {
			return 0, false
		}
		return *p.WeightKg, true
	})

	return score
}

// coPlacedCouples counts teams holding both members of a mutual spousal
// pair, one count per pair
func coPlacedCouples(teams [][]*person.Person) int {
	count := 0
	for _, team := range teams {
		for i := 0; i < len(team); i++ {
			for j := i + 1; j < len(team); j++ {
				if team[i].IsMutualSpouse(team[j]) {
					count++
				}
			}
		}
	}
	return count
}

// sumVariance computes the squared deviation of per-team attribute sums
// from their mean. People without the attribute contribute nothing to
// their team's sum.
func sumVariance(teams [][]*person.Person, value func(*person.Person) (float64, bool)) float64 {
	if len(teams) == 0 {
		return 0
	}

	sums := make([]float64, len(teams))
	for i, team := range teams {
		for _, p := range team {
			if v, ok := value(p); ok {
				sums[i] += v
			}
		}
	}

	mean := 0.0
	for _, s := range sums {
		mean += s
	}
	mean /= float64(len(sums))

	variance := 0.0
	for _, s := range sums {
		d := s - mean
		variance += d * d
	}
	return variance
}

// teamMemberIDs projects a partition of people onto their ids
func teamMemberIDs(teams [][]*person.Person) [][]uuid.UUID {
	ids := make([][]uuid.UUID, len(teams))
	for i, team := range teams {
		ids[i] = make([]uuid.UUID, len(team))
		for j, p := range team {
			ids[i][j] = p.ID
		}
	}
	return ids
}
