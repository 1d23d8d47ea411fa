package assignment

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/domain/person"
)

// PersonRepository is the read-only roster access the engine needs. The
// storage layer implements it; tests use in-memory fakes.
type PersonRepository interface {
	GetByIDs(ids []uuid.UUID) ([]*person.Person, error)
}

// completedRoundCounts tallies, per person, how many completed rounds of
// this event they have played in. The count drives equal-playing-time
// selection.
func completedRoundCounts(ev *event.Event) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)
	for gi := range ev.Games {
		g := &ev.Games[gi]
		for ri := range g.Rounds {
			r := &g.Rounds[ri]
			if r.CompletedAt == nil {
				continue
			}
			for _, id := range r.AssignedMemberIDs() {
				counts[id]++
			}
		}
	}
	return counts
}

// rankFairly orders people by ascending completed-round count, ties
// broken by case-insensitive name ascending. The sort is stable so equal
// entries keep pool order.
func rankFairly(people []*person.Person, counts map[uuid.UUID]int) {
	sort.SliceStable(people, func(i, j int) bool {
		ci, cj := counts[people[i].ID], counts[people[j].ID]
		if ci != cj {
			return ci < cj
		}
		return strings.ToLower(people[i].Name) < strings.ToLower(people[j].Name)
	})
}

// selectParticipants picks the required number of people from the
// eligible pool by fairness ranking. When regenerating a round that
// already has teams it first tries to exclude everyone currently
// assigned, forcing rotation; if that leaves too few it falls back to
// the unrestricted pool.
func selectParticipants(eligible []*person.Person, counts map[uuid.UUID]int, required int, exclude map[uuid.UUID]struct{}) ([]*person.Person, error) {
	if len(eligible) < required {
		return nil, &NotEnoughPlayersError{Required: required, Available: len(eligible)}
	}

	pool := eligible
	if len(exclude) > 0 {
		var rotated []*person.Person
		for _, p := range eligible {
			if _, assigned := exclude[p.ID]; !assigned {
				rotated = append(rotated, p)
			}
		}
		if len(rotated) >= required {
			pool = rotated
		}
	}

	ranked := make([]*person.Person, len(pool))
	copy(ranked, pool)
	rankFairly(ranked, counts)

	return ranked[:required], nil
}

// reconcilePreferred merges a preferred-player list (players carried over
// from a skipped game) with the eligible pool. Preferred ids that are no
// longer eligible are dropped; a short list is topped up by fairness
// ranking; an oversized list keeps the players with the most completed
// rounds.
func reconcilePreferred(eligible []*person.Person, counts map[uuid.UUID]int, required int, preferred []uuid.UUID) ([]*person.Person, error) {
	if len(eligible) < required {
		return nil, &NotEnoughPlayersError{Required: required, Available: len(eligible)}
	}

	byID := make(map[uuid.UUID]*person.Person, len(eligible))
	for _, p := range eligible {
		byID[p.ID] = p
	}

	var kept []*person.Person
	seen := make(map[uuid.UUID]struct{}, len(preferred))
	for _, id := range preferred {
		p, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, p)
	}

	switch {
	case len(kept) == required:
		return kept, nil

	case len(kept) > required:
		// Drop the least-experienced first: keep those with more playing time.
		sort.SliceStable(kept, func(i, j int) bool {
			ci, cj := counts[kept[i].ID], counts[kept[j].ID]
			if ci != cj {
				return ci > cj
			}
			return strings.ToLower(kept[i].Name) < strings.ToLower(kept[j].Name)
		})
		return kept[:required], nil

	default:
		var remaining []*person.Person
		for _, p := range eligible {
			if _, used := seen[p.ID]; !used {
				remaining = append(remaining, p)
			}
		}
		rankFairly(remaining, counts)
		kept = append(kept, remaining[:required-len(kept)]...)
		return kept, nil
	}
}

// pairCouples pairs people with their mutual spouses in fairness order.
// Unpaired singles are discarded.
func pairCouples(eligible []*person.Person, counts map[uuid.UUID]int) [][2]*person.Person {
	ranked := make([]*person.Person, len(eligible))
	copy(ranked, eligible)
	rankFairly(ranked, counts)

	byID := make(map[uuid.UUID]*person.Person, len(ranked))
	for _, p := range ranked {
		byID[p.ID] = p
	}

	var pairs [][2]*person.Person
	paired := make(map[uuid.UUID]struct{})
	for _, p := range ranked {
		if _, done := paired[p.ID]; done {
			continue
		}
		if p.SpouseID == nil {
			continue
		}
		spouse, present := byID[*p.SpouseID]
		if !present {
			continue
		}
		if _, done := paired[spouse.ID]; done {
			continue
		}
		if !p.IsMutualSpouse(spouse) {
			continue
		}
		paired[p.ID] = struct{}{}
		paired[spouse.ID] = struct{}{}
		pairs = append(pairs, [2]*person.Person{p, spouse})
	}
	return pairs
}
