package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/domain/person"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func namedPerson(n string) *person.Person {
	return person.New(n)
}

func marry(a, b *person.Person) {
	a.SpouseID = &b.ID
	b.SpouseID = &a.ID
}

func TestScorePartitionZeroWithoutSignals(t *testing.T) {
	teams := [][]*person.Person{
		{namedPerson("Ana"), namedPerson("Bruno")},
		{namedPerson("Carla"), namedPerson("Diego")},
	}

	score := scorePartition(teams, map[string]struct{}{}, false)
	assert.Zero(t, score)
}

func TestScorePartitionRepeatDominates(t *testing.T) {
	teams := [][]*person.Person{
		{namedPerson("Ana"), namedPerson("Bruno")},
		{namedPerson("Carla"), namedPerson("Diego")},
	}

	history := map[string]struct{}{
		event.TeamsSignature(teamMemberIDs(teams)): {},
	}

	score := scorePartition(teams, history, false)
	assert.GreaterOrEqual(t, score, repeatPenalty)

	// Same grouping with team order flipped must still count as a repeat.
	flipped := [][]*person.Person{teams[1], teams[0]}
	assert.GreaterOrEqual(t, scorePartition(flipped, history, false), repeatPenalty)
}

func TestScorePartitionSpousePenalty(t *testing.T) {
	a, b := namedPerson("Ana"), namedPerson("Bruno")
	marry(a, b)

	together := [][]*person.Person{
		{a, b},
		{namedPerson("Carla"), namedPerson("Diego")},
	}
	apart := [][]*person.Person{
		{a, namedPerson("Carla")},
		{b, namedPerson("Diego")},
	}

	assert.Equal(t, spousePenalty, scorePartition(together, map[string]struct{}{}, false))
	assert.Zero(t, scorePartition(apart, map[string]struct{}{}, false))
}

func TestScorePartitionSpousePenaltySkippedForCouplesMode(t *testing.T) {
	a, b := namedPerson("Ana"), namedPerson("Bruno")
	marry(a, b)

	together := [][]*person.Person{
		{a, b},
		{namedPerson("Carla"), namedPerson("Diego")},
	}

	assert.Zero(t, scorePartition(together, map[string]struct{}{}, true))
}

func TestScorePartitionOneSidedLinkIsNotACouple(t *testing.T) {
	a, b := namedPerson("Ana"), namedPerson("Bruno")
	a.SpouseID = &b.ID

	together := [][]*person.Person{
		{a, b},
		{namedPerson("Carla"), namedPerson("Diego")},
	}

	assert.Zero(t, scorePartition(together, map[string]struct{}{}, false))
}

func TestScorePartitionPrefersBalancedAbility(t *testing.T) {
	strong1, strong2 := namedPerson("Ana"), namedPerson("Bruno")
	weak1, weak2 := namedPerson("Carla"), namedPerson("Diego")
	strong1.Ability = intPtr(9)
	strong2.Ability = intPtr(9)
	weak1.Ability = intPtr(1)
	weak2.Ability = intPtr(1)

	stacked := [][]*person.Person{{strong1, strong2}, {weak1, weak2}}
	balanced := [][]*person.Person{{strong1, weak1}, {strong2, weak2}}

	history := map[string]struct{}{}
	assert.Less(t, scorePartition(balanced, history, false), scorePartition(stacked, history, false))
}

func TestScorePartitionAbilityOutweighsAgeAndWeight(t *testing.T) {
	a, b, c, d := namedPerson("Ana"), namedPerson("Bruno"), namedPerson("Carla"), namedPerson("Diego")
	a.Ability, a.Age, a.WeightKg = intPtr(9), intPtr(20), floatPtr(60)
	b.Ability, b.Age, b.WeightKg = intPtr(9), intPtr(22), floatPtr(62)
	c.Ability, c.Age, c.WeightKg = intPtr(1), intPtr(21), floatPtr(61)
	d.Ability, d.Age, d.WeightKg = intPtr(1), intPtr(23), floatPtr(63)

	// Balancing ability splits the strong pair even though it leaves age
	// and weight slightly less even.
	abilityBalanced := [][]*person.Person{{a, c}, {b, d}}
	abilityStacked := [][]*person.Person{{a, b}, {c, d}}

	history := map[string]struct{}{}
	assert.Less(t, scorePartition(abilityBalanced, history, false), scorePartition(abilityStacked, history, false))
}

func TestSumVarianceIgnoresMissingAttributes(t *testing.T) {
	a, b := namedPerson("Ana"), namedPerson("Bruno")
	a.Ability = intPtr(4)
	// b has no ability value at all

	teams := [][]*person.Person{{a}, {b}}
	v := sumVariance(teams, func(p *person.Person) (float64, bool) {
		if p.Ability == nil {
			return 0, false
		}
		return float64(*p.Ability), true
	})

	// Sums are 4 and 0, mean 2, squared deviations 4 + 4.
	assert.InDelta(t, 8.0, v, 1e-9)
}
