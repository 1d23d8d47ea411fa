package assignment

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/gamenight-api/internal/domain/catalog"
	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/domain/person"
)

// fakeRoster implements PersonRepository over an in-memory map, returning
// people in requested order the way the storage layer does
type fakeRoster struct {
	people map[uuid.UUID]*person.Person
}

func newFakeRoster(people ...*person.Person) *fakeRoster {
	r := &fakeRoster{people: make(map[uuid.UUID]*person.Person)}
	for _, p := range people {
		r.people[p.ID] = p
	}
	return r
}

func (r *fakeRoster) GetByIDs(ids []uuid.UUID) ([]*person.Person, error) {
	var out []*person.Person
	for _, id := range ids {
		if p, ok := r.people[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func roster(names ...string) []*person.Person {
	people := make([]*person.Person, len(names))
	for i, n := range names {
		people[i] = namedPerson(n)
	}
	return people
}

func eventWithPool(people []*person.Person) *event.Event {
	ev := event.NewEvent("noche de juegos")
	ids := make([]uuid.UUID, len(people))
	for i, p := range people {
		ids[i] = p.ID
	}
	ev.SetParticipantUUIDs(ids)
	return ev
}

func openTemplate(teamCount, teamSize int) *catalog.GameTemplate {
	return &catalog.GameTemplate{
		ID:            uuid.New(),
		Name:          "Foosball",
		TeamCount:     teamCount,
		TeamSize:      teamSize,
		RoundsPerGame: 3,
		TeamType:      catalog.TeamTypeOpen,
	}
}

func testEngine(people []*person.Person) *Engine {
	return NewEngine(newFakeRoster(people...), WithRandSource(rand.NewSource(1)))
}

func TestGenerateRejectsForeignRound(t *testing.T) {
	people := roster("Ana", "Bruno", "Carla", "Diego")
	ev := eventWithPool(people)
	tpl := openTemplate(2, 2)
	g := event.NewEventGame(ev.ID, tpl.ID, 0)
	foreign := event.NewRound(uuid.New(), 0)

	e := testEngine(people)

	_, err := e.Generate(ev, g, foreign, tpl)
	var missing *MissingEventGameError
	assert.ErrorAs(t, err, &missing)

	_, err = e.Generate(ev, nil, event.NewRound(g.ID, 0), tpl)
	assert.ErrorAs(t, err, &missing)
}

func TestGeneratePartitionShape(t *testing.T) {
	people := roster("Ana", "Bruno", "Carla", "Diego", "Elena", "Franco", "Gloria", "Hugo")
	ev := eventWithPool(people)
	tpl := openTemplate(2, 2)
	g := event.NewEventGame(ev.ID, tpl.ID, 0)
	r := event.NewRound(g.ID, 0)

	teams, err := testEngine(people).Generate(ev, g, r, tpl)
	require.NoError(t, err)

	require.Len(t, teams, 2)
	seen := make(map[uuid.UUID]bool)
	poolIDs := make(map[uuid.UUID]bool)
	for _, p := range people {
		poolIDs[p.ID] = true
	}
	for _, team := range teams {
		require.Len(t, team.MemberIDs, 2)
		assert.NotEqual(t, uuid.Nil, team.ID)
		for _, id := range team.MemberIDs {
			assert.False(t, seen[id], "no player may appear twice")
			assert.True(t, poolIDs[id], "every member must come from the pool")
			seen[id] = true
		}
	}
	assert.Len(t, seen, 4)
}

func TestGenerateNotEnoughPlayers(t *testing.T) {
	people := roster("Ana", "Bruno", "Carla")
	ev := eventWithPool(people)
	tpl := openTemplate(2, 2)
	g := event.NewEventGame(ev.ID, tpl.ID, 0)
	r := event.NewRound(g.ID, 0)

	_, err := testEngine(people).Generate(ev, g, r, tpl)

	var notEnough *NotEnoughPlayersError
	require.ErrorAs(t, err, &notEnough)
	assert.Equal(t, 4, notEnough.Required)
	assert.Equal(t, 3, notEnough.Available)
}

func TestGenerateSkipsInactivePlayers(t *testing.T) {
	people := roster("Ana", "Bruno", "Carla", "Diego", "Elena")
	people[4].Active = false
	ev := eventWithPool(people)
	tpl := openTemplate(2, 2)
	g := event.NewEventGame(ev.ID, tpl.ID, 0)
	r := event.NewRound(g.ID, 0)

	teams, err := testEngine(people).Generate(ev, g, r, tpl)
	require.NoError(t, err)

	for _, team := range teams {
		assert.NotContains(t, team.MemberIDs, people[4].ID)
	}
}

func TestGenerateFavorsLeastPlayed(t *testing.T) {
	people := roster("Ana", "Bruno", "Carla", "Diego", "Elena", "Franco")
	ev := eventWithPool(people)
	tpl := openTemplate(2, 2)

	// Ana and Bruno already played a completed round of an earlier game.
	earlier := event.NewEventGame(ev.ID, tpl.ID, 0)
	played := event.NewRound(earlier.ID, 0)
	played.Teams = []event.RoundTeam{
		event.NewRoundTeam([]uuid.UUID{people[0].ID, people[1].ID}),
	}
	now := played.CreatedAt
	played.CompletedAt = &now
	earlier.Rounds = []event.Round{*played}

	g := event.NewEventGame(ev.ID, tpl.ID, 1)
	ev.Games = []event.EventGame{*earlier, *g}
	r := event.NewRound(g.ID, 0)

	teams, err := testEngine(people).Generate(ev, g, r, tpl)
	require.NoError(t, err)

	var selected []uuid.UUID
	for _, team := range teams {
		selected = append(selected, team.MemberIDs...)
	}
	assert.NotContains(t, selected, people[0].ID)
	assert.NotContains(t, selected, people[1].ID)
}

func TestGenerateAvoidsRepeatMatchup(t *testing.T) {
	people := roster("Ana", "Bruno", "Carla", "Diego")
	ev := eventWithPool(people)
	tpl := openTemplate(2, 2)
	g := event.NewEventGame(ev.ID, tpl.ID, 0)

	prior := event.NewRound(g.ID, 0)
	prior.Teams = []event.RoundTeam{
		event.NewRoundTeam([]uuid.UUID{people[0].ID, people[1].ID}),
		event.NewRoundTeam([]uuid.UUID{people[2].ID, people[3].ID}),
	}
	now := prior.CreatedAt
	prior.CompletedAt = &now
	g.Rounds = []event.Round{*prior}

	r := event.NewRound(g.ID, 1)

	teams, err := testEngine(people).Generate(ev, g, r, tpl)
	require.NoError(t, err)

	members := make([][]uuid.UUID, len(teams))
	for i, team := range teams {
		members[i] = team.MemberIDs
	}
	assert.NotEqual(t, prior.Signature(), event.TeamsSignature(members),
		"with alternatives available the prior matchup must not repeat")
}

func TestGenerateRotatesAwayFromCurrentTeams(t *testing.T) {
	people := roster("Ana", "Bruno", "Carla", "Diego", "Elena", "Franco", "Gloria", "Hugo")
	ev := eventWithPool(people)
	tpl := openTemplate(2, 2)
	g := event.NewEventGame(ev.ID, tpl.ID, 0)

	r := event.NewRound(g.ID, 0)
	r.Teams = []event.RoundTeam{
		event.NewRoundTeam([]uuid.UUID{people[0].ID, people[1].ID}),
		event.NewRoundTeam([]uuid.UUID{people[2].ID, people[3].ID}),
	}
	g.Rounds = []event.Round{*r}

	teams, err := testEngine(people).Generate(ev, g, r, tpl)
	require.NoError(t, err)

	assigned := map[uuid.UUID]bool{
		people[0].ID: true, people[1].ID: true,
		people[2].ID: true, people[3].ID: true,
	}
	for _, team := range teams {
		for _, id := range team.MemberIDs {
			assert.False(t, assigned[id], "regeneration should rotate in the benched players")
		}
	}
}

func TestGenerateWithPreferredKeepsCarriedPlayers(t *testing.T) {
	people := roster("Ana", "Bruno", "Carla", "Diego", "Elena", "Franco")
	ev := eventWithPool(people)
	tpl := openTemplate(2, 2)
	g := event.NewEventGame(ev.ID, tpl.ID, 0)
	r := event.NewRound(g.ID, 0)

	preferred := []uuid.UUID{people[4].ID, people[5].ID}
	teams, err := testEngine(people).GenerateWithPreferred(ev, g, r, tpl, preferred)
	require.NoError(t, err)

	var selected []uuid.UUID
	for _, team := range teams {
		selected = append(selected, team.MemberIDs...)
	}
	assert.Contains(t, selected, people[4].ID)
	assert.Contains(t, selected, people[5].ID)
}

func TestGenerateCouples(t *testing.T) {
	people := roster("Ana", "Bruno", "Carla", "Diego", "Elena", "Franco")
	marry(people[0], people[1])
	marry(people[2], people[3])
	marry(people[4], people[5])

	ev := eventWithPool(people)
	tpl := openTemplate(3, 2)
	tpl.TeamType = catalog.TeamTypeCouples
	g := event.NewEventGame(ev.ID, tpl.ID, 0)
	r := event.NewRound(g.ID, 0)

	teams, err := testEngine(people).Generate(ev, g, r, tpl)
	require.NoError(t, err)

	require.Len(t, teams, 3)
	for _, team := range teams {
		require.Len(t, team.MemberIDs, 2)
		a := people[indexOf(people, team.MemberIDs[0])]
		b := people[indexOf(people, team.MemberIDs[1])]
		assert.True(t, a.IsMutualSpouse(b), "each couples team must be a married pair")
	}
}

func TestGenerateCouplesNotEnough(t *testing.T) {
	people := roster("Ana", "Bruno", "Carla", "Diego")
	marry(people[0], people[1])
	// Carla and Diego are not linked.

	ev := eventWithPool(people)
	tpl := openTemplate(2, 2)
	tpl.TeamType = catalog.TeamTypeCouples
	g := event.NewEventGame(ev.ID, tpl.ID, 0)
	r := event.NewRound(g.ID, 0)

	_, err := testEngine(people).Generate(ev, g, r, tpl)

	var notEnough *NotEnoughCouplesError
	require.ErrorAs(t, err, &notEnough)
	assert.Equal(t, 2, notEnough.Required)
	assert.Equal(t, 1, notEnough.Available)
}

func TestGenerateHonorsGameOverrides(t *testing.T) {
	people := roster("Ana", "Bruno", "Carla", "Diego", "Elena", "Franco")
	ev := eventWithPool(people)
	tpl := openTemplate(2, 2)
	g := event.NewEventGame(ev.ID, tpl.ID, 0)
	three := 3
	g.TeamCountOverride = &three

	teams, err := testEngine(people).Generate(ev, g, event.NewRound(g.ID, 0), tpl)
	require.NoError(t, err)

	assert.Len(t, teams, 3)
}

func TestGenerateIsDeterministicWithFixedSource(t *testing.T) {
	people := roster("Ana", "Bruno", "Carla", "Diego", "Elena", "Franco", "Gloria", "Hugo")
	ev := eventWithPool(people)
	tpl := openTemplate(2, 4)
	g := event.NewEventGame(ev.ID, tpl.ID, 0)

	run := func() [][]uuid.UUID {
		e := NewEngine(newFakeRoster(people...), WithRandSource(rand.NewSource(42)))
		teams, err := e.Generate(ev, g, event.NewRound(g.ID, 0), tpl)
		require.NoError(t, err)
		out := make([][]uuid.UUID, len(teams))
		for i, team := range teams {
			out[i] = team.MemberIDs
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func indexOf(people []*person.Person, id uuid.UUID) int {
	for i, p := range people {
		if p.ID == id {
			return i
		}
	}
	return -1
}
