package services

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/gamenight-api/internal/domain/assignment"
	"github.com/gravadigital/gamenight-api/internal/domain/catalog"
	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/domain/person"
)

// memStore records every write the controller performs
type memStore struct {
	savedEvents   int
	savedGames    int
	savedRounds   int
	deletedGames  []uuid.UUID
	deletedRounds []uuid.UUID
	failSaveRound error
}

func (s *memStore) SaveEvent(ev *event.Event) error { s.savedEvents++; return nil }
func (s *memStore) SaveGame(g *event.EventGame) error { s.savedGames++; return nil }

func (s *memStore) SaveRound(r *event.Round) error {
	if s.failSaveRound != nil {
		return s.failSaveRound
	}
	s.savedRounds++
	return nil
}

func (s *memStore) DeleteGame(g *event.EventGame) error {
	s.deletedGames = append(s.deletedGames, g.ID)
	return nil
}

func (s *memStore) DeleteEventRounds(eventID uuid.UUID) error {
	s.deletedRounds = append(s.deletedRounds, eventID)
	return nil
}

func (s *memStore) Transaction(fn func(Store) error) error { return fn(s) }

// memTemplates resolves templates from a map
type memTemplates struct {
	templates map[uuid.UUID]*catalog.GameTemplate
}

func (m *memTemplates) GetByID(id uuid.UUID) (*catalog.GameTemplate, error) {
	if t, ok := m.templates[id]; ok {
		return t, nil
	}
	return nil, errors.New("template not found")
}

// memRoster mirrors the engine's fake roster
type memRoster struct {
	people map[uuid.UUID]*person.Person
}

func (m *memRoster) GetByIDs(ids []uuid.UUID) ([]*person.Person, error) {
	var out []*person.Person
	for _, id := range ids {
		if p, ok := m.people[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fixture struct {
	store      *memStore
	templates  *memTemplates
	roster     *memRoster
	controller *LifecycleController
	template   *catalog.GameTemplate
	people     []*person.Person
}

func newFixture(t *testing.T, poolSize int) *fixture {
	t.Helper()

	tpl := &catalog.GameTemplate{
		ID:            uuid.New(),
		Name:          "Foosball",
		GroupName:     "table",
		TeamCount:     2,
		TeamSize:      2,
		RoundsPerGame: 2,
		TeamType:      catalog.TeamTypeOpen,
	}

	names := []string{"Ana", "Bruno", "Carla", "Diego", "Elena", "Franco", "Gloria", "Hugo"}
	require.LessOrEqual(t, poolSize, len(names))

	roster := &memRoster{people: make(map[uuid.UUID]*person.Person)}
	people := make([]*person.Person, poolSize)
	for i := 0; i < poolSize; i++ {
		p := person.New(names[i])
		roster.people[p.ID] = p
		people[i] = p
	}

	store := &memStore{}
	templates := &memTemplates{templates: map[uuid.UUID]*catalog.GameTemplate{tpl.ID: tpl}}
	engine := assignment.NewEngine(roster, assignment.WithRandSource(rand.NewSource(1)))

	return &fixture{
		store:      store,
		templates:  templates,
		roster:     roster,
		controller: NewLifecycleController(store, templates, roster, engine, WithPickRandSource(rand.NewSource(1))),
		template:   tpl,
		people:     people,
	}
}

func (f *fixture) event(gameCount int) *event.Event {
	ev := event.NewEvent("noche de juegos")

	ids := make([]uuid.UUID, len(f.people))
	for i, p := range f.people {
		ids[i] = p.ID
	}
	ev.SetParticipantUUIDs(ids)

	for i := 0; i < gameCount; i++ {
		ev.Games = append(ev.Games, *event.NewEventGame(ev.ID, f.template.ID, i))
	}
	return ev
}

func TestStartEventWithoutParticipants(t *testing.T) {
	f := newFixture(t, 0)
	ev := f.event(1)

	err := f.controller.StartEvent(ev)

	var noParticipants *NoParticipantsError
	require.ErrorAs(t, err, &noParticipants)
	assert.Equal(t, event.StatusAvailable, ev.Status)
	assert.Zero(t, f.store.savedEvents)
}

func TestStartEventActivatesAndStartsFirstGame(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(2)

	require.NoError(t, f.controller.StartEvent(ev))

	assert.Equal(t, event.StatusActive, ev.Status)
	require.NotNil(t, ev.CurrentGameID)

	current := ev.CurrentGame()
	require.NotNil(t, current)
	assert.Equal(t, event.GameStatusInProgress, current.Status)
	require.Len(t, current.Rounds, 1)
	assert.Equal(t, 0, current.Rounds[0].Number)
}

func TestStartEventWithNoGamesCompletesImmediately(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(0)

	require.NoError(t, f.controller.StartEvent(ev))

	assert.Equal(t, event.StatusCompleted, ev.Status)
	assert.Nil(t, ev.CurrentGameID)
}

func TestStartEventTwiceIsRejected(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(1)

	require.NoError(t, f.controller.StartEvent(ev))
	err := f.controller.StartEvent(ev)
	assert.Error(t, err)
}

func TestPauseAndResumeKeepsCurrentGame(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(2)
	require.NoError(t, f.controller.StartEvent(ev))
	started := *ev.CurrentGameID

	require.NoError(t, f.controller.PauseEvent(ev))
	assert.Equal(t, event.StatusPaused, ev.Status)

	require.NoError(t, f.controller.ResumeEvent(ev))
	assert.Equal(t, event.StatusActive, ev.Status)
	require.NotNil(t, ev.CurrentGameID)
	assert.Equal(t, started, *ev.CurrentGameID, "an in-progress game survives the pause")
}

func TestResumeAfterCurrentGameCompletedPicksNext(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(2)
	require.NoError(t, f.controller.StartEvent(ev))

	first := ev.CurrentGame()
	require.NoError(t, f.controller.CompleteGame(ev, first))
	require.NoError(t, ev.UpdateStatus(event.StatusPaused))

	require.NoError(t, f.controller.ResumeEvent(ev))

	assert.Equal(t, event.StatusActive, ev.Status)
	require.NotNil(t, ev.CurrentGameID)
	assert.NotEqual(t, first.ID, *ev.CurrentGameID)
}

func TestResumeWithNothingLeftCompletesEvent(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(1)
	require.NoError(t, f.controller.StartEvent(ev))
	require.NoError(t, f.controller.CompleteGame(ev, ev.Game(ev.Games[0].ID)))
	require.NoError(t, ev.UpdateStatus(event.StatusPaused))

	require.NoError(t, f.controller.ResumeEvent(ev))

	assert.Equal(t, event.StatusCompleted, ev.Status)
	assert.Nil(t, ev.CurrentGameID)
}

func TestStartGameIsIdempotentAboutRoundZero(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(1)
	g := &ev.Games[0]

	require.NoError(t, f.controller.StartGame(ev, g))
	require.Len(t, g.Rounds, 1)

	require.NoError(t, f.controller.StartGame(ev, g))
	assert.Len(t, g.Rounds, 1, "restarting must not create a second round zero")
}

func TestStartGameUnknownTemplate(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(1)
	ev.Games[0].TemplateID = uuid.New()

	err := f.controller.StartGame(ev, &ev.Games[0])

	var missing *MissingTemplateError
	assert.ErrorAs(t, err, &missing)
}

func TestCreateNextRoundNumbersSequentially(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(1)
	g := &ev.Games[0]
	require.NoError(t, f.controller.StartGame(ev, g))

	r, err := f.controller.CreateNextRound(g)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Number)

	_, err = f.controller.CreateNextRound(g)
	var tooMany *InvalidRoundCountError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 2, tooMany.Max)
}

func TestCreateNextRoundRollsBackOnStoreFailure(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(1)
	g := &ev.Games[0]
	require.NoError(t, f.controller.StartGame(ev, g))

	f.store.failSaveRound = errors.New("disk full")
	_, err := f.controller.CreateNextRound(g)

	require.Error(t, err)
	assert.Len(t, g.Rounds, 1, "the failed round must not linger on the aggregate")
}

func TestCompleteGameClearsCurrentPointer(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(1)
	require.NoError(t, f.controller.StartEvent(ev))
	g := ev.CurrentGame()

	require.NoError(t, f.controller.CompleteGame(ev, g))

	assert.Equal(t, event.GameStatusCompleted, g.Status)
	assert.Nil(t, ev.CurrentGameID)
}

func TestPickNextGamePrefersDifferentGroup(t *testing.T) {
	f := newFixture(t, 4)

	quiz := &catalog.GameTemplate{
		ID:            uuid.New(),
		Name:          "Trivia Showdown",
		GroupName:     "quiz",
		TeamCount:     2,
		TeamSize:      2,
		RoundsPerGame: 1,
		TeamType:      catalog.TeamTypeOpen,
	}
	f.templates.templates[quiz.ID] = quiz

	ev := f.event(2) // both "table" group
	ev.Games = append(ev.Games, *event.NewEventGame(ev.ID, quiz.ID, 2))

	// Mark the first table game completed most recently.
	ev.Games[0].Status = event.GameStatusCompleted

	next, err := f.controller.PickNextGameRandom(ev)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, quiz.ID, next.TemplateID, "a differing group must win when available")
}

func TestPickNextGameReturnsNilWhenExhausted(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(1)
	ev.Games[0].Status = event.GameStatusCompleted

	next, err := f.controller.PickNextGameRandom(ev)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestPushGameToLaterResequencesPositions(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(3)
	first := &ev.Games[0]

	require.NoError(t, f.controller.PushGameToLater(ev, first))

	assert.Equal(t, 2, first.Position)
	assert.Equal(t, 0, ev.Games[1].Position)
	assert.Equal(t, 1, ev.Games[2].Position)
}

func TestPushGameToLaterRejectsPlayedGames(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(2)
	ev.Games[0].Status = event.GameStatusInProgress

	assert.Error(t, f.controller.PushGameToLater(ev, &ev.Games[0]))
}

func TestRemoveGameFromEvent(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(2)
	doomed := ev.Games[0].ID

	require.NoError(t, f.controller.RemoveGameFromEvent(ev, &ev.Games[0]))

	assert.Len(t, ev.Games, 1)
	assert.Nil(t, ev.Game(doomed))
	assert.Equal(t, []uuid.UUID{doomed}, f.store.deletedGames)
}

func TestFinalizeRoundWin(t *testing.T) {
	f := newFixture(t, 4)
	r := event.NewRound(uuid.New(), 0)
	winners := event.NewRoundTeam([]uuid.UUID{f.people[0].ID, f.people[1].ID})
	losers := event.NewRoundTeam([]uuid.UUID{f.people[2].ID, f.people[3].ID})
	r.Teams = []event.RoundTeam{winners, losers}

	require.NoError(t, f.controller.FinalizeRound(r, &winners.ID, &losers.ID, nil))

	assert.True(t, r.Locked())
	assert.Equal(t, event.ResultWin, r.Result)
	require.NotNil(t, r.WinningTeamID)
	assert.Equal(t, winners.ID, *r.WinningTeamID)
	assert.Equal(t, 1, r.Placements[f.people[0].ID])
	assert.Equal(t, 1, r.Placements[f.people[1].ID])
	assert.Equal(t, 2, r.Placements[f.people[2].ID])
	assert.Equal(t, 2, r.Placements[f.people[3].ID])
}

func TestFinalizeRoundTie(t *testing.T) {
	f := newFixture(t, 4)
	r := event.NewRound(uuid.New(), 0)
	r.Teams = []event.RoundTeam{
		event.NewRoundTeam([]uuid.UUID{f.people[0].ID, f.people[1].ID}),
		event.NewRoundTeam([]uuid.UUID{f.people[2].ID, f.people[3].ID}),
	}

	require.NoError(t, f.controller.FinalizeRound(r, nil, nil, nil))

	assert.True(t, r.Locked())
	assert.Equal(t, event.ResultTie, r.Result)
	assert.Nil(t, r.WinningTeamID)
	assert.Empty(t, r.Placements)
}

func TestFinalizeRoundUnknownWinnerLeavesRoundOpen(t *testing.T) {
	f := newFixture(t, 4)
	r := event.NewRound(uuid.New(), 0)
	r.Teams = []event.RoundTeam{
		event.NewRoundTeam([]uuid.UUID{f.people[0].ID, f.people[1].ID}),
	}

	bogus := uuid.New()
	require.Error(t, f.controller.FinalizeRound(r, &bogus, nil, nil))

	assert.False(t, r.Locked())
	assert.Equal(t, event.ResultNone, r.Result)
	assert.Empty(t, r.Placements)
}

func TestFinalizeRoundTwiceIsLocked(t *testing.T) {
	f := newFixture(t, 4)
	r := event.NewRound(uuid.New(), 0)
	r.Teams = []event.RoundTeam{
		event.NewRoundTeam([]uuid.UUID{f.people[0].ID, f.people[1].ID}),
	}
	require.NoError(t, f.controller.FinalizeRound(r, nil, nil, nil))

	err := f.controller.FinalizeRound(r, nil, nil, nil)

	var locked *LockedRoundError
	assert.ErrorAs(t, err, &locked)
}

func TestResetEventRestoresCleanSlate(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(2)
	require.NoError(t, f.controller.StartEvent(ev))

	require.NoError(t, f.controller.ResetEvent(ev))

	assert.Equal(t, event.StatusAvailable, ev.Status)
	assert.Nil(t, ev.CurrentGameID)
	assert.True(t, ev.HasParticipants(), "the pool survives a reset")
	for _, g := range ev.Games {
		assert.Equal(t, event.GameStatusNotStarted, g.Status)
		assert.Empty(t, g.Rounds)
	}
	assert.Equal(t, []uuid.UUID{ev.ID}, f.store.deletedRounds)
}

func TestSwapPlayerReplacesInPlace(t *testing.T) {
	f := newFixture(t, 5)
	r := event.NewRound(uuid.New(), 0)
	r.Teams = []event.RoundTeam{
		event.NewRoundTeam([]uuid.UUID{f.people[0].ID, f.people[1].ID}),
		event.NewRoundTeam([]uuid.UUID{f.people[2].ID, f.people[3].ID}),
	}

	require.NoError(t, f.controller.SwapPlayer(r, f.people[1].ID, f.people[4].ID))

	assert.Equal(t, []uuid.UUID{f.people[0].ID, f.people[4].ID}, r.Teams[0].MemberIDs)
}

func TestSwapPlayerRejectsAlreadyAssignedIncoming(t *testing.T) {
	f := newFixture(t, 4)
	r := event.NewRound(uuid.New(), 0)
	r.Teams = []event.RoundTeam{
		event.NewRoundTeam([]uuid.UUID{f.people[0].ID, f.people[1].ID}),
		event.NewRoundTeam([]uuid.UUID{f.people[2].ID, f.people[3].ID}),
	}

	assert.Error(t, f.controller.SwapPlayer(r, f.people[0].ID, f.people[2].ID))
}

func TestSwapPlayerUnassignedOutgoingIsNoop(t *testing.T) {
	f := newFixture(t, 5)
	r := event.NewRound(uuid.New(), 0)
	r.Teams = []event.RoundTeam{
		event.NewRoundTeam([]uuid.UUID{f.people[0].ID, f.people[1].ID}),
	}

	require.NoError(t, f.controller.SwapPlayer(r, f.people[2].ID, f.people[4].ID))
	assert.Equal(t, []uuid.UUID{f.people[0].ID, f.people[1].ID}, r.Teams[0].MemberIDs)
	assert.Zero(t, f.store.savedRounds)
}

func TestSwapPlayerOnLockedRound(t *testing.T) {
	f := newFixture(t, 5)
	r := event.NewRound(uuid.New(), 0)
	r.Teams = []event.RoundTeam{
		event.NewRoundTeam([]uuid.UUID{f.people[0].ID, f.people[1].ID}),
	}
	require.NoError(t, f.controller.FinalizeRound(r, nil, nil, nil))

	err := f.controller.SwapPlayer(r, f.people[0].ID, f.people[4].ID)

	var locked *LockedRoundError
	assert.ErrorAs(t, err, &locked)
}

func TestGenerateTeamsCommitsPartition(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(1)
	g := &ev.Games[0]
	require.NoError(t, f.controller.StartGame(ev, g))
	r := &g.Rounds[0]

	require.NoError(t, f.controller.GenerateTeams(ev, g, r))

	require.Len(t, r.Teams, 2)
	assert.Len(t, r.Teams[0].MemberIDs, 2)
	assert.Len(t, r.Teams[1].MemberIDs, 2)
}

func TestGenerateTeamsOnLockedRound(t *testing.T) {
	f := newFixture(t, 4)
	ev := f.event(1)
	g := &ev.Games[0]
	require.NoError(t, f.controller.StartGame(ev, g))
	r := &g.Rounds[0]
	require.NoError(t, f.controller.FinalizeRound(r, nil, nil, nil))

	err := f.controller.GenerateTeams(ev, g, r)

	var locked *LockedRoundError
	assert.ErrorAs(t, err, &locked)
}

func TestSetParticipantsRejectsUnknownPeople(t *testing.T) {
	f := newFixture(t, 2)
	ev := f.event(0)

	err := f.controller.SetParticipants(ev, []uuid.UUID{f.people[0].ID, uuid.New()})
	assert.Error(t, err)

	require.NoError(t, f.controller.SetParticipants(ev, []uuid.UUID{f.people[0].ID, f.people[1].ID}))
	assert.Len(t, ev.ParticipantUUIDs(), 2)
}
