package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/gamenight-api/internal/domain/catalog"
)

func templateFor(teamCount, teamSize int) *catalog.GameTemplate {
	return &catalog.GameTemplate{
		ID:            uuid.New(),
		Name:          "Foosball",
		TeamCount:     teamCount,
		TeamSize:      teamSize,
		RoundsPerGame: 1,
		TeamType:      catalog.TeamTypeOpen,
	}
}

func TestEventStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"available to active", StatusAvailable, StatusActive, true},
		{"available to paused", StatusAvailable, StatusPaused, false},
		{"available to completed", StatusAvailable, StatusCompleted, false},
		{"active to paused", StatusActive, StatusPaused, true},
		{"active to completed", StatusActive, StatusCompleted, true},
		{"active to available", StatusActive, StatusAvailable, false},
		{"paused to active", StatusPaused, StatusActive, true},
		{"paused to completed", StatusPaused, StatusCompleted, true},
		{"completed is terminal", StatusCompleted, StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewEvent("noche de juegos")
			ev.Status = tt.from

			err := ev.UpdateStatus(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, ev.Status)
			} else {
				assert.Error(t, err)
				assert.Equal(t, tt.from, ev.Status)
			}
		})
	}
}

func TestEventResetBypassesTransitions(t *testing.T) {
	ev := NewEvent("noche de juegos")
	ev.Status = StatusCompleted
	gameID := uuid.New()
	ev.CurrentGameID = &gameID

	ev.Reset()

	assert.Equal(t, StatusAvailable, ev.Status)
	assert.Nil(t, ev.CurrentGameID)
}

func TestEventParticipantRoundTrip(t *testing.T) {
	ev := NewEvent("noche de juegos")
	assert.False(t, ev.HasParticipants())

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	ev.SetParticipantUUIDs(ids)

	assert.True(t, ev.HasParticipants())
	assert.Equal(t, ids, ev.ParticipantUUIDs(), "pool order is part of the contract")
}

func TestGameStatusTransitions(t *testing.T) {
	g := NewEventGame(uuid.New(), uuid.New(), 0)

	assert.Error(t, g.UpdateStatus(GameStatusCompleted), "not_started cannot skip to completed")
	require.NoError(t, g.UpdateStatus(GameStatusInProgress))
	assert.Error(t, g.UpdateStatus(GameStatusInProgress))
	require.NoError(t, g.UpdateStatus(GameStatusCompleted))
	assert.Error(t, g.UpdateStatus(GameStatusInProgress), "completed is terminal")
}

func TestGameNextRoundNumber(t *testing.T) {
	g := NewEventGame(uuid.New(), uuid.New(), 0)
	assert.Equal(t, 0, g.NextRoundNumber())

	g.Rounds = []Round{*NewRound(g.ID, 0), *NewRound(g.ID, 2)}
	assert.Equal(t, 3, g.NextRoundNumber(), "numbering continues after the highest round")
}

func TestGameCompletedSignatures(t *testing.T) {
	g := NewEventGame(uuid.New(), uuid.New(), 0)
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	done := NewRound(g.ID, 0)
	done.Teams = []RoundTeam{
		NewRoundTeam([]uuid.UUID{a, b}),
		NewRoundTeam([]uuid.UUID{c, d}),
	}
	now := time.Now()
	done.CompletedAt = &now

	open := NewRound(g.ID, 1)
	open.Teams = []RoundTeam{
		NewRoundTeam([]uuid.UUID{a, c}),
		NewRoundTeam([]uuid.UUID{b, d}),
	}

	g.Rounds = []Round{*done, *open}

	sigs := g.CompletedSignatures()
	assert.Len(t, sigs, 1)
	_, ok := sigs[done.Signature()]
	assert.True(t, ok)
}

func TestTeamsSignatureIsCanonical(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	base := TeamsSignature([][]uuid.UUID{{a, b}, {c, d}})

	assert.Equal(t, base, TeamsSignature([][]uuid.UUID{{b, a}, {d, c}}), "member order must not matter")
	assert.Equal(t, base, TeamsSignature([][]uuid.UUID{{c, d}, {a, b}}), "team order must not matter")
	assert.NotEqual(t, base, TeamsSignature([][]uuid.UUID{{a, c}, {b, d}}), "a different grouping must differ")
}

func TestRoundLockedAndTeamLookups(t *testing.T) {
	r := NewRound(uuid.New(), 0)
	a, b := uuid.New(), uuid.New()
	team := NewRoundTeam([]uuid.UUID{a, b})
	r.Teams = []RoundTeam{team}

	assert.False(t, r.Locked())

	assert.Equal(t, &r.Teams[0], r.Team(team.ID))
	assert.Nil(t, r.Team(uuid.New()))
	assert.Equal(t, &r.Teams[0], r.TeamOf(a))
	assert.Nil(t, r.TeamOf(uuid.New()))
	assert.ElementsMatch(t, []uuid.UUID{a, b}, r.AssignedMemberIDs())

	now := time.Now()
	r.CompletedAt = &now
	assert.True(t, r.Locked())
}

func TestResolveOverridesFallBackToTemplate(t *testing.T) {
	g := NewEventGame(uuid.New(), uuid.New(), 0)
	tpl := templateFor(3, 2)

	assert.Equal(t, 3, g.ResolveTeamCount(tpl))
	assert.Equal(t, 2, g.ResolveTeamSize(tpl))

	four, one := 4, 1
	couples := catalog.TeamTypeCouples
	g.TeamCountOverride = &four
	g.TeamSizeOverride = &one
	g.TeamTypeOverride = &couples

	assert.Equal(t, 4, g.ResolveTeamCount(tpl))
	assert.Equal(t, 1, g.ResolveTeamSize(tpl))
	assert.Equal(t, catalog.TeamTypeCouples, g.ResolveTeamType(tpl))
}
