package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTemplate() *GameTemplate {
	return &GameTemplate{
		Name:          "Foosball",
		GroupName:     "table",
		TeamCount:     2,
		TeamSize:      2,
		RoundsPerGame: 1,
		TeamType:      TeamTypeOpen,
	}
}

func TestTemplateValidate(t *testing.T) {
	assert.NoError(t, validTemplate().Validate())

	tests := []struct {
		name   string
		mutate func(*GameTemplate)
	}{
		{"empty name", func(tpl *GameTemplate) { tpl.Name = "" }},
		{"single team", func(tpl *GameTemplate) { tpl.TeamCount = 1 }},
		{"empty teams", func(tpl *GameTemplate) { tpl.TeamSize = 0 }},
		{"zero rounds", func(tpl *GameTemplate) { tpl.RoundsPerGame = 0 }},
		{"unknown team type", func(tpl *GameTemplate) { tpl.TeamType = "mixed" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := validTemplate()
			tt.mutate(tpl)
			assert.Error(t, tpl.Validate())
		})
	}
}

func TestTeamTypeValid(t *testing.T) {
	assert.True(t, TeamTypeOpen.Valid())
	assert.True(t, TeamTypeCouples.Valid())
	assert.False(t, TeamType("mixed").Valid())
	assert.False(t, TeamType("").Valid())
}

func TestTeamTypeScan(t *testing.T) {
	var tt TeamType

	assert.NoError(t, tt.Scan("couples"))
	assert.Equal(t, TeamTypeCouples, tt)

	assert.NoError(t, tt.Scan(nil))
	assert.Equal(t, TeamTypeOpen, tt)

	assert.Error(t, tt.Scan("mixed"))
}
