package event

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/gamenight-api/internal/domain/catalog"
)

// EventGame is a scheduled instance of a catalog GameTemplate within one
// event. Team shape and type come from the template unless overridden
// per instance.
type EventGame struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID    uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index"`
	TemplateID uuid.UUID  `json:"template_id" gorm:"type:uuid;not null"`
	Status     GameStatus `json:"status" gorm:"type:game_status;not null;default:'not_started'"`
	Position   int        `json:"position" gorm:"not null;default:0"`

	TeamCountOverride *int              `json:"team_count_override,omitempty"`
	TeamSizeOverride  *int              `json:"team_size_override,omitempty"`
	TeamTypeOverride  *catalog.TeamType `json:"team_type_override,omitempty" gorm:"type:team_type"`

	Rounds []Round `json:"rounds,omitempty" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (EventGame) TableName() string {
	return "event_games"
}

// BeforeCreate sets a UUID before creating the record
func (g *EventGame) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// NewEventGame schedules a template instance at the given position
func NewEventGame(eventID, templateID uuid.UUID, position int) *EventGame {
	return &EventGame{
		ID:         uuid.New(),
		EventID:    eventID,
		TemplateID: templateID,
		Status:     GameStatusNotStarted,
		Position:   position,
		CreatedAt:  time.Now(),
	}
}

// CanTransitionTo checks if the game can transition to a new status
func (g *EventGame) CanTransitionTo(newStatus GameStatus) bool {
	transitions := map[GameStatus][]GameStatus{
		GameStatusNotStarted: {GameStatusInProgress},
		GameStatusInProgress: {GameStatusCompleted},
		GameStatusCompleted:  {},
	}

	allowed, exists := transitions[g.Status]
	if !exists {
		return false
	}

	return slices.Contains(allowed, newStatus)
}

// UpdateStatus updates the status if the transition is valid
func (g *EventGame) UpdateStatus(newStatus GameStatus) error {
	if !g.CanTransitionTo(newStatus) {
		return fmt.Errorf("cannot transition from %s to %s", g.Status, newStatus)
	}
	g.Status = newStatus
	return nil
}

// Reset returns the game to the not-started state and drops its rounds
// from the in-memory aggregate. Used only by the full event reset.
func (g *EventGame) Reset() {
	g.Status = GameStatusNotStarted
	g.Rounds = nil
}

// ResolveTeamCount returns the per-instance override or the template default
func (g *EventGame) ResolveTeamCount(tpl *catalog.GameTemplate) int {
	if g.TeamCountOverride != nil {
		return *g.TeamCountOverride
	}
	return tpl.TeamCount
}

// ResolveTeamSize returns the per-instance override or the template default
func (g *EventGame) ResolveTeamSize(tpl *catalog.GameTemplate) int {
	if g.TeamSizeOverride != nil {
		return *g.TeamSizeOverride
	}
	return tpl.TeamSize
}

// ResolveTeamType returns the per-instance override or the template default
func (g *EventGame) ResolveTeamType(tpl *catalog.GameTemplate) catalog.TeamType {
	if g.TeamTypeOverride != nil {
		return *g.TeamTypeOverride
	}
	return tpl.TeamType
}

// Round returns the owned round with the given id, or nil
func (g *EventGame) Round(id uuid.UUID) *Round {
	for i := range g.Rounds {
		if g.Rounds[i].ID == id {
			return &g.Rounds[i]
		}
	}
	return nil
}

// NextRoundNumber returns (max existing round number)+1, or 0 when the
// game has no rounds yet
func (g *EventGame) NextRoundNumber() int {
	next := 0
	for i := range g.Rounds {
		if g.Rounds[i].Number >= next {
			next = g.Rounds[i].Number + 1
		}
	}
	return next
}

// CompletedSignatures returns the matchup signature of every completed
// round that has teams, used to penalize exact repeats within this game
func (g *EventGame) CompletedSignatures() map[string]struct{} {
	signatures := make(map[string]struct{})
	for i := range g.Rounds {
		r := &g.Rounds[i]
		if r.CompletedAt == nil || len(r.Teams) == 0 {
			continue
		}
		signatures[r.Signature()] = struct{}{}
	}
	return signatures
}

// GameStatus represents the lifecycle state of a scheduled game
type GameStatus byte

const (
	GameStatusNotStarted GameStatus = iota
	GameStatusInProgress
	GameStatusCompleted
)

func (s GameStatus) String() string {
	switch s {
	case GameStatusNotStarted:
		return "not_started"
	case GameStatusInProgress:
		return "in_progress"
	case GameStatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s GameStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *GameStatus) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := GameStatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid game status: %s", str)
	}
	*s = status
	return nil
}

// GameStatusFromString converts a string to a GameStatus
func GameStatusFromString(s string) (GameStatus, bool) {
	switch s {
	case "not_started":
		return GameStatusNotStarted, true
	case "in_progress":
		return GameStatusInProgress, true
	case "completed":
		return GameStatusCompleted, true
	default:
		return GameStatusNotStarted, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *GameStatus) Scan(value any) error {
	if value == nil {
		*s = GameStatusNotStarted
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into GameStatus", value)
	}

	status, valid := GameStatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid game status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s GameStatus) Value() (driver.Value, error) {
	return s.String(), nil
}
