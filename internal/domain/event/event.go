package event

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Event represents one hosted game night: an ordered participant pool and
// an ordered collection of scheduled games. The currently running game, if
// any, is referenced by CurrentGameID.
type Event struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name           string         `json:"name" gorm:"not null"`
	Status         Status         `json:"status" gorm:"type:event_status;not null;default:'available'"`
	ParticipantIDs pq.StringArray `json:"participant_ids" gorm:"type:uuid[]"`
	CurrentGameID  *uuid.UUID     `json:"current_game_id,omitempty" gorm:"type:uuid"`
	Games          []EventGame    `json:"games,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "events"
}

// BeforeCreate sets a UUID before creating the record
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewEvent creates a new event in the available state
func NewEvent(name string) *Event {
	return &Event{
		ID:        uuid.New(),
		Name:      name,
		Status:    StatusAvailable,
		CreatedAt: time.Now(),
	}
}

// CanTransitionTo checks if the event can transition to a new status
func (e *Event) CanTransitionTo(newStatus Status) bool {
	transitions := map[Status][]Status{
		StatusAvailable: {StatusActive},
		StatusActive:    {StatusPaused, StatusCompleted},
		StatusPaused:    {StatusActive, StatusCompleted},
		StatusCompleted: {},
	}

	allowed, exists := transitions[e.Status]
	if !exists {
		return false
	}

	return slices.Contains(allowed, newStatus)
}

// UpdateStatus updates the status if the transition is valid
func (e *Event) UpdateStatus(newStatus Status) error {
	if !e.CanTransitionTo(newStatus) {
		return fmt.Errorf("cannot transition from %s to %s", e.Status, newStatus)
	}
	e.Status = newStatus
	return nil
}

// Reset returns the event to the available state, bypassing the normal
// transition table. Used only by the full event reset.
func (e *Event) Reset() {
	e.Status = StatusAvailable
	e.CurrentGameID = nil
}

// HasParticipants reports whether the eligible pool is non-empty
func (e *Event) HasParticipants() bool {
	return len(e.ParticipantIDs) > 0
}

// ParticipantUUIDs returns the ordered pool as parsed UUIDs. Malformed
// entries are skipped; the roster layer never writes them.
func (e *Event) ParticipantUUIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.ParticipantIDs))
	for _, raw := range e.ParticipantIDs {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// SetParticipantUUIDs replaces the ordered pool
func (e *Event) SetParticipantUUIDs(ids []uuid.UUID) {
	raw := make(pq.StringArray, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	e.ParticipantIDs = raw
}

// Game returns the owned game with the given id, or nil
func (e *Event) Game(id uuid.UUID) *EventGame {
	for i := range e.Games {
		if e.Games[i].ID == id {
			return &e.Games[i]
		}
	}
	return nil
}

// CurrentGame resolves CurrentGameID against the owned games, or nil
func (e *Event) CurrentGame() *EventGame {
	if e.CurrentGameID == nil {
		return nil
	}
	return e.Game(*e.CurrentGameID)
}

// NotStartedGames returns the owned games still waiting to be played,
// in schedule order
func (e *Event) NotStartedGames() []*EventGame {
	var games []*EventGame
	for i := range e.Games {
		if e.Games[i].Status == GameStatusNotStarted {
			games = append(games, &e.Games[i])
		}
	}
	return games
}

// MostRecentlyCompletedGame returns the completed game with the latest
// update timestamp, or nil if no game has completed yet
func (e *Event) MostRecentlyCompletedGame() *EventGame {
	var latest *EventGame
	for i := range e.Games {
		g := &e.Games[i]
		if g.Status != GameStatusCompleted {
			continue
		}
		if latest == nil || g.UpdatedAt.After(latest.UpdatedAt) {
			latest = g
		}
	}
	return latest
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	for _, raw := range e.ParticipantIDs {
		if _, err := uuid.Parse(raw); err != nil {
			return fmt.Errorf("invalid participant id: %s", raw)
		}
	}
	return nil
}

// Status represents the lifecycle state of an event
type Status byte

const (
	StatusAvailable Status = iota
	StatusActive
	StatusPaused
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusActive:
		return "active"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status: %s", str)
	}
	*s = status
	return nil
}

// StatusFromString converts a string to a Status
func StatusFromString(s string) (Status, bool) {
	switch s {
	case "available":
		return StatusAvailable, true
	case "active":
		return StatusActive, true
	case "paused":
		return StatusPaused, true
	case "completed":
		return StatusCompleted, true
	default:
		return StatusAvailable, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value any) error {
	if value == nil {
		*s = StatusAvailable
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into Status", value)
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}
