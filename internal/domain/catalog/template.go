package catalog

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameTemplate is the catalog definition of a game: default team shape,
// rounds per game, team type and host instructions. Per-event instances
// (EventGame) may override the team shape.
type GameTemplate struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name          string    `json:"name" gorm:"not null"`
	GroupName     string    `json:"group_name" gorm:"index"`
	TeamCount     int       `json:"team_count" gorm:"not null;default:2"`
	TeamSize      int       `json:"team_size" gorm:"not null;default:2"`
	RoundsPerGame int       `json:"rounds_per_game" gorm:"not null;default:1"`
	TeamType      TeamType  `json:"team_type" gorm:"type:team_type;not null;default:'open'"`
	Instructions  string    `json:"instructions" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (GameTemplate) TableName() string {
	return "game_templates"
}

// BeforeCreate sets a UUID before creating the record
func (t *GameTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Validate checks if the template data is valid
func (t *GameTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if t.TeamCount < 2 {
		return fmt.Errorf("team_count must be at least 2")
	}
	if t.TeamSize < 1 {
		return fmt.Errorf("team_size must be at least 1")
	}
	if t.RoundsPerGame < 1 {
		return fmt.Errorf("rounds_per_game must be at least 1")
	}
	if !t.TeamType.Valid() {
		return fmt.Errorf("invalid team_type: %s", t.TeamType)
	}
	return nil
}

// TeamType constrains how teams for a game are formed
type TeamType string

const (
	// TeamTypeOpen lets the assignment engine partition freely
	TeamTypeOpen TeamType = "open"
	// TeamTypeCouples requires every team to be one mutual spousal pair
	TeamTypeCouples TeamType = "couples"
)

// Valid reports whether the team type is a known value
func (tt TeamType) Valid() bool {
	return tt == TeamTypeOpen || tt == TeamTypeCouples
}

// Scan implements the sql.Scanner interface for database deserialization
func (tt *TeamType) Scan(value any) error {
	if value == nil {
		*tt = TeamTypeOpen
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into TeamType", value)
	}

	candidate := TeamType(str)
	if !candidate.Valid() {
		return fmt.Errorf("invalid team_type value: %s", str)
	}
	*tt = candidate
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (tt TeamType) Value() (driver.Value, error) {
	return string(tt), nil
}
