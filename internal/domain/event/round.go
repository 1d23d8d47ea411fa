package event

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Round is one playthrough of a scheduled game. Teams, placements and the
// result live as structured fields in memory and are encoded as jsonb only
// at the storage boundary. A non-nil CompletedAt locks the round.
type Round struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	GameID uuid.UUID `json:"game_id" gorm:"type:uuid;not null;index"`
	Number int       `json:"number" gorm:"not null;default:0"`

	Teams         []RoundTeam `json:"teams,omitempty" gorm:"serializer:json;type:jsonb"`
	Placements    Placements  `json:"placements,omitempty" gorm:"serializer:json;type:jsonb"`
	Result        ResultType  `json:"result,omitempty" gorm:"type:round_result"`
	WinningTeamID *uuid.UUID  `json:"winning_team_id,omitempty" gorm:"type:uuid"`

	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TableName overrides the table name used by GORM
func (Round) TableName() string {
	return "rounds"
}

// BeforeCreate sets a UUID before creating the record
func (r *Round) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NewRound creates an unlocked round with the given 0-based number
func NewRound(gameID uuid.UUID, number int) *Round {
	return &Round{
		ID:        uuid.New(),
		GameID:    gameID,
		Number:    number,
		CreatedAt: time.Now(),
	}
}

// Locked reports whether the round has been finalized
func (r *Round) Locked() bool {
	return r.CompletedAt != nil
}

// Team returns the team with the given id, or nil
func (r *Round) Team(id uuid.UUID) *RoundTeam {
	for i := range r.Teams {
		if r.Teams[i].ID == id {
			return &r.Teams[i]
		}
	}
	return nil
}

// TeamOf returns the team containing the given person, or nil
func (r *Round) TeamOf(personID uuid.UUID) *RoundTeam {
	for i := range r.Teams {
		if slices.Contains(r.Teams[i].MemberIDs, personID) {
			return &r.Teams[i]
		}
	}
	return nil
}

// AssignedMemberIDs returns every person currently placed on a team
func (r *Round) AssignedMemberIDs() []uuid.UUID {
	var ids []uuid.UUID
	for i := range r.Teams {
		ids = append(ids, r.Teams[i].MemberIDs...)
	}
	return ids
}

// Signature returns the canonical matchup signature of this round's teams
func (r *Round) Signature() string {
	members := make([][]uuid.UUID, len(r.Teams))
	for i := range r.Teams {
		members[i] = r.Teams[i].MemberIDs
	}
	return TeamsSignature(members)
}

// TeamsSignature canonically encodes a partition: each team's member ids
// sorted, teams sorted by their encoding, joined. Two partitions produce
// the same signature iff the grouping is identical regardless of team or
// member order.
func TeamsSignature(teams [][]uuid.UUID) string {
	encoded := make([]string, len(teams))
	for i, members := range teams {
		ids := make([]string, len(members))
		for j, id := range members {
			ids[j] = id.String()
		}
		slices.Sort(ids)
		encoded[i] = strings.Join(ids, ",")
	}
	slices.Sort(encoded)
	return strings.Join(encoded, "|")
}

// RoundTeam is a value type: an id plus ordered member person ids
type RoundTeam struct {
	ID        uuid.UUID   `json:"id"`
	MemberIDs []uuid.UUID `json:"member_ids"`
}

// NewRoundTeam creates a team over the given members
func NewRoundTeam(memberIDs []uuid.UUID) RoundTeam {
	return RoundTeam{
		ID:        uuid.New(),
		MemberIDs: memberIDs,
	}
}

// Placements maps person id to finishing rank (1 = first)
type Placements map[uuid.UUID]int

// ResultType is the recorded outcome of a finalized round
type ResultType string

const (
	ResultNone ResultType = ""
	ResultWin  ResultType = "win"
	ResultTie  ResultType = "tie"
)

// Scan implements the sql.Scanner interface for database deserialization
func (rt *ResultType) Scan(value any) error {
	if value == nil {
		*rt = ResultNone
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into ResultType", value)
	}

	switch ResultType(str) {
	case ResultWin, ResultTie:
		*rt = ResultType(str)
		return nil
	default:
		return fmt.Errorf("invalid result value: %s", str)
	}
}

// Value implements the driver.Valuer interface for database serialization
func (rt ResultType) Value() (driver.Value, error) {
	if rt == ResultNone {
		return nil, nil
	}
	return string(rt), nil
}
