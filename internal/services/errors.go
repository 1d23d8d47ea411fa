package services

import (
	"fmt"

	"github.com/google/uuid"
)

// NoParticipantsError reports a lifecycle operation on an event with an
// empty participant pool
type NoParticipantsError struct {
	EventID uuid.UUID
}

func (e *NoParticipantsError) Error() string {
	return fmt.Sprintf("event %s has no participants", e.EventID)
}

// MissingTemplateError reports a game whose catalog template cannot be
// resolved
type MissingTemplateError struct {
	GameID     uuid.UUID
	TemplateID uuid.UUID
}

func (e *MissingTemplateError) Error() string {
	return fmt.Sprintf("game %s references missing template %s", e.GameID, e.TemplateID)
}

// InvalidRoundCountError reports an attempt to create more rounds than
// the game's template allows
type InvalidRoundCountError struct {
	GameID uuid.UUID
	Max    int
}

func (e *InvalidRoundCountError) Error() string {
	return fmt.Sprintf("game %s already has its maximum of %d rounds", e.GameID, e.Max)
}

// LockedRoundError reports a mutation attempt on a finalized round
type LockedRoundError struct {
	RoundID uuid.UUID
}

func (e *LockedRoundError) Error() string {
	return fmt.Sprintf("round %s is finalized and can no longer change", e.RoundID)
}
