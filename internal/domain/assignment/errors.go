package assignment

import (
	"fmt"

	"github.com/google/uuid"
)

// NotEnoughPlayersError reports that the eligible pool cannot fill the
// configured team shape
type NotEnoughPlayersError struct {
	Required  int
	Available int
}

func (e *NotEnoughPlayersError) Error() string {
	return fmt.Sprintf("not enough eligible players: need %d, have %d", e.Required, e.Available)
}

// NotEnoughCouplesError reports that too few mutual spousal pairs are
// available for a couples-only game
type NotEnoughCouplesError struct {
	Required  int
	Available int
}

func (e *NotEnoughCouplesError) Error() string {
	return fmt.Sprintf("not enough couples: need %d, have %d", e.Required, e.Available)
}

// MissingEventGameError reports a round that is not attached to the game
// being generated for
type MissingEventGameError struct {
	RoundID uuid.UUID
}

func (e *MissingEventGameError) Error() string {
	return fmt.Sprintf("round %s is not attached to an event game", e.RoundID)
}
