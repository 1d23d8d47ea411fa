package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/gamenight-api/internal/domain/assignment"
	"github.com/gravadigital/gamenight-api/internal/services"
)

// respondServiceError translates lifecycle and engine errors into HTTP
// status codes. Unknown errors are reported as internal failures without
// leaking their message.
func respondServiceError(c *gin.Context, err error) {
	var (
		noParticipants  *services.NoParticipantsError
		missingTemplate *services.MissingTemplateError
		roundCount      *services.InvalidRoundCountError
		lockedRound     *services.LockedRoundError
		missingGame     *assignment.MissingEventGameError
		fewPlayers      *assignment.NotEnoughPlayersError
		fewCouples      *assignment.NotEnoughCouplesError
	)

	switch {
	case errors.As(err, &noParticipants),
		errors.As(err, &fewPlayers),
		errors.As(err, &fewCouples):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &missingTemplate):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &roundCount), errors.As(err, &lockedRound):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &missingGame):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}
