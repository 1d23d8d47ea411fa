package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/services"
	"github.com/gravadigital/gamenight-api/internal/storage/postgres"
)

type RoundHandler struct {
	eventRepo postgres.EventRepository
	lifecycle *services.LifecycleController
}

func NewRoundHandler(eventRepo postgres.EventRepository, lifecycle *services.LifecycleController) *RoundHandler {
	return &RoundHandler{
		eventRepo: eventRepo,
		lifecycle: lifecycle,
	}
}

// loadRound fetches the event aggregate and locates the addressed game
// and round
func (h *RoundHandler) loadRound(c *gin.Context) (*event.Event, *event.EventGame, *event.Round) {
	ev, err := h.eventRepo.GetByID(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
		return nil, nil, nil
	}

	gameID, err := uuid.Parse(c.Param("game_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "game_id must be a valid UUID",
		})
		return nil, nil, nil
	}

	g := ev.Game(gameID)
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Game not found in event",
		})
		return nil, nil, nil
	}

	roundID, err := uuid.Parse(c.Param("round_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "round_id must be a valid UUID",
		})
		return nil, nil, nil
	}

	r := g.Round(roundID)
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Round not found in game",
		})
		return nil, nil, nil
	}

	return ev, g, r
}

// GetRound handles GET /api/events/{event_id}/games/{game_id}/rounds/{round_id}
func (h *RoundHandler) GetRound(c *gin.Context) {
	_, _, r := h.loadRound(c)
	if r == nil {
		return
	}

	c.JSON(http.StatusOK, r)
}

type GenerateTeamsRequest struct {
	PreferredPlayerIDs []string `json:"preferred_player_ids,omitempty"`
}

// GenerateTeams handles POST /api/events/{event_id}/games/{game_id}/rounds/{round_id}/teams
func (h *RoundHandler) GenerateTeams(c *gin.Context) {
	ev, g, r := h.loadRound(c)
	if r == nil {
		return
	}

	var req GenerateTeamsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request payload",
				"details": err.Error(),
			})
			return
		}
	}

	var preferred []uuid.UUID
	for _, raw := range req.PreferredPlayerIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid preferred player id",
				"details": raw,
			})
			return
		}
		preferred = append(preferred, id)
	}

	if err := h.lifecycle.GenerateTeamsWithPreferredPlayers(ev, g, r, preferred); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

type SwapPlayerRequest struct {
	OutgoingID string `json:"outgoing_id" binding:"required"`
	IncomingID string `json:"incoming_id" binding:"required"`
}

// SwapPlayer handles POST /api/events/{event_id}/games/{game_id}/rounds/{round_id}/swap
func (h *RoundHandler) SwapPlayer(c *gin.Context) {
	_, _, r := h.loadRound(c)
	if r == nil {
		return
	}

	var req SwapPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	outgoing, err := uuid.Parse(req.OutgoingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "outgoing_id must be a valid UUID",
		})
		return
	}
	incoming, err := uuid.Parse(req.IncomingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "incoming_id must be a valid UUID",
		})
		return
	}

	if err := h.lifecycle.SwapPlayer(r, outgoing, incoming); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

type FinalizeRoundRequest struct {
	WinningTeamID *string `json:"winning_team_id,omitempty"`
	SecondTeamID  *string `json:"second_team_id,omitempty"`
	ThirdTeamID   *string `json:"third_team_id,omitempty"`
}

// FinalizeRound handles POST /api/events/{event_id}/games/{game_id}/rounds/{round_id}/finalize
func (h *RoundHandler) FinalizeRound(c *gin.Context) {
	_, _, r := h.loadRound(c)
	if r == nil {
		return
	}

	var req FinalizeRoundRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request payload",
				"details": err.Error(),
			})
			return
		}
	}

	winner, ok := parseOptionalUUID(c, req.WinningTeamID, "winning_team_id")
	if !ok {
		return
	}
	second, ok := parseOptionalUUID(c, req.SecondTeamID, "second_team_id")
	if !ok {
		return
	}
	third, ok := parseOptionalUUID(c, req.ThirdTeamID, "third_team_id")
	if !ok {
		return
	}

	if winner != nil && r.Team(*winner) == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "winning_team_id does not match any team in this round",
		})
		return
	}

	if err := h.lifecycle.FinalizeRound(r, winner, second, third); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

// parseOptionalUUID parses an optional request field, writing a 400 and
// returning false on malformed input
func parseOptionalUUID(c *gin.Context, raw *string, fieldName string) (*uuid.UUID, bool) {
	if raw == nil {
		return nil, true
	}

	id, err := uuid.Parse(*raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fieldName + " must be a valid UUID",
		})
		return nil, false
	}
	return &id, true
}
