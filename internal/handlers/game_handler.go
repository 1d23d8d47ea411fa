package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/gamenight-api/internal/domain/catalog"
	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/services"
	"github.com/gravadigital/gamenight-api/internal/storage/postgres"
)

type GameHandler struct {
	eventRepo postgres.EventRepository
	lifecycle *services.LifecycleController
}

func NewGameHandler(eventRepo postgres.EventRepository, lifecycle *services.LifecycleController) *GameHandler {
	return &GameHandler{
		eventRepo: eventRepo,
		lifecycle: lifecycle,
	}
}

// loadEventGame fetches the event aggregate and locates the addressed
// game, writing a 404 when either is missing
func (h *GameHandler) loadEventGame(c *gin.Context) (*event.Event, *event.EventGame) {
	ev, err := h.eventRepo.GetByID(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
		return nil, nil
	}

	gameID, err := uuid.Parse(c.Param("game_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "game_id must be a valid UUID",
		})
		return nil, nil
	}

	g := ev.Game(gameID)
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Game not found in event",
		})
		return nil, nil
	}

	return ev, g
}

// StartGame handles POST /api/events/{event_id}/games/{game_id}/start
func (h *GameHandler) StartGame(c *gin.Context) {
	ev, g := h.loadEventGame(c)
	if g == nil {
		return
	}

	if g.Status == event.GameStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Game is already completed",
		})
		return
	}

	if err := h.lifecycle.StartGame(ev, g); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, g)
}

// CompleteGame handles POST /api/events/{event_id}/games/{game_id}/complete
func (h *GameHandler) CompleteGame(c *gin.Context) {
	ev, g := h.loadEventGame(c)
	if g == nil {
		return
	}

	if !g.CanTransitionTo(event.GameStatusCompleted) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Invalid status transition",
			"current_status": g.Status.String(),
		})
		return
	}

	if err := h.lifecycle.CompleteGame(ev, g); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, g)
}

// DeferGame handles POST /api/events/{event_id}/games/{game_id}/defer
func (h *GameHandler) DeferGame(c *gin.Context) {
	ev, g := h.loadEventGame(c)
	if g == nil {
		return
	}

	if g.Status != event.GameStatusNotStarted {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Only games that have not been played can be deferred",
		})
		return
	}

	if err := h.lifecycle.PushGameToLater(ev, g); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Game moved to the back of the schedule",
		"game":    g,
	})
}

// RemoveGame handles DELETE /api/events/{event_id}/games/{game_id}
func (h *GameHandler) RemoveGame(c *gin.Context) {
	ev, g := h.loadEventGame(c)
	if g == nil {
		return
	}

	if g.Status != event.GameStatusNotStarted {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Only games that have not been played can be removed",
		})
		return
	}

	if err := h.lifecycle.RemoveGameFromEvent(ev, g); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Game removed from event",
	})
}

// CreateRound handles POST /api/events/{event_id}/games/{game_id}/rounds
func (h *GameHandler) CreateRound(c *gin.Context) {
	_, g := h.loadEventGame(c)
	if g == nil {
		return
	}

	round, err := h.lifecycle.CreateNextRound(g)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, round)
}

// catalogTeamType parses a team type string, returning nil when invalid
func catalogTeamType(s string) *catalog.TeamType {
	tt := catalog.TeamType(s)
	if !tt.Valid() {
		return nil
	}
	return &tt
}
