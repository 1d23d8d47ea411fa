package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/services"
	"github.com/gravadigital/gamenight-api/internal/storage/postgres"
	"github.com/gravadigital/gamenight-api/internal/validation"
)

type EventHandler struct {
	eventRepo postgres.EventRepository
	lifecycle *services.LifecycleController
}

func NewEventHandler(eventRepo postgres.EventRepository, lifecycle *services.LifecycleController) *EventHandler {
	return &EventHandler{
		eventRepo: eventRepo,
		lifecycle: lifecycle,
	}
}

// loadEvent fetches the full event aggregate or writes a 404
func (h *EventHandler) loadEvent(c *gin.Context) *event.Event {
	eventID := c.Param("event_id")

	ev, err := h.eventRepo.GetByID(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
		return nil
	}
	return ev
}

type CreateEventRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	var v validation.EventValidation
	if err := v.ValidateEventName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	newEvent := event.NewEvent(req.Name)
	if err := h.eventRepo.Create(newEvent); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create event",
		})
		return
	}

	c.JSON(http.StatusCreated, newEvent)
}

// GetAllEvents handles GET /api/events
func (h *EventHandler) GetAllEvents(c *gin.Context) {
	events, err := h.eventRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list events",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// GetEvent handles GET /api/events/{event_id}
func (h *EventHandler) GetEvent(c *gin.Context) {
	ev := h.loadEvent(c)
	if ev == nil {
		return
	}

	c.JSON(http.StatusOK, ev)
}

// DeleteEvent handles DELETE /api/events/{event_id}
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	ev := h.loadEvent(c)
	if ev == nil {
		return
	}

	if err := h.eventRepo.Delete(ev.ID.String()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete event",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted",
	})
}

type SetParticipantsRequest struct {
	ParticipantIDs []string `json:"participant_ids" binding:"required"`
}

// SetParticipants handles PUT /api/events/{event_id}/participants
func (h *EventHandler) SetParticipants(c *gin.Context) {
	ev := h.loadEvent(c)
	if ev == nil {
		return
	}

	var req SetParticipantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	ids := make([]uuid.UUID, 0, len(req.ParticipantIDs))
	for _, raw := range req.ParticipantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid participant id",
				"details": raw,
			})
			return
		}
		ids = append(ids, id)
	}

	if err := h.lifecycle.SetParticipants(ev, ids); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ev)
}

type ScheduleGameRequest struct {
	TemplateID        string `json:"template_id" binding:"required"`
	TeamCountOverride *int   `json:"team_count_override,omitempty"`
	TeamSizeOverride  *int   `json:"team_size_override,omitempty"`
	TeamTypeOverride  string `json:"team_type_override,omitempty"`
}

// ScheduleGame handles POST /api/events/{event_id}/games
func (h *EventHandler) ScheduleGame(c *gin.Context) {
	ev := h.loadEvent(c)
	if ev == nil {
		return
	}

	var req ScheduleGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "template_id must be a valid UUID",
		})
		return
	}

	g := event.NewEventGame(ev.ID, templateID, len(ev.Games))
	g.TeamCountOverride = req.TeamCountOverride
	g.TeamSizeOverride = req.TeamSizeOverride

	if req.TeamTypeOverride != "" {
		tt := catalogTeamType(req.TeamTypeOverride)
		if tt == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":       "Invalid team_type_override",
				"valid_types": []string{"open", "couples"},
			})
			return
		}
		g.TeamTypeOverride = tt
	}

	if err := h.eventRepo.AddGame(g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to schedule game",
		})
		return
	}

	c.JSON(http.StatusCreated, g)
}

// StartEvent handles POST /api/events/{event_id}/start
func (h *EventHandler) StartEvent(c *gin.Context) {
	ev := h.loadEvent(c)
	if ev == nil {
		return
	}

	if !ev.CanTransitionTo(event.StatusActive) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Invalid status transition",
			"current_status": ev.Status.String(),
		})
		return
	}

	if err := h.lifecycle.StartEvent(ev); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ev)
}

// PauseEvent handles POST /api/events/{event_id}/pause
func (h *EventHandler) PauseEvent(c *gin.Context) {
	ev := h.loadEvent(c)
	if ev == nil {
		return
	}

	if !ev.CanTransitionTo(event.StatusPaused) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Invalid status transition",
			"current_status": ev.Status.String(),
		})
		return
	}

	if err := h.lifecycle.PauseEvent(ev); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ev)
}

// ResumeEvent handles POST /api/events/{event_id}/resume
func (h *EventHandler) ResumeEvent(c *gin.Context) {
	ev := h.loadEvent(c)
	if ev == nil {
		return
	}

	if ev.Status != event.StatusPaused {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Only paused events can be resumed",
			"current_status": ev.Status.String(),
		})
		return
	}

	if err := h.lifecycle.ResumeEvent(ev); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ev)
}

// ResetEvent handles POST /api/events/{event_id}/reset
func (h *EventHandler) ResetEvent(c *gin.Context) {
	ev := h.loadEvent(c)
	if ev == nil {
		return
	}

	if err := h.lifecycle.ResetEvent(ev); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ev)
}
