package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/gamenight-api/internal/domain/catalog"
	"github.com/gravadigital/gamenight-api/internal/storage/postgres"
)

type CatalogHandler struct {
	templateRepo postgres.TemplateRepository
}

func NewCatalogHandler(templateRepo postgres.TemplateRepository) *CatalogHandler {
	return &CatalogHandler{
		templateRepo: templateRepo,
	}
}

type CreateTemplateRequest struct {
	Name          string `json:"name" binding:"required"`
	GroupName     string `json:"group_name"`
	TeamCount     int    `json:"team_count" binding:"required"`
	TeamSize      int    `json:"team_size" binding:"required"`
	RoundsPerGame int    `json:"rounds_per_game" binding:"required"`
	TeamType      string `json:"team_type"`
	Instructions  string `json:"instructions"`
}

// CreateTemplate handles POST /api/templates
func (h *CatalogHandler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	teamType := catalog.TeamTypeOpen
	if req.TeamType != "" {
		teamType = catalog.TeamType(req.TeamType)
		if !teamType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":       "Invalid team_type",
				"valid_types": []string{"open", "couples"},
			})
			return
		}
	}

	t := &catalog.GameTemplate{
		Name:          req.Name,
		GroupName:     req.GroupName,
		TeamCount:     req.TeamCount,
		TeamSize:      req.TeamSize,
		RoundsPerGame: req.RoundsPerGame,
		TeamType:      teamType,
		Instructions:  req.Instructions,
	}

	if err := t.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	if err := h.templateRepo.Create(t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create template",
		})
		return
	}

	c.JSON(http.StatusCreated, t)
}

// GetAllTemplates handles GET /api/templates
func (h *CatalogHandler) GetAllTemplates(c *gin.Context) {
	templates, err := h.templateRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list templates",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"count":     len(templates),
	})
}

// GetTemplate handles GET /api/templates/{template_id}
func (h *CatalogHandler) GetTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("template_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "template_id must be a valid UUID",
		})
		return
	}

	t, err := h.templateRepo.GetByID(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Template not found",
		})
		return
	}

	c.JSON(http.StatusOK, t)
}

type UpdateTemplateRequest struct {
	Name          *string `json:"name,omitempty"`
	GroupName     *string `json:"group_name,omitempty"`
	TeamCount     *int    `json:"team_count,omitempty"`
	TeamSize      *int    `json:"team_size,omitempty"`
	RoundsPerGame *int    `json:"rounds_per_game,omitempty"`
	TeamType      *string `json:"team_type,omitempty"`
	Instructions  *string `json:"instructions,omitempty"`
}

// UpdateTemplate handles PATCH /api/templates/{template_id}
func (h *CatalogHandler) UpdateTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("template_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "template_id must be a valid UUID",
		})
		return
	}

	t, err := h.templateRepo.GetByID(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Template not found",
		})
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.GroupName != nil {
		t.GroupName = *req.GroupName
	}
	if req.TeamCount != nil {
		t.TeamCount = *req.TeamCount
	}
	if req.TeamSize != nil {
		t.TeamSize = *req.TeamSize
	}
	if req.RoundsPerGame != nil {
		t.RoundsPerGame = *req.RoundsPerGame
	}
	if req.TeamType != nil {
		teamType := catalog.TeamType(*req.TeamType)
		if !teamType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":       "Invalid team_type",
				"valid_types": []string{"open", "couples"},
			})
			return
		}
		t.TeamType = teamType
	}
	if req.Instructions != nil {
		t.Instructions = *req.Instructions
	}

	if err := t.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	if err := h.templateRepo.Update(t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update template",
		})
		return
	}

	c.JSON(http.StatusOK, t)
}

// DeleteTemplate handles DELETE /api/templates/{template_id}
func (h *CatalogHandler) DeleteTemplate(c *gin.Context) {
	if err := h.templateRepo.Delete(c.Param("template_id")); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Failed to delete template",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Template deleted",
	})
}
