package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/gamenight-api/internal/domain/person"
	"github.com/gravadigital/gamenight-api/internal/storage/postgres"
	"github.com/gravadigital/gamenight-api/internal/validation"
)

type PersonHandler struct {
	personRepo postgres.PersonRepository
}

func NewPersonHandler(personRepo postgres.PersonRepository) *PersonHandler {
	return &PersonHandler{
		personRepo: personRepo,
	}
}

type CreatePersonRequest struct {
	Name     string   `json:"name" binding:"required"`
	Age      *int     `json:"age,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Ability  *int     `json:"ability,omitempty"`
	HeightCm *float64 `json:"height_cm,omitempty"`
}

// CreatePerson handles POST /api/people
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var req CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	var v validation.PersonValidation
	if err := v.ValidatePersonName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	p := person.New(req.Name)
	p.Age = req.Age
	p.WeightKg = req.WeightKg
	p.Ability = req.Ability
	p.HeightCm = req.HeightCm

	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	if err := h.personRepo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create person",
		})
		return
	}

	c.JSON(http.StatusCreated, p)
}

// GetAllPeople handles GET /api/people
func (h *PersonHandler) GetAllPeople(c *gin.Context) {
	people, err := h.personRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list people",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"people": people,
		"count":  len(people),
	})
}

// GetPerson handles GET /api/people/{person_id}
func (h *PersonHandler) GetPerson(c *gin.Context) {
	p, err := h.personRepo.GetByID(c.Param("person_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Person not found",
		})
		return
	}

	c.JSON(http.StatusOK, p)
}

type UpdatePersonRequest struct {
	Name     *string  `json:"name,omitempty"`
	Age      *int     `json:"age,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Ability  *int     `json:"ability,omitempty"`
	HeightCm *float64 `json:"height_cm,omitempty"`
	Active   *bool    `json:"active,omitempty"`
}

// UpdatePerson handles PATCH /api/people/{person_id}
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	p, err := h.personRepo.GetByID(c.Param("person_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Person not found",
		})
		return
	}

	var req UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		var v validation.PersonValidation
		if err := v.ValidatePersonName(*req.Name); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		p.Name = *req.Name
	}
	if req.Age != nil {
		p.Age = req.Age
	}
	if req.WeightKg != nil {
		p.WeightKg = req.WeightKg
	}
	if req.Ability != nil {
		p.Ability = req.Ability
	}
	if req.HeightCm != nil {
		p.HeightCm = req.HeightCm
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	if err := h.personRepo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update person",
		})
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeletePerson handles DELETE /api/people/{person_id}
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	if err := h.personRepo.Delete(c.Param("person_id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Person not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Person deleted",
	})
}

type LinkSpousesRequest struct {
	SpouseID string `json:"spouse_id" binding:"required"`
}

// LinkSpouses handles PUT /api/people/{person_id}/spouse
func (h *PersonHandler) LinkSpouses(c *gin.Context) {
	personID := c.Param("person_id")

	var req LinkSpousesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	if personID == req.SpouseID {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A person cannot be their own spouse",
		})
		return
	}

	if err := h.personRepo.LinkSpouses(personID, req.SpouseID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to link spouses",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Spouses linked",
	})
}

// UnlinkSpouse handles DELETE /api/people/{person_id}/spouse
func (h *PersonHandler) UnlinkSpouse(c *gin.Context) {
	if err := h.personRepo.UnlinkSpouse(c.Param("person_id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to unlink spouse",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Spouse link removed",
	})
}
