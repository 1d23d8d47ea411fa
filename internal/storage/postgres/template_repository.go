package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/gamenight-api/internal/domain/catalog"
	"github.com/gravadigital/gamenight-api/internal/logger"
)

// PostgresTemplateRepository implements TemplateRepository using GORM
type PostgresTemplateRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresTemplateRepository creates a new PostgreSQL template repository
func NewPostgresTemplateRepository(db *gorm.DB) *PostgresTemplateRepository {
	return &PostgresTemplateRepository{
		db:  db,
		log: logger.Repository("template"),
	}
}

func (r *PostgresTemplateRepository) Create(t *catalog.GameTemplate) error {
	r.log.Debug("Creating game template", "name", t.Name)

	if err := t.Validate(); err != nil {
		r.log.Error("Template validation failed", "error", err)
		return fmt.Errorf("template validation failed: %w", err)
	}

	if err := r.db.Create(t).Error; err != nil {
		r.log.Error("Failed to create template", "error", err, "name", t.Name)
		return fmt.Errorf("failed to create template: %w", err)
	}

	r.log.Info("Template created successfully", "id", t.ID, "name", t.Name)
	return nil
}

func (r *PostgresTemplateRepository) GetByID(id uuid.UUID) (*catalog.GameTemplate, error) {
	r.log.Debug("retrieving template by ID", "template_id", id)

	var t catalog.GameTemplate
	if err := r.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("Template not found", "id", id)
			return nil, errors.New("template not found")
		}
		r.log.Error("Failed to get template by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get template by ID: %w", err)
	}

	return &t, nil
}

func (r *PostgresTemplateRepository) GetAll() ([]*catalog.GameTemplate, error) {
	var templates []*catalog.GameTemplate
	if err := r.db.Order("group_name ASC, name ASC").Find(&templates).Error; err != nil {
		r.log.Error("Failed to get all templates", "error", err)
		return nil, fmt.Errorf("failed to get all templates: %w", err)
	}

	r.log.Debug("Retrieved all templates", "count", len(templates))
	return templates, nil
}

func (r *PostgresTemplateRepository) Update(t *catalog.GameTemplate) error {
	r.log.Debug("Updating template", "id", t.ID)

	if err := t.Validate(); err != nil {
		r.log.Error("Template validation failed", "error", err)
		return fmt.Errorf("template validation failed: %w", err)
	}

	var existing catalog.GameTemplate
	if err := r.db.First(&existing, t.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("Template not found for update", "id", t.ID)
			return errors.New("template not found")
		}
		return fmt.Errorf("failed to check template existence: %w", err)
	}

	if err := r.db.Save(t).Error; err != nil {
		r.log.Error("Failed to update template", "error", err, "id", t.ID)
		return fmt.Errorf("failed to update template: %w", err)
	}

	r.log.Info("Template updated successfully", "id", t.ID, "name", t.Name)
	return nil
}

func (r *PostgresTemplateRepository) Delete(id string) error {
	r.log.Debug("deleting template", "template_id", id)

	templateID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid template ID format", "template_id", id, "error", err)
		return errors.New("invalid template ID format")
	}

	// Templates referenced by scheduled games must stay resolvable.
	var inUse int64
	if err := r.db.Table("event_games").Where("template_id = ?", templateID).Count(&inUse).Error; err != nil {
		return fmt.Errorf("failed to check template usage: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("template %s is referenced by %d scheduled games", id, inUse)
	}

	result := r.db.Delete(&catalog.GameTemplate{}, templateID)
	if result.Error != nil {
		r.log.Error("Failed to delete template", "error", result.Error, "id", id)
		return fmt.Errorf("failed to delete template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("template not found")
	}

	r.log.Info("template deleted successfully", "template_id", id)
	return nil
}
