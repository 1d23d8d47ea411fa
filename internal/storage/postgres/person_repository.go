package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/gamenight-api/internal/domain/person"
	"github.com/gravadigital/gamenight-api/internal/logger"
)

// PostgresPersonRepository implements PersonRepository using GORM
type PostgresPersonRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresPersonRepository creates a new PostgreSQL person repository
func NewPostgresPersonRepository(db *gorm.DB) *PostgresPersonRepository {
	return &PostgresPersonRepository{
		db:  db,
		log: logger.Repository("person"),
	}
}

func (r *PostgresPersonRepository) Create(p *person.Person) error {
	r.log.Debug("Creating person", "name", p.Name)

	if err := p.Validate(); err != nil {
		r.log.Error("Person validation failed", "error", err)
		return fmt.Errorf("person validation failed: %w", err)
	}

	if err := r.db.Create(p).Error; err != nil {
		r.log.Error("Failed to create person", "error", err, "name", p.Name)
		return fmt.Errorf("failed to create person: %w", err)
	}

	r.log.Info("Person created successfully", "id", p.ID, "name", p.Name)
	return nil
}

func (r *PostgresPersonRepository) GetByID(id string) (*person.Person, error) {
	r.log.Debug("retrieving person by ID", "person_id", id)

	personID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("Invalid person ID format", "id", id, "error", err)
		return nil, errors.New("invalid person ID format")
	}

	var p person.Person
	if err := r.db.First(&p, personID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("Person not found", "id", id)
			return nil, errors.New("person not found")
		}
		r.log.Error("Failed to get person by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get person by ID: %w", err)
	}

	return &p, nil
}

// GetByIDs loads people preserving the order of the requested ids.
// Missing ids are silently dropped; callers compare lengths when
// existence matters.
func (r *PostgresPersonRepository) GetByIDs(ids []uuid.UUID) ([]*person.Person, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var people []*person.Person
	if err := r.db.Where("id IN ?", ids).Find(&people).Error; err != nil {
		r.log.Error("Failed to get people by IDs", "error", err, "count", len(ids))
		return nil, fmt.Errorf("failed to get people by IDs: %w", err)
	}

	byID := make(map[uuid.UUID]*person.Person, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}

	ordered := make([]*person.Person, 0, len(people))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	r.log.Debug("Retrieved people by IDs", "requested", len(ids), "found", len(ordered))
	return ordered, nil
}

func (r *PostgresPersonRepository) GetAll() ([]*person.Person, error) {
	var people []*person.Person
	if err := r.db.Order("lower(name) ASC").Find(&people).Error; err != nil {
		r.log.Error("Failed to get all people", "error", err)
		return nil, fmt.Errorf("failed to get all people: %w", err)
	}

	r.log.Debug("Retrieved all people", "count", len(people))
	return people, nil
}

func (r *PostgresPersonRepository) Update(p *person.Person) error {
	r.log.Debug("Updating person", "id", p.ID)

	if err := p.Validate(); err != nil {
		r.log.Error("Person validation failed", "error", err)
		return fmt.Errorf("person validation failed: %w", err)
	}

	var existing person.Person
	if err := r.db.First(&existing, p.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("Person not found for update", "id", p.ID)
			return errors.New("person not found")
		}
		return fmt.Errorf("failed to check person existence: %w", err)
	}

	if err := r.db.Save(p).Error; err != nil {
		r.log.Error("Failed to update person", "error", err, "id", p.ID)
		return fmt.Errorf("failed to update person: %w", err)
	}

	r.log.Info("Person updated successfully", "id", p.ID, "name", p.Name)
	return nil
}

func (r *PostgresPersonRepository) Delete(id string) error {
	r.log.Debug("deleting person", "person_id", id)

	personID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid person ID format", "person_id", id, "error", err)
		return errors.New("invalid person ID format")
	}

	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to start transaction: %w", tx.Error)
	}

	var p person.Person
	if err := tx.First(&p, personID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("attempted to delete non-existent person", "person_id", id)
			return errors.New("person not found")
		}
		return fmt.Errorf("failed to check person existence: %w", err)
	}

	// Keep spouse links symmetric: anyone pointing at the deleted person
	// loses the reference.
	if err := tx.Model(&person.Person{}).
		Where("spouse_id = ?", personID).
		Update("spouse_id", nil).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear spouse references: %w", err)
	}

	if err := tx.Delete(&p).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete person: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.Info("person deleted successfully", "person_id", id, "name", p.Name)
	return nil
}

// LinkSpouses sets a mutual spouse reference between two people. The
// assignment engine assumes the linkage is symmetric, so both rows are
// written in one transaction.
func (r *PostgresPersonRepository) LinkSpouses(firstID, secondID string) error {
	r.log.Debug("linking spouses", "first", firstID, "second", secondID)

	first, err := uuid.Parse(firstID)
	if err != nil {
		return errors.New("invalid person ID format")
	}
	second, err := uuid.Parse(secondID)
	if err != nil {
		return errors.New("invalid person ID format")
	}
	if first == second {
		return errors.New("cannot link a person to themselves")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		// Anyone previously linked to either person loses the reference,
		// keeping the linkage symmetric.
		if err := tx.Model(&person.Person{}).Where("spouse_id IN ?", []uuid.UUID{first, second}).Update("spouse_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear prior spouse references: %w", err)
		}
		if err := tx.Model(&person.Person{}).Where("id = ?", first).Update("spouse_id", second).Error; err != nil {
			return fmt.Errorf("failed to link spouse: %w", err)
		}
		if err := tx.Model(&person.Person{}).Where("id = ?", second).Update("spouse_id", first).Error; err != nil {
			return fmt.Errorf("failed to link spouse: %w", err)
		}
		return nil
	})
}

// UnlinkSpouse clears the spouse reference on both sides of a pair
func (r *PostgresPersonRepository) UnlinkSpouse(id string) error {
	r.log.Debug("unlinking spouse", "person_id", id)

	personID, err := uuid.Parse(id)
	if err != nil {
		return errors.New("invalid person ID format")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&person.Person{}).Where("spouse_id = ?", personID).Update("spouse_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear spouse reference: %w", err)
		}
		if err := tx.Model(&person.Person{}).Where("id = ?", personID).Update("spouse_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear spouse reference: %w", err)
		}
		return nil
	})
}
