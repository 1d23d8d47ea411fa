package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/logger"
)

// PostgresEventRepository implements EventRepository using GORM. Loads
// return the full aggregate: games in schedule order, each with its
// rounds in play order.
type PostgresEventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresEventRepository creates a new PostgreSQL event repository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

func (r *PostgresEventRepository) Create(ev *event.Event) error {
	r.log.Debug("Creating event", "name", ev.Name)

	if err := ev.Validate(); err != nil {
		r.log.Error("Event validation failed", "error", err)
		return fmt.Errorf("event validation failed: %w", err)
	}

	if err := r.db.Create(ev).Error; err != nil {
		r.log.Error("Failed to create event", "error", err, "name", ev.Name)
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.log.Info("Event created successfully", "id", ev.ID, "name", ev.Name)
	return nil
}

func (r *PostgresEventRepository) GetByID(id string) (*event.Event, error) {
	r.log.Debug("retrieving event by ID", "event_id", id)

	eventID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("Invalid event ID format", "id", id, "error", err)
		return nil, errors.New("invalid event ID format")
	}

	var ev event.Event
	err = r.db.
		Preload("Games", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_games.position ASC")
		}).
		Preload("Games.Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("rounds.number ASC")
		}).
		First(&ev, eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("Event not found", "id", id)
			return nil, errors.New("event not found")
		}
		r.log.Error("Failed to get event by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}

	return &ev, nil
}

func (r *PostgresEventRepository) GetAll() ([]*event.Event, error) {
	var events []*event.Event
	if err := r.db.Order("created_at DESC").Find(&events).Error; err != nil {
		r.log.Error("Failed to get all events", "error", err)
		return nil, fmt.Errorf("failed to get all events: %w", err)
	}

	r.log.Debug("Retrieved all events", "count", len(events))
	return events, nil
}

// Save persists the event's own columns. Owned games and rounds are
// written through their own repositories so a partial aggregate never
// clobbers association rows.
func (r *PostgresEventRepository) Save(ev *event.Event) error {
	r.log.Debug("Saving event", "id", ev.ID)

	if err := ev.Validate(); err != nil {
		r.log.Error("Event validation failed", "error", err)
		return fmt.Errorf("event validation failed: %w", err)
	}

	if err := r.db.Omit(clause.Associations).Save(ev).Error; err != nil {
		r.log.Error("Failed to save event", "error", err, "id", ev.ID)
		return fmt.Errorf("failed to save event: %w", err)
	}

	return nil
}

func (r *PostgresEventRepository) Delete(id string) error {
	r.log.Debug("deleting event", "event_id", id)

	eventID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid event ID format", "event_id", id, "error", err)
		return errors.New("invalid event ID format")
	}

	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to start transaction: %w", tx.Error)
	}

	var ev event.Event
	if err := tx.First(&ev, eventID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("attempted to delete non-existent event", "event_id", id)
			return errors.New("event not found")
		}
		return fmt.Errorf("failed to check event existence: %w", err)
	}

	// Rounds and games cascade from the event via FK constraints, but the
	// round table has no direct event reference, so clear it explicitly.
	if err := tx.Exec("DELETE FROM rounds WHERE game_id IN (SELECT id FROM event_games WHERE event_id = ?)", eventID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete event rounds: %w", err)
	}
	if err := tx.Exec("DELETE FROM event_games WHERE event_id = ?", eventID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete event games: %w", err)
	}
	if err := tx.Delete(&ev).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.Info("event deleted successfully", "event_id", id)
	return nil
}

// AddGame appends a scheduled game row for an event
func (r *PostgresEventRepository) AddGame(g *event.EventGame) error {
	r.log.Debug("Adding game to event", "event_id", g.EventID, "template_id", g.TemplateID)

	if err := r.db.Create(g).Error; err != nil {
		r.log.Error("Failed to add game", "error", err, "event_id", g.EventID)
		return fmt.Errorf("failed to add game: %w", err)
	}

	r.log.Info("Game added to event", "id", g.ID, "event_id", g.EventID)
	return nil
}
