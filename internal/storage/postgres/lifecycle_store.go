package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/logger"
	"github.com/gravadigital/gamenight-api/internal/services"
)

// LifecycleStore implements the lifecycle controller's Store interface
// over GORM. Each Save writes only the entity's own columns; aggregates
// are assembled by the event repository's preloads.
type LifecycleStore struct {
	db  *gorm.DB
	log *log.Logger
}

// NewLifecycleStore creates a lifecycle store over the given connection
func NewLifecycleStore(db *gorm.DB) *LifecycleStore {
	return &LifecycleStore{
		db:  db,
		log: logger.Repository("lifecycle_store"),
	}
}

var _ services.Store = (*LifecycleStore)(nil)

func (s *LifecycleStore) SaveEvent(ev *event.Event) error {
	if err := s.db.Omit(clause.Associations).Save(ev).Error; err != nil {
		s.log.Error("Failed to save event", "error", err, "id", ev.ID)
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

func (s *LifecycleStore) SaveGame(g *event.EventGame) error {
	if err := s.db.Omit(clause.Associations).Save(g).Error; err != nil {
		s.log.Error("Failed to save game", "error", err, "id", g.ID)
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

func (s *LifecycleStore) SaveRound(r *event.Round) error {
	if err := s.db.Save(r).Error; err != nil {
		s.log.Error("Failed to save round", "error", err, "id", r.ID)
		return fmt.Errorf("failed to save round: %w", err)
	}
	return nil
}

func (s *LifecycleStore) DeleteGame(g *event.EventGame) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", g.ID).Delete(&event.Round{}).Error; err != nil {
			return fmt.Errorf("failed to delete game rounds: %w", err)
		}
		if err := tx.Delete(&event.EventGame{}, "id = ?", g.ID).Error; err != nil {
			return fmt.Errorf("failed to delete game: %w", err)
		}
		return nil
	})
}

func (s *LifecycleStore) DeleteEventRounds(eventID uuid.UUID) error {
	err := s.db.Exec(
		"DELETE FROM rounds WHERE game_id IN (SELECT id FROM event_games WHERE event_id = ?)",
		eventID,
	).Error
	if err != nil {
		s.log.Error("Failed to delete event rounds", "error", err, "event_id", eventID)
		return fmt.Errorf("failed to delete event rounds: %w", err)
	}
	return nil
}

// Transaction runs fn against a store bound to one database transaction
func (s *LifecycleStore) Transaction(fn func(services.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&LifecycleStore{db: tx, log: s.log})
	})
}
