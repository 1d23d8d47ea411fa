package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/logger"
)

// PostgresRoundRepository implements RoundRepository using GORM. Teams,
// placements and result are structured fields in memory; the json
// serializer encodes them at this boundary.
type PostgresRoundRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresRoundRepository creates a new PostgreSQL round repository
func NewPostgresRoundRepository(db *gorm.DB) *PostgresRoundRepository {
	return &PostgresRoundRepository{
		db:  db,
		log: logger.Repository("round"),
	}
}

func (r *PostgresRoundRepository) GetByID(id string) (*event.Round, error) {
	r.log.Debug("retrieving round by ID", "round_id", id)

	roundID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("Invalid round ID format", "id", id, "error", err)
		return nil, errors.New("invalid round ID format")
	}

	var round event.Round
	if err := r.db.First(&round, roundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("Round not found", "id", id)
			return nil, errors.New("round not found")
		}
		r.log.Error("Failed to get round by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get round by ID: %w", err)
	}

	return &round, nil
}

func (r *PostgresRoundRepository) Save(round *event.Round) error {
	r.log.Debug("Saving round", "id", round.ID, "game_id", round.GameID, "number", round.Number)

	if err := r.db.Save(round).Error; err != nil {
		r.log.Error("Failed to save round", "error", err, "id", round.ID)
		return fmt.Errorf("failed to save round: %w", err)
	}

	return nil
}

func (r *PostgresRoundRepository) DeleteByGameID(gameID uuid.UUID) error {
	r.log.Debug("deleting rounds for game", "game_id", gameID)

	if err := r.db.Where("game_id = ?", gameID).Delete(&event.Round{}).Error; err != nil {
		r.log.Error("Failed to delete rounds", "error", err, "game_id", gameID)
		return fmt.Errorf("failed to delete rounds: %w", err)
	}

	return nil
}
