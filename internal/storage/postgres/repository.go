package postgres

import (
	"github.com/google/uuid"

	"github.com/gravadigital/gamenight-api/internal/domain/catalog"
	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/domain/person"
)

// EventRepository defines storage access for events and their owned
// games and rounds
type EventRepository interface {
	Create(ev *event.Event) error
	GetByID(id string) (*event.Event, error)
	GetAll() ([]*event.Event, error)
	Save(ev *event.Event) error
	Delete(id string) error
	AddGame(g *event.EventGame) error
}

// PersonRepository defines storage access for the participant roster
type PersonRepository interface {
	Create(p *person.Person) error
	GetByID(id string) (*person.Person, error)
	GetByIDs(ids []uuid.UUID) ([]*person.Person, error)
	GetAll() ([]*person.Person, error)
	Update(p *person.Person) error
	Delete(id string) error
	LinkSpouses(firstID, secondID string) error
	UnlinkSpouse(id string) error
}

// TemplateRepository defines storage access for the game catalog
type TemplateRepository interface {
	Create(t *catalog.GameTemplate) error
	GetByID(id uuid.UUID) (*catalog.GameTemplate, error)
	GetAll() ([]*catalog.GameTemplate, error)
	Update(t *catalog.GameTemplate) error
	Delete(id string) error
}

// RoundRepository defines direct storage access for rounds
type RoundRepository interface {
	GetByID(id string) (*event.Round, error)
	Save(r *event.Round) error
	DeleteByGameID(gameID uuid.UUID) error
}

// RepositoryContainer bundles every repository behind one handle
type RepositoryContainer interface {
	Events() EventRepository
	People() PersonRepository
	Templates() TemplateRepository
	Rounds() RoundRepository
	Health() error
	Close() error
}

// PaginationParams describes a page request
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// PaginatedResult wraps one page of results
type PaginatedResult struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}
