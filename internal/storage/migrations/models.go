package migrations

import (
	"github.com/gravadigital/gamenight-api/internal/domain/catalog"
	"github.com/gravadigital/gamenight-api/internal/domain/event"
	"github.com/gravadigital/gamenight-api/internal/domain/person"
)

// AllModels returns a slice of all models for migration, ordered so that
// referenced tables are created before the tables that point at them
func AllModels() []any {
	return []any{
		&person.Person{},
		&catalog.GameTemplate{},
		&event.Event{},
		&event.EventGame{},
		&event.Round{},
	}
}
