package migrations

import "gorm.io/gorm"

// migration001Up creates extensions and custom types
func migration001Up(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return err
	}

	types := []string{
		`CREATE TYPE event_status AS ENUM (
            'available',
            'active',
            'paused',
            'completed'
        )`,
		`CREATE TYPE game_status AS ENUM (
            'not_started',
            'in_progress',
            'completed'
        )`,
		`CREATE TYPE team_type AS ENUM (
            'open',
            'couples'
        )`,
		`CREATE TYPE round_result AS ENUM (
            'win',
            'tie'
        )`,
	}

	for _, typeSQL := range types {
		if err := db.Exec(typeSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration001Down drops custom types
func migration001Down(db *gorm.DB) error {
	types := []string{"round_result", "team_type", "game_status", "event_status"}

	for _, name := range types {
		if err := db.Exec("DROP TYPE IF EXISTS " + name + " CASCADE").Error; err != nil {
			return err
		}
	}

	// NOTE: We don't drop the UUID extension as it might be used by other applications
	return nil
}
