package migrations

import "gorm.io/gorm"

// migration003Up creates performance indexes
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_events_status ON events(status)",
		"CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_event_games_event ON event_games(event_id)",
		"CREATE INDEX IF NOT EXISTS idx_event_games_template ON event_games(template_id)",
		"CREATE INDEX IF NOT EXISTS idx_event_games_status ON event_games(status)",
		"CREATE INDEX IF NOT EXISTS idx_event_games_position ON event_games(event_id, position)",

		"CREATE INDEX IF NOT EXISTS idx_rounds_game ON rounds(game_id)",
		"CREATE INDEX IF NOT EXISTS idx_rounds_game_number ON rounds(game_id, number)",
		"CREATE INDEX IF NOT EXISTS idx_rounds_completed_at ON rounds(completed_at)",

		"CREATE INDEX IF NOT EXISTS idx_people_name ON people(lower(name))",
		"CREATE INDEX IF NOT EXISTS idx_people_active ON people(active)",
		"CREATE INDEX IF NOT EXISTS idx_people_spouse ON people(spouse_id)",

		"CREATE INDEX IF NOT EXISTS idx_game_templates_group ON game_templates(group_name)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops performance indexes
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"idx_events_status",
		"idx_events_created_at",
		"idx_event_games_event",
		"idx_event_games_template",
		"idx_event_games_status",
		"idx_event_games_position",
		"idx_rounds_game",
		"idx_rounds_game_number",
		"idx_rounds_completed_at",
		"idx_people_name",
		"idx_people_active",
		"idx_people_spouse",
		"idx_game_templates_group",
	}

	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index).Error; err != nil {
			return err
		}
	}

	return nil
}
