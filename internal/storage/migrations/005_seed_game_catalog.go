package migrations

import "gorm.io/gorm"

// migration005Up seeds a starter game catalog so a fresh install can run
// an event without building templates by hand
func migration005Up(db *gorm.DB) error {
	templatesSQL := `
        INSERT INTO game_templates (id, name, group_name, team_count, team_size, rounds_per_game, team_type, instructions) VALUES
            ('770e8400-e29b-41d4-a716-446655440000',
             'Table Tennis Doubles', 'racket', 2, 2, 3, 'open',
             'Best of three rounds. Standard doubles rules, rotate serves every two points.'),
            ('770e8400-e29b-41d4-a716-446655440001',
             'Foosball', 'table', 2, 2, 1, 'open',
             'First team to ten goals. Switch sides at five.'),
            ('770e8400-e29b-41d4-a716-446655440002',
             'Trivia Showdown', 'quiz', 4, 3, 2, 'open',
             'Two rounds of twenty questions. Highest combined score wins.'),
            ('770e8400-e29b-41d4-a716-446655440003',
             'Couples Charades', 'party', 3, 2, 1, 'couples',
             'Each pair takes turns acting. Three minutes per turn.')
        ON CONFLICT (id) DO NOTHING
    `

	return db.Exec(templatesSQL).Error
}

// migration005Down removes the seeded catalog entries
func migration005Down(db *gorm.DB) error {
	return db.Exec(`
        DELETE FROM game_templates WHERE id IN (
            '770e8400-e29b-41d4-a716-446655440000',
            '770e8400-e29b-41d4-a716-446655440001',
            '770e8400-e29b-41d4-a716-446655440002',
            '770e8400-e29b-41d4-a716-446655440003'
        )
    `).Error
}
