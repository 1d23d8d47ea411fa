package migrations

import "gorm.io/gorm"

// migration004Up creates referential constraints, check constraints and
// the locked-round trigger
func migration004Up(db *gorm.DB) error {
	constraints := []string{
		`ALTER TABLE event_games
            ADD CONSTRAINT fk_event_games_template
            FOREIGN KEY (template_id) REFERENCES game_templates(id)
            ON DELETE RESTRICT`,

		`ALTER TABLE people
            ADD CONSTRAINT fk_people_spouse
            FOREIGN KEY (spouse_id) REFERENCES people(id)
            ON DELETE SET NULL`,

		`ALTER TABLE game_templates
            ADD CONSTRAINT chk_game_templates_team_count CHECK (team_count >= 2)`,
		`ALTER TABLE game_templates
            ADD CONSTRAINT chk_game_templates_team_size CHECK (team_size >= 1)`,
		`ALTER TABLE game_templates
            ADD CONSTRAINT chk_game_templates_rounds_per_game CHECK (rounds_per_game >= 1)`,

		`ALTER TABLE rounds
            ADD CONSTRAINT chk_rounds_number CHECK (number >= 0)`,
		`ALTER TABLE rounds
            ADD CONSTRAINT uq_rounds_game_number UNIQUE (game_id, number)`,
	}

	for _, constraintSQL := range constraints {
		if err := db.Exec(constraintSQL).Error; err != nil {
			return err
		}
	}

	// A completed round is immutable. The finalizing update itself is
	// allowed because OLD.completed_at is still NULL at that point.
	lockFunction := `
        CREATE OR REPLACE FUNCTION reject_locked_round_update()
        RETURNS TRIGGER AS $$
        BEGIN
            IF OLD.completed_at IS NOT NULL THEN
                RAISE EXCEPTION 'round % is completed and can no longer be modified', OLD.id;
            END IF;
            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`

	if err := db.Exec(lockFunction).Error; err != nil {
		return err
	}

	lockTrigger := `
        CREATE TRIGGER trg_rounds_reject_locked_update
        BEFORE UPDATE ON rounds
        FOR EACH ROW
        EXECUTE FUNCTION reject_locked_round_update()`

	return db.Exec(lockTrigger).Error
}

// migration004Down drops constraints and triggers
func migration004Down(db *gorm.DB) error {
	statements := []string{
		"DROP TRIGGER IF EXISTS trg_rounds_reject_locked_update ON rounds",
		"DROP FUNCTION IF EXISTS reject_locked_round_update()",

		"ALTER TABLE rounds DROP CONSTRAINT IF EXISTS uq_rounds_game_number",
		"ALTER TABLE rounds DROP CONSTRAINT IF EXISTS chk_rounds_number",
		"ALTER TABLE game_templates DROP CONSTRAINT IF EXISTS chk_game_templates_rounds_per_game",
		"ALTER TABLE game_templates DROP CONSTRAINT IF EXISTS chk_game_templates_team_size",
		"ALTER TABLE game_templates DROP CONSTRAINT IF EXISTS chk_game_templates_team_count",
		"ALTER TABLE people DROP CONSTRAINT IF EXISTS fk_people_spouse",
		"ALTER TABLE event_games DROP CONSTRAINT IF EXISTS fk_event_games_template",
	}

	for _, statementSQL := range statements {
		if err := db.Exec(statementSQL).Error; err != nil {
			return err
		}
	}

	return nil
}
