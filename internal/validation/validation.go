package validation

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateRequired valida que un campo no esté vacío
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength valida la longitud mínima de un string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(value) < minLength {
		return errors.New(fieldName + " must be at least " + strconv.Itoa(minLength) + " characters long")
	}
	return nil
}

// ValidateMaxLength valida la longitud máxima de un string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return errors.New(fieldName + " must be at most " + strconv.Itoa(maxLength) + " characters long")
	}
	return nil
}

// ValidateUUID valida que un string sea un UUID válido
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errors.New(fieldName + " must be a valid UUID")
	}
	return nil
}

// ValidatePositive valida que un entero sea mayor que cero
func ValidatePositive(value int, fieldName string) error {
	if value <= 0 {
		return errors.New(fieldName + " must be greater than zero")
	}
	return nil
}

// PersonValidation contiene validaciones específicas para participantes
type PersonValidation struct{}

// ValidatePersonName valida el nombre de un participante
func (v PersonValidation) ValidatePersonName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 2, "name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 100, "name"); err != nil {
		return err
	}
	return nil
}

// TemplateValidation contiene validaciones específicas para juegos del catálogo
type TemplateValidation struct{}

// ValidateTemplateName valida el nombre de un juego
func (v TemplateValidation) ValidateTemplateName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 100, "name"); err != nil {
		return err
	}
	return nil
}

// ValidateTeamShape valida la forma de los equipos de un juego
func (v TemplateValidation) ValidateTeamShape(teamCount, teamSize, roundsPerGame int) error {
	if teamCount < 2 {
		return errors.New("team_count must be at least 2")
	}
	if err := ValidatePositive(teamSize, "team_size"); err != nil {
		return err
	}
	if err := ValidatePositive(roundsPerGame, "rounds_per_game"); err != nil {
		return err
	}
	return nil
}

// EventValidation contiene validaciones específicas para eventos
type EventValidation struct{}

// ValidateEventName valida el nombre de un evento
func (v EventValidation) ValidateEventName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 3, "name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 100, "name"); err != nil {
		return err
	}
	return nil
}
