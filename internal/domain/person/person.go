package person

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Person represents a member of the participant roster. Demographic
// attributes are optional; absent values are excluded from team balancing
// rather than treated as zero.
type Person struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name     string     `json:"name" gorm:"not null"`
	Age      *int       `json:"age,omitempty"`
	WeightKg *float64   `json:"weight_kg,omitempty"`
	Ability  *int       `json:"ability,omitempty"`
	HeightCm *float64   `json:"height_cm,omitempty"`
	SpouseID *uuid.UUID `json:"spouse_id,omitempty" gorm:"type:uuid"`
	Active   bool       `json:"active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Person) TableName() string {
	return "people"
}

// BeforeCreate sets a UUID before creating the record
func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// New creates a new active person with the given display name
func New(name string) *Person {
	return &Person{
		ID:        uuid.New(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
	}
}

// IsSpouseOf reports whether this person references other as spouse.
// Symmetry of the linkage is maintained by the roster layer; callers that
// need a mutual pair should check both directions.
func (p *Person) IsSpouseOf(other *Person) bool {
	return p.SpouseID != nil && other != nil && *p.SpouseID == other.ID
}

// IsMutualSpouse reports whether both people reference each other
func (p *Person) IsMutualSpouse(other *Person) bool {
	return p.IsSpouseOf(other) && other.IsSpouseOf(p)
}

// Validate checks if the person data is valid
func (p *Person) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age != nil && *p.Age < 0 {
		return fmt.Errorf("age must be non-negative")
	}
	if p.WeightKg != nil && *p.WeightKg <= 0 {
		return fmt.Errorf("weight_kg must be positive")
	}
	if p.SpouseID != nil && *p.SpouseID == p.ID {
		return fmt.Errorf("spouse_id cannot reference self")
	}
	return nil
}
