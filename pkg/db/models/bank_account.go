package models

import (
	"time"

	"github.com/google/uuid"
)

// BankAccount is a settlement account transactions can reference.
type BankAccount struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null;index"`
	Name           string    `gorm:"column:name;not null"`
	Institution    string    `gorm:"column:institution;not null"`
	LastFour       *string   `gorm:"column:last_four"`
	Notes          *string   `gorm:"column:notes"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
