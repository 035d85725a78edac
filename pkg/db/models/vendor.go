package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a counterparty on the buy or sell side of a transaction.
type Vendor struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null;index"`
	Name           string    `gorm:"column:name;not null"`
	ContactEmail   *string   `gorm:"column:contact_email"`
	Phone          *string   `gorm:"column:phone"`
	Notes          *string   `gorm:"column:notes"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
