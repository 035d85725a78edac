package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seatstack/backoffice/pkg/enums"
)

// Transaction is the financial row linked 1:1 to an inventory record. It is
// never hard-deleted; cancels flip the status.
type Transaction struct {
	ID             uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID                  `gorm:"column:organization_id;type:uuid;not null;index"`
	RecordID       *uuid.UUID                 `gorm:"column:record_id;type:uuid;index"`
	VendorID       *uuid.UUID                 `gorm:"column:vendor_id;type:uuid;index"`
	BankAccountID  *uuid.UUID                 `gorm:"column:bank_account_id;type:uuid"`
	Direction      enums.TransactionDirection `gorm:"column:direction;type:text;not null"`
	Status         enums.TransactionStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	Amount         decimal.Decimal            `gorm:"column:amount;type:numeric(12,2);not null"`
	Description    string                     `gorm:"column:description;not null"`
	CancelledAt    *time.Time                 `gorm:"column:cancelled_at"`
	CreatedAt      time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
