package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seatstack/backoffice/pkg/enums"
	"github.com/seatstack/backoffice/pkg/types"
)

// InventoryRecord is the tri-variant row backing purchased lots, resale
// orders, and the sale records reconciling them. The RecordType column
// discriminates which optional field groups apply.
type InventoryRecord struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID             `gorm:"column:organization_id;type:uuid;not null;index"`
	GameID         *int64                `gorm:"column:game_id"`
	RecordType     enums.RecordType      `gorm:"column:record_type;type:text;not null"`
	Status         enums.RecordStatus    `gorm:"column:status;type:text;not null"`
	Quantity       int                   `gorm:"column:quantity;not null"`
	Area           *string               `gorm:"column:area"`
	Block          *string               `gorm:"column:block"`
	Row            *string               `gorm:"column:row"`
	Seats          types.SeatAssignments `gorm:"column:seats;type:jsonb"`
	Notes          *string               `gorm:"column:notes"`
	TransactionID  *uuid.UUID            `gorm:"column:transaction_id;type:uuid"`

	// Set on inventory and order rows once they are paired into a sale; the
	// row then disappears from available/unfulfilled listings.
	SaleID *uuid.UUID `gorm:"column:sale_id;type:uuid;index"`

	// inventory (purchase) fields
	BoughtFrom         *string          `gorm:"column:bought_from"`
	BoughtFromVendorID *uuid.UUID       `gorm:"column:bought_from_vendor_id;type:uuid"`
	Cost               *decimal.Decimal `gorm:"column:cost;type:numeric(12,2)"`

	// order (resale) fields
	OrderNumber    *string          `gorm:"column:order_number"`
	SoldTo         *string          `gorm:"column:sold_to"`
	SoldToVendorID *uuid.UUID       `gorm:"column:sold_to_vendor_id;type:uuid"`
	Selling        *decimal.Decimal `gorm:"column:selling;type:numeric(12,2)"`

	// sale fields
	SourceInventoryID *uuid.UUID `gorm:"column:source_inventory_id;type:uuid"`
	SourceOrderID     *uuid.UUID `gorm:"column:source_order_id;type:uuid"`

	CancelledAt *time.Time `gorm:"column:cancelled_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (InventoryRecord) TableName() string {
	return "inventory_records"
}
