package records

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seatstack/backoffice/pkg/db/models"
	"github.com/seatstack/backoffice/pkg/enums"
	"github.com/seatstack/backoffice/pkg/types"
)

// Filters describe the inputs supported by the records list.
type Filters struct {
	RecordType *enums.RecordType
	Status     *enums.RecordStatus
	GameID     *int64
	Query      string
}

// RecordList wraps the paginated records plus the next page cursor.
type RecordList struct {
	Records    []models.InventoryRecord `json:"records"`
	NextCursor string                   `json:"next_cursor,omitempty"`
}

// RecordDetail joins a record with its financial transaction.
type RecordDetail struct {
	Record      models.InventoryRecord `json:"record"`
	Transaction *models.Transaction    `json:"transaction,omitempty"`
}

// CreatePurchaseInput captures a new purchased lot plus its payable.
type CreatePurchaseInput struct {
	GameID             *int64                `json:"game_id"`
	Quantity           int                   `json:"quantity" validate:"required,gt=0"`
	Area               *string               `json:"area"`
	Block              *string               `json:"block"`
	Row                *string               `json:"row"`
	Seats              types.SeatAssignments `json:"seats"`
	Notes              *string               `json:"notes"`
	BoughtFrom         *string               `json:"bought_from"`
	BoughtFromVendorID *uuid.UUID            `json:"bought_from_vendor_id"`
	Cost               decimal.Decimal       `json:"cost" validate:"required"`
	BankAccountID      *uuid.UUID            `json:"bank_account_id"`
	Description        string                `json:"description" validate:"max=500"`
}

// CreateOrderInput captures a resale order plus its receivable.
type CreateOrderInput struct {
	GameID         *int64                `json:"game_id"`
	Quantity       int                   `json:"quantity" validate:"required,gt=0"`
	Area           *string               `json:"area"`
	Block          *string               `json:"block"`
	Row            *string               `json:"row"`
	Seats          types.SeatAssignments `json:"seats"`
	Notes          *string               `json:"notes"`
	OrderNumber    *string               `json:"order_number"`
	SoldTo         *string               `json:"sold_to"`
	SoldToVendorID *uuid.UUID            `json:"sold_to_vendor_id"`
	Selling        decimal.Decimal       `json:"selling" validate:"required"`
	BankAccountID  *uuid.UUID            `json:"bank_account_id"`
	Description    string                `json:"description" validate:"max=500"`
}

// UpdateInput carries the mutable descriptive fields of a record. Pricing and
// pairing never change through this path.
type UpdateInput struct {
	Area  *string                `json:"area"`
	Block *string                `json:"block"`
	Row   *string                `json:"row"`
	Seats *types.SeatAssignments `json:"seats"`
	Notes *string                `json:"notes"`
}
