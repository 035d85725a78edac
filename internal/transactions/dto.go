package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seatstack/backoffice/pkg/db/models"
	"github.com/seatstack/backoffice/pkg/enums"
)

// Filters describe the inputs supported by the transactions list.
type Filters struct {
	Status    *enums.TransactionStatus
	Direction *enums.TransactionDirection
	VendorID  *uuid.UUID
	DateFrom  *time.Time
	DateTo    *time.Time
}

// TransactionList wraps the paginated transactions plus the next page cursor.
type TransactionList struct {
	Transactions []models.Transaction `json:"transactions"`
	NextCursor   string               `json:"next_cursor,omitempty"`
}

// CreateInput captures a standalone financial transaction, one not born from
// an inventory record.
type CreateInput struct {
	VendorID      *uuid.UUID      `json:"vendor_id"`
	BankAccountID *uuid.UUID      `json:"bank_account_id"`
	Direction     string          `json:"direction" validate:"required,oneof=payable receivable"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Description   string          `json:"description" validate:"required,max=500"`
}
