package reconcile

import (
	"github.com/google/uuid"

	"github.com/seatstack/backoffice/pkg/db/models"
)

// AssignInput pairs one available inventory lot with one unfulfilled order.
type AssignInput struct {
	InventoryID uuid.UUID `json:"inventory_id" validate:"required"`
	OrderID     uuid.UUID `json:"order_id" validate:"required"`
}

// SplitInput divides a record into sub-lots whose quantities sum to the
// original quantity.
type SplitInput struct {
	Parts []int `json:"parts" validate:"required,min=2,dive,gt=0"`
}

// SaleDetail is a sale record together with its two source records.
type SaleDetail struct {
	Sale    models.InventoryRecord   `json:"sale"`
	Sources []models.InventoryRecord `json:"sources"`
}

// SplitResult lists the sub-lots after a split; the first element reuses the
// original record's id.
type SplitResult struct {
	Records []models.InventoryRecord `json:"records"`
}

// CancelResult reports the cancelled record and, when it succeeded, the
// cancelled transaction. Warning is set when the record was cancelled but the
// transaction could not be.
type CancelResult struct {
	Record      models.InventoryRecord `json:"record"`
	Transaction *models.Transaction    `json:"transaction,omitempty"`
	Warning     string                 `json:"-"`
}
