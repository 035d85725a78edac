package reconcile

import (
	"context"

	"github.com/google/uuid"

	"github.com/seatstack/backoffice/pkg/db/models"
)

// Service defines the reconciliation operations that pair, split, and settle
// inventory records.
type Service interface {
	Assign(ctx context.Context, orgID uuid.UUID, input AssignInput) (*SaleDetail, error)
	Candidates(ctx context.Context, orgID, orderID uuid.UUID, showAll bool) ([]models.InventoryRecord, error)
	Split(ctx context.Context, orgID, recordID uuid.UUID, input SplitInput) (*SplitResult, error)
	ListSales(ctx context.Context, orgID uuid.UUID) ([]SaleDetail, error)
	CompleteSale(ctx context.Context, orgID, saleID uuid.UUID) (*SaleDetail, error)
	UnassignSale(ctx context.Context, orgID, saleID uuid.UUID) (*SaleDetail, error)
	Cancel(ctx context.Context, orgID, recordID uuid.UUID) (*CancelResult, error)
}
