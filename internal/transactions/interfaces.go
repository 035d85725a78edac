package transactions

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/seatstack/backoffice/pkg/db/models"
	"github.com/seatstack/backoffice/pkg/enums"
	"github.com/seatstack/backoffice/pkg/pagination"
)

// Repository defines persistence operations for financial transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	Find(ctx context.Context, orgID, id uuid.UUID) (*models.Transaction, error)
	FindByRecord(ctx context.Context, orgID, recordID uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, orgID uuid.UUID, params pagination.Params, filters Filters) (*TransactionList, error)
	Update(ctx context.Context, orgID, id uuid.UUID, updates map[string]any) error
	SumByVendor(ctx context.Context, orgID, vendorID uuid.UUID, direction enums.TransactionDirection) (decimal.Decimal, error)
}

// Service defines the transaction operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, orgID uuid.UUID, input CreateInput) (*models.Transaction, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, orgID uuid.UUID, params pagination.Params, filters Filters) (*TransactionList, error)
	MarkPaid(ctx context.Context, orgID, id uuid.UUID) (*models.Transaction, error)
	Cancel(ctx context.Context, orgID, id uuid.UUID) (*models.Transaction, error)
}
