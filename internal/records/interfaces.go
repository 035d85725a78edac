package records

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seatstack/backoffice/pkg/db/models"
	"github.com/seatstack/backoffice/pkg/enums"
	"github.com/seatstack/backoffice/pkg/pagination"
)

// Repository defines persistence operations for inventory records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.InventoryRecord) (*models.InventoryRecord, error)
	Find(ctx context.Context, orgID, id uuid.UUID) (*models.InventoryRecord, error)
	// FindForUpdate loads the row with a row-level lock; only meaningful
	// inside a transaction.
	FindForUpdate(ctx context.Context, orgID, id uuid.UUID) (*models.InventoryRecord, error)
	List(ctx context.Context, orgID uuid.UUID, params pagination.Params, filters Filters) (*RecordList, error)
	ListOpenByType(ctx context.Context, orgID uuid.UUID, recordType enums.RecordType, gameID *int64) ([]models.InventoryRecord, error)
	ListSales(ctx context.Context, orgID uuid.UUID) ([]models.InventoryRecord, error)
	FindBySale(ctx context.Context, orgID, saleID uuid.UUID) ([]models.InventoryRecord, error)
	Update(ctx context.Context, orgID, id uuid.UUID, updates map[string]any) error
	Save(ctx context.Context, record *models.InventoryRecord) error
}

// Service defines inventory record operations exposed to controllers.
type Service interface {
	CreatePurchase(ctx context.Context, orgID uuid.UUID, input CreatePurchaseInput) (*RecordDetail, error)
	CreateOrder(ctx context.Context, orgID uuid.UUID, input CreateOrderInput) (*RecordDetail, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*RecordDetail, error)
	List(ctx context.Context, orgID uuid.UUID, params pagination.Params, filters Filters) (*RecordList, error)
	ListAvailable(ctx context.Context, orgID uuid.UUID, gameID *int64) ([]models.InventoryRecord, error)
	ListUnfulfilled(ctx context.Context, orgID uuid.UUID, gameID *int64) ([]models.InventoryRecord, error)
	Update(ctx context.Context, orgID, id uuid.UUID, input UpdateInput) (*models.InventoryRecord, error)
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status enums.RecordStatus) (*models.InventoryRecord, error)
}
