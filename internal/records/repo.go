package records

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seatstack/backoffice/pkg/db/models"
	"github.com/seatstack/backoffice/pkg/enums"
	"github.com/seatstack/backoffice/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a records repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.InventoryRecord) (*models.InventoryRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) Find(ctx context.Context, orgID, id uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindForUpdate(ctx context.Context, orgID, id uuid.UUID) (*models.InventoryRecord, error) {
	query := r.db.WithContext(ctx)
	// sqlite has no row locks; its single writer covers the same ground.
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var record models.InventoryRecord
	err := query.
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context, orgID uuid.UUID, params pagination.Params, filters Filters) (*RecordList, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("organization_id = ?", orgID)

	if filters.RecordType != nil {
		query = query.Where("record_type = ?", *filters.RecordType)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.GameID != nil {
		query = query.Where("game_id = ?", *filters.GameID)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(COALESCE(order_number, '')) LIKE ? OR LOWER(COALESCE(sold_to, '')) LIKE ? OR LOWER(COALESCE(bought_from, '')) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.InventoryRecord
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &RecordList{Records: rows}
	if len(rows) > limit {
		list.Records = rows[:limit]
		last := list.Records[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

// ListOpenByType returns unpaired records still awaiting reconciliation:
// available inventory or unfulfilled orders.
func (r *repository) ListOpenByType(ctx context.Context, orgID uuid.UUID, recordType enums.RecordType, gameID *int64) ([]models.InventoryRecord, error) {
	query := r.db.WithContext(ctx).
		Where("organization_id = ? AND record_type = ? AND sale_id IS NULL", orgID, recordType).
		Where("status = ?", enums.InitialStatus(recordType))
	if gameID != nil {
		query = query.Where("game_id = ?", *gameID)
	}

	var rows []models.InventoryRecord
	if err := query.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListSales returns live sale records, newest first.
func (r *repository) ListSales(ctx context.Context, orgID uuid.UUID) ([]models.InventoryRecord, error) {
	var rows []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND record_type = ? AND status <> ?",
			orgID, enums.RecordTypeSale, enums.RecordStatusCancelled).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindBySale(ctx context.Context, orgID, saleID uuid.UUID) ([]models.InventoryRecord, error) {
	var rows []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND sale_id = ?", orgID, saleID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, orgID, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("organization_id = ? AND id = ?", orgID, id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Save(ctx context.Context, record *models.InventoryRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}
