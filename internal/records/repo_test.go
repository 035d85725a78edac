package records

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/seatstack/backoffice/pkg/db/models"
	"github.com/seatstack/backoffice/pkg/enums"
	"github.com/seatstack/backoffice/pkg/pagination"
)

func setupRecordsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	records := `
CREATE TABLE IF NOT EXISTS inventory_records (
  id TEXT PRIMARY KEY,
  organization_id TEXT NOT NULL,
  game_id INTEGER,
  record_type TEXT NOT NULL,
  status TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  area TEXT,
  block TEXT,
  row TEXT,
  seats TEXT,
  notes TEXT,
  transaction_id TEXT,
  sale_id TEXT,
  bought_from TEXT,
  bought_from_vendor_id TEXT,
  cost NUMERIC,
  order_number TEXT,
  sold_to TEXT,
  sold_to_vendor_id TEXT,
  selling NUMERIC,
  source_inventory_id TEXT,
  source_order_id TEXT,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	pairIndex := `
CREATE UNIQUE INDEX IF NOT EXISTS uniq_inventory_records_active_pair
ON inventory_records (source_inventory_id, source_order_id)
WHERE record_type = 'sale' AND status <> 'cancelled';`
	transactions := `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  organization_id TEXT NOT NULL,
  record_id TEXT,
  vendor_id TEXT,
  bank_account_id TEXT,
  direction TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  amount NUMERIC NOT NULL,
  description TEXT NOT NULL,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(records).Error)
	require.NoError(t, db.Exec(pairIndex).Error)
	require.NoError(t, db.Exec(transactions).Error)
	return db
}

func seedRecord(t *testing.T, db *gorm.DB, orgID uuid.UUID, recordType enums.RecordType, created time.Time, mutate func(*models.InventoryRecord)) *models.InventoryRecord {
	t.Helper()

	record := &models.InventoryRecord{
		ID:             uuid.New(),
		OrganizationID: orgID,
		RecordType:     recordType,
		Status:         enums.InitialStatus(recordType),
		Quantity:       2,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	if mutate != nil {
		mutate(record)
	}
	require.NoError(t, db.Create(record).Error)
	return record
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func TestRepositoryList_pagination(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	orgID := uuid.New()
	ctx := context.Background()

	now := time.Now().UTC()
	oldest := seedRecord(t, db, orgID, enums.RecordTypeInventory, now.Add(-2*time.Hour), nil)
	middle := seedRecord(t, db, orgID, enums.RecordTypeInventory, now.Add(-time.Hour), nil)
	newest := seedRecord(t, db, orgID, enums.RecordTypeOrder, now, nil)

	list, err := repo.List(ctx, orgID, pagination.Params{Limit: 2}, Filters{})
	require.NoError(t, err)
	require.Len(t, list.Records, 2)
	assert.Equal(t, newest.ID, list.Records[0].ID)
	assert.Equal(t, middle.ID, list.Records[1].ID)
	require.NotEmpty(t, list.NextCursor)

	second, err := repo.List(ctx, orgID, pagination.Params{Limit: 2, Cursor: list.NextCursor}, Filters{})
	require.NoError(t, err)
	require.Len(t, second.Records, 1)
	assert.Equal(t, oldest.ID, second.Records[0].ID)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryList_filtersAndSearch(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	orgID := uuid.New()
	ctx := context.Background()

	now := time.Now().UTC()
	seedRecord(t, db, orgID, enums.RecordTypeInventory, now.Add(-time.Minute), func(r *models.InventoryRecord) {
		r.BoughtFrom = strPtr("North Stand Brokers")
	})
	order := seedRecord(t, db, orgID, enums.RecordTypeOrder, now, func(r *models.InventoryRecord) {
		r.OrderNumber = strPtr("ORD-7741")
		r.SoldTo = strPtr("Away Fans Travel")
		r.GameID = int64Ptr(9001)
	})
	// Different org never leaks in.
	seedRecord(t, db, uuid.New(), enums.RecordTypeOrder, now, func(r *models.InventoryRecord) {
		r.OrderNumber = strPtr("ORD-7741")
	})

	orderType := enums.RecordTypeOrder
	list, err := repo.List(ctx, orgID, pagination.Params{Limit: 10}, Filters{RecordType: &orderType})
	require.NoError(t, err)
	require.Len(t, list.Records, 1)
	assert.Equal(t, order.ID, list.Records[0].ID)

	list, err = repo.List(ctx, orgID, pagination.Params{Limit: 10}, Filters{Query: "ord-77"})
	require.NoError(t, err)
	require.Len(t, list.Records, 1)
	assert.Equal(t, order.ID, list.Records[0].ID)

	list, err = repo.List(ctx, orgID, pagination.Params{Limit: 10}, Filters{Query: "north stand"})
	require.NoError(t, err)
	require.Len(t, list.Records, 1)
	assert.Equal(t, enums.RecordTypeInventory, list.Records[0].RecordType)

	list, err = repo.List(ctx, orgID, pagination.Params{Limit: 10}, Filters{GameID: int64Ptr(9001)})
	require.NoError(t, err)
	require.Len(t, list.Records, 1)
	assert.Equal(t, order.ID, list.Records[0].ID)
}

func TestRepositoryListOpenByType(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	orgID := uuid.New()
	ctx := context.Background()

	now := time.Now().UTC()
	open := seedRecord(t, db, orgID, enums.RecordTypeInventory, now.Add(-time.Hour), func(r *models.InventoryRecord) {
		r.GameID = int64Ptr(42)
	})
	// Paired lots and cancelled lots are not open.
	saleID := uuid.New()
	seedRecord(t, db, orgID, enums.RecordTypeInventory, now, func(r *models.InventoryRecord) {
		r.Status = enums.RecordStatusReserved
		r.SaleID = &saleID
		r.GameID = int64Ptr(42)
	})
	seedRecord(t, db, orgID, enums.RecordTypeInventory, now, func(r *models.InventoryRecord) {
		r.Status = enums.RecordStatusCancelled
		r.GameID = int64Ptr(42)
	})
	seedRecord(t, db, orgID, enums.RecordTypeOrder, now, func(r *models.InventoryRecord) {
		r.GameID = int64Ptr(42)
	})

	rows, err := repo.ListOpenByType(ctx, orgID, enums.RecordTypeInventory, int64Ptr(42))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, open.ID, rows[0].ID)

	rows, err = repo.ListOpenByType(ctx, orgID, enums.RecordTypeInventory, int64Ptr(43))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepositorySalesAndSources(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	orgID := uuid.New()
	ctx := context.Background()

	now := time.Now().UTC()
	sale := seedRecord(t, db, orgID, enums.RecordTypeSale, now, func(r *models.InventoryRecord) {
		r.Status = enums.RecordStatusReserved
	})
	cancelled := seedRecord(t, db, orgID, enums.RecordTypeSale, now, func(r *models.InventoryRecord) {
		r.Status = enums.RecordStatusCancelled
	})
	inv := seedRecord(t, db, orgID, enums.RecordTypeInventory, now.Add(-time.Hour), func(r *models.InventoryRecord) {
		r.Status = enums.RecordStatusReserved
		r.SaleID = &sale.ID
	})
	ord := seedRecord(t, db, orgID, enums.RecordTypeOrder, now.Add(-30*time.Minute), func(r *models.InventoryRecord) {
		r.Status = enums.RecordStatusReserved
		r.SaleID = &sale.ID
	})

	sales, err := repo.ListSales(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)
	assert.NotEqual(t, cancelled.ID, sales[0].ID)

	sources, err := repo.FindBySale(ctx, orgID, sale.ID)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, inv.ID, sources[0].ID)
	assert.Equal(t, ord.ID, sources[1].ID)
}

func TestRepositoryUpdate_missingRow(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)

	err := repo.Update(context.Background(), uuid.New(), uuid.New(), map[string]any{"notes": "x"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreate_generatesID(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)

	cost := decimal.NewFromFloat(120.50)
	record := &models.InventoryRecord{
		OrganizationID: uuid.New(),
		RecordType:     enums.RecordTypeInventory,
		Status:         enums.RecordStatusAvailable,
		Quantity:       4,
		Cost:           &cost,
	}
	saved, err := repo.Create(context.Background(), record)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)

	loaded, err := repo.Find(context.Background(), record.OrganizationID, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Cost)
	assert.True(t, loaded.Cost.Equal(cost))
}
