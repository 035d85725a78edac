package records

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/seatstack/backoffice/internal/transactions"
	"github.com/seatstack/backoffice/pkg/db/models"
	"github.com/seatstack/backoffice/pkg/enums"
	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
	"github.com/seatstack/backoffice/pkg/pagination"
	"github.com/seatstack/backoffice/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupRecordsTestDB(t)
	svc, err := NewService(NewRepository(db), transactions.NewRepository(db), gormTxRunner{db: db})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, db
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error with code %s, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func TestCreatePurchase(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	orgID := uuid.New()

	vendorID := uuid.New()
	detail, err := svc.CreatePurchase(ctx, orgID, CreatePurchaseInput{
		GameID:             int64Ptr(1201),
		Quantity:           2,
		Area:               strPtr("North"),
		Seats: types.SeatAssignments{
			{SeatLabel: "N-12-001"},
			{SeatLabel: "N-12-002"},
		},
		BoughtFromVendorID: &vendorID,
		Cost:               decimal.NewFromFloat(250.00),
	})
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}

	if detail.Record.RecordType != enums.RecordTypeInventory {
		t.Fatalf("expected inventory record, got %s", detail.Record.RecordType)
	}
	if detail.Record.Status != enums.RecordStatusAvailable {
		t.Fatalf("expected available status, got %s", detail.Record.Status)
	}
	if detail.Transaction == nil {
		t.Fatalf("expected linked transaction")
	}
	if detail.Transaction.Direction != enums.TransactionDirectionPayable {
		t.Fatalf("expected payable transaction, got %s", detail.Transaction.Direction)
	}
	if detail.Transaction.Description != "ticket purchase" {
		t.Fatalf("expected fallback description, got %q", detail.Transaction.Description)
	}

	// Linkage persisted in both directions.
	var txn models.Transaction
	if err := db.First(&txn, "id = ?", detail.Transaction.ID).Error; err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if txn.RecordID == nil || *txn.RecordID != detail.Record.ID {
		t.Fatalf("transaction not linked back to record")
	}
	if detail.Record.TransactionID == nil || *detail.Record.TransactionID != txn.ID {
		t.Fatalf("record not linked to transaction")
	}
}

func TestCreateOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	orgID := uuid.New()

	detail, err := svc.CreateOrder(ctx, orgID, CreateOrderInput{
		Quantity:    3,
		OrderNumber: strPtr("ORD-100"),
		SoldTo:      strPtr("Corporate Box Ltd"),
		Selling:     decimal.NewFromFloat(900.00),
		Description: "three seats, main stand",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if detail.Record.Status != enums.RecordStatusUnfulfilled {
		t.Fatalf("expected unfulfilled status, got %s", detail.Record.Status)
	}
	if detail.Transaction.Direction != enums.TransactionDirectionReceivable {
		t.Fatalf("expected receivable transaction, got %s", detail.Transaction.Direction)
	}
	if detail.Transaction.Description != "three seats, main stand" {
		t.Fatalf("unexpected description %q", detail.Transaction.Description)
	}
}

func TestCreatePurchaseSeatMismatch(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreatePurchase(context.Background(), uuid.New(), CreatePurchaseInput{
		Quantity: 2,
		Seats:    types.SeatAssignments{{SeatLabel: "A-1"}},
		Cost:     decimal.NewFromInt(100),
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateLockedRecordRejected(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	orgID := uuid.New()

	record := seedRecord(t, db, orgID, enums.RecordTypeInventory, time.Now().UTC(), func(r *models.InventoryRecord) {
		r.Status = enums.RecordStatusCompleted
	})

	_, err := svc.Update(ctx, orgID, record.ID, UpdateInput{Notes: strPtr("late edit")})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	orgID := uuid.New()

	record := seedRecord(t, db, orgID, enums.RecordTypeInventory, time.Now().UTC(), nil)

	updated, err := svc.UpdateStatus(ctx, orgID, record.ID, enums.RecordStatusCancelled)
	if err != nil {
		t.Fatalf("cancel record: %v", err)
	}
	if updated.Status != enums.RecordStatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
	if updated.CancelledAt == nil {
		t.Fatalf("expected cancelled_at to be set")
	}

	// Cancelled is terminal for edits, but re-cancelling is a no-op.
	if _, err := svc.UpdateStatus(ctx, orgID, record.ID, enums.RecordStatusAvailable); err == nil {
		t.Fatalf("expected transition out of cancelled to fail")
	}

	// Order statuses do not apply to inventory records.
	other := seedRecord(t, db, orgID, enums.RecordTypeInventory, time.Now().UTC(), nil)
	_, err = svc.UpdateStatus(ctx, orgID, other.ID, enums.RecordStatusUnfulfilled)
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestGetUnknownRecord(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestListRejectsInvalidFilters(t *testing.T) {
	svc, _ := newTestService(t)

	bad := enums.RecordType("bundle")
	_, err := svc.List(context.Background(), uuid.New(), pagination.Params{Limit: 10}, Filters{RecordType: &bad})
	expectCode(t, err, pkgerrors.CodeValidation)
}
