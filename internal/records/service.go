package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seatstack/backoffice/internal/transactions"
	"github.com/seatstack/backoffice/pkg/db/models"
	"github.com/seatstack/backoffice/pkg/enums"
	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
	"github.com/seatstack/backoffice/pkg/pagination"
	"github.com/seatstack/backoffice/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	txns transactions.Repository
	tx   txRunner
}

// NewService builds the inventory record service with the required dependencies.
func NewService(repo Repository, txns transactions.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("records repository required")
	}
	if txns == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, txns: txns, tx: tx}, nil
}

func (s *service) CreatePurchase(ctx context.Context, orgID uuid.UUID, input CreatePurchaseInput) (*RecordDetail, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	if err := validateSeats(input.Seats, input.Quantity); err != nil {
		return nil, err
	}
	if input.Cost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost must not be negative")
	}

	record := &models.InventoryRecord{
		OrganizationID:     orgID,
		GameID:             input.GameID,
		RecordType:         enums.RecordTypeInventory,
		Status:             enums.InitialStatus(enums.RecordTypeInventory),
		Quantity:           input.Quantity,
		Area:               input.Area,
		Block:              input.Block,
		Row:                input.Row,
		Seats:              input.Seats,
		Notes:              input.Notes,
		BoughtFrom:         input.BoughtFrom,
		BoughtFromVendorID: input.BoughtFromVendorID,
		Cost:               &input.Cost,
	}
	txn := &models.Transaction{
		OrganizationID: orgID,
		VendorID:       input.BoughtFromVendorID,
		BankAccountID:  input.BankAccountID,
		Direction:      enums.TransactionDirectionPayable,
		Status:         enums.TransactionStatusPending,
		Amount:         input.Cost,
		Description:    describeOr(input.Description, "ticket purchase"),
	}

	detail, err := s.createPair(ctx, record, txn)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *service) CreateOrder(ctx context.Context, orgID uuid.UUID, input CreateOrderInput) (*RecordDetail, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	if err := validateSeats(input.Seats, input.Quantity); err != nil {
		return nil, err
	}
	if input.Selling.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selling price must not be negative")
	}

	record := &models.InventoryRecord{
		OrganizationID: orgID,
		GameID:         input.GameID,
		RecordType:     enums.RecordTypeOrder,
		Status:         enums.InitialStatus(enums.RecordTypeOrder),
		Quantity:       input.Quantity,
		Area:           input.Area,
		Block:          input.Block,
		Row:            input.Row,
		Seats:          input.Seats,
		Notes:          input.Notes,
		OrderNumber:    input.OrderNumber,
		SoldTo:         input.SoldTo,
		SoldToVendorID: input.SoldToVendorID,
		Selling:        &input.Selling,
	}
	txn := &models.Transaction{
		OrganizationID: orgID,
		VendorID:       input.SoldToVendorID,
		BankAccountID:  input.BankAccountID,
		Direction:      enums.TransactionDirectionReceivable,
		Status:         enums.TransactionStatusPending,
		Amount:         input.Selling,
		Description:    describeOr(input.Description, "ticket resale order"),
	}

	detail, err := s.createPair(ctx, record, txn)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// createPair persists a record and its financial transaction atomically,
// wiring the 1:1 linkage in both directions.
func (s *service) createPair(ctx context.Context, record *models.InventoryRecord, txn *models.Transaction) (*RecordDetail, error) {
	var detail RecordDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txns := s.txns.WithTx(tx)
		repo := s.repo.WithTx(tx)

		created, err := txns.Create(ctx, txn)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transaction")
		}

		record.TransactionID = &created.ID
		saved, err := repo.Create(ctx, record)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory record")
		}

		if err := txns.Update(ctx, saved.OrganizationID, created.ID, map[string]any{"record_id": saved.ID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link transaction to record")
		}
		created.RecordID = &saved.ID

		detail = RecordDetail{Record: *saved, Transaction: created}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *service) Get(ctx context.Context, orgID, id uuid.UUID) (*RecordDetail, error) {
	record, err := s.findRecord(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	detail := &RecordDetail{Record: *record}
	if record.TransactionID != nil {
		txn, err := s.txns.Find(ctx, orgID, *record.TransactionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
		}
		detail.Transaction = txn
	}
	return detail, nil
}

func (s *service) List(ctx context.Context, orgID uuid.UUID, params pagination.Params, filters Filters) (*RecordList, error) {
	if filters.RecordType != nil && !filters.RecordType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid record type filter")
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}

	list, err := s.repo.List(ctx, orgID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory records")
	}
	return list, nil
}

func (s *service) ListAvailable(ctx context.Context, orgID uuid.UUID, gameID *int64) ([]models.InventoryRecord, error) {
	rows, err := s.repo.ListOpenByType(ctx, orgID, enums.RecordTypeInventory, gameID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available inventory")
	}
	return rows, nil
}

func (s *service) ListUnfulfilled(ctx context.Context, orgID uuid.UUID, gameID *int64) ([]models.InventoryRecord, error) {
	rows, err := s.repo.ListOpenByType(ctx, orgID, enums.RecordTypeOrder, gameID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list unfulfilled orders")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, orgID, id uuid.UUID, input UpdateInput) (*models.InventoryRecord, error) {
	record, err := s.findRecord(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if record.Status.IsLocked() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("record is %s and can no longer be edited", record.Status))
	}

	if input.Seats != nil {
		if err := validateSeats(*input.Seats, record.Quantity); err != nil {
			return nil, err
		}
		record.Seats = *input.Seats
	}
	if input.Area != nil {
		record.Area = input.Area
	}
	if input.Block != nil {
		record.Block = input.Block
	}
	if input.Row != nil {
		record.Row = input.Row
	}
	if input.Notes != nil {
		record.Notes = input.Notes
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory record")
	}
	return record, nil
}

func (s *service) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status enums.RecordStatus) (*models.InventoryRecord, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid record status")
	}

	record, err := s.findRecord(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if !enums.CanTransition(record.RecordType, record.Status, status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move %s record from %s to %s", record.RecordType, record.Status, status)).
			WithDetails(map[string]any{"from": record.Status, "to": status})
	}
	if record.Status == status {
		return record, nil
	}

	record.Status = status
	if status == enums.RecordStatusCancelled {
		now := time.Now().UTC()
		record.CancelledAt = &now
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update record status")
	}
	return record, nil
}

func (s *service) findRecord(ctx context.Context, orgID, id uuid.UUID) (*models.InventoryRecord, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	record, err := s.repo.Find(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
	}
	return record, nil
}

func validateSeats(seats types.SeatAssignments, quantity int) error {
	if len(seats) == 0 {
		return nil
	}
	if len(seats) != quantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "seat assignments must match quantity").
			WithDetails(map[string]any{"seats": len(seats), "quantity": quantity})
	}
	for i, seat := range seats {
		if seat.SeatLabel == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "seat label is required").
				WithDetails(map[string]any{"index": i})
		}
	}
	return nil
}

func describeOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
