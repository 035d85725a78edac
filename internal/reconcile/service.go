package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/seatstack/backoffice/internal/records"
	"github.com/seatstack/backoffice/internal/transactions"
	"github.com/seatstack/backoffice/pkg/db/models"
	"github.com/seatstack/backoffice/pkg/enums"
	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
	"github.com/seatstack/backoffice/pkg/logger"
	"github.com/seatstack/backoffice/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo records.Repository
	txns transactions.Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the reconciliation service with the required dependencies.
func NewService(repo records.Repository, txns transactions.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("records repository required")
	}
	if txns == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, txns: txns, tx: tx, logg: logg}, nil
}

// Assign pairs an available inventory lot with an unfulfilled order of equal
// quantity, creating the reserved sale record that links them. Both sources
// are locked for the duration so concurrent assignments of the same rows
// serialize; the partial unique index on (source_inventory_id,
// source_order_id) backstops a double assign that races past the lock.
func (s *service) Assign(ctx context.Context, orgID uuid.UUID, input AssignInput) (*SaleDetail, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	if input.InventoryID == input.OrderID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory and order must differ")
	}

	var detail SaleDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		inventory, err := s.lockRecord(ctx, repo, orgID, input.InventoryID)
		if err != nil {
			return err
		}
		order, err := s.lockRecord(ctx, repo, orgID, input.OrderID)
		if err != nil {
			return err
		}

		if inventory.RecordType != enums.RecordTypeInventory {
			return pkgerrors.New(pkgerrors.CodeValidation, "inventory_id must reference an inventory record")
		}
		if order.RecordType != enums.RecordTypeOrder {
			return pkgerrors.New(pkgerrors.CodeValidation, "order_id must reference an order record")
		}
		if inventory.Status != enums.RecordStatusAvailable || inventory.SaleID != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "inventory lot is not available").
				WithDetails(map[string]any{"status": inventory.Status})
		}
		if order.Status != enums.RecordStatusUnfulfilled || order.SaleID != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not unfulfilled").
				WithDetails(map[string]any{"status": order.Status})
		}
		if inventory.Quantity != order.Quantity {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "inventory and order quantities must match").
				WithDetails(map[string]any{
					"inventory_quantity": inventory.Quantity,
					"order_quantity":     order.Quantity,
				})
		}
		if inventory.GameID != nil && order.GameID != nil && *inventory.GameID != *order.GameID {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "inventory and order reference different games")
		}

		sale := &models.InventoryRecord{
			OrganizationID:    orgID,
			GameID:            firstGameID(inventory.GameID, order.GameID),
			RecordType:        enums.RecordTypeSale,
			Status:            enums.RecordStatusReserved,
			Quantity:          inventory.Quantity,
			Area:              inventory.Area,
			Block:             inventory.Block,
			Row:               inventory.Row,
			Seats:             inventory.Seats,
			Cost:              inventory.Cost,
			Selling:           order.Selling,
			SourceInventoryID: &inventory.ID,
			SourceOrderID:     &order.ID,
		}
		if _, err := repo.Create(ctx, sale); err != nil {
			if isUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "these records are already assigned to a sale")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sale record")
		}

		for _, source := range []*models.InventoryRecord{inventory, order} {
			source.SaleID = &sale.ID
			source.Status = enums.RecordStatusReserved
			if err := repo.Save(ctx, source); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve source record")
			}
		}

		detail = SaleDetail{Sale: *sale, Sources: []models.InventoryRecord{*inventory, *order}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Candidates lists the available inventory lots that could fill the order:
// same game, exact quantity, matching area and seat string, oldest first.
// showAll drops everything but the game filter so an operator can pair lots
// the heuristic would hide.
func (s *service) Candidates(ctx context.Context, orgID, orderID uuid.UUID, showAll bool) ([]models.InventoryRecord, error) {
	order, err := s.findRecord(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	if order.RecordType != enums.RecordTypeOrder {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "candidates are only computed for order records")
	}
	if order.Status != enums.RecordStatusUnfulfilled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not unfulfilled").
			WithDetails(map[string]any{"status": order.Status})
	}

	open, err := s.repo.ListOpenByType(ctx, orgID, enums.RecordTypeInventory, order.GameID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available inventory")
	}
	if showAll {
		return open, nil
	}

	matches := make([]models.InventoryRecord, 0, len(open))
	for _, lot := range open {
		if lot.Quantity != order.Quantity {
			continue
		}
		if !areaMatches(order.Area, lot.Area) {
			continue
		}
		if !seatsMatch(order.Seats, lot.Seats) {
			continue
		}
		matches = append(matches, lot)
	}
	return matches, nil
}

// areaMatches compares section areas; an order without an area accepts any lot.
func areaMatches(order, lot *string) bool {
	if order == nil || strings.TrimSpace(*order) == "" {
		return true
	}
	if lot == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*order), strings.TrimSpace(*lot))
}

// seatsMatch compares seat label strings; either side being absent matches.
func seatsMatch(order, lot types.SeatAssignments) bool {
	if len(order) == 0 || len(lot) == 0 {
		return true
	}
	return strings.Join(order.Labels(), ",") == strings.Join(lot.Labels(), ",")
}

// Split divides an unpaired record into sub-lots. The original row becomes
// the first sub-lot; siblings get fresh rows and their own pro-rated
// transactions so the money totals are conserved.
func (s *service) Split(ctx context.Context, orgID, recordID uuid.UUID, input SplitInput) (*SplitResult, error) {
	if len(input.Parts) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "split requires at least two parts")
	}
	total := 0
	for _, part := range input.Parts {
		if part <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "split parts must be positive")
		}
		total += part
	}

	var result SplitResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		txns := s.txns.WithTx(tx)

		record, err := s.lockRecord(ctx, repo, orgID, recordID)
		if err != nil {
			return err
		}
		if record.RecordType == enums.RecordTypeSale {
			return pkgerrors.New(pkgerrors.CodeValidation, "sale records cannot be split")
		}
		if record.Status != enums.InitialStatus(record.RecordType) || record.SaleID != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only unpaired records can be split").
				WithDetails(map[string]any{"status": record.Status})
		}
		if total != record.Quantity {
			return pkgerrors.New(pkgerrors.CodeValidation, "split parts must sum to the record quantity").
				WithDetails(map[string]any{"parts_total": total, "quantity": record.Quantity})
		}

		var original *models.Transaction
		if record.TransactionID != nil {
			original, err = txns.Find(ctx, orgID, *record.TransactionID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
			}
		}

		originalQty := record.Quantity
		var amounts, costParts, sellParts []decimal.Decimal
		if original != nil {
			amounts = prorateValue(original.Amount, originalQty, input.Parts)
		}
		if record.Cost != nil {
			costParts = prorateValue(*record.Cost, originalQty, input.Parts)
		}
		if record.Selling != nil {
			sellParts = prorateValue(*record.Selling, originalQty, input.Parts)
		}
		seatGroups := partitionSeats(record.Seats, input.Parts)

		// First part reuses the original row and transaction.
		record.Quantity = input.Parts[0]
		record.Seats = seatGroups[0]
		if costParts != nil {
			record.Cost = &costParts[0]
		}
		if sellParts != nil {
			record.Selling = &sellParts[0]
		}
		if err := repo.Save(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resize original record")
		}
		if original != nil {
			if err := txns.Update(ctx, orgID, original.ID, map[string]any{"amount": amounts[0]}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust original transaction")
			}
			original.Amount = amounts[0]
		}
		result.Records = append(result.Records, *record)

		for i := 1; i < len(input.Parts); i++ {
			sibling := cloneForSplit(record, input.Parts[i], seatGroups[i])
			if costParts != nil {
				cost := costParts[i]
				sibling.Cost = &cost
			}
			if sellParts != nil {
				selling := sellParts[i]
				sibling.Selling = &selling
			}

			if original != nil {
				siblingTxn := &models.Transaction{
					OrganizationID: orgID,
					VendorID:       original.VendorID,
					BankAccountID:  original.BankAccountID,
					Direction:      original.Direction,
					Status:         original.Status,
					Amount:         amounts[i],
					Description:    original.Description + " (split)",
				}
				created, err := txns.Create(ctx, siblingTxn)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create split transaction")
				}
				sibling.TransactionID = &created.ID
			}

			saved, err := repo.Create(ctx, sibling)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create split record")
			}
			if sibling.TransactionID != nil {
				if err := txns.Update(ctx, orgID, *sibling.TransactionID, map[string]any{"record_id": saved.ID}); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link split transaction")
				}
			}
			result.Records = append(result.Records, *saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) ListSales(ctx context.Context, orgID uuid.UUID) ([]SaleDetail, error) {
	sales, err := s.repo.ListSales(ctx, orgID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}

	details := make([]SaleDetail, 0, len(sales))
	for _, sale := range sales {
		sources, err := s.repo.FindBySale(ctx, orgID, sale.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale sources")
		}
		details = append(details, SaleDetail{Sale: sale, Sources: sources})
	}
	return details, nil
}

// CompleteSale finalizes a reserved sale: the sale and both sources move to
// completed, and the sources' transactions are marked paid. Completing an
// already-completed sale is a no-op.
func (s *service) CompleteSale(ctx context.Context, orgID, saleID uuid.UUID) (*SaleDetail, error) {
	var detail SaleDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		txns := s.txns.WithTx(tx)

		sale, err := s.lockRecord(ctx, repo, orgID, saleID)
		if err != nil {
			return err
		}
		if sale.RecordType != enums.RecordTypeSale {
			return pkgerrors.New(pkgerrors.CodeValidation, "record is not a sale")
		}
		sources, err := repo.FindBySale(ctx, orgID, sale.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale sources")
		}
		if sale.Status == enums.RecordStatusCompleted {
			detail = SaleDetail{Sale: *sale, Sources: sources}
			return nil
		}
		if sale.Status != enums.RecordStatusReserved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only reserved sales can be completed").
				WithDetails(map[string]any{"status": sale.Status})
		}

		sale.Status = enums.RecordStatusCompleted
		if err := repo.Save(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete sale")
		}

		for i := range sources {
			sources[i].Status = enums.RecordStatusCompleted
			if err := repo.Save(ctx, &sources[i]); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete source record")
			}
			if sources[i].TransactionID != nil {
				updates := map[string]any{"status": enums.TransactionStatusPaid}
				if err := txns.Update(ctx, orgID, *sources[i].TransactionID, updates); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle transaction")
				}
			}
		}

		detail = SaleDetail{Sale: *sale, Sources: sources}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// UnassignSale undoes a reserved pairing: the sale is cancelled and both
// sources return to their open statuses, free to be paired again.
func (s *service) UnassignSale(ctx context.Context, orgID, saleID uuid.UUID) (*SaleDetail, error) {
	var detail SaleDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		sale, err := s.lockRecord(ctx, repo, orgID, saleID)
		if err != nil {
			return err
		}
		if sale.RecordType != enums.RecordTypeSale {
			return pkgerrors.New(pkgerrors.CodeValidation, "record is not a sale")
		}
		if sale.Status != enums.RecordStatusReserved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only reserved sales can be unassigned").
				WithDetails(map[string]any{"status": sale.Status})
		}

		sources, err := repo.FindBySale(ctx, orgID, sale.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale sources")
		}

		now := time.Now().UTC()
		sale.Status = enums.RecordStatusCancelled
		sale.CancelledAt = &now
		if err := repo.Save(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel sale record")
		}

		for i := range sources {
			sources[i].SaleID = nil
			sources[i].Status = enums.InitialStatus(sources[i].RecordType)
			if err := repo.Save(ctx, &sources[i]); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release source record")
			}
		}

		detail = SaleDetail{Sale: *sale, Sources: sources}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Cancel voids an inventory or order record, then its transaction. The record
// cancellation commits first; if the transaction update then fails, the
// result carries a warning instead of rolling the record back, matching how
// the books are reconciled by hand afterwards.
func (s *service) Cancel(ctx context.Context, orgID, recordID uuid.UUID) (*CancelResult, error) {
	var result CancelResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := s.lockRecord(ctx, repo, orgID, recordID)
		if err != nil {
			return err
		}
		if record.RecordType == enums.RecordTypeSale {
			return pkgerrors.New(pkgerrors.CodeValidation, "cancel the sale through unassign")
		}
		if record.Status.IsLocked() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("record is %s and cannot be cancelled", record.Status))
		}
		if record.SaleID != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "record is assigned to a sale; unassign it first")
		}
		if record.Status == enums.RecordStatusCancelled {
			result.Record = *record
			return nil
		}

		now := time.Now().UTC()
		record.Status = enums.RecordStatusCancelled
		record.CancelledAt = &now
		if err := repo.Save(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel record")
		}
		result.Record = *record
		return nil
	})
	if err != nil {
		return nil, err
	}

	record := result.Record
	if record.TransactionID == nil {
		return &result, nil
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"status":       enums.TransactionStatusCancelled,
		"cancelled_at": now,
	}
	if err := s.txns.Update(ctx, orgID, *record.TransactionID, updates); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"record_id":      record.ID.String(),
				"transaction_id": record.TransactionID.String(),
			}), "record cancelled but transaction cancellation failed")
		}
		result.Warning = "record cancelled but its transaction could not be cancelled"
		return &result, nil
	}

	txn, err := s.txns.Find(ctx, orgID, *record.TransactionID)
	if err == nil {
		result.Transaction = txn
	}
	return &result, nil
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

func (s *service) lockRecord(ctx context.Context, repo records.Repository, orgID, id uuid.UUID) (*models.InventoryRecord, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	record, err := repo.FindForUpdate(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock inventory record")
	}
	return record, nil
}

// prorateValue allocates a total across parts by unit price, giving the last
// part the rounding remainder so the sum is conserved exactly.
func prorateValue(total decimal.Decimal, quantity int, parts []int) []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(parts))
	if quantity == 0 {
		return amounts
	}

	unit := total.Div(decimal.NewFromInt(int64(quantity)))
	allocated := decimal.Zero
	for i, part := range parts {
		if i == len(parts)-1 {
			amounts[i] = total.Sub(allocated)
			break
		}
		amounts[i] = unit.Mul(decimal.NewFromInt(int64(part))).Round(2)
		allocated = allocated.Add(amounts[i])
	}
	return amounts
}

// partitionSeats slices the seat list sequentially into per-part groups.
// Records without seat detail yield empty groups.
func partitionSeats(seats types.SeatAssignments, parts []int) []types.SeatAssignments {
	groups := make([]types.SeatAssignments, len(parts))
	if len(seats) == 0 {
		return groups
	}
	offset := 0
	for i, part := range parts {
		end := offset + part
		if end > len(seats) {
			end = len(seats)
		}
		groups[i] = append(types.SeatAssignments{}, seats[offset:end]...)
		offset = end
	}
	return groups
}

func cloneForSplit(original *models.InventoryRecord, quantity int, seats types.SeatAssignments) *models.InventoryRecord {
	return &models.InventoryRecord{
		OrganizationID:     original.OrganizationID,
		GameID:             original.GameID,
		RecordType:         original.RecordType,
		Status:             original.Status,
		Quantity:           quantity,
		Area:               original.Area,
		Block:              original.Block,
		Row:                original.Row,
		Seats:              seats,
		Notes:              original.Notes,
		BoughtFrom:         original.BoughtFrom,
		BoughtFromVendorID: original.BoughtFromVendorID,
		OrderNumber:        original.OrderNumber,
		SoldTo:             original.SoldTo,
		SoldToVendorID:     original.SoldToVendorID,
	}
}

func firstGameID(a, b *int64) *int64 {
	if a != nil {
		return a
	}
	return b
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	dump := pkgerrors.Dump(err)
	return dump.PGCode == "23505" || strings.Contains(strings.ToLower(err.Error()), "unique")
}
