package transactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seatstack/backoffice/pkg/db/models"
	"github.com/seatstack/backoffice/pkg/enums"
	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
	"github.com/seatstack/backoffice/pkg/pagination"
)

type service struct {
	repo Repository
}

// NewService builds the transactions service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, orgID uuid.UUID, input CreateInput) (*models.Transaction, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	direction, err := enums.ParseTransactionDirection(input.Direction)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid direction")
	}
	if input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}

	txn := &models.Transaction{
		OrganizationID: orgID,
		VendorID:       input.VendorID,
		BankAccountID:  input.BankAccountID,
		Direction:      direction,
		Status:         enums.TransactionStatusPending,
		Amount:         input.Amount,
		Description:    input.Description,
	}
	created, err := s.repo.Create(ctx, txn)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transaction")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Transaction, error) {
	return s.find(ctx, orgID, id)
}

func (s *service) List(ctx context.Context, orgID uuid.UUID, params pagination.Params, filters Filters) (*TransactionList, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	list, err := s.repo.List(ctx, orgID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	return list, nil
}

// MarkPaid settles a pending transaction. Paid is terminal for the happy
// path; only cancellation can follow it when the books are corrected.
func (s *service) MarkPaid(ctx context.Context, orgID, id uuid.UUID) (*models.Transaction, error) {
	txn, err := s.find(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if txn.Status == enums.TransactionStatusPaid {
		return txn, nil
	}
	if txn.Status != enums.TransactionStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending transactions can be marked paid").
			WithDetails(map[string]any{"status": txn.Status})
	}

	if err := s.repo.Update(ctx, orgID, id, map[string]any{"status": enums.TransactionStatusPaid}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark transaction paid")
	}
	txn.Status = enums.TransactionStatusPaid
	return txn, nil
}

func (s *service) Cancel(ctx context.Context, orgID, id uuid.UUID) (*models.Transaction, error) {
	txn, err := s.find(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if txn.Status == enums.TransactionStatusCancelled {
		return txn, nil
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"status":       enums.TransactionStatusCancelled,
		"cancelled_at": now,
	}
	if err := s.repo.Update(ctx, orgID, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel transaction")
	}
	txn.Status = enums.TransactionStatusCancelled
	txn.CancelledAt = &now
	return txn, nil
}

func (s *service) find(ctx context.Context, orgID, id uuid.UUID) (*models.Transaction, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	txn, err := s.repo.Find(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	return txn, nil
}
