package transactions

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seatstack/backoffice/pkg/enums"
	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	db := setupTransactionsTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
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

func TestCreateAndMarkPaid(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	orgID := uuid.New()

	created, err := svc.Create(ctx, orgID, CreateInput{
		Direction:   "payable",
		Amount:      decimal.NewFromFloat(125.75),
		Description: "deposit for march lot",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != enums.TransactionStatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}

	paid, err := svc.MarkPaid(ctx, orgID, created.ID)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Status != enums.TransactionStatusPaid {
		t.Fatalf("expected paid, got %s", paid.Status)
	}

	// Idempotent on repeat.
	if _, err := svc.MarkPaid(ctx, orgID, created.ID); err != nil {
		t.Fatalf("repeat mark paid: %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	orgID := uuid.New()

	_, err := svc.Create(ctx, orgID, CreateInput{
		Direction:   "sideways",
		Amount:      decimal.NewFromInt(10),
		Description: "x",
	})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, orgID, CreateInput{
		Direction:   "receivable",
		Amount:      decimal.NewFromInt(-10),
		Description: "x",
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCancelTransitions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	orgID := uuid.New()

	created, err := svc.Create(ctx, orgID, CreateInput{
		Direction:   "receivable",
		Amount:      decimal.NewFromInt(60),
		Description: "pair of seats",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cancelled, err := svc.Cancel(ctx, orgID, created.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != enums.TransactionStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Fatalf("expected cancelled_at to be set")
	}

	// Cancel is idempotent; paying a cancelled transaction is not allowed.
	if _, err := svc.Cancel(ctx, orgID, created.ID); err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}
	_, err = svc.MarkPaid(ctx, orgID, created.ID)
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestGetScopedToOrganization(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), CreateInput{
		Direction:   "payable",
		Amount:      decimal.NewFromInt(40),
		Description: "misc",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Get(ctx, uuid.New(), created.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)
}
