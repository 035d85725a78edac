package vendors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/seatstack/backoffice/internal/transactions"
	"github.com/seatstack/backoffice/pkg/db/models"
	"github.com/seatstack/backoffice/pkg/enums"
	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
)

// CreateInput captures a new counterparty.
type CreateInput struct {
	Name         string  `json:"name" validate:"required,max=200"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	Notes        *string `json:"notes"`
}

// UpdateInput carries the mutable vendor fields.
type UpdateInput struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	Notes        *string `json:"notes"`
}

// Balance summarizes the open money position against a vendor.
type Balance struct {
	VendorID   uuid.UUID       `json:"vendor_id"`
	Payable    decimal.Decimal `json:"payable"`
	Receivable decimal.Decimal `json:"receivable"`
	// Net is receivable minus payable: positive means the vendor owes us.
	Net decimal.Decimal `json:"net"`
}

// Repository defines persistence operations for vendors.
type Repository interface {
	Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error)
	Find(ctx context.Context, orgID, id uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context, orgID uuid.UUID) ([]models.Vendor, error)
	Save(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// Service defines the vendor operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, orgID uuid.UUID, input CreateInput) (*models.Vendor, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context, orgID uuid.UUID) ([]models.Vendor, error)
	Update(ctx context.Context, orgID, id uuid.UUID, input UpdateInput) (*models.Vendor, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	GetBalance(ctx context.Context, orgID, id uuid.UUID) (*Balance, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a vendors repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	if vendor.ID == uuid.Nil {
		vendor.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

func (r *repository) Find(ctx context.Context, orgID, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) List(ctx context.Context, orgID uuid.UUID) ([]models.Vendor, error) {
	var rows []models.Vendor
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Save(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

func (r *repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Delete(&models.Vendor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type service struct {
	repo Repository
	txns transactions.Repository
}

// NewService builds the vendors service with the required dependencies.
func NewService(repo Repository, txns transactions.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendors repository required")
	}
	if txns == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	return &service{repo: repo, txns: txns}, nil
}

func (s *service) Create(ctx context.Context, orgID uuid.UUID, input CreateInput) (*models.Vendor, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	vendor := &models.Vendor{
		OrganizationID: orgID,
		Name:           input.Name,
		ContactEmail:   input.ContactEmail,
		Phone:          input.Phone,
		Notes:          input.Notes,
	}
	created, err := s.repo.Create(ctx, vendor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Vendor, error) {
	return s.find(ctx, orgID, id)
}

func (s *service) List(ctx context.Context, orgID uuid.UUID) ([]models.Vendor, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	rows, err := s.repo.List(ctx, orgID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, orgID, id uuid.UUID, input UpdateInput) (*models.Vendor, error) {
	vendor, err := s.find(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.ContactEmail != nil {
		vendor.ContactEmail = input.ContactEmail
	}
	if input.Phone != nil {
		vendor.Phone = input.Phone
	}
	if input.Notes != nil {
		vendor.Notes = input.Notes
	}
	if err := s.repo.Save(ctx, vendor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor")
	}
	return vendor, nil
}

func (s *service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if orgID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vendor")
	}
	return nil
}

// GetBalance totals the vendor's open transactions in both directions.
func (s *service) GetBalance(ctx context.Context, orgID, id uuid.UUID) (*Balance, error) {
	vendor, err := s.find(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	payable, err := s.txns.SumByVendor(ctx, orgID, vendor.ID, enums.TransactionDirectionPayable)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum payables")
	}
	receivable, err := s.txns.SumByVendor(ctx, orgID, vendor.ID, enums.TransactionDirectionReceivable)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum receivables")
	}

	return &Balance{
		VendorID:   vendor.ID,
		Payable:    payable,
		Receivable: receivable,
		Net:        receivable.Sub(payable),
	}, nil
}

func (s *service) find(ctx context.Context, orgID, id uuid.UUID) (*models.Vendor, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	vendor, err := s.repo.Find(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}
