package banks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seatstack/backoffice/pkg/db/models"
	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
)

// CreateInput captures a new bank account used to settle transactions.
type CreateInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Institution string  `json:"institution" validate:"required,max=200"`
	LastFour    *string `json:"last_four" validate:"omitempty,len=4,numeric"`
	Notes       *string `json:"notes"`
}

// UpdateInput carries the mutable bank account fields.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Institution *string `json:"institution" validate:"omitempty,max=200"`
	LastFour    *string `json:"last_four" validate:"omitempty,len=4,numeric"`
	Notes       *string `json:"notes"`
}

// Repository defines persistence operations for bank accounts.
type Repository interface {
	Create(ctx context.Context, account *models.BankAccount) (*models.BankAccount, error)
	Find(ctx context.Context, orgID, id uuid.UUID) (*models.BankAccount, error)
	List(ctx context.Context, orgID uuid.UUID) ([]models.BankAccount, error)
	Save(ctx context.Context, account *models.BankAccount) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// Service defines the bank account operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, orgID uuid.UUID, input CreateInput) (*models.BankAccount, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.BankAccount, error)
	List(ctx context.Context, orgID uuid.UUID) ([]models.BankAccount, error)
	Update(ctx context.Context, orgID, id uuid.UUID, input UpdateInput) (*models.BankAccount, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bank accounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, account *models.BankAccount) (*models.BankAccount, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func (r *repository) Find(ctx context.Context, orgID, id uuid.UUID) (*models.BankAccount, error) {
	var account models.BankAccount
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) List(ctx context.Context, orgID uuid.UUID) ([]models.BankAccount, error) {
	var rows []models.BankAccount
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Save(ctx context.Context, account *models.BankAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Delete(&models.BankAccount{})
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
}

// NewService builds the bank accounts service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("banks repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, orgID uuid.UUID, input CreateInput) (*models.BankAccount, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	account := &models.BankAccount{
		OrganizationID: orgID,
		Name:           input.Name,
		Institution:    input.Institution,
		LastFour:       input.LastFour,
		Notes:          input.Notes,
	}
	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bank account")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, orgID, id uuid.UUID) (*models.BankAccount, error) {
	return s.find(ctx, orgID, id)
}

func (s *service) List(ctx context.Context, orgID uuid.UUID) ([]models.BankAccount, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	rows, err := s.repo.List(ctx, orgID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bank accounts")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, orgID, id uuid.UUID, input UpdateInput) (*models.BankAccount, error) {
	account, err := s.find(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		account.Name = *input.Name
	}
	if input.Institution != nil {
		account.Institution = *input.Institution
	}
	if input.LastFour != nil {
		account.LastFour = input.LastFour
	}
	if input.Notes != nil {
		account.Notes = input.Notes
	}
	if err := s.repo.Save(ctx, account); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update bank account")
	}
	return account, nil
}

func (s *service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if orgID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "bank account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete bank account")
	}
	return nil
}

func (s *service) find(ctx context.Context, orgID, id uuid.UUID) (*models.BankAccount, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	account, err := s.repo.Find(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bank account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bank account")
	}
	return account, nil
}
