package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seatstack/backoffice/pkg/db/models"
	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
)

// CreateInput captures a new group member.
type CreateInput struct {
	FullName string  `json:"full_name" validate:"required,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Notes    *string `json:"notes"`
}

// UpdateInput carries the mutable member fields.
type UpdateInput struct {
	FullName *string `json:"full_name" validate:"omitempty,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Notes    *string `json:"notes"`
}

// Repository defines persistence operations for members.
type Repository interface {
	Create(ctx context.Context, member *models.Member) (*models.Member, error)
	Find(ctx context.Context, orgID, id uuid.UUID) (*models.Member, error)
	List(ctx context.Context, orgID uuid.UUID) ([]models.Member, error)
	Save(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// Service defines the member operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, orgID uuid.UUID, input CreateInput) (*models.Member, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.Member, error)
	List(ctx context.Context, orgID uuid.UUID) ([]models.Member, error)
	Update(ctx context.Context, orgID, id uuid.UUID, input UpdateInput) (*models.Member, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a members repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

func (r *repository) Find(ctx context.Context, orgID, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) List(ctx context.Context, orgID uuid.UUID) ([]models.Member, error) {
	var rows []models.Member
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("full_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Save(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *repository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Delete(&models.Member{})
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

// NewService builds the members service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("members repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, orgID uuid.UUID, input CreateInput) (*models.Member, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	member := &models.Member{
		OrganizationID: orgID,
		FullName:       input.FullName,
		Email:          input.Email,
		Phone:          input.Phone,
		Notes:          input.Notes,
	}
	created, err := s.repo.Create(ctx, member)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create member")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Member, error) {
	return s.find(ctx, orgID, id)
}

func (s *service) List(ctx context.Context, orgID uuid.UUID) ([]models.Member, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	rows, err := s.repo.List(ctx, orgID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, orgID, id uuid.UUID, input UpdateInput) (*models.Member, error) {
	member, err := s.find(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if input.FullName != nil {
		member.FullName = *input.FullName
	}
	if input.Email != nil {
		member.Email = input.Email
	}
	if input.Phone != nil {
		member.Phone = input.Phone
	}
	if input.Notes != nil {
		member.Notes = input.Notes
	}
	if err := s.repo.Save(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member")
	}
	return member, nil
}

func (s *service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if orgID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete member")
	}
	return nil
}

func (s *service) find(ctx context.Context, orgID, id uuid.UUID) (*models.Member, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	member, err := s.repo.Find(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}
	return member, nil
}
