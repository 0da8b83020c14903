package services

import (
	"context"
	"errors"
	"fmt"

	"salepoint/internal/common"
	"salepoint/internal/models"
	"salepoint/internal/repositories"

	"github.com/google/uuid"
)

type TenantService interface {
	Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	Update(ctx context.Context, req *UpdateTenantRequest) (*models.Tenant, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)

	// Resolve turns a raw tenant identifier (request header value) into an
	// active tenant. An absent identifier and an unknown/inactive tenant
	// fail differently so callers can distinguish a malformed request from
	// a forbidden one.
	Resolve(ctx context.Context, rawID string) (*models.Tenant, error)
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
}

func NewTenantService(tenantRepo repositories.TenantRepository) TenantService {
	return &tenantService{tenantRepo: tenantRepo}
}

type CreateTenantRequest struct {
	Name string `json:"name"`
}

type UpdateTenantRequest struct {
	ID       uuid.UUID
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func (s *tenantService) Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error) {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, fmt.Errorf("%s: %w", err, common.ErrInvalidInput)
	}

	tenant := &models.Tenant{
		ID:       uuid.New(),
		Name:     req.Name,
		IsActive: true,
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, id)
}

func (s *tenantService) Update(ctx context.Context, req *UpdateTenantRequest) (*models.Tenant, error) {
	existing, err := s.tenantRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.IsActive = req.IsActive

	if err := s.tenantRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *tenantService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.tenantRepo.Deactivate(ctx, id)
}

func (s *tenantService) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.tenantRepo.List(ctx, limit, offset)
}

func (s *tenantService) Resolve(ctx context.Context, rawID string) (*models.Tenant, error) {
	if rawID == "" {
		return nil, common.ErrTenantUnresolved
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("tenant id %q: %w", rawID, common.ErrTenantInvalid)
	}
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("tenant %s: %w", id, common.ErrTenantInvalid)
		}
		return nil, err
	}
	if !tenant.IsActive {
		return nil, fmt.Errorf("tenant %s is deactivated: %w", id, common.ErrTenantInvalid)
	}
	return tenant, nil
}
