package services

import (
	"context"
	"fmt"

	"salepoint/internal/common"
	"salepoint/internal/models"
	"salepoint/internal/repositories"

	"github.com/google/uuid"
)

type CustomerServiceInterface interface {
	Create(ctx context.Context, tenantID uuid.UUID, req *CreateCustomerRequest) (*models.Customer, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, tenantID uuid.UUID, req *UpdateCustomerRequest) (*models.Customer, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Customer, error)
}

type CreateCustomerRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type UpdateCustomerRequest struct {
	ID    uuid.UUID
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type customerService struct {
	customerRepo repositories.CustomerRepository
}

func NewCustomerService(customerRepo repositories.CustomerRepository) CustomerServiceInterface {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) Create(ctx context.Context, tenantID uuid.UUID, req *CreateCustomerRequest) (*models.Customer, error) {
	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("tenant id is required: %w", common.ErrInvalidInput)
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, fmt.Errorf("%s: %w", err, common.ErrInvalidInput)
	}

	customer := &models.Customer{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, tenantID, id)
}

func (s *customerService) Update(ctx context.Context, tenantID uuid.UUID, req *UpdateCustomerRequest) (*models.Customer, error) {
	existing, err := s.customerRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Email = req.Email
	existing.Phone = req.Phone

	if err := s.customerRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *customerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.customerRepo.Delete(ctx, tenantID, id)
}

func (s *customerService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Customer, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.customerRepo.List(ctx, tenantID, limit, offset)
}
