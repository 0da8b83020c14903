package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salepoint/internal/caching"
	"salepoint/internal/common"
	"salepoint/internal/models"
	"salepoint/internal/repositories"
	"salepoint/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const productCacheTTL = 5 * time.Minute

type ProductServiceInterface interface {
	Create(ctx context.Context, tenantID uuid.UUID, req *CreateProductRequest) (*models.Product, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, tenantID uuid.UUID, req *UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Product, error)
	ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error)
}

type CreateProductRequest struct {
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	UnitPriceCents    int64  `json:"unit_price_cents"`
	StockQuantity     int    `json:"stock_quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

type UpdateProductRequest struct {
	ID                uuid.UUID
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	UnitPriceCents    int64  `json:"unit_price_cents"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

type productService struct {
	productRepo repositories.ProductRepository
	cache       caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, cache caching.CacheService) ProductServiceInterface {
	return &productService{productRepo: productRepo, cache: cache}
}

func (s *productService) Create(ctx context.Context, tenantID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("tenant id is required: %w", common.ErrInvalidInput)
	}
	if err := common.ValidateRequiredString(req.SKU, "sku"); err != nil {
		return nil, fmt.Errorf("%s: %w", err, common.ErrInvalidInput)
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, fmt.Errorf("%s: %w", err, common.ErrInvalidInput)
	}
	if req.UnitPriceCents < 0 {
		return nil, fmt.Errorf("unit price cannot be negative: %w", common.ErrInvalidInput)
	}
	if req.StockQuantity < 0 {
		return nil, fmt.Errorf("stock quantity cannot be negative: %w", common.ErrInvalidInput)
	}

	product := &models.Product{
		ID:                uuid.New(),
		TenantID:          tenantID,
		SKU:               req.SKU,
		Name:              req.Name,
		UnitPriceCents:    req.UnitPriceCents,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	cached, err := s.cache.GetProduct(ctx, tenantID, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, caching.ErrCacheMiss) {
		logger.L().Warn("product cache read failed", zap.Error(err))
	}

	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetProduct(ctx, product, productCacheTTL); err != nil {
		logger.L().Warn("product cache write failed", zap.Error(err))
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, tenantID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	existing, err := s.productRepo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}
	if req.UnitPriceCents < 0 {
		return nil, fmt.Errorf("unit price cannot be negative: %w", common.ErrInvalidInput)
	}

	existing.SKU = req.SKU
	existing.Name = req.Name
	existing.UnitPriceCents = req.UnitPriceCents
	existing.LowStockThreshold = req.LowStockThreshold

	if err := s.productRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	if err := s.cache.DeleteProduct(ctx, tenantID, req.ID); err != nil {
		logger.L().Warn("product cache invalidation failed", zap.Error(err))
	}
	return existing, nil
}

func (s *productService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.cache.DeleteProduct(ctx, tenantID, id); err != nil {
		logger.L().Warn("product cache invalidation failed", zap.Error(err))
	}
	return nil
}

func (s *productService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.productRepo.List(ctx, tenantID, limit, offset)
}

func (s *productService) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	return s.productRepo.ListLowStock(ctx, tenantID)
}
