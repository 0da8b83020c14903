package jobs

import (
	"context"
	"time"

	"salepoint/internal/repositories"
	"salepoint/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// LowStockScanner periodically walks every active tenant and logs a warning
// for each product at or below its low-stock threshold.
type LowStockScanner struct {
	scheduler   gocron.Scheduler
	tenantRepo  repositories.TenantRepository
	productRepo repositories.ProductRepository
	interval    time.Duration
}

func NewLowStockScanner(tenantRepo repositories.TenantRepository, productRepo repositories.ProductRepository, interval time.Duration) (*LowStockScanner, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &LowStockScanner{
		scheduler:   scheduler,
		tenantRepo:  tenantRepo,
		productRepo: productRepo,
		interval:    interval,
	}, nil
}

func (s *LowStockScanner) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.Scan(ctx)
		}),
	)
	if err != nil {
		return err
	}
	s.scheduler.Start()
	logger.L().Info("low stock scanner started", zap.Duration("interval", s.interval))
	return nil
}

func (s *LowStockScanner) Stop() error {
	return s.scheduler.Shutdown()
}

// Scan runs one pass over all active tenants.
func (s *LowStockScanner) Scan(ctx context.Context) {
	tenants, err := s.tenantRepo.ListActive(ctx)
	if err != nil {
		logger.L().Error("low stock scan: list tenants", zap.Error(err))
		return
	}

	for _, tenant := range tenants {
		products, err := s.productRepo.ListLowStock(ctx, tenant.ID)
		if err != nil {
			logger.L().Error("low stock scan failed",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err))
			continue
		}
		for _, product := range products {
			logger.L().Warn("product below low-stock threshold",
				zap.String("tenant_id", tenant.ID.String()),
				zap.String("product_id", product.ID.String()),
				zap.String("sku", product.SKU),
				zap.Int("stock_quantity", product.StockQuantity),
				zap.Int("threshold", product.LowStockThreshold))
		}
	}
}
