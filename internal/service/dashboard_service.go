package service

import (
	"context"
	"time"

	"aroma-inventory/internal/repository"
)

const maxMovementDays = 365

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
}

type dashboardService struct {
	productRepo       repository.ProductRepository
	historyRepo       repository.StockHistoryRepository
	lowStockThreshold int
	now               func() time.Time
}

func NewDashboardService(productRepo repository.ProductRepository, historyRepo repository.StockHistoryRepository, lowStockThreshold int) DashboardService {
	return &dashboardService{
		productRepo:       productRepo,
		historyRepo:       historyRepo,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// GetStockMovement covers the last days days; out of range values fall back to 7
func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	if days <= 0 || days > maxMovementDays {
		days = 7
	}
	endDate := s.now().UTC()
	startDate := endDate.AddDate(0, 0, -days)

	return s.historyRepo.Movement(ctx, startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.productRepo.Stats(ctx, s.lowStockThreshold)
}
