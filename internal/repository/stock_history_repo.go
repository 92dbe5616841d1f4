package repository

import (
	"context"
	"time"

	"aroma-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockHistoryRepository only appends and reads; rows are never changed.
type StockHistoryRepository interface {
	WithTx(tx *gorm.DB) StockHistoryRepository
	Create(ctx context.Context, history *model.StockHistory) error
	ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockHistory, error)
	Movement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
}

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type stockHistoryRepo struct {
	db *gorm.DB
}

func NewStockHistoryRepo(db *gorm.DB) StockHistoryRepository {
	return &stockHistoryRepo{db}
}

func (r *stockHistoryRepo) WithTx(tx *gorm.DB) StockHistoryRepository {
	return &stockHistoryRepo{tx}
}

func (r *stockHistoryRepo) Create(ctx context.Context, history *model.StockHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *stockHistoryRepo) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockHistory, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var histories []model.StockHistory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("changed_at DESC").
		Limit(limit).
		Find(&histories).Error
	return histories, err
}

// Movement aggregates inbound/outbound units per day. Bucketing happens in Go
// so the query stays portable between postgres and sqlite.
func (r *stockHistoryRepo) Movement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	var rows []struct {
		QuantityChanged int
		ChangedAt       time.Time
	}
	err := r.db.WithContext(ctx).Model(&model.StockHistory{}).
		Select("quantity_changed, changed_at").
		Where("changed_at BETWEEN ? AND ?", startDate.UTC(), endDate.UTC()).
		Order("changed_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := []StockMovementData{}
	index := map[string]int{}
	for _, row := range rows {
		day := row.ChangedAt.UTC().Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			results = append(results, StockMovementData{Date: day})
			i = len(results) - 1
			index[day] = i
		}
		if row.QuantityChanged > 0 {
			results[i].Inbound += row.QuantityChanged
		} else {
			results[i].Outbound += -row.QuantityChanged
		}
	}
	return results, nil
}
