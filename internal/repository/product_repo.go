package repository

import (
	"context"
	"strings"
	"time"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	Save(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ExistsByNameAndType(ctx context.Context, name string, productType model.ProductType, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	CompareAndSetStock(ctx context.Context, id uuid.UUID, expected, newStock int, updatedBy string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool, updatedBy string) error
	Stats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error)
}

type ProductFilter struct {
	Type              *model.ProductType
	Active            *bool
	LowStockThreshold int // 0 disables the filter
	Search            string
	Page              int
	PageSize          int
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts  int64                      `json:"total_products"`
	ActiveProducts int64                      `json:"active_products"`
	LowStockCount  int64                      `json:"low_stock_count"`
	TotalUnits     int64                      `json:"total_units"`
	Valuation      map[string]decimal.Decimal `json:"valuation"` // per currency
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	err := r.db.WithContext(ctx).Create(product).Error
	return duplicateOr(err, "product", "name", product.Name)
}

// Save persists everything except stock_quantity and is_active, which only
// move through CompareAndSetStock and SetActive.
func (r *productRepo) Save(ctx context.Context, product *model.Product) error {
	err := r.db.WithContext(ctx).Omit("stock_quantity", "is_active").Save(product).Error
	return duplicateOr(err, "product", "name", product.Name)
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	return &product, nil
}

func (r *productRepo) ExistsByNameAndType(ctx context.Context, name string, productType model.ProductType, excludeID *uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("LOWER(name) = ? AND product_type = ?", strings.ToLower(name), productType)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Type != nil {
		q = q.Where("product_type = ?", *filter.Type)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}
	if filter.LowStockThreshold > 0 {
		q = q.Where("stock_quantity <= ?", filter.LowStockThreshold)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginate(filter.Page, filter.PageSize)
	var products []model.Product
	err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&products).Error
	return products, total, err
}

// CompareAndSetStock writes newStock only if the row is active and still holds
// expected. A concurrent writer makes it fail with a Conflict error.
func (r *productRepo) CompareAndSetStock(ctx context.Context, id uuid.UUID, expected, newStock int, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock_quantity = ? AND is_active = ?", id, expected, true).
		Updates(map[string]interface{}{
			"stock_quantity": newStock,
			"updated_by":     updatedBy,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.Conflict("product stock was modified concurrently, retry the operation")
	}
	return nil
}

// SetActive flips is_active. Deactivation only matches a row with no stock
// left, so a stock change committed after the caller's read yields Conflict.
func (r *productRepo) SetActive(ctx context.Context, id uuid.UUID, active bool, updatedBy string) error {
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id)
	if !active {
		q = q.Where("stock_quantity = ?", 0)
	}
	res := q.Updates(map[string]interface{}{
		"is_active":  active,
		"updated_by": updatedBy,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.Conflict("cannot deactivate a product that still has stock")
	}
	return nil
}

func (r *productRepo) Stats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error) {
	if lowStockThreshold <= 0 {
		lowStockThreshold = model.DefaultLowStockThreshold
	}
	db := r.db.WithContext(ctx)
	stats := DashboardStats{Valuation: map[string]decimal.Decimal{}}

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("is_active = ?", true).Count(&stats.ActiveProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).
		Where("is_active = ? AND stock_quantity <= ?", true, lowStockThreshold).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).
		Where("is_active = ?", true).
		Select("COALESCE(SUM(stock_quantity), 0)").
		Scan(&stats.TotalUnits).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		PriceCurrency string
		Total         decimal.Decimal
	}
	if err := db.Model(&model.Product{}).
		Where("is_active = ?", true).
		Select("price_currency, COALESCE(SUM(stock_quantity * price_amount), 0) AS total").
		Group("price_currency").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.Valuation[row.PriceCurrency] = row.Total
	}
	return &stats, nil
}
