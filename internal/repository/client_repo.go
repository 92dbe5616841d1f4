package repository

import (
	"context"
	"strings"

	"aroma-inventory/internal/model"

	"gorm.io/gorm"
)

type ClientRepository interface {
	WithTx(tx *gorm.DB) ClientRepository
	Create(ctx context.Context, client *model.Client) error
	Save(ctx context.Context, client *model.Client) error
	FindByID(ctx context.Context, id string) (*model.Client, error)
	ExistsActiveNIPT(ctx context.Context, nipt string, excludeID string) (bool, error)
	List(ctx context.Context, filter ClientFilter) ([]model.Client, int64, error)
}

type ClientFilter struct {
	Type     *model.ClientType
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db}
}

func (r *clientRepo) WithTx(tx *gorm.DB) ClientRepository {
	return &clientRepo{tx}
}

func (r *clientRepo) Create(ctx context.Context, client *model.Client) error {
	err := r.db.WithContext(ctx).Create(client).Error
	return duplicateOr(err, "client", "NIPT", niptOf(client))
}

func (r *clientRepo) Save(ctx context.Context, client *model.Client) error {
	err := r.db.WithContext(ctx).Save(client).Error
	return duplicateOr(err, "client", "NIPT", niptOf(client))
}

func (r *clientRepo) FindByID(ctx context.Context, id string) (*model.Client, error) {
	var client model.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "client", id)
	}
	return &client, nil
}

func (r *clientRepo) ExistsActiveNIPT(ctx context.Context, nipt string, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Client{}).
		Where("nipt = ? AND is_active = ? AND client_type = ?", nipt, true, model.ClientTypeBusiness)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *clientRepo) List(ctx context.Context, filter ClientFilter) ([]model.Client, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Client{})
	if filter.Type != nil {
		q = q.Where("client_type = ?", *filter.Type)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(business_name) LIKE ? OR LOWER(email) LIKE ? OR nipt LIKE ?)",
			like, like, like, like, "%"+strings.ToUpper(s)+"%",
		)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginate(filter.Page, filter.PageSize)
	var clients []model.Client
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&clients).Error
	return clients, total, err
}

func niptOf(c *model.Client) string {
	if c.NIPT == nil {
		return ""
	}
	return *c.NIPT
}
