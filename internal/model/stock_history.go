package model

import (
	"errors"
	"strings"
	"time"

	"aroma-inventory/internal/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockChangeType string

const (
	StockAdded   StockChangeType = "Added"
	StockRemoved StockChangeType = "Removed"
)

var ErrStockHistoryImmutable = errors.New("stock history records cannot be modified")

// StockHistory is an append-only audit row written with every stock mutation.
// QuantityChanged is signed: positive for additions, negative for removals.
type StockHistory struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	QuantityChanged int             `gorm:"not null" json:"quantity_changed"`
	QuantityAfter   int             `gorm:"not null" json:"quantity_after"`
	ChangeType      StockChangeType `gorm:"type:varchar(10);not null" json:"change_type"`
	Reason          *string         `gorm:"type:varchar(500)" json:"reason,omitempty"`
	ChangedBy       uuid.UUID       `gorm:"type:uuid;not null" json:"changed_by"`
	ChangedAt       time.Time       `gorm:"not null;index" json:"changed_at"`
}

func (StockHistory) TableName() string {
	return "stock_histories"
}

func NewStockAddition(productID uuid.UUID, quantityAdded, quantityAfter int, reason string, changedBy uuid.UUID) (*StockHistory, error) {
	if quantityAdded <= 0 {
		return nil, apperror.Invalid("quantity added must be greater than zero")
	}
	return newStockHistory(productID, quantityAdded, quantityAfter, StockAdded, reason, changedBy)
}

func NewStockRemoval(productID uuid.UUID, quantityRemoved, quantityAfter int, reason string, changedBy uuid.UUID) (*StockHistory, error) {
	if quantityRemoved <= 0 {
		return nil, apperror.Invalid("quantity removed must be greater than zero")
	}
	return newStockHistory(productID, -quantityRemoved, quantityAfter, StockRemoved, reason, changedBy)
}

func newStockHistory(productID uuid.UUID, changed, after int, changeType StockChangeType, reason string, changedBy uuid.UUID) (*StockHistory, error) {
	if productID == uuid.Nil {
		return nil, apperror.Invalid("product id is required")
	}
	if changedBy == uuid.Nil {
		return nil, apperror.Invalid("changed by is required")
	}
	if after < 0 {
		return nil, apperror.Invalid("quantity after cannot be negative")
	}
	return &StockHistory{
		ID:              uuid.New(),
		ProductID:       productID,
		QuantityChanged: changed,
		QuantityAfter:   after,
		ChangeType:      changeType,
		Reason:          optional(strings.TrimSpace(reason)),
		ChangedBy:       changedBy,
		ChangedAt:       time.Now().UTC(),
	}, nil
}

func (h *StockHistory) BeforeUpdate(tx *gorm.DB) error {
	return ErrStockHistoryImmutable
}

func (h *StockHistory) BeforeDelete(tx *gorm.DB) error {
	return ErrStockHistoryImmutable
}
