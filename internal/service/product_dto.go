package service

import (
	"time"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariantFields carries the type-specific attributes of every variant.
// Only the fields relevant to the product's type are read.
type ProductVariantFields struct {
	TasteID     *int    `json:"taste_id"`
	Color       *string `json:"color"`
	Format      *string `json:"format"`
	Programs    *int    `json:"programs"`
	PlugType    *string `json:"plug_type"`
	SquareMeter *int    `json:"square_meter"`
	BatteryType *string `json:"battery_type"`
	SizeID      *int    `json:"size_id"`
	Brand       *string `json:"brand"`
}

type CreateProductRequest struct {
	ProductType string          `json:"product_type" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency" validate:"omitempty,currency"`
	PhotoURL    string          `json:"photo_url" validate:"omitempty,url,max=500"`
	ProductVariantFields
}

type UpdateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency" validate:"omitempty,currency"`
	PhotoURL    string          `json:"photo_url" validate:"omitempty,url,max=500"`
	ProductVariantFields
}

type StockChangeRequest struct {
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Reason   string `json:"reason" validate:"max=500"`
}

type ProductQuery struct {
	Type     string
	Active   *bool
	LowStock bool
	Search   string
	Page     int
	PageSize int
}

type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductType   string          `json:"product_type"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	PhotoURL      string          `json:"photo_url"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	IsLowStock    bool            `json:"is_low_stock"`

	Taste       *string `json:"taste,omitempty"`
	TasteID     *int    `json:"taste_id,omitempty"`
	Color       *string `json:"color,omitempty"`
	Format      *string `json:"format,omitempty"`
	Programs    *int    `json:"programs,omitempty"`
	PlugType    *string `json:"plug_type,omitempty"`
	SquareMeter *int    `json:"square_meter,omitempty"`
	BatteryType *string `json:"battery_type,omitempty"`
	Size        *string `json:"size,omitempty"`
	SizeID      *int    `json:"size_id,omitempty"`
	Brand       *string `json:"brand,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

type ProductListResponse struct {
	Items    []ProductResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type StockHistoryResponse struct {
	ID              uuid.UUID `json:"id"`
	ProductID       uuid.UUID `json:"product_id"`
	QuantityChanged int       `json:"quantity_changed"`
	QuantityAfter   int       `json:"quantity_after"`
	ChangeType      string    `json:"change_type"`
	Reason          *string   `json:"reason,omitempty"`
	ChangedBy       uuid.UUID `json:"changed_by"`
	ChangedAt       time.Time `json:"changed_at"`
}

type StockChangeResponse struct {
	Product ProductResponse      `json:"product"`
	History StockHistoryResponse `json:"history"`
}

// detailsFor builds the variant payload for productType from the request fields
func detailsFor(productType model.ProductType, f ProductVariantFields) (model.ProductDetails, error) {
	switch productType {
	case model.ProductTypeAromaBombel:
		return model.AromaBombelDetails{Taste: tasteOf(f.TasteID)}, nil
	case model.ProductTypeAromaBottle:
		return model.AromaBottleDetails{Taste: tasteOf(f.TasteID)}, nil
	case model.ProductTypeAromaDevice:
		return model.AromaDeviceDetails{
			Color:       f.Color,
			Format:      f.Format,
			Programs:    f.Programs,
			PlugType:    derefString(f.PlugType),
			SquareMeter: f.SquareMeter,
		}, nil
	case model.ProductTypeSanitizingDevice:
		return model.SanitizingDeviceDetails{
			Color:    f.Color,
			Format:   f.Format,
			Programs: f.Programs,
			PlugType: derefString(f.PlugType),
		}, nil
	case model.ProductTypeBattery:
		var size *model.BatterySize
		if f.SizeID != nil {
			s := model.BatterySize(*f.SizeID)
			size = &s
		}
		return model.BatteryDetails{Type: f.BatteryType, Size: size, Brand: f.Brand}, nil
	default:
		return nil, apperror.Invalid("unsupported product type '%s'", productType)
	}
}

func toProductResponse(p *model.Product, lowStockThreshold int) ProductResponse {
	resp := ProductResponse{
		ID:            p.ID,
		ProductType:   string(p.ProductType),
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.PriceAmount,
		Currency:      p.PriceCurrency,
		PhotoURL:      p.PhotoURL,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		IsLowStock:    p.IsLowStock(lowStockThreshold),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CreatedBy:     p.CreatedBy,
		UpdatedBy:     p.UpdatedBy,
	}

	switch d := p.Details().(type) {
	case model.AromaBombelDetails:
		resp.Taste, resp.TasteID = tasteFields(d.Taste)
	case model.AromaBottleDetails:
		resp.Taste, resp.TasteID = tasteFields(d.Taste)
	case model.AromaDeviceDetails:
		resp.Color, resp.Format, resp.Programs = d.Color, d.Format, d.Programs
		resp.PlugType = &d.PlugType
		resp.SquareMeter = d.SquareMeter
	case model.SanitizingDeviceDetails:
		resp.Color, resp.Format, resp.Programs = d.Color, d.Format, d.Programs
		resp.PlugType = &d.PlugType
	case model.BatteryDetails:
		resp.BatteryType, resp.Brand = d.Type, d.Brand
		if d.Size != nil {
			name, id := d.Size.String(), int(*d.Size)
			resp.Size, resp.SizeID = &name, &id
		}
	default:
		// unknown discriminator: only the common fields are exposed
	}
	return resp
}

func toStockHistoryResponse(h *model.StockHistory) StockHistoryResponse {
	return StockHistoryResponse{
		ID:              h.ID,
		ProductID:       h.ProductID,
		QuantityChanged: h.QuantityChanged,
		QuantityAfter:   h.QuantityAfter,
		ChangeType:      string(h.ChangeType),
		Reason:          h.Reason,
		ChangedBy:       h.ChangedBy,
		ChangedAt:       h.ChangedAt,
	}
}

func tasteOf(id *int) *model.Taste {
	if id == nil {
		return nil
	}
	t := model.Taste(*id)
	return &t
}

func tasteFields(t *model.Taste) (*string, *int) {
	if t == nil {
		return nil, nil
	}
	name, id := t.String(), int(*t)
	return &name, &id
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
