package model

import (
	"strings"
	"unicode/utf8"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/valueobject"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold applies when no positive threshold is given
const DefaultLowStockThreshold = 10

const maxDescriptionLength = 2000

// ProductType is the discriminator stored in products.product_type
type ProductType string

const (
	ProductTypeAromaBombel      ProductType = "AromaBombel"
	ProductTypeAromaBottle      ProductType = "AromaBottle"
	ProductTypeAromaDevice      ProductType = "AromaDevice"
	ProductTypeSanitizingDevice ProductType = "SanitizingDevice"
	ProductTypeBattery          ProductType = "Battery"
)

var ProductTypes = []ProductType{
	ProductTypeAromaBombel,
	ProductTypeAromaBottle,
	ProductTypeAromaDevice,
	ProductTypeSanitizingDevice,
	ProductTypeBattery,
}

func (t ProductType) Valid() bool {
	for _, pt := range ProductTypes {
		if pt == t {
			return true
		}
	}
	return false
}

// ParseProductType accepts the discriminator in any letter case
func ParseProductType(raw string) (ProductType, error) {
	for _, pt := range ProductTypes {
		if strings.EqualFold(string(pt), strings.TrimSpace(raw)) {
			return pt, nil
		}
	}
	return "", apperror.Invalid("unknown product type '%s'", raw)
}

// Product is a single row of the products table. Variant columns are nullable
// and only the ones belonging to ProductType are ever set.
type Product struct {
	BaseModel
	ProductType   ProductType     `gorm:"type:varchar(30);not null;index" json:"product_type"`
	Name          string          `gorm:"type:varchar(200);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	PriceAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_amount"`
	PriceCurrency string          `gorm:"type:varchar(3);not null" json:"price_currency"`
	PhotoURL      string          `gorm:"type:varchar(500)" json:"photo_url"`
	StockQuantity int             `gorm:"not null" json:"stock_quantity"`
	IsActive      bool            `gorm:"not null;index" json:"is_active"`

	Taste       *Taste       `json:"taste,omitempty"`
	Color       *string      `gorm:"type:varchar(50)" json:"color,omitempty"`
	Format      *string      `gorm:"type:varchar(50)" json:"format,omitempty"`
	Programs    *int         `json:"programs,omitempty"`
	PlugType    *string      `gorm:"type:varchar(30)" json:"plug_type,omitempty"`
	SquareMeter *int         `json:"square_meter,omitempty"`
	BatteryType *string      `gorm:"type:varchar(50)" json:"battery_type,omitempty"`
	BatterySize *BatterySize `json:"battery_size,omitempty"`
	Brand       *string      `gorm:"type:varchar(100)" json:"brand,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// NewProduct builds an active product with zero stock
func NewProduct(name valueobject.ProductName, description string, price valueobject.Money, photoURL string, details ProductDetails, createdBy string) (*Product, error) {
	if details == nil {
		return nil, apperror.Invalid("product details are required")
	}
	if err := details.validate(); err != nil {
		return nil, err
	}
	if err := checkDescription(description); err != nil {
		return nil, err
	}

	p := &Product{
		ProductType:   details.ProductType(),
		Name:          name.String(),
		Description:   strings.TrimSpace(description),
		PriceAmount:   price.Amount(),
		PriceCurrency: price.Currency(),
		PhotoURL:      strings.TrimSpace(photoURL),
		IsActive:      true,
	}
	p.CreatedBy = createdBy
	p.UpdatedBy = createdBy
	details.apply(p)
	return p, nil
}

func checkDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return apperror.Invalid("description cannot exceed %d characters", maxDescriptionLength)
	}
	return nil
}

func (p *Product) UpdateBasicInfo(name valueobject.ProductName, description string, price valueobject.Money, photoURL string, updatedBy string) error {
	if err := checkDescription(description); err != nil {
		return err
	}
	p.Name = name.String()
	p.Description = strings.TrimSpace(description)
	p.PriceAmount = price.Amount()
	p.PriceCurrency = price.Currency()
	p.PhotoURL = strings.TrimSpace(photoURL)
	p.touch(updatedBy)
	return nil
}

// UpdateSpecificInfo replaces the variant payload; the variant cannot change
func (p *Product) UpdateSpecificInfo(details ProductDetails, updatedBy string) error {
	if details == nil {
		return apperror.Invalid("product details are required")
	}
	if details.ProductType() != p.ProductType {
		return apperror.Invalid("cannot apply %s details to a %s product", details.ProductType(), p.ProductType)
	}
	if err := details.validate(); err != nil {
		return err
	}
	details.apply(p)
	p.touch(updatedBy)
	return nil
}

func (p *Product) AddStock(qty int) error {
	if qty <= 0 {
		return apperror.Invalid("quantity to add must be greater than zero")
	}
	p.StockQuantity += qty
	return nil
}

// RemoveStock leaves StockQuantity untouched on failure
func (p *Product) RemoveStock(qty int) error {
	if qty <= 0 {
		return apperror.Invalid("quantity to remove must be greater than zero")
	}
	if qty > p.StockQuantity {
		return apperror.InsufficientStock(p.ID.String(), qty, p.StockQuantity)
	}
	p.StockQuantity -= qty
	return nil
}

func (p *Product) IsLowStock(threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return p.StockQuantity <= threshold
}

func (p *Product) Price() valueobject.Money {
	return valueobject.RestoreMoney(p.PriceAmount, p.PriceCurrency)
}

// Deactivate refuses while units are still on hand
func (p *Product) Deactivate(updatedBy string) error {
	if !p.IsActive {
		return nil
	}
	if p.StockQuantity > 0 {
		return &apperror.Error{
			Kind:    apperror.KindConflict,
			Message: "cannot deactivate a product that still has stock",
		}
	}
	p.IsActive = false
	p.touch(updatedBy)
	return nil
}

func (p *Product) Activate(updatedBy string) {
	if p.IsActive {
		return
	}
	p.IsActive = true
	p.touch(updatedBy)
}

// Details rebuilds the variant payload from the columns. It returns nil for an
// unknown discriminator.
func (p *Product) Details() ProductDetails {
	switch p.ProductType {
	case ProductTypeAromaBombel:
		return AromaBombelDetails{Taste: p.Taste}
	case ProductTypeAromaBottle:
		return AromaBottleDetails{Taste: p.Taste}
	case ProductTypeAromaDevice:
		return AromaDeviceDetails{
			Color:       p.Color,
			Format:      p.Format,
			Programs:    p.Programs,
			PlugType:    deref(p.PlugType),
			SquareMeter: p.SquareMeter,
		}
	case ProductTypeSanitizingDevice:
		return SanitizingDeviceDetails{
			Color:    p.Color,
			Format:   p.Format,
			Programs: p.Programs,
			PlugType: deref(p.PlugType),
		}
	case ProductTypeBattery:
		return BatteryDetails{Type: p.BatteryType, Size: p.BatterySize, Brand: p.Brand}
	default:
		return nil
	}
}

func (p *Product) clearVariantColumns() {
	p.Taste = nil
	p.Color = nil
	p.Format = nil
	p.Programs = nil
	p.PlugType = nil
	p.SquareMeter = nil
	p.BatteryType = nil
	p.BatterySize = nil
	p.Brand = nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
