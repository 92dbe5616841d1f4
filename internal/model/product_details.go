package model

import (
	"strings"
	"unicode/utf8"

	"aroma-inventory/internal/apperror"
)

// ProductDetails is the per-variant payload. The set of implementations is
// closed: one per ProductType.
type ProductDetails interface {
	ProductType() ProductType
	validate() error
	apply(p *Product)
}

type Taste int

const (
	TasteFloral Taste = iota + 1
	TasteSweet
	TasteCitrus
	TasteWoody
	TasteFresh
	TasteFruity
)

var tasteNames = map[Taste]string{
	TasteFloral: "Floral",
	TasteSweet:  "Sweet",
	TasteCitrus: "Citrus",
	TasteWoody:  "Woody",
	TasteFresh:  "Fresh",
	TasteFruity: "Fruity",
}

func (t Taste) Valid() bool {
	_, ok := tasteNames[t]
	return ok
}

func (t Taste) String() string {
	if name, ok := tasteNames[t]; ok {
		return name
	}
	return "Unknown"
}

type BatterySize int

const (
	BatterySizeAA BatterySize = iota + 1
	BatterySizeAAA
	BatterySizeC
	BatterySizeD
	BatterySize9V
	BatterySizeCR2032
)

var batterySizeNames = map[BatterySize]string{
	BatterySizeAA:     "AA",
	BatterySizeAAA:    "AAA",
	BatterySizeC:      "C",
	BatterySizeD:      "D",
	BatterySize9V:     "9V",
	BatterySizeCR2032: "CR2032",
}

func (s BatterySize) Valid() bool {
	_, ok := batterySizeNames[s]
	return ok
}

func (s BatterySize) String() string {
	if name, ok := batterySizeNames[s]; ok {
		return name
	}
	return "Unknown"
}

type AromaBombelDetails struct {
	Taste *Taste
}

func (AromaBombelDetails) ProductType() ProductType { return ProductTypeAromaBombel }

func (d AromaBombelDetails) validate() error { return validateTaste(d.Taste) }

func (d AromaBombelDetails) apply(p *Product) {
	p.clearVariantColumns()
	p.Taste = d.Taste
}

type AromaBottleDetails struct {
	Taste *Taste
}

func (AromaBottleDetails) ProductType() ProductType { return ProductTypeAromaBottle }

func (d AromaBottleDetails) validate() error { return validateTaste(d.Taste) }

func (d AromaBottleDetails) apply(p *Product) {
	p.clearVariantColumns()
	p.Taste = d.Taste
}

type AromaDeviceDetails struct {
	Color       *string
	Format      *string
	Programs    *int
	PlugType    string
	SquareMeter *int
}

func (AromaDeviceDetails) ProductType() ProductType { return ProductTypeAromaDevice }

func (d AromaDeviceDetails) validate() error {
	if err := validateDevice(d.Color, d.Format, d.Programs, d.PlugType); err != nil {
		return err
	}
	if d.SquareMeter != nil && *d.SquareMeter <= 0 {
		return apperror.Invalid("square meter must be greater than zero")
	}
	return nil
}

func (d AromaDeviceDetails) apply(p *Product) {
	p.clearVariantColumns()
	p.Color = normalizeOptional(d.Color)
	p.Format = normalizeOptional(d.Format)
	p.Programs = d.Programs
	plug := strings.TrimSpace(d.PlugType)
	p.PlugType = &plug
	p.SquareMeter = d.SquareMeter
}

type SanitizingDeviceDetails struct {
	Color    *string
	Format   *string
	Programs *int
	PlugType string
}

func (SanitizingDeviceDetails) ProductType() ProductType { return ProductTypeSanitizingDevice }

func (d SanitizingDeviceDetails) validate() error {
	return validateDevice(d.Color, d.Format, d.Programs, d.PlugType)
}

func (d SanitizingDeviceDetails) apply(p *Product) {
	p.clearVariantColumns()
	p.Color = normalizeOptional(d.Color)
	p.Format = normalizeOptional(d.Format)
	p.Programs = d.Programs
	plug := strings.TrimSpace(d.PlugType)
	p.PlugType = &plug
}

type BatteryDetails struct {
	Type  *string
	Size  *BatterySize
	Brand *string
}

func (BatteryDetails) ProductType() ProductType { return ProductTypeBattery }

func (d BatteryDetails) validate() error {
	if d.Size != nil && !d.Size.Valid() {
		return apperror.Invalid("unknown battery size %d", int(*d.Size))
	}
	if err := checkOptionalLength("battery type", d.Type, 50); err != nil {
		return err
	}
	return checkOptionalLength("brand", d.Brand, 100)
}

func (d BatteryDetails) apply(p *Product) {
	p.clearVariantColumns()
	p.BatteryType = normalizeOptional(d.Type)
	p.BatterySize = d.Size
	p.Brand = normalizeOptional(d.Brand)
}

func validateTaste(t *Taste) error {
	if t != nil && !t.Valid() {
		return apperror.Invalid("unknown taste %d", int(*t))
	}
	return nil
}

func validateDevice(color, format *string, programs *int, plugType string) error {
	plug := strings.TrimSpace(plugType)
	if plug == "" {
		return apperror.Invalid("plug type is required")
	}
	if utf8.RuneCountInString(plug) > 30 {
		return apperror.Invalid("plug type cannot exceed 30 characters")
	}
	if programs != nil && *programs < 0 {
		return apperror.Invalid("programs cannot be negative")
	}
	if err := checkOptionalLength("color", color, 50); err != nil {
		return err
	}
	return checkOptionalLength("format", format, 50)
}

func checkOptionalLength(field string, v *string, max int) error {
	if v != nil && utf8.RuneCountInString(strings.TrimSpace(*v)) > max {
		return apperror.Invalid("%s cannot exceed %d characters", field, max)
	}
	return nil
}

// normalizeOptional trims and turns blank strings into nil
func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
