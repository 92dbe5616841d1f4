package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/valueobject"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientType string

const (
	ClientTypeIndividual ClientType = "Individual"
	ClientTypeBusiness   ClientType = "Business"
)

func ParseClientType(raw string) (ClientType, error) {
	switch {
	case strings.EqualFold(raw, string(ClientTypeIndividual)):
		return ClientTypeIndividual, nil
	case strings.EqualFold(raw, string(ClientTypeBusiness)):
		return ClientTypeBusiness, nil
	default:
		return "", apperror.Invalid("unknown client type '%s'", raw)
	}
}

// Client is one row of the clients table; individual and business columns
// share it, keyed by ClientType.
type Client struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	ClientType ClientType `gorm:"type:varchar(20);not null;index" json:"client_type"`
	Address    string     `gorm:"type:varchar(300)" json:"address"`
	Email      string     `gorm:"type:varchar(255);index" json:"email"`
	Phone      string     `gorm:"type:varchar(30)" json:"phone"`
	Notes      string     `gorm:"type:text" json:"notes"`

	// Individual
	FirstName *string `gorm:"type:varchar(50)" json:"first_name,omitempty"`
	LastName  *string `gorm:"type:varchar(50)" json:"last_name,omitempty"`

	// Business
	NIPT               *string `gorm:"column:nipt;type:varchar(10);index" json:"nipt,omitempty"`
	BusinessName       *string `gorm:"type:varchar(200)" json:"business_name,omitempty"`
	OwnerName          *string `gorm:"type:varchar(100)" json:"owner_name,omitempty"`
	OwnerPhone         *string `gorm:"type:varchar(30)" json:"owner_phone,omitempty"`
	ContactPersonName  *string `gorm:"type:varchar(100)" json:"contact_person_name,omitempty"`
	ContactPersonPhone *string `gorm:"type:varchar(30)" json:"contact_person_phone,omitempty"`

	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `gorm:"type:varchar(64)" json:"created_by"`
	UpdatedBy string    `gorm:"type:varchar(64)" json:"updated_by"`
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return
}

// ContactInfo holds the fields shared by every client type
type ContactInfo struct {
	Address string
	Email   *valueobject.Email
	Phone   string
	Notes   string
}

func (ci ContactInfo) validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(ci.Address)) > 300 {
		return apperror.Invalid("address cannot exceed 300 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(ci.Phone)) > 30 {
		return apperror.Invalid("phone cannot exceed 30 characters")
	}
	return nil
}

type BusinessInfo struct {
	NIPT               valueobject.NIPT
	BusinessName       string
	OwnerName          string
	OwnerPhone         string
	ContactPersonName  string
	ContactPersonPhone string
}

func (bi BusinessInfo) validate() error {
	n := utf8.RuneCountInString(strings.TrimSpace(bi.BusinessName))
	if n < 2 || n > 200 {
		return apperror.Invalid("business name must be between 2 and 200 characters")
	}
	for field, v := range map[string]string{"owner name": bi.OwnerName, "contact person name": bi.ContactPersonName} {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > 100 {
			return apperror.Invalid("%s cannot exceed 100 characters", field)
		}
	}
	for field, v := range map[string]string{"owner phone": bi.OwnerPhone, "contact person phone": bi.ContactPersonPhone} {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > 30 {
			return apperror.Invalid("%s cannot exceed 30 characters", field)
		}
	}
	return nil
}

func NewIndividualClient(name valueobject.PersonName, contact ContactInfo, createdBy string) (*Client, error) {
	if err := contact.validate(); err != nil {
		return nil, err
	}
	c := &Client{
		ID:         uuid.NewString(),
		ClientType: ClientTypeIndividual,
		IsActive:   true,
		CreatedBy:  createdBy,
		UpdatedBy:  createdBy,
	}
	c.applyContact(contact)
	c.applyPersonName(name)
	return c, nil
}

func NewBusinessClient(info BusinessInfo, contact ContactInfo, createdBy string) (*Client, error) {
	if err := info.validate(); err != nil {
		return nil, err
	}
	if err := contact.validate(); err != nil {
		return nil, err
	}
	c := &Client{
		ID:         uuid.NewString(),
		ClientType: ClientTypeBusiness,
		IsActive:   true,
		CreatedBy:  createdBy,
		UpdatedBy:  createdBy,
	}
	c.applyContact(contact)
	c.applyBusinessInfo(info)
	return c, nil
}

func (c *Client) UpdatePersonalInfo(name valueobject.PersonName, updatedBy string) error {
	if c.ClientType != ClientTypeIndividual {
		return apperror.Invalid("client '%s' is not an individual client", c.ID)
	}
	c.applyPersonName(name)
	c.touch(updatedBy)
	return nil
}

func (c *Client) UpdateBusinessInfo(info BusinessInfo, updatedBy string) error {
	if c.ClientType != ClientTypeBusiness {
		return apperror.Invalid("client '%s' is not a business client", c.ID)
	}
	if err := info.validate(); err != nil {
		return err
	}
	c.applyBusinessInfo(info)
	c.touch(updatedBy)
	return nil
}

func (c *Client) UpdateContactInfo(contact ContactInfo, updatedBy string) error {
	if err := contact.validate(); err != nil {
		return err
	}
	c.applyContact(contact)
	c.touch(updatedBy)
	return nil
}

// Deactivate is a soft delete; calling it twice is a no-op
func (c *Client) Deactivate(updatedBy string) {
	if !c.IsActive {
		return
	}
	c.IsActive = false
	c.touch(updatedBy)
}

func (c *Client) DisplayName() string {
	switch c.ClientType {
	case ClientTypeIndividual:
		return strings.TrimSpace(deref(c.FirstName) + " " + deref(c.LastName))
	case ClientTypeBusiness:
		return deref(c.BusinessName)
	default:
		return c.ID
	}
}

func (c *Client) applyContact(contact ContactInfo) {
	c.Address = strings.TrimSpace(contact.Address)
	c.Phone = strings.TrimSpace(contact.Phone)
	c.Notes = strings.TrimSpace(contact.Notes)
	c.Email = ""
	if contact.Email != nil {
		c.Email = contact.Email.String()
	}
}

func (c *Client) applyPersonName(name valueobject.PersonName) {
	first, last := name.FirstName(), name.LastName()
	c.FirstName = &first
	c.LastName = &last
}

func (c *Client) applyBusinessInfo(info BusinessInfo) {
	nipt := info.NIPT.String()
	businessName := strings.TrimSpace(info.BusinessName)
	c.NIPT = &nipt
	c.BusinessName = &businessName
	c.OwnerName = optional(info.OwnerName)
	c.OwnerPhone = optional(info.OwnerPhone)
	c.ContactPersonName = optional(info.ContactPersonName)
	c.ContactPersonPhone = optional(info.ContactPersonPhone)
}

func (c *Client) touch(updatedBy string) {
	c.UpdatedBy = updatedBy
	c.UpdatedAt = time.Now()
}

func optional(s string) *string {
	return normalizeOptional(&s)
}
