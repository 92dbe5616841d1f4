package model

import (
	"time"
	"unicode/utf8"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/valueobject"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role codes
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

const (
	minPasswordLength = 6
	// bcrypt only hashes the first 72 bytes
	maxPasswordBytes = 72
)

// User represents an authenticated user in the system
type User struct {
	BaseModel
	FirstName    string     `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName     string     `gorm:"type:varchar(50);not null" json:"last_name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Role         string     `gorm:"type:varchar(20);not null" json:"role"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	TokenVersion string     `gorm:"type:varchar(64)" json:"-"` // Rotated on logout and password change
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

func NewUser(name valueobject.PersonName, email valueobject.Email, password, role, createdBy string) (*User, error) {
	if role != RoleAdmin && role != RoleStaff {
		return nil, apperror.Invalid("unknown role '%s'", role)
	}
	u := &User{
		FirstName:    name.FirstName(),
		LastName:     name.LastName(),
		Email:        email.String(),
		Role:         role,
		IsActive:     true,
		TokenVersion: uuid.NewString(),
	}
	u.ID = uuid.New()
	u.CreatedBy = createdBy
	u.UpdatedBy = createdBy
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return apperror.Invalid("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return apperror.Invalid("password cannot exceed %d bytes", maxPasswordBytes)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal("failed to hash password", err)
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

func (u *User) UpdateProfile(name valueobject.PersonName, email valueobject.Email, updatedBy string) {
	u.FirstName = name.FirstName()
	u.LastName = name.LastName()
	u.Email = email.String()
	u.touch(updatedBy)
}

// RotateTokenVersion invalidates every token issued so far
func (u *User) RotateTokenVersion() string {
	u.TokenVersion = uuid.NewString()
	return u.TokenVersion
}

func (u *User) Deactivate(updatedBy string) {
	if !u.IsActive {
		return
	}
	u.IsActive = false
	u.RotateTokenVersion()
	u.touch(updatedBy)
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Email:       u.Email,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
