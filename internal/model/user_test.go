package model

import (
	"errors"
	"strings"
	"testing"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/valueobject"
)

func TestNewUser(t *testing.T) {
	name, _ := valueobject.NewPersonName("Era", "Gashi")
	email, _ := valueobject.NewEmail("ERA@example.com")

	u, err := NewUser(name, email, "secret1", RoleStaff, "system")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "era@example.com" || !u.IsActive || u.TokenVersion == "" {
		t.Errorf("unexpected user: %+v", u)
	}
	if !u.CheckPassword("secret1") || u.CheckPassword("wrong") {
		t.Error("password check mismatch")
	}

	if _, err := NewUser(name, email, "123", RoleStaff, "system"); err == nil {
		t.Error("expected short password to fail")
	}
	if _, err := NewUser(name, email, "secret1", "ROOT", "system"); err == nil {
		t.Error("expected unknown role to fail")
	}
}

func TestUser_DeactivateRotatesToken(t *testing.T) {
	name, _ := valueobject.NewPersonName("Era", "Gashi")
	email, _ := valueobject.NewEmail("era@example.com")
	u, _ := NewUser(name, email, "secret1", RoleStaff, "system")
	before := u.TokenVersion

	u.Deactivate("admin")
	if u.IsActive || u.TokenVersion == before {
		t.Errorf("expected inactive user with new token version")
	}
	resp := u.ToResponse()
	if resp.FullName != "Era Gashi" || resp.IsActive {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestUser_SetPasswordTooLong(t *testing.T) {
	name, _ := valueobject.NewPersonName("Era", "Gashi")
	email, _ := valueobject.NewEmail("era@example.com")
	u, _ := NewUser(name, email, "secret1", RoleStaff, "system")
	hash := u.PasswordHash

	if err := u.SetPassword(strings.Repeat("x", 73)); !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
	if u.PasswordHash != hash {
		t.Error("rejected password must not replace the hash")
	}
	// multi-byte runes count by bytes
	if err := u.SetPassword(strings.Repeat("ë", 37)); !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Errorf("expected invalid argument for 74 bytes, got %v", err)
	}
	if err := u.SetPassword(strings.Repeat("x", 72)); err != nil {
		t.Errorf("72 bytes should be accepted: %v", err)
	}
}
