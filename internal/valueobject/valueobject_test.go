package valueobject

import (
	"strings"
	"testing"
)

func TestNewEmail(t *testing.T) {
	upper, err := NewEmail("TEST@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lower, err := NewEmail("test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !upper.Equals(lower) {
		t.Errorf("expected %s to equal %s", upper, lower)
	}
	if upper.String() != "test@example.com" {
		t.Errorf("expected lowercase email, got %s", upper)
	}

	for _, bad := range []string{"", "plain", "a@b", "@example.com", "a b@example.com"} {
		if _, err := NewEmail(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestNewProductName(t *testing.T) {
	if _, err := NewProductName("ab"); err != nil {
		t.Errorf("expected 2-char name to be valid, got %v", err)
	}
	if _, err := NewProductName("a"); err == nil {
		t.Error("expected 1-char name to fail")
	}
	if _, err := NewProductName(strings.Repeat("x", 201)); err == nil {
		t.Error("expected 201-char name to fail")
	}
	if _, err := NewProductName("  a  "); err == nil {
		t.Error("expected whitespace to be trimmed before length check")
	}

	a, _ := NewProductName("Lavender Mist")
	b, _ := NewProductName("LAVENDER mist")
	if !a.Equals(b) {
		t.Error("expected case-insensitive equality")
	}
}

func TestNewNIPT(t *testing.T) {
	n, err := NewNIPT(" k12345678a ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.String() != "K12345678A" {
		t.Errorf("expected uppercase NIPT, got %s", n)
	}

	for _, bad := range []string{"K1234567", "K12345678AB", "K1234567-A", ""} {
		if _, err := NewNIPT(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestNewPersonName(t *testing.T) {
	p, err := NewPersonName(" Arta ", "Hoxha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.FullName() != "Arta Hoxha" {
		t.Errorf("unexpected full name %q", p.FullName())
	}

	if _, err := NewPersonName("", "Hoxha"); err == nil {
		t.Error("expected empty first name to fail")
	}
	if _, err := NewPersonName("Arta", strings.Repeat("x", 51)); err == nil {
		t.Error("expected 51-char last name to fail")
	}
	if _, err := NewPersonName(strings.Repeat("é", 50), "Z"); err != nil {
		t.Errorf("expected 50 multibyte runes to pass, got %v", err)
	}
}
