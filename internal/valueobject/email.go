package valueobject

import (
	"regexp"
	"strings"

	"aroma-inventory/internal/apperror"
)

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

const maxEmailLength = 255

// Email is a lowercase, syntactically valid address.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return Email{}, apperror.Invalid("email is required")
	}
	if len(value) > maxEmailLength {
		return Email{}, apperror.Invalid("email cannot exceed %d characters", maxEmailLength)
	}
	if !emailPattern.MatchString(value) {
		return Email{}, apperror.Invalid("invalid email format")
	}
	return Email{value: value}, nil
}

func (e Email) String() string { return e.value }

func (e Email) Equals(other Email) bool { return e.value == other.value }
