package valueobject

import (
	"strings"

	"aroma-inventory/internal/apperror"
)

const niptLength = 10

// NIPT is the Albanian business tax identifier.
type NIPT struct {
	value string
}

func NewNIPT(raw string) (NIPT, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if len(value) != niptLength {
		return NIPT{}, apperror.Invalid("NIPT must be exactly %d alphanumeric characters", niptLength)
	}
	for _, r := range value {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return NIPT{}, apperror.Invalid("NIPT must be exactly %d alphanumeric characters", niptLength)
		}
	}
	return NIPT{value: value}, nil
}

func (n NIPT) String() string { return n.value }

func (n NIPT) Equals(other NIPT) bool { return n.value == other.value }
