package valueobject

import (
	"strings"
	"unicode/utf8"

	"aroma-inventory/internal/apperror"
)

const maxPersonNamePart = 50

type PersonName struct {
	first string
	last  string
}

func NewPersonName(first, last string) (PersonName, error) {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if err := checkNamePart("first name", first); err != nil {
		return PersonName{}, err
	}
	if err := checkNamePart("last name", last); err != nil {
		return PersonName{}, err
	}
	return PersonName{first: first, last: last}, nil
}

func checkNamePart(field, v string) error {
	n := utf8.RuneCountInString(v)
	if n == 0 {
		return apperror.Invalid("%s is required", field)
	}
	if n > maxPersonNamePart {
		return apperror.Invalid("%s cannot exceed %d characters", field, maxPersonNamePart)
	}
	return nil
}

func (p PersonName) FirstName() string { return p.first }
func (p PersonName) LastName() string  { return p.last }
func (p PersonName) FullName() string  { return p.first + " " + p.last }

func (p PersonName) Equals(other PersonName) bool {
	return p.first == other.first && p.last == other.last
}
