package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Person is a committee member in the directory.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string

	// Name is the full display name, unique across the directory.
	Name string

	// ShortName is the abbreviated name used in listings, also unique.
	ShortName string

	// Phone is the primary contact number (digits only).
	Phone string

	// Phone2 is an optional secondary number.
	Phone2 string

	// OpeningBalance seeds the person's ledger before any entries exist.
	// Signed: a negative opening balance means the person starts in debt.
	OpeningBalance decimal.Decimal

	// CreatedAt is the Unix timestamp when the person was created.
	CreatedAt int64
}

// Validate checks the fields a person record must carry before persisting.
func (p *Person) Validate() error {
	if p.Name == "" || p.ShortName == "" {
		return fmt.Errorf("name and short name are required")
	}
	if !digitsOnly(p.Phone) || p.Phone == "" {
		return fmt.Errorf("phone must contain only digits")
	}
	if p.Phone2 != "" && !digitsOnly(p.Phone2) {
		return fmt.Errorf("phone2 must contain only digits")
	}
	return nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
