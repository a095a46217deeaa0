package models

import "github.com/shopspring/decimal"

// Contribution is one member's obligation or payment for one hand.
// At settlement exactly one contribution exists per (hand, member) pair;
// before settlement, proactive payments may pre-create them.
type Contribution struct {
	// ID is the unique identifier for the contribution (UUID format).
	ID string

	// HandID is the hand this contribution belongs to.
	HandID string

	// PersonID is the member who owes or paid this contribution.
	PersonID string

	// Amount is the computed per-person share for the hand.
	Amount decimal.Decimal

	// Date is the Unix timestamp the contribution was recorded.
	Date int64

	// Paid reports whether the obligation has been met. Winners of a hand are
	// marked paid at settlement: their payout nets against their own share.
	Paid bool
}
