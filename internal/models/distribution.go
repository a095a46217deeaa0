package models

import "github.com/shopspring/decimal"

// Distribution is the payout record for one winner of a settled hand.
// Multi-winner hands carry one distribution per winner; the amounts always
// sum to the winning bid price.
type Distribution struct {
	// ID is the unique identifier for the distribution (UUID format).
	ID string

	// HandID is the settled hand.
	HandID string

	// PersonID is the winner receiving this share of the payout.
	PersonID string

	// Amount is this winner's share of the bid price.
	Amount decimal.Decimal

	// Narration is free-text commentary for the payout.
	Narration string

	// Date is the Unix timestamp of the settlement.
	Date int64
}
