package models

import "github.com/shopspring/decimal"

// LedgerEntry is one line of a person's append-only ledger.
//
// Entries are never mutated after insertion. The Balance field is a
// point-in-time snapshot taken when the entry is appended; the most recent
// entry's Balance is the sanctioned "current balance" for the person, and
// replaying opening balance + Σ(credit − debit) in date order must reproduce
// it for every prefix of the history.
type LedgerEntry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// PersonID is the ledger owner.
	PersonID string

	// PoolID tags the entry with the pool that produced it; empty for lines
	// not tied to a pool (manual adjustments, ledger closures).
	PoolID string

	// Date is the Unix timestamp of the entry. Ties are broken by insertion
	// order.
	Date int64

	// Narration describes the movement.
	Narration string

	// Debit is the non-negative amount leaving the person's position.
	Debit decimal.Decimal

	// Credit is the non-negative amount entering the person's position.
	Credit decimal.Decimal

	// Balance is the running balance after this entry:
	// previous balance + Credit − Debit.
	Balance decimal.Decimal

	// CreatedAt is the Unix timestamp when the row was inserted.
	CreatedAt int64
}
