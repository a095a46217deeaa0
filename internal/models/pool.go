package models

import "github.com/shopspring/decimal"

// Pool is one rotating savings group instance.
type Pool struct {
	// ID is the unique identifier for the pool (UUID format).
	ID string

	// Number is the sequential committee number, unique across all pools.
	Number int

	// Name is the display name of the pool.
	Name string

	// StartDate is the Unix timestamp of the first hand's scheduled date.
	StartDate int64

	// Amount is the pool face value: the sum a winner would receive with no
	// discount at all.
	Amount decimal.Decimal

	// Tenure is the number of hands. The roster must have exactly Tenure
	// members so every member can win exactly once.
	Tenure int

	// CurrentHand is the 1-indexed pointer to the hand currently up for
	// auction. Settling the hand it points at advances it; readers must clamp
	// it to Tenure once the last hand has been settled.
	CurrentHand int

	// MinInterest is the minimum interest rate as a percent of Amount.
	// It floors the discount a bid may take for each remaining hand.
	MinInterest decimal.Decimal

	// Narration is free-text commentary recorded at creation.
	Narration string

	// Members holds the person IDs on the roster, fixed at creation.
	Members []string

	// CreatedAt is the Unix timestamp when the pool was created.
	CreatedAt int64
}

// ClampedCurrentHand returns CurrentHand bounded to Tenure. The pointer
// overruns by one after the final hand settles.
func (p *Pool) ClampedCurrentHand() int {
	if p.CurrentHand > p.Tenure {
		return p.Tenure
	}
	return p.CurrentHand
}

// Hand is one cycle of a pool, corresponding to one payout event.
//
// A hand has two lifecycle states, derived from its distributions: it is open
// while no distribution exists, and settled once a settlement creates the
// distribution group. A settled hand never transitions again.
type Hand struct {
	// ID is the unique identifier for the hand (UUID format).
	ID string

	// PoolID is the pool this hand belongs to.
	PoolID string

	// Seq is the hand number, 1..Tenure.
	Seq int

	// Date is the Unix timestamp of the scheduled date, 30 days apart.
	Date int64

	// ContributionAmount is the nominal equal share, pool amount / tenure.
	// The authoritative per-hand obligation after an auction is derived from
	// the bid price instead; this field keeps the schedule's face split.
	ContributionAmount decimal.Decimal
}
