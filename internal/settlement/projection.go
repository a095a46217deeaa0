package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ProjectedPayout returns the expected payout for a hand under the linear
// minimum-interest schedule. Every hand between this one and the end of the
// tenure must earn at least one unit of minimum interest, so the allowed
// discount scales with steps_from_end = tenure − seq + 1: the first hand
// carries the largest discount, the last hand the smallest.
func ProjectedPayout(pool *models.Pool, hand *models.Hand) decimal.Decimal {
	stepsFromEnd := pool.Tenure - hand.Seq + 1
	deduction := pool.Amount.Mul(pool.MinInterest).Div(hundred)
	return pool.Amount.Sub(deduction.Mul(decimal.NewFromInt(int64(stepsFromEnd))))
}

// InterestRate returns the hand's earned interest as a percent of the pool
// face value. payout is the winning bid for settled hands, the projection
// otherwise.
func InterestRate(pool *models.Pool, payout decimal.Decimal) decimal.Decimal {
	if pool.Amount.IsZero() {
		return decimal.Zero
	}
	return pool.Amount.Sub(payout).Div(pool.Amount).Mul(hundred)
}

// ContributionPerPerson is the authoritative per-member obligation for a
// hand: the actual or projected payout divided by the member count. The
// distribution engine and the contribution tracker both derive from this
// single formula.
func ContributionPerPerson(payout decimal.Decimal, memberCount int) decimal.Decimal {
	if memberCount == 0 {
		return decimal.Zero
	}
	return payout.Div(decimal.NewFromInt(int64(memberCount)))
}

// ValidateBid enforces the bid-price floor. The interest the pool earns from
// the bid (face value − bid) must be at least the interest the schedule
// requires for this hand (face value − projected payout).
func ValidateBid(pool *models.Pool, hand *models.Hand, bid decimal.Decimal) error {
	projected := ProjectedPayout(pool, hand)
	required := pool.Amount.Sub(projected)
	earned := pool.Amount.Sub(bid)
	if earned.LessThan(required) {
		return fmt.Errorf("%w: bid %s exceeds the maximum payout %s for hand %d",
			ErrBidTooHigh, bid.String(), projected.String(), hand.Seq)
	}
	return nil
}

// CheckEligibility rejects winners who already hold a distribution anywhere
// in the pool. priorWinners holds the person IDs of every past winner.
func CheckEligibility(priorWinners map[string]bool, winnerIDs []string) error {
	for _, id := range winnerIDs {
		if priorWinners[id] {
			return fmt.Errorf("%w: person %s", ErrIneligibleWinner, id)
		}
	}
	return nil
}
