package settlement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
)

// Plan is the complete row set one hand settlement produces. It is computed
// up front so the store can apply it in a single transaction with nothing
// recomputed mid-write.
type Plan struct {
	PoolID string
	HandID string

	// Distributions holds one payout record per winner. Their amounts sum
	// exactly to the bid price.
	Distributions []*models.Distribution

	// Contributions holds one obligation per pool member, paid for winners.
	Contributions []*models.Contribution

	// Entries holds the ledger postings: a credit per winner, a debit per
	// non-winner, each with its running balance already chained.
	Entries []*models.LedgerEntry

	// AdvanceCurrentHand is set when the settled hand is the pool's current
	// hand, so the commit moves the pointer forward.
	AdvanceCurrentHand bool
}

// BuildPlan computes every posting for settling a hand with the given winners
// and bid price.
//
// balances maps person ID to that person's current ledger balance as read
// before the transaction. The map is mutated as entries are generated so a
// person touched more than once in the same settlement chains each balance
// off the entry written just before it, not off the stale pre-transaction
// read.
//
// BuildPlan validates input shape and roster membership only; the caller is
// responsible for the already-settled check, winner eligibility and the bid
// floor, which need store state.
func BuildPlan(pool *models.Pool, hand *models.Hand, winnerIDs []string, bid decimal.Decimal,
	narration string, balances map[string]decimal.Decimal, now time.Time) (*Plan, error) {

	if len(winnerIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one winner is required", ErrInvalidInput)
	}
	if !bid.IsPositive() {
		return nil, fmt.Errorf("%w: bid price must be positive", ErrInvalidInput)
	}
	if hand.PoolID != pool.ID {
		return nil, fmt.Errorf("%w: hand %s does not belong to pool %d", ErrNotFound, hand.ID, pool.Number)
	}

	memberSet := make(map[string]bool, len(pool.Members))
	for _, id := range pool.Members {
		memberSet[id] = true
	}
	winnerSet := make(map[string]bool, len(winnerIDs))
	for _, id := range winnerIDs {
		if !memberSet[id] {
			return nil, fmt.Errorf("%w: winner %s is not a member of pool %d", ErrInvalidInput, id, pool.Number)
		}
		if winnerSet[id] {
			return nil, fmt.Errorf("%w: duplicate winner %s", ErrInvalidInput, id)
		}
		winnerSet[id] = true
	}

	plan := &Plan{
		PoolID:             pool.ID,
		HandID:             hand.ID,
		AdvanceCurrentHand: pool.CurrentHand == hand.Seq,
	}
	ts := now.Unix()

	if narration == "" {
		narration = fmt.Sprintf("Payout for hand %d", hand.Seq)
	}

	// Payout shares: equal split among co-winners, with the first share
	// absorbing any division remainder so the shares sum exactly to the bid.
	shares := splitEqually(bid, len(winnerIDs))
	for i, winnerID := range winnerIDs {
		plan.Distributions = append(plan.Distributions, &models.Distribution{
			HandID:    hand.ID,
			PersonID:  winnerID,
			Amount:    shares[i],
			Narration: narration,
			Date:      ts,
		})

		balance := balances[winnerID].Add(shares[i])
		balances[winnerID] = balance
		plan.Entries = append(plan.Entries, &models.LedgerEntry{
			PersonID:  winnerID,
			PoolID:    pool.ID,
			Date:      ts,
			Narration: fmt.Sprintf("Payout received for pool %d, hand %d. (%s)", pool.Number, hand.Seq, narration),
			Credit:    shares[i],
			Balance:   balance,
		})
	}

	// Contribution obligations: one per member at the bid's per-person share.
	// Winners are marked paid, their payout nets against their own share, and
	// only non-winners take a debit posting.
	perPerson := ContributionPerPerson(bid, len(pool.Members))
	for _, memberID := range pool.Members {
		plan.Contributions = append(plan.Contributions, &models.Contribution{
			HandID:   hand.ID,
			PersonID: memberID,
			Amount:   perPerson,
			Date:     ts,
			Paid:     winnerSet[memberID],
		})

		if winnerSet[memberID] {
			continue
		}
		balance := balances[memberID].Sub(perPerson)
		balances[memberID] = balance
		plan.Entries = append(plan.Entries, &models.LedgerEntry{
			PersonID:  memberID,
			PoolID:    pool.ID,
			Date:      ts,
			Narration: fmt.Sprintf("Contribution for pool %d, hand %d", pool.Number, hand.Seq),
			Debit:     perPerson,
			Balance:   balance,
		})
	}

	return plan, nil
}

// splitEqually divides total into n shares that sum exactly to total. The
// first share absorbs the remainder left by decimal division.
func splitEqually(total decimal.Decimal, n int) []decimal.Decimal {
	share := total.Div(decimal.NewFromInt(int64(n)))
	shares := make([]decimal.Decimal, n)
	rest := decimal.Zero
	for i := 1; i < n; i++ {
		shares[i] = share
		rest = rest.Add(share)
	}
	shares[0] = total.Sub(rest)
	return shares
}
