package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
	"github.com/TanishaMaheshwari/vc-manager/internal/settlement"
	"github.com/TanishaMaheshwari/vc-manager/internal/storage"
)

// SettlementService drives the auction/distribution engine: it runs the
// read-validate-write sequence for settling hands, recording payments and
// re-targeting payouts.
//
// The system is single-administrator, so a process-wide mutex serializes
// every mutating sequence. Two concurrent distribute calls for the same hand
// can therefore never both pass the not-yet-settled check.
type SettlementService struct {
	store  storage.Store
	ledger *LedgerService
	mu     sync.Mutex
}

// NewSettlementService creates a new SettlementService with the given
// storage backend.
func NewSettlementService(store storage.Store, ledger *LedgerService) *SettlementService {
	return &SettlementService{store: store, ledger: ledger}
}

// DistributionResult reports what a settlement produced.
type DistributionResult struct {
	Hand          *models.Hand
	Distributions []*models.Distribution
	Contributions []*models.Contribution
	Entries       []*models.LedgerEntry
}

// DistributeHand settles a hand: it validates the request against the bid
// floor and winner eligibility, computes every posting, and applies them in
// one transaction. On success the pool's current-hand pointer advances if
// the settled hand was current.
//
// Failure modes, in check order: ErrInvalidInput (empty winners,
// non-positive bid), ErrNotFound (unknown pool/hand, hand outside the pool),
// ErrAlreadySettled, ErrIneligibleWinner, ErrBidTooHigh. Any storage failure
// rolls the whole settlement back.
func (s *SettlementService) DistributeHand(ctx context.Context, poolID, handID string,
	winnerIDs []string, bid decimal.Decimal, narration string) (*DistributionResult, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Info("DistributeHand request received",
		"pool_id", poolID,
		"hand_id", handID,
		"winners_count", len(winnerIDs),
		"bid", bid.String(),
	)

	if len(winnerIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one winner is required", settlement.ErrInvalidInput)
	}
	if !bid.IsPositive() {
		return nil, fmt.Errorf("%w: bid price must be positive", settlement.ErrInvalidInput)
	}

	pool, err := s.store.GetPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("%w: pool %s", settlement.ErrNotFound, poolID)
	}
	hand, err := s.store.GetHand(ctx, handID)
	if err != nil {
		return nil, fmt.Errorf("%w: hand %s", settlement.ErrNotFound, handID)
	}
	if hand.PoolID != pool.ID {
		return nil, fmt.Errorf("%w: hand %s does not belong to pool %d", settlement.ErrNotFound, handID, pool.Number)
	}

	existing, err := s.store.ListDistributionsByHand(ctx, hand.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: hand %d", settlement.ErrAlreadySettled, hand.Seq)
	}

	prior, err := s.store.ListDistributionsByPool(ctx, pool.ID)
	if err != nil {
		return nil, err
	}
	priorWinners := make(map[string]bool, len(prior))
	for _, dist := range prior {
		priorWinners[dist.PersonID] = true
	}
	if err := settlement.CheckEligibility(priorWinners, winnerIDs); err != nil {
		return nil, err
	}

	if err := settlement.ValidateBid(pool, hand, bid); err != nil {
		return nil, err
	}

	// Seed the balance map once; BuildPlan chains every subsequent posting
	// off the previous one written in the same settlement.
	balances := make(map[string]decimal.Decimal, len(pool.Members))
	for _, memberID := range pool.Members {
		balance, err := s.ledger.LastBalance(ctx, memberID)
		if err != nil {
			return nil, err
		}
		balances[memberID] = balance
	}

	plan, err := settlement.BuildPlan(pool, hand, winnerIDs, bid, narration, balances, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.store.ApplySettlement(ctx, plan); err != nil {
		slog.Error("DistributeHand failed", "hand_id", handID, "error", err)
		return nil, err
	}

	slog.Info("Hand distributed",
		"pool_number", pool.Number,
		"hand", hand.Seq,
		"bid", bid.String(),
		"winners", winnerIDs,
	)
	return &DistributionResult{
		Hand:          hand,
		Distributions: plan.Distributions,
		Contributions: plan.Contributions,
		Entries:       plan.Entries,
	}, nil
}

// EditPayout re-targets a hand's unique payout record to a different person
// and amount, re-validating the bid floor, and regenerates the hand's
// contributions at the new per-person share with the new winner marked paid.
//
// Ledger entries posted by the original settlement are deliberately left
// untouched; re-stating them is a separate reversal operation, not something
// this method does behind the caller's back. Hands with co-winners cannot be
// re-targeted.
func (s *SettlementService) EditPayout(ctx context.Context, handID, newPersonID string,
	newAmount decimal.Decimal, narration string) (*models.Distribution, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Info("EditPayout request received",
		"hand_id", handID,
		"person_id", newPersonID,
		"amount", newAmount.String(),
	)

	if !newAmount.IsPositive() {
		return nil, fmt.Errorf("%w: bid price must be positive", settlement.ErrInvalidInput)
	}

	hand, err := s.store.GetHand(ctx, handID)
	if err != nil {
		return nil, fmt.Errorf("%w: hand %s", settlement.ErrNotFound, handID)
	}
	pool, err := s.store.GetPool(ctx, hand.PoolID)
	if err != nil {
		return nil, err
	}

	dists, err := s.store.ListDistributionsByHand(ctx, hand.ID)
	if err != nil {
		return nil, err
	}
	if len(dists) == 0 {
		return nil, fmt.Errorf("%w: hand %d has no payout to edit", settlement.ErrNotFound, hand.Seq)
	}
	if len(dists) > 1 {
		return nil, fmt.Errorf("%w: hand %d has multiple winners; edit is limited to single payouts",
			settlement.ErrInvalidInput, hand.Seq)
	}

	isMember := false
	for _, id := range pool.Members {
		if id == newPersonID {
			isMember = true
			break
		}
	}
	if !isMember {
		return nil, fmt.Errorf("%w: person %s is not a member of pool %d",
			settlement.ErrInvalidInput, newPersonID, pool.Number)
	}

	if err := settlement.ValidateBid(pool, hand, newAmount); err != nil {
		return nil, err
	}

	dist := dists[0]
	dist.PersonID = newPersonID
	dist.Amount = newAmount
	if narration != "" {
		dist.Narration = narration
	}

	perPerson := settlement.ContributionPerPerson(newAmount, len(pool.Members))
	ts := time.Now().Unix()
	contribs := make([]*models.Contribution, 0, len(pool.Members))
	for _, memberID := range pool.Members {
		contribs = append(contribs, &models.Contribution{
			HandID:   hand.ID,
			PersonID: memberID,
			Amount:   perPerson,
			Date:     ts,
			Paid:     memberID == newPersonID,
		})
	}

	if err := s.store.EditDistribution(ctx, dist, contribs); err != nil {
		slog.Error("EditPayout failed", "hand_id", handID, "error", err)
		return nil, err
	}

	slog.Info("Payout edited", "hand", hand.Seq, "person_id", newPersonID, "amount", newAmount.String())
	return dist, nil
}

// RecordPayment records a member paying in a contribution for a hand. It
// marks the earliest unpaid contribution for the (hand, person) pair paid
// rather than creating a duplicate; if none exists, a fresh paid contribution
// is recorded. The ledger credit and the contribution update commit together.
func (s *SettlementService) RecordPayment(ctx context.Context, handID, personID string,
	amount decimal.Decimal, date time.Time, narration string) (*models.LedgerEntry, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Info("RecordPayment request received",
		"hand_id", handID,
		"person_id", personID,
		"amount", amount.String(),
	)

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", settlement.ErrInvalidInput)
	}

	hand, err := s.store.GetHand(ctx, handID)
	if err != nil {
		return nil, fmt.Errorf("%w: hand %s", settlement.ErrNotFound, handID)
	}
	pool, err := s.store.GetPool(ctx, hand.PoolID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetPerson(ctx, personID); err != nil {
		return nil, fmt.Errorf("%w: person %s", settlement.ErrNotFound, personID)
	}

	contrib, err := s.store.EarliestUnpaidContribution(ctx, hand.ID, personID)
	if err != nil {
		return nil, err
	}
	if contrib == nil {
		contrib = &models.Contribution{
			HandID:   hand.ID,
			PersonID: personID,
			Amount:   amount,
			Date:     date.Unix(),
			Paid:     true,
		}
	}

	balance, err := s.ledger.LastBalance(ctx, personID)
	if err != nil {
		return nil, err
	}

	note := fmt.Sprintf("Payment for pool %d, hand %d", pool.Number, hand.Seq)
	if narration != "" {
		note = fmt.Sprintf("%s: %s", note, narration)
	}
	entry := &models.LedgerEntry{
		PersonID:  personID,
		PoolID:    pool.ID,
		Date:      date.Unix(),
		Narration: note,
		Debit:     decimal.Zero,
		Credit:    amount,
		Balance:   balance.Add(amount),
	}

	if err := s.store.ApplyPayment(ctx, contrib, entry); err != nil {
		slog.Error("RecordPayment failed", "hand_id", handID, "person_id", personID, "error", err)
		return nil, err
	}

	slog.Info("Payment recorded",
		"pool_number", pool.Number,
		"hand", hand.Seq,
		"person_id", personID,
		"amount", amount.String(),
	)
	return entry, nil
}

// AmountDue reports what a member still owes for a hand: zero for the hand's
// winners, otherwise the authoritative per-person share minus what the
// member has already paid in, floored at zero.
func (s *SettlementService) AmountDue(ctx context.Context, handID, personID string) (decimal.Decimal, error) {
	hand, err := s.store.GetHand(ctx, handID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: hand %s", settlement.ErrNotFound, handID)
	}
	pool, err := s.store.GetPool(ctx, hand.PoolID)
	if err != nil {
		return decimal.Zero, err
	}

	dists, err := s.store.ListDistributionsByHand(ctx, hand.ID)
	if err != nil {
		return decimal.Zero, err
	}
	payout := settlement.ProjectedPayout(pool, hand)
	if len(dists) > 0 {
		payout = decimal.Zero
		for _, dist := range dists {
			if dist.PersonID == personID {
				return decimal.Zero, nil // winners owe nothing for the hand they won
			}
			payout = payout.Add(dist.Amount)
		}
	}

	expected := settlement.ContributionPerPerson(payout, len(pool.Members))

	contribs, err := s.store.ListContributions(ctx, hand.ID)
	if err != nil {
		return decimal.Zero, err
	}
	paid := decimal.Zero
	for _, contrib := range contribs {
		if contrib.PersonID == personID && contrib.Paid {
			paid = paid.Add(contrib.Amount)
		}
	}

	due := expected.Sub(paid)
	if due.IsNegative() {
		return decimal.Zero, nil
	}
	return due, nil
}
