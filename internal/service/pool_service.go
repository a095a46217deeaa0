package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
	"github.com/TanishaMaheshwari/vc-manager/internal/settlement"
	"github.com/TanishaMaheshwari/vc-manager/internal/storage"
)

// handInterval is the spacing between scheduled hands.
const handInterval = 30 * 24 * time.Hour

// PoolService owns the pool lifecycle: creation with its generated hands,
// derived aggregates, and the destructive delete that freezes member ledgers.
type PoolService struct {
	store storage.Store
}

// NewPoolService creates a new PoolService with the given storage backend.
func NewPoolService(store storage.Store) *PoolService {
	return &PoolService{store: store}
}

// CreatePool creates a pool with the next sequential committee number and
// deterministically generates one hand per tenure month, 30 days apart, each
// carrying the nominal equal share amount/tenure. The roster must hold
// exactly tenure members: every hand pays out to one new winner, so the pool
// only closes cleanly when the counts match.
func (s *PoolService) CreatePool(ctx context.Context, name string, startDate time.Time,
	amount decimal.Decimal, tenure int, minInterest decimal.Decimal, memberIDs []string) (*models.Pool, error) {

	slog.Info("CreatePool request received",
		"name", name,
		"amount", amount.String(),
		"tenure", tenure,
		"members_count", len(memberIDs),
	)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", settlement.ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", settlement.ErrInvalidInput)
	}
	if tenure <= 0 {
		return nil, fmt.Errorf("%w: tenure must be positive", settlement.ErrInvalidInput)
	}
	if minInterest.IsNegative() {
		return nil, fmt.Errorf("%w: minimum interest cannot be negative", settlement.ErrInvalidInput)
	}
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one member is required", settlement.ErrInvalidInput)
	}
	if len(memberIDs) != tenure {
		return nil, fmt.Errorf("%w: roster has %d members but tenure is %d; they must match",
			settlement.ErrInvalidInput, len(memberIDs), tenure)
	}

	seen := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate member %s", settlement.ErrInvalidInput, id)
		}
		seen[id] = true
		if _, err := s.store.GetPerson(ctx, id); err != nil {
			return nil, fmt.Errorf("%w: person %s", settlement.ErrNotFound, id)
		}
	}

	number, err := s.store.NextPoolNumber(ctx)
	if err != nil {
		return nil, err
	}

	pool := &models.Pool{
		Number:      number,
		Name:        name,
		StartDate:   startDate.Unix(),
		Amount:      amount,
		Tenure:      tenure,
		CurrentHand: 1,
		MinInterest: minInterest,
		Members:     memberIDs,
	}

	share := amount.Div(decimal.NewFromInt(int64(tenure)))
	hands := make([]*models.Hand, tenure)
	for k := 1; k <= tenure; k++ {
		hands[k-1] = &models.Hand{
			Seq:                k,
			Date:               startDate.Add(time.Duration(k-1) * handInterval).Unix(),
			ContributionAmount: share,
		}
	}

	if err := s.store.CreatePool(ctx, pool, hands); err != nil {
		slog.Error("CreatePool failed", "name", name, "error", err)
		return nil, err
	}

	slog.Info("Pool created", "pool_id", pool.ID, "pool_number", pool.Number, "hands", tenure)
	return pool, nil
}

// Pool retrieves a pool by ID with its roster.
func (s *PoolService) Pool(ctx context.Context, poolID string) (*models.Pool, error) {
	pool, err := s.store.GetPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("%w: pool %s", settlement.ErrNotFound, poolID)
	}
	return pool, nil
}

// Pools retrieves all pools ordered by committee number.
func (s *PoolService) Pools(ctx context.Context) ([]*models.Pool, error) {
	return s.store.ListPools(ctx)
}

// DeletePool closes every member's ledger, freezing their net position into
// a single closing line, then removes the pool and everything it owns.
// Irreversible.
func (s *PoolService) DeletePool(ctx context.Context, poolID string) error {
	pool, err := s.store.GetPool(ctx, poolID)
	if err != nil {
		return fmt.Errorf("%w: pool %s", settlement.ErrNotFound, poolID)
	}

	if err := s.store.DeletePool(ctx, pool.ID, time.Now()); err != nil {
		slog.Error("DeletePool failed", "pool_id", poolID, "error", err)
		return err
	}

	slog.Info("Pool deleted", "pool_id", pool.ID, "pool_number", pool.Number)
	return nil
}

// TotalDue sums every unpaid contribution across all hands of the pool.
func (s *PoolService) TotalDue(ctx context.Context, poolID string) (decimal.Decimal, error) {
	if _, err := s.store.GetPool(ctx, poolID); err != nil {
		return decimal.Zero, fmt.Errorf("%w: pool %s", settlement.ErrNotFound, poolID)
	}

	unpaid, err := s.store.ListUnpaidContributionsByPool(ctx, poolID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, contrib := range unpaid {
		total = total.Add(contrib.Amount)
	}
	return total, nil
}

// HandStatus is the per-hand view a summary reports.
type HandStatus struct {
	Hand            *models.Hand
	Settled         bool
	Winners         []string // person IDs of the hand's winners
	ProjectedPayout decimal.Decimal
	ActualPayout    decimal.Decimal // zero while the hand is open
	InterestRate    decimal.Decimal
	PerPerson       decimal.Decimal // authoritative per-member obligation
	Due             decimal.Decimal // nominal share × members − contributed
}

// PoolSummary aggregates a pool's derived figures for display.
type PoolSummary struct {
	Pool           *models.Pool
	CurrentHand    int // clamped to tenure once the last hand settles
	CompletedHands int // hands with nothing left due
	TotalDue       decimal.Decimal
	Hands          []HandStatus
}

// Summary computes the pool's derived aggregates by traversal: total due,
// completed hand count and per-hand status with projections.
func (s *PoolService) Summary(ctx context.Context, poolID string) (*PoolSummary, error) {
	pool, err := s.store.GetPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("%w: pool %s", settlement.ErrNotFound, poolID)
	}

	hands, err := s.store.ListHands(ctx, pool.ID)
	if err != nil {
		return nil, err
	}

	summary := &PoolSummary{
		Pool:        pool,
		CurrentHand: pool.ClampedCurrentHand(),
		TotalDue:    decimal.Zero,
	}
	memberCount := len(pool.Members)

	for _, hand := range hands {
		dists, err := s.store.ListDistributionsByHand(ctx, hand.ID)
		if err != nil {
			return nil, err
		}
		contribs, err := s.store.ListContributions(ctx, hand.ID)
		if err != nil {
			return nil, err
		}

		status := HandStatus{
			Hand:            hand,
			Settled:         len(dists) > 0,
			ProjectedPayout: settlement.ProjectedPayout(pool, hand),
		}

		payout := status.ProjectedPayout
		if status.Settled {
			total := decimal.Zero
			for _, dist := range dists {
				total = total.Add(dist.Amount)
				status.Winners = append(status.Winners, dist.PersonID)
			}
			status.ActualPayout = total
			payout = total
		}
		status.InterestRate = settlement.InterestRate(pool, payout)
		status.PerPerson = settlement.ContributionPerPerson(payout, memberCount)

		contributed := decimal.Zero
		for _, contrib := range contribs {
			contributed = contributed.Add(contrib.Amount)
			if !contrib.Paid {
				summary.TotalDue = summary.TotalDue.Add(contrib.Amount)
			}
		}
		due := hand.ContributionAmount.Mul(decimal.NewFromInt(int64(memberCount))).Sub(contributed)
		if due.IsNegative() {
			due = decimal.Zero
		}
		status.Due = due
		if due.IsZero() {
			summary.CompletedHands++
		}

		summary.Hands = append(summary.Hands, status)
	}

	return summary, nil
}
