package settlement

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
)

func testPool() *models.Pool {
	return &models.Pool{
		ID:          "pool-1",
		Number:      1,
		Amount:      decimal.NewFromInt(100000),
		Tenure:      10,
		CurrentHand: 1,
		MinInterest: decimal.NewFromInt(2),
		Members:     []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
	}
}

func TestProjectedPayout(t *testing.T) {
	pool := testPool()

	tests := []struct {
		name string
		seq  int
		want int64
	}{
		{"first hand carries the full discount", 1, 80000},
		{"middle hand", 5, 88000},
		{"last hand carries one step of discount", 10, 98000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := &models.Hand{ID: "hand", PoolID: pool.ID, Seq: tt.seq}
			got := ProjectedPayout(pool, hand)
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("ProjectedPayout(seq=%d) = %s, want %d", tt.seq, got.String(), tt.want)
			}
		})
	}
}

func TestInterestRate(t *testing.T) {
	pool := testPool()

	rate := InterestRate(pool, decimal.NewFromInt(80000))
	if !rate.Equal(decimal.NewFromInt(20)) {
		t.Errorf("InterestRate(80000) = %s, want 20", rate.String())
	}

	rate = InterestRate(pool, pool.Amount)
	if !rate.IsZero() {
		t.Errorf("InterestRate(face value) = %s, want 0", rate.String())
	}

	zeroPool := &models.Pool{Amount: decimal.Zero}
	if !InterestRate(zeroPool, decimal.NewFromInt(100)).IsZero() {
		t.Error("InterestRate with zero face value should be zero, not a division error")
	}
}

func TestContributionPerPerson(t *testing.T) {
	got := ContributionPerPerson(decimal.NewFromInt(3000), 3)
	if !got.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("ContributionPerPerson(3000, 3) = %s, want 1000", got.String())
	}

	if !ContributionPerPerson(decimal.NewFromInt(3000), 0).IsZero() {
		t.Error("ContributionPerPerson with zero members should be zero")
	}
}

func TestValidateBid(t *testing.T) {
	pool := testPool()
	hand := &models.Hand{ID: "hand-1", PoolID: pool.ID, Seq: 1}

	t.Run("bid above the projected payout is rejected", func(t *testing.T) {
		err := ValidateBid(pool, hand, decimal.NewFromInt(85000))
		if !errors.Is(err, ErrBidTooHigh) {
			t.Errorf("expected ErrBidTooHigh, got %v", err)
		}
	})

	t.Run("bid exactly at the floor is accepted", func(t *testing.T) {
		if err := ValidateBid(pool, hand, decimal.NewFromInt(80000)); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("bid below the floor is accepted", func(t *testing.T) {
		if err := ValidateBid(pool, hand, decimal.NewFromInt(75000)); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("later hands allow higher bids", func(t *testing.T) {
		last := &models.Hand{ID: "hand-10", PoolID: pool.ID, Seq: 10}
		if err := ValidateBid(pool, last, decimal.NewFromInt(98000)); err != nil {
			t.Errorf("expected nil for bid at the last hand's floor, got %v", err)
		}
		if err := ValidateBid(pool, last, decimal.NewFromInt(98001)); !errors.Is(err, ErrBidTooHigh) {
			t.Errorf("expected ErrBidTooHigh just above the floor, got %v", err)
		}
	})
}

func TestCheckEligibility(t *testing.T) {
	prior := map[string]bool{"a": true}

	if err := CheckEligibility(prior, []string{"b", "c"}); err != nil {
		t.Errorf("fresh winners should be eligible, got %v", err)
	}

	err := CheckEligibility(prior, []string{"b", "a"})
	if !errors.Is(err, ErrIneligibleWinner) {
		t.Errorf("expected ErrIneligibleWinner for a repeat winner, got %v", err)
	}
}
