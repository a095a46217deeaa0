package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
	"github.com/TanishaMaheshwari/vc-manager/internal/settlement"
)

// ListDistributionsByHand retrieves a hand's payout records.
func (s *SQLiteStore) ListDistributionsByHand(ctx context.Context, handID string) ([]*models.Distribution, error) {
	return s.queryDistributions(ctx,
		"SELECT id, hand_id, person_id, amount, narration, date FROM distributions WHERE hand_id = ? ORDER BY rowid",
		handID)
}

// ListDistributionsByPool retrieves every payout record across a pool's
// hands; the set of person IDs in the result is the pool's past winners.
func (s *SQLiteStore) ListDistributionsByPool(ctx context.Context, poolID string) ([]*models.Distribution, error) {
	return s.queryDistributions(ctx,
		`SELECT d.id, d.hand_id, d.person_id, d.amount, d.narration, d.date
		 FROM distributions d
		 JOIN hands h ON h.id = d.hand_id
		 WHERE h.pool_id = ?
		 ORDER BY h.seq, d.rowid`,
		poolID)
}

// ApplySettlement writes a settlement plan in one transaction: payout
// records, contribution obligations, ledger postings and the current-hand
// advance. Any failure rolls the whole settlement back.
func (s *SQLiteStore) ApplySettlement(ctx context.Context, plan *settlement.Plan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, dist := range plan.Distributions {
		if dist.ID == "" {
			dist.ID = uuid.New().String()
		}
		if err := insertDistributionTx(ctx, tx, dist); err != nil {
			return err
		}
	}

	for _, contrib := range plan.Contributions {
		if contrib.ID == "" {
			contrib.ID = uuid.New().String()
		}
		if err := insertContributionTx(ctx, tx, contrib); err != nil {
			return err
		}
	}

	for _, entry := range plan.Entries {
		if err := insertLedgerEntryTx(ctx, tx, entry); err != nil {
			return err
		}
	}

	if plan.AdvanceCurrentHand {
		_, err = tx.ExecContext(ctx,
			"UPDATE pools SET current_hand = current_hand + 1 WHERE id = ?", plan.PoolID)
		if err != nil {
			return fmt.Errorf("failed to advance current hand: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// EditDistribution re-targets an existing payout record and replaces the
// hand's contributions with a freshly generated set, in one transaction.
// Ledger entries posted by the original settlement are left as they are.
func (s *SQLiteStore) EditDistribution(ctx context.Context, dist *models.Distribution, contribs []*models.Contribution) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var narration interface{}
	if dist.Narration != "" {
		narration = dist.Narration
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE distributions SET person_id = ?, amount = ?, narration = ? WHERE id = ?",
		dist.PersonID, dist.Amount.String(), narration, dist.ID)
	if err != nil {
		return fmt.Errorf("failed to update distribution: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("distribution not found: %s", dist.ID)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM contributions WHERE hand_id = ?", dist.HandID); err != nil {
		return fmt.Errorf("failed to delete contributions: %w", err)
	}
	for _, contrib := range contribs {
		if contrib.ID == "" {
			contrib.ID = uuid.New().String()
		}
		if err := insertContributionTx(ctx, tx, contrib); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertDistributionTx(ctx context.Context, tx *sql.Tx, dist *models.Distribution) error {
	var narration interface{}
	if dist.Narration != "" {
		narration = dist.Narration
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO distributions (id, hand_id, person_id, amount, narration, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		dist.ID, dist.HandID, dist.PersonID, dist.Amount.String(), narration, dist.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert distribution: %w", err)
	}
	return nil
}

func (s *SQLiteStore) queryDistributions(ctx context.Context, query string, args ...any) ([]*models.Distribution, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributions: %w", err)
	}
	defer rows.Close()

	var dists []*models.Distribution
	for rows.Next() {
		dist := &models.Distribution{}
		var amount string
		var narration sql.NullString
		if err := rows.Scan(&dist.ID, &dist.HandID, &dist.PersonID, &amount,
			&narration, &dist.Date); err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		if narration.Valid {
			dist.Narration = narration.String
		}
		if dist.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		dists = append(dists, dist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate distributions: %w", err)
	}
	return dists, nil
}
