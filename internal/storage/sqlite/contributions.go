package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
)

// ListContributions retrieves a hand's contributions in insertion order.
func (s *SQLiteStore) ListContributions(ctx context.Context, handID string) ([]*models.Contribution, error) {
	return s.queryContributions(ctx,
		"SELECT id, hand_id, person_id, amount, date, paid FROM contributions WHERE hand_id = ? ORDER BY rowid",
		handID)
}

// ListUnpaidContributionsByPool retrieves every unpaid contribution across
// all hands of a pool.
func (s *SQLiteStore) ListUnpaidContributionsByPool(ctx context.Context, poolID string) ([]*models.Contribution, error) {
	return s.queryContributions(ctx,
		`SELECT c.id, c.hand_id, c.person_id, c.amount, c.date, c.paid
		 FROM contributions c
		 JOIN hands h ON h.id = c.hand_id
		 WHERE h.pool_id = ? AND c.paid = 0
		 ORDER BY h.seq, c.rowid`,
		poolID)
}

// EarliestUnpaidContribution returns the oldest unpaid contribution for the
// (hand, person) pair, or nil when none exists. The payment-recording flow
// matches against this row instead of creating a duplicate.
func (s *SQLiteStore) EarliestUnpaidContribution(ctx context.Context, handID, personID string) (*models.Contribution, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, hand_id, person_id, amount, date, paid FROM contributions
		 WHERE hand_id = ? AND person_id = ? AND paid = 0
		 ORDER BY date, rowid LIMIT 1`,
		handID, personID)
	contrib, err := scanContribution(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unpaid contribution: %w", err)
	}
	return contrib, nil
}

// ApplyPayment records a contribution payment and its ledger credit in one
// transaction. A contribution carrying an ID is marked paid in place; one
// without an ID is inserted fresh.
func (s *SQLiteStore) ApplyPayment(ctx context.Context, contrib *models.Contribution, entry *models.LedgerEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if contrib.ID == "" {
		contrib.ID = uuid.New().String()
		if err := insertContributionTx(ctx, tx, contrib); err != nil {
			return err
		}
	} else {
		res, err := tx.ExecContext(ctx,
			"UPDATE contributions SET paid = 1 WHERE id = ?", contrib.ID)
		if err != nil {
			return fmt.Errorf("failed to mark contribution paid: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("contribution not found: %s", contrib.ID)
		}
		contrib.Paid = true
	}

	if err := insertLedgerEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertContributionTx(ctx context.Context, tx *sql.Tx, contrib *models.Contribution) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO contributions (id, hand_id, person_id, amount, date, paid)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		contrib.ID, contrib.HandID, contrib.PersonID, contrib.Amount.String(),
		contrib.Date, boolToInt(contrib.Paid),
	)
	if err != nil {
		return fmt.Errorf("failed to insert contribution: %w", err)
	}
	return nil
}

func (s *SQLiteStore) queryContributions(ctx context.Context, query string, args ...any) ([]*models.Contribution, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contribs []*models.Contribution
	for rows.Next() {
		contrib, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contribs = append(contribs, contrib)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}
	return contribs, nil
}

func scanContribution(sc scanner) (*models.Contribution, error) {
	contrib := &models.Contribution{}
	var amount string
	var paid int
	if err := sc.Scan(&contrib.ID, &contrib.HandID, &contrib.PersonID, &amount,
		&contrib.Date, &paid); err != nil {
		return nil, err
	}
	contrib.Paid = paid != 0

	var err error
	if contrib.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	return contrib, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
