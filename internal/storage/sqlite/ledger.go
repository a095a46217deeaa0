package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
)

// InsertLedgerEntry appends one ledger entry.
func (s *SQLiteStore) InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertLedgerEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LastLedgerEntry returns the most recent entry for a person, or nil when the
// ledger is empty. Ordering is by date with insertion order (rowid) as the
// tie-break, so entries written within one settlement keep their chain order.
func (s *SQLiteStore) LastLedgerEntry(ctx context.Context, personID string) (*models.LedgerEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, person_id, pool_id, date, narration, debit, credit, balance, created_at
		 FROM ledger_entries WHERE person_id = ?
		 ORDER BY date DESC, rowid DESC LIMIT 1`,
		personID)
	entry, err := scanLedgerEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last ledger entry: %w", err)
	}
	return entry, nil
}

// ListLedgerEntries retrieves a person's full ledger in chronological order.
func (s *SQLiteStore) ListLedgerEntries(ctx context.Context, personID string) ([]*models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, person_id, pool_id, date, narration, debit, credit, balance, created_at
		 FROM ledger_entries WHERE person_id = ?
		 ORDER BY date, rowid`,
		personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}

// CloseLedger collapses a person's ledger history into one closing entry
// carrying the final balance. Returns false when there are no entries to
// close. Irreversible.
func (s *SQLiteStore) CloseLedger(ctx context.Context, personID string, now time.Time) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	closed, err := closeLedgerTx(ctx, tx, personID, now)
	if err != nil {
		return false, err
	}
	if !closed {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// closeLedgerTx performs the closure inside an existing transaction so pool
// deletion can close every member's ledger atomically with the delete.
func closeLedgerTx(ctx context.Context, tx *sql.Tx, personID string, now time.Time) (bool, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT id, person_id, pool_id, date, narration, debit, credit, balance, created_at
		 FROM ledger_entries WHERE person_id = ?
		 ORDER BY date DESC, rowid DESC LIMIT 1`,
		personID)
	last, err := scanLedgerEntry(row)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get last ledger entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM ledger_entries WHERE person_id = ?", personID); err != nil {
		return false, fmt.Errorf("failed to delete ledger entries: %w", err)
	}

	closing := &models.LedgerEntry{
		PersonID:  personID,
		Date:      now.Unix(),
		Narration: fmt.Sprintf("Ledger closed on %s", now.Format("02-01-2006 15:04")),
		Balance:   last.Balance,
	}
	if err := insertLedgerEntryTx(ctx, tx, closing); err != nil {
		return false, err
	}
	return true, nil
}

func insertLedgerEntryTx(ctx context.Context, tx *sql.Tx, entry *models.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}

	var poolID interface{}
	if entry.PoolID != "" {
		poolID = entry.PoolID
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (id, person_id, pool_id, date, narration, debit, credit, balance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.PersonID, poolID, entry.Date, entry.Narration,
		entry.Debit.String(), entry.Credit.String(), entry.Balance.String(), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

func scanLedgerEntry(sc scanner) (*models.LedgerEntry, error) {
	entry := &models.LedgerEntry{}
	var poolID sql.NullString
	var debit, credit, balance string

	if err := sc.Scan(&entry.ID, &entry.PersonID, &poolID, &entry.Date, &entry.Narration,
		&debit, &credit, &balance, &entry.CreatedAt); err != nil {
		return nil, err
	}
	if poolID.Valid {
		entry.PoolID = poolID.String
	}

	var err error
	if entry.Debit, err = parseAmount(debit); err != nil {
		return nil, err
	}
	if entry.Credit, err = parseAmount(credit); err != nil {
		return nil, err
	}
	if entry.Balance, err = parseAmount(balance); err != nil {
		return nil, err
	}
	return entry, nil
}
