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

// LedgerService maintains the per-person append-only ledgers.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// LastBalance returns the person's current balance: the balance snapshot on
// the most recent ledger entry, or the opening balance when no entries exist.
// This is the only sanctioned way to obtain a balance for posting; history is
// never re-summed on the production path.
func (s *LedgerService) LastBalance(ctx context.Context, personID string) (decimal.Decimal, error) {
	entry, err := s.store.LastLedgerEntry(ctx, personID)
	if err != nil {
		return decimal.Zero, err
	}
	if entry != nil {
		return entry.Balance, nil
	}

	person, err := s.store.GetPerson(ctx, personID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: person %s", settlement.ErrNotFound, personID)
	}
	return person.OpeningBalance, nil
}

// PostEntry appends a ledger entry with its balance snapshot computed from
// the last balance: previous + credit − debit. Prior entries are never
// touched.
func (s *LedgerService) PostEntry(ctx context.Context, personID, poolID string, date time.Time,
	narration string, debit, credit decimal.Decimal) (*models.LedgerEntry, error) {

	if debit.IsNegative() || credit.IsNegative() {
		return nil, fmt.Errorf("%w: debit and credit must be non-negative", settlement.ErrInvalidInput)
	}
	if narration == "" {
		return nil, fmt.Errorf("%w: narration is required", settlement.ErrInvalidInput)
	}

	balance, err := s.LastBalance(ctx, personID)
	if err != nil {
		return nil, err
	}

	entry := &models.LedgerEntry{
		PersonID:  personID,
		PoolID:    poolID,
		Date:      date.Unix(),
		Narration: narration,
		Debit:     debit,
		Credit:    credit,
		Balance:   balance.Add(credit).Sub(debit),
	}
	if err := s.store.InsertLedgerEntry(ctx, entry); err != nil {
		slog.Error("PostEntry failed", "person_id", personID, "error", err)
		return nil, err
	}

	slog.Info("Ledger entry posted",
		"person_id", personID,
		"debit", debit.String(),
		"credit", credit.String(),
		"balance", entry.Balance.String(),
	)
	return entry, nil
}

// Entries retrieves a person's ledger in chronological order.
func (s *LedgerService) Entries(ctx context.Context, personID string) ([]*models.LedgerEntry, error) {
	if _, err := s.store.GetPerson(ctx, personID); err != nil {
		return nil, fmt.Errorf("%w: person %s", settlement.ErrNotFound, personID)
	}
	return s.store.ListLedgerEntries(ctx, personID)
}

// CloseLedger collapses the person's history into a single closing entry
// holding the final balance. Returns false when there is nothing to close.
func (s *LedgerService) CloseLedger(ctx context.Context, personID string) (bool, error) {
	if _, err := s.store.GetPerson(ctx, personID); err != nil {
		return false, fmt.Errorf("%w: person %s", settlement.ErrNotFound, personID)
	}

	closed, err := s.store.CloseLedger(ctx, personID, time.Now())
	if err != nil {
		slog.Error("CloseLedger failed", "person_id", personID, "error", err)
		return false, err
	}

	slog.Info("Ledger closed", "person_id", personID, "closed", closed)
	return closed, nil
}

// RecomputeBalance replays the full history as
// opening + Σ(credit − debit). It exists purely as an audit/reconciliation
// check against the last-entry snapshot; nothing in the posting path uses it.
func (s *LedgerService) RecomputeBalance(ctx context.Context, personID string) (decimal.Decimal, error) {
	person, err := s.store.GetPerson(ctx, personID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: person %s", settlement.ErrNotFound, personID)
	}

	entries, err := s.store.ListLedgerEntries(ctx, personID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := person.OpeningBalance
	for _, entry := range entries {
		balance = balance.Add(entry.Credit).Sub(entry.Debit)
	}
	return balance, nil
}
