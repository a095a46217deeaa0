// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
	"github.com/TanishaMaheshwari/vc-manager/internal/settlement"
)

// Store defines the interface for committee storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Every method that writes more than one row runs inside a single
// transaction: partial pool creation, partial settlements and partial ledger
// closures must never be observable.
type Store interface {
	// CreatePerson persists a new person. The ID field is populated if empty.
	CreatePerson(ctx context.Context, person *models.Person) error

	// GetPerson retrieves a person by ID.
	GetPerson(ctx context.Context, personID string) (*models.Person, error)

	// ListPersons retrieves the full person directory ordered by name.
	ListPersons(ctx context.Context) ([]*models.Person, error)

	// CreatePool persists a pool, its member roster and all generated hands
	// atomically.
	CreatePool(ctx context.Context, pool *models.Pool, hands []*models.Hand) error

	// GetPool retrieves a pool by ID, including its member roster.
	GetPool(ctx context.Context, poolID string) (*models.Pool, error)

	// ListPools retrieves all pools ordered by pool number, rosters included.
	ListPools(ctx context.Context) ([]*models.Pool, error)

	// NextPoolNumber returns the next sequential committee number.
	NextPoolNumber(ctx context.Context) (int, error)

	// DeletePool closes every member's ledger and then deletes the pool and
	// all dependent hands, contributions and distributions, atomically.
	DeletePool(ctx context.Context, poolID string, now time.Time) error

	// GetHand retrieves a hand by ID.
	GetHand(ctx context.Context, handID string) (*models.Hand, error)

	// ListHands retrieves a pool's hands ordered by sequence.
	ListHands(ctx context.Context, poolID string) ([]*models.Hand, error)

	// ListContributions retrieves a hand's contributions in insertion order.
	ListContributions(ctx context.Context, handID string) ([]*models.Contribution, error)

	// ListUnpaidContributionsByPool retrieves every unpaid contribution
	// across all hands of a pool.
	ListUnpaidContributionsByPool(ctx context.Context, poolID string) ([]*models.Contribution, error)

	// EarliestUnpaidContribution returns the oldest unpaid contribution for
	// the (hand, person) pair, or nil when none exists.
	EarliestUnpaidContribution(ctx context.Context, handID, personID string) (*models.Contribution, error)

	// ApplyPayment records a contribution payment and its ledger credit in
	// one transaction. A contribution with an ID is marked paid in place; a
	// contribution without one is inserted fresh.
	ApplyPayment(ctx context.Context, contrib *models.Contribution, entry *models.LedgerEntry) error

	// ListDistributionsByHand retrieves a hand's payout records.
	ListDistributionsByHand(ctx context.Context, handID string) ([]*models.Distribution, error)

	// ListDistributionsByPool retrieves every payout record across a pool's
	// hands.
	ListDistributionsByPool(ctx context.Context, poolID string) ([]*models.Distribution, error)

	// ApplySettlement writes a settlement plan — distributions,
	// contributions, ledger postings and the current-hand advance — in one
	// transaction.
	ApplySettlement(ctx context.Context, plan *settlement.Plan) error

	// EditDistribution re-targets an existing payout and replaces the hand's
	// contributions in one transaction.
	EditDistribution(ctx context.Context, dist *models.Distribution, contribs []*models.Contribution) error

	// InsertLedgerEntry appends one ledger entry.
	InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error

	// LastLedgerEntry returns the most recent entry for a person, ordered by
	// date with insertion order as tie-break, or nil when the ledger is empty.
	LastLedgerEntry(ctx context.Context, personID string) (*models.LedgerEntry, error)

	// ListLedgerEntries retrieves a person's full ledger in chronological
	// order.
	ListLedgerEntries(ctx context.Context, personID string) ([]*models.LedgerEntry, error)

	// CloseLedger collapses a person's ledger history into a single closing
	// entry carrying the final balance. Returns false when there is nothing
	// to close.
	CloseLedger(ctx context.Context, personID string, now time.Time) (bool, error)

	// CreateUser persists a new administrator account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
