package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
	"github.com/TanishaMaheshwari/vc-manager/internal/settlement"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestPerson(t *testing.T, store *SQLiteStore, name string) *models.Person {
	t.Helper()

	person := &models.Person{
		Name:      name,
		ShortName: name,
		Phone:     "9876543210",
	}
	if err := store.CreatePerson(context.Background(), person); err != nil {
		t.Fatalf("CreatePerson(%s) failed: %v", name, err)
	}
	return person
}

func createTestPool(t *testing.T, store *SQLiteStore, memberIDs []string) (*models.Pool, []*models.Hand) {
	t.Helper()

	number, err := store.NextPoolNumber(context.Background())
	if err != nil {
		t.Fatalf("NextPoolNumber failed: %v", err)
	}

	tenure := len(memberIDs)
	amount := decimal.NewFromInt(int64(tenure * 1000))
	pool := &models.Pool{
		Number:      number,
		Name:        fmt.Sprintf("Committee %d", number),
		StartDate:   time.Now().Unix(),
		Amount:      amount,
		Tenure:      tenure,
		CurrentHand: 1,
		MinInterest: decimal.Zero,
		Members:     memberIDs,
	}
	share := amount.Div(decimal.NewFromInt(int64(tenure)))
	hands := make([]*models.Hand, tenure)
	for k := 1; k <= tenure; k++ {
		hands[k-1] = &models.Hand{Seq: k, Date: time.Now().Unix(), ContributionAmount: share}
	}

	if err := store.CreatePool(context.Background(), pool, hands); err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}
	return pool, hands
}

func TestSQLiteStore_Persons(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreatePerson generates ID and timestamp", func(t *testing.T) {
		person := &models.Person{
			Name:           "Asha",
			ShortName:      "AS",
			Phone:          "9000000001",
			OpeningBalance: decimal.NewFromInt(500),
		}
		if err := store.CreatePerson(ctx, person); err != nil {
			t.Fatalf("CreatePerson failed: %v", err)
		}
		if person.ID == "" {
			t.Error("Expected person ID to be generated")
		}
		if person.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetPerson retrieves the opening balance exactly", func(t *testing.T) {
		person := &models.Person{
			Name:           "Bharat",
			ShortName:      "BH",
			Phone:          "9000000002",
			OpeningBalance: decimal.RequireFromString("-123.45"),
		}
		if err := store.CreatePerson(ctx, person); err != nil {
			t.Fatalf("CreatePerson failed: %v", err)
		}

		retrieved, err := store.GetPerson(ctx, person.ID)
		if err != nil {
			t.Fatalf("GetPerson failed: %v", err)
		}
		if retrieved.Name != person.Name {
			t.Errorf("Name mismatch: got %s, want %s", retrieved.Name, person.Name)
		}
		if !retrieved.OpeningBalance.Equal(person.OpeningBalance) {
			t.Errorf("OpeningBalance mismatch: got %s, want %s",
				retrieved.OpeningBalance.String(), person.OpeningBalance.String())
		}
	})

	t.Run("GetPerson returns error for nonexistent person", func(t *testing.T) {
		if _, err := store.GetPerson(ctx, "nonexistent-id"); err == nil {
			t.Error("Expected error for nonexistent person, got nil")
		}
	})

	t.Run("ListPersons orders by name", func(t *testing.T) {
		persons, err := store.ListPersons(ctx)
		if err != nil {
			t.Fatalf("ListPersons failed: %v", err)
		}
		for i := 1; i < len(persons); i++ {
			if persons[i-1].Name > persons[i].Name {
				t.Errorf("ListPersons out of order: %s before %s", persons[i-1].Name, persons[i].Name)
			}
		}
	})
}

func TestSQLiteStore_Pools(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := createTestPerson(t, store, "Alice")
	b := createTestPerson(t, store, "Bob")
	c := createTestPerson(t, store, "Carol")

	pool, hands := createTestPool(t, store, []string{a.ID, b.ID, c.ID})

	t.Run("GetPool retrieves pool with roster", func(t *testing.T) {
		retrieved, err := store.GetPool(ctx, pool.ID)
		if err != nil {
			t.Fatalf("GetPool failed: %v", err)
		}
		if retrieved.Number != pool.Number {
			t.Errorf("Number mismatch: got %d, want %d", retrieved.Number, pool.Number)
		}
		if !retrieved.Amount.Equal(pool.Amount) {
			t.Errorf("Amount mismatch: got %s, want %s", retrieved.Amount.String(), pool.Amount.String())
		}
		if len(retrieved.Members) != 3 {
			t.Errorf("Members count mismatch: got %d, want 3", len(retrieved.Members))
		}
	})

	t.Run("ListHands returns hands in sequence order", func(t *testing.T) {
		listed, err := store.ListHands(ctx, pool.ID)
		if err != nil {
			t.Fatalf("ListHands failed: %v", err)
		}
		if len(listed) != len(hands) {
			t.Fatalf("Hands count mismatch: got %d, want %d", len(listed), len(hands))
		}
		for i, hand := range listed {
			if hand.Seq != i+1 {
				t.Errorf("Hand %d has seq %d", i, hand.Seq)
			}
		}
	})

	t.Run("NextPoolNumber increments past existing pools", func(t *testing.T) {
		next, err := store.NextPoolNumber(ctx)
		if err != nil {
			t.Fatalf("NextPoolNumber failed: %v", err)
		}
		if next != pool.Number+1 {
			t.Errorf("NextPoolNumber = %d, want %d", next, pool.Number+1)
		}
	})

	t.Run("GetHand retrieves a single hand", func(t *testing.T) {
		hand, err := store.GetHand(ctx, hands[0].ID)
		if err != nil {
			t.Fatalf("GetHand failed: %v", err)
		}
		if hand.PoolID != pool.ID || hand.Seq != 1 {
			t.Errorf("GetHand = pool %s seq %d, want pool %s seq 1", hand.PoolID, hand.Seq, pool.ID)
		}
	})
}

func TestSQLiteStore_ApplySettlement(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := createTestPerson(t, store, "Alice")
	b := createTestPerson(t, store, "Bob")
	c := createTestPerson(t, store, "Carol")
	pool, hands := createTestPool(t, store, []string{a.ID, b.ID, c.ID})

	balances := map[string]decimal.Decimal{a.ID: decimal.Zero, b.ID: decimal.Zero, c.ID: decimal.Zero}
	plan, err := settlement.BuildPlan(pool, hands[0], []string{a.ID}, decimal.NewFromInt(3000), "", balances, time.Now())
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	if err := store.ApplySettlement(ctx, plan); err != nil {
		t.Fatalf("ApplySettlement failed: %v", err)
	}

	t.Run("writes the full row set", func(t *testing.T) {
		dists, err := store.ListDistributionsByHand(ctx, hands[0].ID)
		if err != nil {
			t.Fatalf("ListDistributionsByHand failed: %v", err)
		}
		if len(dists) != 1 || dists[0].PersonID != a.ID {
			t.Errorf("expected 1 distribution for winner, got %d", len(dists))
		}

		contribs, err := store.ListContributions(ctx, hands[0].ID)
		if err != nil {
			t.Fatalf("ListContributions failed: %v", err)
		}
		if len(contribs) != 3 {
			t.Errorf("expected 3 contributions, got %d", len(contribs))
		}

		entries, err := store.ListLedgerEntries(ctx, b.ID)
		if err != nil {
			t.Fatalf("ListLedgerEntries failed: %v", err)
		}
		if len(entries) != 1 || !entries[0].Debit.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected one 1000 debit for non-winner, got %+v", entries)
		}
	})

	t.Run("advances the current hand pointer", func(t *testing.T) {
		retrieved, err := store.GetPool(ctx, pool.ID)
		if err != nil {
			t.Fatalf("GetPool failed: %v", err)
		}
		if retrieved.CurrentHand != 2 {
			t.Errorf("CurrentHand = %d, want 2", retrieved.CurrentHand)
		}
	})

	t.Run("ListDistributionsByPool sees winners across hands", func(t *testing.T) {
		dists, err := store.ListDistributionsByPool(ctx, pool.ID)
		if err != nil {
			t.Fatalf("ListDistributionsByPool failed: %v", err)
		}
		if len(dists) != 1 || dists[0].PersonID != a.ID {
			t.Errorf("expected the pool's winner set to be {Alice}, got %+v", dists)
		}
	})
}

func TestSQLiteStore_Ledger(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	person := createTestPerson(t, store, "Dev")
	date := time.Now().Unix()

	post := func(narration string, credit, balance int64) {
		t.Helper()
		entry := &models.LedgerEntry{
			PersonID:  person.ID,
			Date:      date, // same date on purpose: ties break by insertion order
			Narration: narration,
			Debit:     decimal.Zero,
			Credit:    decimal.NewFromInt(credit),
			Balance:   decimal.NewFromInt(balance),
		}
		if err := store.InsertLedgerEntry(ctx, entry); err != nil {
			t.Fatalf("InsertLedgerEntry failed: %v", err)
		}
	}

	post("first", 100, 100)
	post("second", 50, 150)
	post("third", 25, 175)

	t.Run("LastLedgerEntry breaks date ties by insertion order", func(t *testing.T) {
		last, err := store.LastLedgerEntry(ctx, person.ID)
		if err != nil {
			t.Fatalf("LastLedgerEntry failed: %v", err)
		}
		if last == nil || last.Narration != "third" {
			t.Fatalf("expected the most recently inserted entry, got %+v", last)
		}
		if !last.Balance.Equal(decimal.NewFromInt(175)) {
			t.Errorf("last balance = %s, want 175", last.Balance.String())
		}
	})

	t.Run("ListLedgerEntries preserves insertion order within a date", func(t *testing.T) {
		entries, err := store.ListLedgerEntries(ctx, person.ID)
		if err != nil {
			t.Fatalf("ListLedgerEntries failed: %v", err)
		}
		want := []string{"first", "second", "third"}
		if len(entries) != len(want) {
			t.Fatalf("expected %d entries, got %d", len(want), len(entries))
		}
		for i, entry := range entries {
			if entry.Narration != want[i] {
				t.Errorf("entry %d = %s, want %s", i, entry.Narration, want[i])
			}
		}
	})

	t.Run("CloseLedger collapses history into one closing entry", func(t *testing.T) {
		closed, err := store.CloseLedger(ctx, person.ID, time.Now())
		if err != nil {
			t.Fatalf("CloseLedger failed: %v", err)
		}
		if !closed {
			t.Fatal("expected CloseLedger to report true")
		}

		entries, err := store.ListLedgerEntries(ctx, person.ID)
		if err != nil {
			t.Fatalf("ListLedgerEntries failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected a single closing entry, got %d", len(entries))
		}
		if !entries[0].Balance.Equal(decimal.NewFromInt(175)) {
			t.Errorf("closing balance = %s, want 175", entries[0].Balance.String())
		}
		if !entries[0].Debit.IsZero() || !entries[0].Credit.IsZero() {
			t.Error("closing entry must carry no movement, only the balance")
		}
	})

	t.Run("CloseLedger on an empty ledger reports false", func(t *testing.T) {
		empty := createTestPerson(t, store, "Esha")
		closed, err := store.CloseLedger(ctx, empty.ID, time.Now())
		if err != nil {
			t.Fatalf("CloseLedger failed: %v", err)
		}
		if closed {
			t.Error("expected false for an empty ledger")
		}
	})

	t.Run("LastLedgerEntry returns nil for an empty ledger", func(t *testing.T) {
		empty := createTestPerson(t, store, "Farah")
		last, err := store.LastLedgerEntry(ctx, empty.ID)
		if err != nil {
			t.Fatalf("LastLedgerEntry failed: %v", err)
		}
		if last != nil {
			t.Errorf("expected nil, got %+v", last)
		}
	})
}

func TestSQLiteStore_Payments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := createTestPerson(t, store, "Alice")
	b := createTestPerson(t, store, "Bob")
	c := createTestPerson(t, store, "Carol")
	pool, hands := createTestPool(t, store, []string{a.ID, b.ID, c.ID})

	balances := map[string]decimal.Decimal{a.ID: decimal.Zero, b.ID: decimal.Zero, c.ID: decimal.Zero}
	plan, err := settlement.BuildPlan(pool, hands[0], []string{a.ID}, decimal.NewFromInt(3000), "", balances, time.Now())
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	if err := store.ApplySettlement(ctx, plan); err != nil {
		t.Fatalf("ApplySettlement failed: %v", err)
	}

	t.Run("EarliestUnpaidContribution finds the open obligation", func(t *testing.T) {
		contrib, err := store.EarliestUnpaidContribution(ctx, hands[0].ID, b.ID)
		if err != nil {
			t.Fatalf("EarliestUnpaidContribution failed: %v", err)
		}
		if contrib == nil {
			t.Fatal("expected an unpaid contribution for the non-winner")
		}
		if contrib.Paid {
			t.Error("contribution should be unpaid")
		}
	})

	t.Run("ApplyPayment marks the matched contribution paid", func(t *testing.T) {
		contrib, err := store.EarliestUnpaidContribution(ctx, hands[0].ID, b.ID)
		if err != nil || contrib == nil {
			t.Fatalf("EarliestUnpaidContribution failed: %v", err)
		}

		entry := &models.LedgerEntry{
			PersonID:  b.ID,
			PoolID:    pool.ID,
			Date:      time.Now().Unix(),
			Narration: "Payment for pool 1, hand 1",
			Debit:     decimal.Zero,
			Credit:    contrib.Amount,
			Balance:   decimal.Zero, // -1000 from settlement + 1000 paid in
		}
		if err := store.ApplyPayment(ctx, contrib, entry); err != nil {
			t.Fatalf("ApplyPayment failed: %v", err)
		}

		remaining, err := store.EarliestUnpaidContribution(ctx, hands[0].ID, b.ID)
		if err != nil {
			t.Fatalf("EarliestUnpaidContribution failed: %v", err)
		}
		if remaining != nil {
			t.Errorf("expected no unpaid contribution left, got %+v", remaining)
		}
	})

	t.Run("ListUnpaidContributionsByPool excludes settled obligations", func(t *testing.T) {
		unpaid, err := store.ListUnpaidContributionsByPool(ctx, pool.ID)
		if err != nil {
			t.Fatalf("ListUnpaidContributionsByPool failed: %v", err)
		}
		// Alice was paid as winner, Bob paid in above; only Carol remains.
		if len(unpaid) != 1 || unpaid[0].PersonID != c.ID {
			t.Errorf("expected only Carol's contribution unpaid, got %+v", unpaid)
		}
	})

	t.Run("EditDistribution retargets the payout and regenerates contributions", func(t *testing.T) {
		dists, err := store.ListDistributionsByHand(ctx, hands[0].ID)
		if err != nil || len(dists) != 1 {
			t.Fatalf("ListDistributionsByHand failed: %v", err)
		}

		dist := dists[0]
		dist.PersonID = b.ID
		dist.Amount = decimal.NewFromInt(2700)

		contribs := make([]*models.Contribution, 0, 3)
		for _, id := range []string{a.ID, b.ID, c.ID} {
			contribs = append(contribs, &models.Contribution{
				HandID:   hands[0].ID,
				PersonID: id,
				Amount:   decimal.NewFromInt(900),
				Date:     time.Now().Unix(),
				Paid:     id == b.ID,
			})
		}
		if err := store.EditDistribution(ctx, dist, contribs); err != nil {
			t.Fatalf("EditDistribution failed: %v", err)
		}

		dists, err = store.ListDistributionsByHand(ctx, hands[0].ID)
		if err != nil {
			t.Fatalf("ListDistributionsByHand failed: %v", err)
		}
		if dists[0].PersonID != b.ID || !dists[0].Amount.Equal(decimal.NewFromInt(2700)) {
			t.Errorf("distribution after edit = %s/%s, want Bob/2700",
				dists[0].PersonID, dists[0].Amount.String())
		}

		fresh, err := store.ListContributions(ctx, hands[0].ID)
		if err != nil {
			t.Fatalf("ListContributions failed: %v", err)
		}
		if len(fresh) != 3 {
			t.Fatalf("expected 3 regenerated contributions, got %d", len(fresh))
		}
		for _, contrib := range fresh {
			if !contrib.Amount.Equal(decimal.NewFromInt(900)) {
				t.Errorf("regenerated contribution = %s, want 900", contrib.Amount.String())
			}
		}
	})
}

func TestSQLiteStore_DeletePool(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := createTestPerson(t, store, "Alice")
	b := createTestPerson(t, store, "Bob")
	c := createTestPerson(t, store, "Carol")
	pool, hands := createTestPool(t, store, []string{a.ID, b.ID, c.ID})

	balances := map[string]decimal.Decimal{a.ID: decimal.Zero, b.ID: decimal.Zero, c.ID: decimal.Zero}
	plan, err := settlement.BuildPlan(pool, hands[0], []string{a.ID}, decimal.NewFromInt(3000), "", balances, time.Now())
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	if err := store.ApplySettlement(ctx, plan); err != nil {
		t.Fatalf("ApplySettlement failed: %v", err)
	}

	if err := store.DeletePool(ctx, pool.ID, time.Now()); err != nil {
		t.Fatalf("DeletePool failed: %v", err)
	}

	t.Run("pool and its hands are gone", func(t *testing.T) {
		if _, err := store.GetPool(ctx, pool.ID); err == nil {
			t.Error("expected error for deleted pool")
		}
		if _, err := store.GetHand(ctx, hands[0].ID); err == nil {
			t.Error("expected hands to cascade with the pool")
		}
	})

	t.Run("member ledgers are frozen into one closing entry", func(t *testing.T) {
		entries, err := store.ListLedgerEntries(ctx, b.ID)
		if err != nil {
			t.Fatalf("ListLedgerEntries failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected one closing entry, got %d", len(entries))
		}
		if !entries[0].Balance.Equal(decimal.NewFromInt(-1000)) {
			t.Errorf("closing balance = %s, want -1000", entries[0].Balance.String())
		}
	})
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("admin@example.com", "Admin", "hashed-password")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("GetUserByEmail", func(t *testing.T) {
		retrieved, err := store.GetUserByEmail(ctx, "admin@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if retrieved.ID != user.ID || retrieved.PasswordHash != user.PasswordHash {
			t.Errorf("user mismatch: got %+v", retrieved)
		}
	})

	t.Run("GetUserByID", func(t *testing.T) {
		retrieved, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if retrieved.Email != user.Email {
			t.Errorf("email mismatch: got %s, want %s", retrieved.Email, user.Email)
		}
	})

	t.Run("GetUserByEmail for unknown email fails", func(t *testing.T) {
		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); err == nil {
			t.Error("expected error for unknown email")
		}
	})
}
