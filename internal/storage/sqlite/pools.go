package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
)

// CreatePool persists a pool, its roster and all generated hands in one
// transaction. A half-created pool must never be observable.
func (s *SQLiteStore) CreatePool(ctx context.Context, pool *models.Pool, hands []*models.Hand) error {
	if pool.ID == "" {
		pool.ID = uuid.New().String()
	}
	if pool.CreatedAt == 0 {
		pool.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var narration interface{}
	if pool.Narration != "" {
		narration = pool.Narration
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pools (id, pool_number, name, start_date, amount, tenure, current_hand, min_interest, narration, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pool.ID, pool.Number, pool.Name, pool.StartDate, pool.Amount.String(),
		pool.Tenure, pool.CurrentHand, pool.MinInterest.String(), narration, pool.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pool: %w", err)
	}

	for _, personID := range pool.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO pool_members (pool_id, person_id) VALUES (?, ?)",
			pool.ID, personID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert pool member: %w", err)
		}
	}

	for _, hand := range hands {
		if hand.ID == "" {
			hand.ID = uuid.New().String()
		}
		hand.PoolID = pool.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO hands (id, pool_id, seq, date, contribution_amount)
			 VALUES (?, ?, ?, ?, ?)`,
			hand.ID, hand.PoolID, hand.Seq, hand.Date, hand.ContributionAmount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert hand: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetPool retrieves a pool by ID, roster included.
func (s *SQLiteStore) GetPool(ctx context.Context, poolID string) (*models.Pool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, pool_number, name, start_date, amount, tenure, current_hand, min_interest, narration, created_at
		 FROM pools WHERE id = ?`, poolID)
	pool, err := scanPool(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}

	if pool.Members, err = s.poolMembers(ctx, pool.ID); err != nil {
		return nil, err
	}
	return pool, nil
}

// ListPools retrieves all pools ordered by pool number, rosters included.
func (s *SQLiteStore) ListPools(ctx context.Context) ([]*models.Pool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, pool_number, name, start_date, amount, tenure, current_hand, min_interest, narration, created_at
		 FROM pools ORDER BY pool_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}
	defer rows.Close()

	var pools []*models.Pool
	for rows.Next() {
		pool, err := scanPool(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pool: %w", err)
		}
		pools = append(pools, pool)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pools: %w", err)
	}

	for _, pool := range pools {
		if pool.Members, err = s.poolMembers(ctx, pool.ID); err != nil {
			return nil, err
		}
	}
	return pools, nil
}

// NextPoolNumber returns the next sequential committee number.
func (s *SQLiteStore) NextPoolNumber(ctx context.Context) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(pool_number), 0) + 1 FROM pools").Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to get next pool number: %w", err)
	}
	return next, nil
}

// DeletePool closes every member's ledger, freezing the net position into a
// single closing line, then deletes the pool. Hands, contributions and
// distributions go with it via cascade. One transaction, irreversible.
func (s *SQLiteStore) DeletePool(ctx context.Context, poolID string, now time.Time) error {
	memberIDs, err := s.poolMembers(ctx, poolID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, personID := range memberIDs {
		if _, err := closeLedgerTx(ctx, tx, personID, now); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM pools WHERE id = ?", poolID)
	if err != nil {
		return fmt.Errorf("failed to delete pool: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("pool not found: %s", poolID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetHand retrieves a hand by ID.
func (s *SQLiteStore) GetHand(ctx context.Context, handID string) (*models.Hand, error) {
	hand := &models.Hand{}
	var amount string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, pool_id, seq, date, contribution_amount FROM hands WHERE id = ?",
		handID,
	).Scan(&hand.ID, &hand.PoolID, &hand.Seq, &hand.Date, &amount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("hand not found: %s", handID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hand: %w", err)
	}
	if hand.ContributionAmount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	return hand, nil
}

// ListHands retrieves a pool's hands ordered by sequence.
func (s *SQLiteStore) ListHands(ctx context.Context, poolID string) ([]*models.Hand, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, pool_id, seq, date, contribution_amount FROM hands WHERE pool_id = ? ORDER BY seq",
		poolID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list hands: %w", err)
	}
	defer rows.Close()

	var hands []*models.Hand
	for rows.Next() {
		hand := &models.Hand{}
		var amount string
		if err := rows.Scan(&hand.ID, &hand.PoolID, &hand.Seq, &hand.Date, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan hand: %w", err)
		}
		if hand.ContributionAmount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		hands = append(hands, hand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hands: %w", err)
	}
	return hands, nil
}

func (s *SQLiteStore) poolMembers(ctx context.Context, poolID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pm.person_id FROM pool_members pm
		 JOIN persons p ON p.id = pm.person_id
		 WHERE pm.pool_id = ? ORDER BY p.name`,
		poolID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan pool member: %w", err)
		}
		members = append(members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pool members: %w", err)
	}
	return members, nil
}

func scanPool(sc scanner) (*models.Pool, error) {
	pool := &models.Pool{}
	var amount, minInterest string
	var narration sql.NullString

	if err := sc.Scan(&pool.ID, &pool.Number, &pool.Name, &pool.StartDate, &amount,
		&pool.Tenure, &pool.CurrentHand, &minInterest, &narration, &pool.CreatedAt); err != nil {
		return nil, err
	}
	if narration.Valid {
		pool.Narration = narration.String
	}

	var err error
	if pool.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	if pool.MinInterest, err = parseAmount(minInterest); err != nil {
		return nil, err
	}
	return pool, nil
}
