package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
)

// CreatePerson persists a new person to the database.
func (s *SQLiteStore) CreatePerson(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.New().String()
	}
	if person.CreatedAt == 0 {
		person.CreatedAt = time.Now().Unix()
	}

	var phone2 interface{}
	if person.Phone2 != "" {
		phone2 = person.Phone2
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO persons (id, name, short_name, phone, phone2, opening_balance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		person.ID, person.Name, person.ShortName, person.Phone, phone2,
		person.OpeningBalance.String(), person.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}
	return nil
}

// GetPerson retrieves a person by ID.
func (s *SQLiteStore) GetPerson(ctx context.Context, personID string) (*models.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, short_name, phone, phone2, opening_balance, created_at
		 FROM persons WHERE id = ?`, personID)
	person, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("person not found: %s", personID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return person, nil
}

// ListPersons retrieves the person directory ordered by name.
func (s *SQLiteStore) ListPersons(ctx context.Context) ([]*models.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, short_name, phone, phone2, opening_balance, created_at
		 FROM persons ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []*models.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}
	return persons, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(sc scanner) (*models.Person, error) {
	person := &models.Person{}
	var phone2 sql.NullString
	var opening string

	if err := sc.Scan(&person.ID, &person.Name, &person.ShortName, &person.Phone,
		&phone2, &opening, &person.CreatedAt); err != nil {
		return nil, err
	}
	if phone2.Valid {
		person.Phone2 = phone2.String
	}

	var err error
	person.OpeningBalance, err = parseAmount(opening)
	if err != nil {
		return nil, err
	}
	return person, nil
}
