package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database. These run on
// startup to ensure tables exist. Amounts are stored as TEXT decimals;
// balances on ledger entries are insertion-time snapshots.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS persons (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    short_name TEXT NOT NULL UNIQUE,
    phone TEXT NOT NULL,
    phone2 TEXT,
    opening_balance TEXT NOT NULL DEFAULT '0',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pools (
    id TEXT PRIMARY KEY,
    pool_number INTEGER NOT NULL UNIQUE,
    name TEXT NOT NULL,
    start_date INTEGER NOT NULL,
    amount TEXT NOT NULL,
    tenure INTEGER NOT NULL,
    current_hand INTEGER NOT NULL DEFAULT 1,
    min_interest TEXT NOT NULL DEFAULT '0',
    narration TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pool_members (
    pool_id TEXT NOT NULL,
    person_id TEXT NOT NULL,
    PRIMARY KEY (pool_id, person_id),
    FOREIGN KEY (pool_id) REFERENCES pools(id) ON DELETE CASCADE,
    FOREIGN KEY (person_id) REFERENCES persons(id)
);

CREATE TABLE IF NOT EXISTS hands (
    id TEXT PRIMARY KEY,
    pool_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    date INTEGER NOT NULL,
    contribution_amount TEXT NOT NULL,
    UNIQUE (pool_id, seq),
    FOREIGN KEY (pool_id) REFERENCES pools(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS contributions (
    id TEXT PRIMARY KEY,
    hand_id TEXT NOT NULL,
    person_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    date INTEGER NOT NULL,
    paid INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (hand_id) REFERENCES hands(id) ON DELETE CASCADE,
    FOREIGN KEY (person_id) REFERENCES persons(id)
);

CREATE TABLE IF NOT EXISTS distributions (
    id TEXT PRIMARY KEY,
    hand_id TEXT NOT NULL,
    person_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    narration TEXT,
    date INTEGER NOT NULL,
    FOREIGN KEY (hand_id) REFERENCES hands(id) ON DELETE CASCADE,
    FOREIGN KEY (person_id) REFERENCES persons(id)
);

CREATE TABLE IF NOT EXISTS ledger_entries (
    id TEXT PRIMARY KEY,
    person_id TEXT NOT NULL,
    pool_id TEXT,
    date INTEGER NOT NULL,
    narration TEXT NOT NULL,
    debit TEXT NOT NULL DEFAULT '0',
    credit TEXT NOT NULL DEFAULT '0',
    balance TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (person_id) REFERENCES persons(id),
    FOREIGN KEY (pool_id) REFERENCES pools(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_hands_pool_id ON hands(pool_id);
CREATE INDEX IF NOT EXISTS idx_contributions_hand_id ON contributions(hand_id);
CREATE INDEX IF NOT EXISTS idx_contributions_person_id ON contributions(person_id);
CREATE INDEX IF NOT EXISTS idx_distributions_hand_id ON distributions(hand_id);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_person_id ON ledger_entries(person_id);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_pool_id ON ledger_entries(pool_id);
CREATE INDEX IF NOT EXISTS idx_pool_members_pool_id ON pool_members(pool_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
