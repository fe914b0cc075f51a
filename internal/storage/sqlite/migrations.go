package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Tables are listed parent first: bids reference fund_members, which reference
// both funds and participants.
const schema = `
CREATE TABLE IF NOT EXISTS funds (
    id TEXT PRIMARY KEY,
    total_amount REAL NOT NULL,
    number_of_months INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    amount_received REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS fund_members (
    fund_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (fund_id, participant_id),
    FOREIGN KEY (fund_id) REFERENCES funds(id),
    FOREIGN KEY (participant_id) REFERENCES participants(id)
);

CREATE TABLE IF NOT EXISTS bids (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    fund_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    bid_amount REAL NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (fund_id, participant_id) REFERENCES fund_members(fund_id, participant_id)
);

CREATE INDEX IF NOT EXISTS idx_fund_members_participant_id ON fund_members(participant_id);
CREATE INDEX IF NOT EXISTS idx_bids_fund_id ON bids(fund_id);
`

// tableNames lists the tables in dependency order, for raw dumps.
var tableNames = []string{"funds", "participants", "fund_members", "bids"}

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
