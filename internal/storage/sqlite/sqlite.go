// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/chitfund/internal/models"
	"github.com/mmynk/chitfund/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection setting, so request them in the DSN
	// and keep a single connection.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateFund persists a new fund to the database.
func (s *SQLiteStore) CreateFund(ctx context.Context, fund *models.Fund) error {
	if fund.ID == "" {
		return fmt.Errorf("fund ID is required")
	}
	if fund.CreatedAt == 0 {
		fund.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO funds (id, total_amount, number_of_months, created_at) VALUES (?, ?, ?, ?)",
		fund.ID, fund.TotalAmount, fund.NumberOfMonths, fund.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fund: %w", err)
	}

	return nil
}

// CreateParticipant persists a new participant to the database.
func (s *SQLiteStore) CreateParticipant(ctx context.Context, participant *models.Participant) error {
	if participant.ID == "" {
		return fmt.Errorf("participant ID is required")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (id, name, amount_received) VALUES (?, ?, ?)",
		participant.ID, participant.Name, participant.AmountReceived,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	return nil
}

// UpdateParticipant writes a participant's name and amount received.
func (s *SQLiteStore) UpdateParticipant(ctx context.Context, participant *models.Participant) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE participants SET name = ?, amount_received = ? WHERE id = ?",
		participant.Name, participant.AmountReceived, participant.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("participant not found: %s", participant.ID)
	}

	return nil
}

// AddMember links a participant to a fund.
func (s *SQLiteStore) AddMember(ctx context.Context, membership models.Membership) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO fund_members (fund_id, participant_id, position) VALUES (?, ?, ?)",
		membership.FundID, membership.ParticipantID, membership.Position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fund member: %w", err)
	}

	return nil
}

// CreateBid persists a new bid and assigns its ID.
func (s *SQLiteStore) CreateBid(ctx context.Context, bid *models.Bid) error {
	if bid.CreatedAt == 0 {
		bid.CreatedAt = time.Now().Unix()
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO bids (fund_id, participant_id, bid_amount, created_at) VALUES (?, ?, ?, ?)",
		bid.FundID, bid.ParticipantID, bid.Amount, bid.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bid: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read bid ID: %w", err)
	}
	bid.ID = id

	return nil
}
