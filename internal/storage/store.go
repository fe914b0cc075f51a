// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/chitfund/internal/models"
)

// Store defines the interface for chit fund storage operations.
// The registry writes through to a Store after every successful change and
// reloads everything from it at startup.
type Store interface {
	// CreateFund persists a new fund. Members and bids are stored separately.
	CreateFund(ctx context.Context, fund *models.Fund) error

	// CreateParticipant persists a new participant record.
	CreateParticipant(ctx context.Context, participant *models.Participant) error

	// UpdateParticipant persists a participant's name and amount received.
	// Returns an error if the participant is not found.
	UpdateParticipant(ctx context.Context, participant *models.Participant) error

	// AddMember links an existing participant to an existing fund.
	AddMember(ctx context.Context, membership models.Membership) error

	// CreateBid persists a new bid. The bid.ID field will be populated by the store.
	CreateBid(ctx context.Context, bid *models.Bid) error

	// Load reads every fund, participant, membership and bid.
	Load(ctx context.Context) (*Snapshot, error)

	// Tables returns the raw contents of every table, for inspection.
	Tables(ctx context.Context) ([]Table, error)

	// Close releases any resources held by the store.
	Close() error
}

// Snapshot is the full persisted state, each collection in insertion order.
// Funds are returned without Participants or Bids; the registry reattaches
// them from Memberships and Bids.
type Snapshot struct {
	Funds        []*models.Fund
	Participants []*models.Participant
	Memberships  []models.Membership
	Bids         []*models.Bid
}

// Table is an untyped dump of one table.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}
