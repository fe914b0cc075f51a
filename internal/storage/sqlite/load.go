package sqlite

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mmynk/chitfund/internal/models"
	"github.com/mmynk/chitfund/internal/storage"
)

// Load reads the whole database in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) (*storage.Snapshot, error) {
	snapshot := &storage.Snapshot{}

	funds, err := s.listFunds(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.Funds = funds

	participants, err := s.listParticipants(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.Participants = participants

	memberships, err := s.listMemberships(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.Memberships = memberships

	bids, err := s.listBids(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.Bids = bids

	return snapshot, nil
}

func (s *SQLiteStore) listFunds(ctx context.Context) ([]*models.Fund, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, total_amount, number_of_months, created_at FROM funds ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}
	defer rows.Close()

	var funds []*models.Fund
	for rows.Next() {
		fund := &models.Fund{}
		var total float64
		if err := rows.Scan(&fund.ID, &total, &fund.NumberOfMonths, &fund.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fund: %w", err)
		}
		if fund.TotalAmount, err = amountFromReal(total); err != nil {
			return nil, fmt.Errorf("fund %s total_amount: %w", fund.ID, err)
		}
		funds = append(funds, fund)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate funds: %w", err)
	}

	return funds, nil
}

func (s *SQLiteStore) listParticipants(ctx context.Context) ([]*models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, amount_received FROM participants ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		participant := &models.Participant{}
		var received float64
		if err := rows.Scan(&participant.ID, &participant.Name, &received); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if participant.AmountReceived, err = amountFromReal(received); err != nil {
			return nil, fmt.Errorf("participant %s amount_received: %w", participant.ID, err)
		}
		participants = append(participants, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

func (s *SQLiteStore) listMemberships(ctx context.Context) ([]models.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT fund_id, participant_id, position FROM fund_members ORDER BY fund_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fund members: %w", err)
	}
	defer rows.Close()

	var memberships []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.FundID, &m.ParticipantID, &m.Position); err != nil {
			return nil, fmt.Errorf("failed to scan fund member: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fund members: %w", err)
	}

	return memberships, nil
}

func (s *SQLiteStore) listBids(ctx context.Context) ([]*models.Bid, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, fund_id, participant_id, bid_amount, created_at FROM bids ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	var bids []*models.Bid
	for rows.Next() {
		bid := &models.Bid{}
		var amount float64
		if err := rows.Scan(&bid.ID, &bid.FundID, &bid.ParticipantID, &amount, &bid.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		if bid.Amount, err = amountFromReal(amount); err != nil {
			return nil, fmt.Errorf("bid %d bid_amount: %w", bid.ID, err)
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bids: %w", err)
	}

	return bids, nil
}

// amountFromReal converts a REAL column value to a decimal. decimal panics on
// infinities and NaN, so those are returned as errors.
func amountFromReal(v float64) (decimal.Decimal, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return decimal.Zero, fmt.Errorf("stored amount %v is not a finite number", v)
	}
	return decimal.NewFromFloat(v), nil
}

// Tables dumps every table as strings, rows in insertion order.
func (s *SQLiteStore) Tables(ctx context.Context) ([]storage.Table, error) {
	tables := make([]storage.Table, 0, len(tableNames))
	for _, name := range tableNames {
		table, err := s.dumpTable(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// dumpTable reads one table. name must come from tableNames.
func (s *SQLiteStore) dumpTable(ctx context.Context, name string) (storage.Table, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+name+" ORDER BY rowid")
	if err != nil {
		return storage.Table{}, fmt.Errorf("failed to query %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return storage.Table{}, fmt.Errorf("failed to read %s columns: %w", name, err)
	}

	table := storage.Table{Name: name, Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return storage.Table{}, fmt.Errorf("failed to scan %s row: %w", name, err)
		}

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return storage.Table{}, fmt.Errorf("failed to iterate %s: %w", name, err)
	}

	return table, nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
