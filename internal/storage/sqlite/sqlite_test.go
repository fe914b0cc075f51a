package sqlite

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/chitfund/internal/models"
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

// seed stores fund F1 with members P1 and P2.
func seed(t *testing.T, store *SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	fund := &models.Fund{ID: "F1", TotalAmount: decimal.NewFromInt(1200), NumberOfMonths: 12}
	if err := store.CreateFund(ctx, fund); err != nil {
		t.Fatalf("CreateFund failed: %v", err)
	}
	for i, p := range []*models.Participant{
		{ID: "P1", Name: "Alice"},
		{ID: "P2", Name: "Bob"},
	} {
		if err := store.CreateParticipant(ctx, p); err != nil {
			t.Fatalf("CreateParticipant(%s) failed: %v", p.ID, err)
		}
		if err := store.AddMember(ctx, models.Membership{FundID: "F1", ParticipantID: p.ID, Position: i}); err != nil {
			t.Fatalf("AddMember(%s) failed: %v", p.ID, err)
		}
	}
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seed(t, store)

	t.Run("CreateFund sets CreatedAt", func(t *testing.T) {
		fund := &models.Fund{ID: "F2", TotalAmount: decimal.RequireFromString("5000.50"), NumberOfMonths: 10}
		if err := store.CreateFund(ctx, fund); err != nil {
			t.Fatalf("CreateFund failed: %v", err)
		}
		if fund.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("CreateFund rejects duplicate ID", func(t *testing.T) {
		fund := &models.Fund{ID: "F1", TotalAmount: decimal.NewFromInt(10), NumberOfMonths: 1}
		if err := store.CreateFund(ctx, fund); err == nil {
			t.Error("Expected error for duplicate fund ID")
		}
	})

	t.Run("CreateFund requires ID", func(t *testing.T) {
		fund := &models.Fund{TotalAmount: decimal.NewFromInt(10), NumberOfMonths: 1}
		if err := store.CreateFund(ctx, fund); err == nil {
			t.Error("Expected error for empty fund ID")
		}
	})

	t.Run("CreateBid assigns increasing IDs", func(t *testing.T) {
		first := &models.Bid{FundID: "F1", ParticipantID: "P1", Amount: decimal.NewFromInt(300)}
		second := &models.Bid{FundID: "F1", ParticipantID: "P2", Amount: decimal.NewFromInt(500)}

		if err := store.CreateBid(ctx, first); err != nil {
			t.Fatalf("CreateBid failed: %v", err)
		}
		if err := store.CreateBid(ctx, second); err != nil {
			t.Fatalf("CreateBid failed: %v", err)
		}

		if first.ID == 0 || second.ID <= first.ID {
			t.Errorf("Expected increasing IDs, got %d then %d", first.ID, second.ID)
		}
		if first.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("CreateBid rejects non-member", func(t *testing.T) {
		if err := store.CreateParticipant(ctx, &models.Participant{ID: "P3", Name: "Carol"}); err != nil {
			t.Fatalf("CreateParticipant failed: %v", err)
		}
		bid := &models.Bid{FundID: "F1", ParticipantID: "P3", Amount: decimal.NewFromInt(100)}
		if err := store.CreateBid(ctx, bid); err == nil {
			t.Error("Expected foreign key error for bid by non-member")
		}
	})

	t.Run("AddMember rejects unknown fund", func(t *testing.T) {
		err := store.AddMember(ctx, models.Membership{FundID: "nope", ParticipantID: "P1", Position: 0})
		if err == nil {
			t.Error("Expected foreign key error for unknown fund")
		}
	})

	t.Run("AddMember rejects duplicate membership", func(t *testing.T) {
		err := store.AddMember(ctx, models.Membership{FundID: "F1", ParticipantID: "P1", Position: 5})
		if err == nil {
			t.Error("Expected error for duplicate membership")
		}
	})

	t.Run("UpdateParticipant persists amount received", func(t *testing.T) {
		p := &models.Participant{ID: "P2", Name: "Bob", AmountReceived: decimal.NewFromInt(500)}
		if err := store.UpdateParticipant(ctx, p); err != nil {
			t.Fatalf("UpdateParticipant failed: %v", err)
		}

		snapshot, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		for _, got := range snapshot.Participants {
			if got.ID == "P2" && !got.AmountReceived.Equal(decimal.NewFromInt(500)) {
				t.Errorf("AmountReceived = %s, want 500", got.AmountReceived)
			}
		}
	})

	t.Run("UpdateParticipant returns error for unknown participant", func(t *testing.T) {
		p := &models.Participant{ID: "ghost", Name: "Nobody"}
		if err := store.UpdateParticipant(ctx, p); err == nil {
			t.Error("Expected error for unknown participant")
		}
	})
}

func TestLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seed(t, store)

	for _, amount := range []string{"300", "450.75"} {
		bid := &models.Bid{FundID: "F1", ParticipantID: "P2", Amount: decimal.RequireFromString(amount)}
		if err := store.CreateBid(ctx, bid); err != nil {
			t.Fatalf("CreateBid failed: %v", err)
		}
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(snapshot.Funds) != 1 {
		t.Fatalf("Funds count = %d, want 1", len(snapshot.Funds))
	}
	fund := snapshot.Funds[0]
	if fund.ID != "F1" || fund.NumberOfMonths != 12 || !fund.TotalAmount.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Unexpected fund: %+v", fund)
	}

	if len(snapshot.Participants) != 2 {
		t.Fatalf("Participants count = %d, want 2", len(snapshot.Participants))
	}
	if snapshot.Participants[0].Name != "Alice" || snapshot.Participants[1].Name != "Bob" {
		t.Errorf("Participants out of order: %s, %s", snapshot.Participants[0].Name, snapshot.Participants[1].Name)
	}

	if len(snapshot.Memberships) != 2 {
		t.Fatalf("Memberships count = %d, want 2", len(snapshot.Memberships))
	}
	if snapshot.Memberships[0].ParticipantID != "P1" || snapshot.Memberships[1].Position != 1 {
		t.Errorf("Unexpected memberships: %+v", snapshot.Memberships)
	}

	if len(snapshot.Bids) != 2 {
		t.Fatalf("Bids count = %d, want 2", len(snapshot.Bids))
	}
	if !snapshot.Bids[1].Amount.Equal(decimal.RequireFromString("450.75")) {
		t.Errorf("Bid amount = %s, want 450.75", snapshot.Bids[1].Amount)
	}
}

func TestLoad_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "chitfund.db")
	ctx := context.Background()

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	seed(t, store)
	store.Close()

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	snapshot, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snapshot.Funds) != 1 || len(snapshot.Participants) != 2 {
		t.Errorf("Expected 1 fund and 2 participants after reopen, got %d and %d",
			len(snapshot.Funds), len(snapshot.Participants))
	}
}

func TestLoad_NonFiniteAmounts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		write func(store *SQLiteStore) error
	}{
		{
			name: "fund total overflowing REAL",
			write: func(store *SQLiteStore) error {
				fund := &models.Fund{ID: "F2", TotalAmount: decimal.RequireFromString("1e400"), NumberOfMonths: 12}
				return store.CreateFund(ctx, fund)
			},
		},
		{
			name: "infinite fund total",
			write: func(store *SQLiteStore) error {
				_, err := store.db.ExecContext(ctx, "UPDATE funds SET total_amount = 1e999 WHERE id = 'F1'")
				return err
			},
		},
		{
			name: "infinite amount received",
			write: func(store *SQLiteStore) error {
				_, err := store.db.ExecContext(ctx, "UPDATE participants SET amount_received = -1e999 WHERE id = 'P1'")
				return err
			},
		},
		{
			name: "infinite bid",
			write: func(store *SQLiteStore) error {
				bid := &models.Bid{FundID: "F1", ParticipantID: "P1", Amount: decimal.RequireFromString("1e400")}
				return store.CreateBid(ctx, bid)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			seed(t, store)
			if err := tt.write(store); err != nil {
				t.Fatalf("write failed: %v", err)
			}

			if _, err := store.Load(ctx); err == nil {
				t.Error("Expected Load to reject a non-finite amount")
			}
		})
	}
}

func TestAmountFromReal(t *testing.T) {
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if _, err := amountFromReal(v); err == nil {
			t.Errorf("amountFromReal(%v) should fail", v)
		}
	}

	got, err := amountFromReal(450.75)
	if err != nil {
		t.Fatalf("amountFromReal failed: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("450.75")) {
		t.Errorf("amountFromReal(450.75) = %s", got)
	}
}

func TestTables(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seed(t, store)

	bid := &models.Bid{FundID: "F1", ParticipantID: "P1", Amount: decimal.NewFromInt(300)}
	if err := store.CreateBid(ctx, bid); err != nil {
		t.Fatalf("CreateBid failed: %v", err)
	}

	tables, err := store.Tables(ctx)
	if err != nil {
		t.Fatalf("Tables failed: %v", err)
	}

	wantRows := map[string]int{"funds": 1, "participants": 2, "fund_members": 2, "bids": 1}
	if len(tables) != len(wantRows) {
		t.Fatalf("Tables count = %d, want %d", len(tables), len(wantRows))
	}
	for _, table := range tables {
		if got := len(table.Rows); got != wantRows[table.Name] {
			t.Errorf("%s rows = %d, want %d", table.Name, got, wantRows[table.Name])
		}
	}

	funds := tables[0]
	if funds.Name != "funds" {
		t.Fatalf("first table = %s, want funds", funds.Name)
	}
	if funds.Columns[0] != "id" || funds.Rows[0][0] != "F1" {
		t.Errorf("Unexpected funds dump: %v %v", funds.Columns, funds.Rows)
	}
	if funds.Rows[0][1] != "1200" {
		t.Errorf("total_amount = %q, want %q", funds.Rows[0][1], "1200")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{[]byte("abc"), "abc"},
		{"text", "text"},
		{int64(42), "42"},
		{1200.0, "1200"},
		{450.75, "450.75"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatValue(tt.in); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
