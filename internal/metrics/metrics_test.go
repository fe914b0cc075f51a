package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestObserveCommand(t *testing.T) {
	m := New()

	m.ObserveCommand("create-fund", 0.01, nil)
	m.ObserveCommand("create-fund", 0.02, nil)
	m.ObserveCommand("create-fund", 0.01, errors.New("duplicate"))

	if got := testutil.ToFloat64(m.CommandsTotal.WithLabelValues("create-fund", ResultOK)); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CommandsTotal.WithLabelValues("create-fund", ResultError)); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.CommandDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestObservePayout(t *testing.T) {
	m := New()

	m.ObservePayout(decimal.NewFromInt(500))
	m.ObservePayout(decimal.RequireFromString("150.5"))

	if got := testutil.ToFloat64(m.Payouts); got != 2 {
		t.Errorf("payouts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PayoutAmountTotal); got != 650.5 {
		t.Errorf("payout amount = %v, want 650.5", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.BidsRecorded.Inc()

	path := filepath.Join(t.TempDir(), "chitfund.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "chitfund_bids_recorded_total 1") {
		t.Errorf("textfile missing bid counter:\n%s", data)
	}
}

func TestWriteTextfile_BadPath(t *testing.T) {
	m := New()
	path := filepath.Join(t.TempDir(), "missing", "dir", "chitfund.prom")
	if err := m.WriteTextfile(path); err == nil {
		t.Error("expected error for unwritable path")
	}
}
