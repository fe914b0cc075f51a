package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmynk/chitfund/internal/config"
	"github.com/mmynk/chitfund/internal/registry"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		DBPath:          filepath.Join(dir, "chitfund.db"),
		LogLevel:        "error",
		Locale:          "en",
		MetricsTextfile: filepath.Join(dir, "chitfund.prom"),
		NoColor:         true,
	}
}

func TestRun_PersistsAcrossInvocations(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	for _, args := range [][]string{
		{"create-fund", "F1", "1200", "12"},
		{"add-participant", "F1", "P1", "Alice"},
		{"add-participant", "F1", "P2", "Bob"},
		{"place-bid", "F1", "P1", "300"},
		{"place-bid", "F1", "P2", "500"},
		{"resolve", "F1"},
	} {
		var out bytes.Buffer
		if err := run(ctx, cfg, args, nil, &out); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
	}

	var out bytes.Buffer
	if err := run(ctx, cfg, []string{"list"}, nil, &out); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Chit Fund F1", "Alice", "Bob", "500.00", "Leading bid: 500.00 by Bob"} {
		if !strings.Contains(got, want) {
			t.Errorf("list output missing %q:\n%s", want, got)
		}
	}

	metrics, err := os.ReadFile(cfg.MetricsTextfile)
	if err != nil {
		t.Fatalf("metrics textfile not written: %v", err)
	}
	if !strings.Contains(string(metrics), `chitfund_commands_total{command="list",result="ok"} 1`) {
		t.Errorf("unexpected metrics:\n%s", metrics)
	}
}

func TestRun_Shell(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsTextfile = ""

	in := strings.NewReader("create-fund F1 1000 10\nresolve F1\nquit\n")
	var out bytes.Buffer
	if err := run(context.Background(), cfg, []string{"shell"}, in, &out); err != nil {
		t.Fatalf("shell failed: %v", err)
	}
	if !strings.Contains(out.String(), "No bids available for distribution in F1.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRun_UnopenableDatabase(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	cfg.DBPath = filepath.Join(blocker, "chitfund.db")

	err := run(context.Background(), cfg, []string{"list"}, nil, &bytes.Buffer{})

	var pe *registry.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}
