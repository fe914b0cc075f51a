package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/language"

	"github.com/mmynk/chitfund/internal/cli"
	"github.com/mmynk/chitfund/internal/config"
	"github.com/mmynk/chitfund/internal/metrics"
	"github.com/mmynk/chitfund/internal/registry"
	"github.com/mmynk/chitfund/internal/service"
	"github.com/mmynk/chitfund/internal/storage/sqlite"
	"github.com/mmynk/chitfund/pkg/logging"
)

func main() {
	fs := flag.NewFlagSet("chitfund", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: chitfund [flags] <command> [args...]")
		fs.PrintDefaults()
	}
	cfg, args, err := config.ParseConfig(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, args, os.Stdin, os.Stdout); err != nil {
		stop()
		config.Exitf("Error: %s", cli.Message(err))
	}
}

func run(ctx context.Context, cfg config.Config, args []string, in io.Reader, out io.Writer) error {
	logging.Setup(os.Stderr, cfg.LogLevel, cfg.NoColor)

	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		slog.Warn("Unknown locale, using English", "locale", cfg.Locale, "error", err)
		locale = language.English
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return &registry.PersistenceError{Op: "open database", Err: err}
	}
	defer store.Close()
	slog.Debug("Storage initialized", "database", cfg.DBPath)

	// The application cannot run without its saved data.
	reg := registry.New(store)
	if err := reg.Load(ctx); err != nil {
		return err
	}
	slog.Debug("Registry loaded", "funds", len(reg.ListFunds()), "participants", len(reg.ListParticipants()))

	m := metrics.New()
	if cfg.MetricsTextfile != "" {
		defer func() {
			if err := m.WriteTextfile(cfg.MetricsTextfile); err != nil {
				slog.Error("Failed to write metrics", "path", cfg.MetricsTextfile, "error", err)
			}
		}()
	}

	app := cli.New(service.NewChitService(reg, m), out, locale, m)
	return app.Run(ctx, args, in)
}
