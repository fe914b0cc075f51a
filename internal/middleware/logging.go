package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/chitfund/internal/metrics"
	"github.com/mmynk/chitfund/internal/registry"
)

// CommandFunc handles one presentation command.
type CommandFunc func(ctx context.Context, name string, args []string) error

// Logging returns an interceptor that logs every command with its duration
// and error kind, and records it in m when m is not nil.
func Logging(m *metrics.Metrics) func(CommandFunc) CommandFunc {
	return func(next CommandFunc) CommandFunc {
		return func(ctx context.Context, name string, args []string) error {
			start := time.Now()

			err := next(ctx, name, args)

			elapsed := time.Since(start)
			if m != nil {
				m.ObserveCommand(name, elapsed.Seconds(), err)
			}

			duration := elapsed.Milliseconds()
			if err != nil {
				kind := ErrorKind(err)
				if kind == "persistence" || kind == "internal" {
					slog.Error("Command error",
						"command", name,
						"kind", kind,
						"error", err,
						"duration_ms", duration,
					)
				} else {
					slog.Warn("Command error",
						"command", name,
						"kind", kind,
						"error", err,
						"duration_ms", duration,
					)
				}
			} else {
				slog.Info("Command ok",
					"command", name,
					"duration_ms", duration,
				)
			}

			return err
		}
	}
}

// ErrorKind classifies an error returned by a command.
func ErrorKind(err error) string {
	var (
		dup     *registry.DuplicateIDError
		nf      *registry.NotFoundError
		invalid *registry.InvalidAmountError
		pe      *registry.PersistenceError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &dup):
		return "duplicate_id"
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &invalid):
		return "invalid_amount"
	case errors.As(err, &pe):
		return "persistence"
	case errors.Is(err, ErrUsage):
		return "usage"
	default:
		return "internal"
	}
}

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("usage")
