// Package metrics collects command and payout counters in a private
// Prometheus registry. There is no scrape endpoint; the registry is flushed
// to a node_exporter textfile when configured.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "chitfund"

// Result labels for CommandsTotal.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the collectors for one process.
type Metrics struct {
	registry *prometheus.Registry

	CommandsTotal     *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec
	BidsRecorded      prometheus.Counter
	Payouts           prometheus.Counter
	PayoutAmountTotal prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands handled, by command and result.",
		}, []string{"command", "result"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent handling a command.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"command"}),
		BidsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_recorded_total",
			Help:      "Bids accepted into a fund.",
		}),
		Payouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payouts_total",
			Help:      "Auction rounds that paid a participant.",
		}),
		PayoutAmountTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_amount_total",
			Help:      "Sum of all amounts paid out.",
		}),
	}

	m.registry.MustRegister(
		m.CommandsTotal,
		m.CommandDuration,
		m.BidsRecorded,
		m.Payouts,
		m.PayoutAmountTotal,
	)
	return m
}

// ObserveCommand records one handled command.
func (m *Metrics) ObserveCommand(command string, seconds float64, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.CommandsTotal.WithLabelValues(command, result).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(seconds)
}

// ObservePayout records a distributed auction round.
func (m *Metrics) ObservePayout(amount decimal.Decimal) {
	m.Payouts.Inc()
	m.PayoutAmountTotal.Add(amount.InexactFloat64())
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics in text exposition format to path,
// atomically, for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
