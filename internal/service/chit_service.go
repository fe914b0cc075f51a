// Package service maps presentation commands onto the registry. It parses
// raw input, logs each request and keeps the metrics current.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mmynk/chitfund/internal/auction"
	"github.com/mmynk/chitfund/internal/metrics"
	"github.com/mmynk/chitfund/internal/registry"
)

// ChitService implements the commands available to the user interface.
type ChitService struct {
	registry *registry.Registry
	metrics  *metrics.Metrics
}

// NewChitService creates a new ChitService over a loaded registry.
func NewChitService(reg *registry.Registry, m *metrics.Metrics) *ChitService {
	return &ChitService{registry: reg, metrics: m}
}

// CreateFund creates a new fund.
func (s *ChitService) CreateFund(ctx context.Context, req CreateFundRequest) (*CreateFundResponse, error) {
	slog.Info("CreateFund request received",
		"fund_id", req.ID,
		"total_amount", req.TotalAmount,
		"months", req.Months,
	)

	total, err := parseAmount("total amount", req.TotalAmount)
	if err != nil {
		logFailure("CreateFund", err, "fund_id", req.ID)
		return nil, err
	}
	months, err := parseMonths(req.Months)
	if err != nil {
		logFailure("CreateFund", err, "fund_id", req.ID)
		return nil, err
	}

	fund, err := s.registry.CreateFund(ctx, strings.TrimSpace(req.ID), total, months)
	if err != nil {
		logFailure("CreateFund", err, "fund_id", req.ID)
		return nil, err
	}

	slog.Info("Fund created", "fund_id", fund.ID)

	return &CreateFundResponse{Fund: fund}, nil
}

// AddParticipant adds a participant to a fund, creating the participant
// record on first use.
func (s *ChitService) AddParticipant(ctx context.Context, req AddParticipantRequest) (*AddParticipantResponse, error) {
	slog.Info("AddParticipant request received",
		"fund_id", req.FundID,
		"participant_id", req.ParticipantID,
	)

	participant, err := s.registry.AddParticipant(ctx,
		strings.TrimSpace(req.FundID),
		strings.TrimSpace(req.ParticipantID),
		strings.TrimSpace(req.Name),
	)
	if err != nil {
		logFailure("AddParticipant", err, "fund_id", req.FundID, "participant_id", req.ParticipantID)
		return nil, err
	}

	fund, _ := s.registry.FindFund(strings.TrimSpace(req.FundID))

	slog.Info("Participant added",
		"fund_id", fund.ID,
		"participant_id", participant.ID,
		"members_count", len(fund.Participants),
	)

	return &AddParticipantResponse{Fund: fund, Participant: participant}, nil
}

// PlaceBid records a bid by a member of the fund.
func (s *ChitService) PlaceBid(ctx context.Context, req PlaceBidRequest) (*PlaceBidResponse, error) {
	slog.Info("PlaceBid request received",
		"fund_id", req.FundID,
		"participant_id", req.ParticipantID,
		"amount", req.Amount,
	)

	amount, err := parseAmount("bid amount", req.Amount)
	if err != nil {
		logFailure("PlaceBid", err, "fund_id", req.FundID)
		return nil, err
	}

	participantID := strings.TrimSpace(req.ParticipantID)
	bid, err := s.registry.RecordBid(ctx, strings.TrimSpace(req.FundID), participantID, amount)
	if bid != nil {
		// The bid is in memory even if persisting it failed.
		s.metrics.BidsRecorded.Inc()
	}
	if err != nil {
		logFailure("PlaceBid", err, "fund_id", req.FundID, "participant_id", req.ParticipantID)
		return nil, err
	}

	participant, _ := s.registry.FindParticipant(participantID)

	slog.Info("Bid recorded", "fund_id", bid.FundID, "bid_id", bid.ID, "amount", bid.Amount.String())

	return &PlaceBidResponse{Bid: bid, Participant: participant}, nil
}

// Resolve runs one auction round for a fund.
func (s *ChitService) Resolve(ctx context.Context, req ResolveRequest) (*ResolveResponse, error) {
	fundID := strings.TrimSpace(req.FundID)
	slog.Info("Resolve request received", "fund_id", fundID)

	outcome, err := s.registry.Resolve(ctx, fundID)
	if outcome.Distributed() {
		// The payout happened in memory even if persisting it failed.
		s.metrics.ObservePayout(outcome.Amount)
	}
	if err != nil {
		logFailure("Resolve", err, "fund_id", fundID)
		return nil, err
	}

	if outcome.Distributed() {
		slog.Info("Amount distributed",
			"fund_id", fundID,
			"participant_id", outcome.Participant.ID,
			"amount", outcome.Amount.String(),
		)
	} else {
		slog.Info("No bids to distribute", "fund_id", fundID)
	}

	return &ResolveResponse{FundID: fundID, Outcome: outcome}, nil
}

// ListAll returns every fund with its members, bids and summary.
func (s *ChitService) ListAll(ctx context.Context) (*ListAllResponse, error) {
	slog.Debug("ListAll request received")

	funds := s.registry.ListFunds()
	views := make([]FundView, len(funds))
	for i, fund := range funds {
		bids := make([]BidView, len(fund.Bids))
		for j, bid := range fund.Bids {
			view := BidView{Bid: bid}
			if p := fund.Member(bid.ParticipantID); p != nil {
				view.ParticipantName = p.Name
			}
			bids[j] = view
		}
		summary := auction.Summarize(fund)
		views[i] = FundView{
			Fund:    fund,
			Summary: summary,
			Bids:    bids,
		}
		if summary.Leading != nil {
			if p := fund.Member(summary.Leading.ParticipantID); p != nil {
				views[i].Leader = p.Name
			}
		}
	}

	slog.Debug("ListAll successful", "count", len(views))

	return &ListAllResponse{Funds: views}, nil
}

// ListRawTables dumps every stored table.
func (s *ChitService) ListRawTables(ctx context.Context) (*ListRawTablesResponse, error) {
	slog.Debug("ListRawTables request received")

	tables, err := s.registry.Tables(ctx)
	if err != nil {
		logFailure("ListRawTables", err)
		return nil, err
	}

	return &ListRawTablesResponse{Tables: tables}, nil
}

// logFailure logs user mistakes at warn and store failures at error.
func logFailure(op string, err error, attrs ...any) {
	attrs = append(attrs, "error", err)

	var pe *registry.PersistenceError
	if errors.As(err, &pe) {
		slog.Error(op+" failed", attrs...)
		return
	}
	slog.Warn(op+" rejected", attrs...)
}
