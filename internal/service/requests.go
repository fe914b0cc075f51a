package service

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/chitfund/internal/auction"
	"github.com/mmynk/chitfund/internal/models"
	"github.com/mmynk/chitfund/internal/registry"
	"github.com/mmynk/chitfund/internal/storage"
)

// Requests carry user input exactly as typed. Numeric fields are parsed by
// the service and rejected with *registry.InvalidAmountError.

// CreateFundRequest creates a fund.
type CreateFundRequest struct {
	ID          string
	TotalAmount string
	Months      string
}

// CreateFundResponse returns the created fund.
type CreateFundResponse struct {
	Fund *models.Fund
}

// AddParticipantRequest adds a (possibly new) participant to a fund.
type AddParticipantRequest struct {
	FundID        string
	ParticipantID string
	Name          string
}

// AddParticipantResponse returns the member and the fund it joined.
type AddParticipantResponse struct {
	Fund        *models.Fund
	Participant *models.Participant
}

// PlaceBidRequest places a bid in a fund.
type PlaceBidRequest struct {
	FundID        string
	ParticipantID string
	Amount        string
}

// PlaceBidResponse returns the recorded bid and its bidder.
type PlaceBidResponse struct {
	Bid         *models.Bid
	Participant *models.Participant
}

// ResolveRequest resolves one auction round.
type ResolveRequest struct {
	FundID string
}

// ResolveResponse carries the round's outcome.
type ResolveResponse struct {
	FundID  string
	Outcome models.Outcome
}

// BidView is a bid with its bidder's display name.
type BidView struct {
	Bid             *models.Bid
	ParticipantName string
}

// FundView is one fund as shown by ListAll.
type FundView struct {
	Fund    *models.Fund
	Summary auction.Summary
	Bids    []BidView
	Leader  string // Name of the leading bidder; empty without bids
}

// ListAllResponse lists every fund in creation order.
type ListAllResponse struct {
	Funds []FundView
}

// ListRawTablesResponse holds a raw dump of every stored table.
type ListRawTablesResponse struct {
	Tables []storage.Table
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &registry.InvalidAmountError{Field: field, Value: raw}
	}
	return amount, nil
}

func parseMonths(raw string) (int, error) {
	months, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &registry.InvalidAmountError{Field: "number of months", Value: raw}
	}
	return months, nil
}
