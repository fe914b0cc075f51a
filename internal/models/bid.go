package models

import "github.com/shopspring/decimal"

// Bid is one participant's offer in one fund.
type Bid struct {
	// ID is the surrogate key assigned by the store.
	ID int64

	FundID        string
	ParticipantID string

	// Amount is the bid amount. The highest bid wins the round.
	Amount decimal.Decimal

	// CreatedAt is the Unix timestamp when the bid was placed.
	CreatedAt int64
}

// Membership links a participant to a fund.
// Position is the participant's zero-based join order within the fund.
type Membership struct {
	FundID        string
	ParticipantID string
	Position      int
}
