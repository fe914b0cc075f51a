package models

import "github.com/shopspring/decimal"

// Fund represents a chit fund: a pool collected from its members over a
// number of months and auctioned to one member per round.
type Fund struct {
	// ID is the unique identifier for the fund.
	ID string

	// TotalAmount is the pool paid out per round. Always positive.
	TotalAmount decimal.Decimal

	// NumberOfMonths is the duration of the fund. Always positive.
	NumberOfMonths int

	// Participants are the fund's members in the order they joined.
	Participants []*Participant

	// Bids are all bids ever placed in this fund, in the order they were placed.
	// Bids are append-only.
	Bids []*Bid

	// CreatedAt is the Unix timestamp when the fund was created.
	CreatedAt int64
}

// Member returns the member with the given participant ID, or nil if the
// participant has not joined this fund.
func (f *Fund) Member(participantID string) *Participant {
	for _, p := range f.Participants {
		if p.ID == participantID {
			return p
		}
	}
	return nil
}

// Installment is the amount each member contributes per month.
// Returns zero for a fund without a duration.
func (f *Fund) Installment() decimal.Decimal {
	if f.NumberOfMonths <= 0 {
		return decimal.Zero
	}
	return f.TotalAmount.Div(decimal.NewFromInt(int64(f.NumberOfMonths))).Round(2)
}
