package models

import "github.com/shopspring/decimal"

// Participant is a person who can join funds and receive payouts.
type Participant struct {
	ID   string
	Name string

	// AmountReceived is the cumulative payout across all funds.
	// It starts at zero and only grows, through Receive.
	AmountReceived decimal.Decimal
}

// Receive credits a payout to the participant.
func (p *Participant) Receive(amount decimal.Decimal) {
	p.AmountReceived = p.AmountReceived.Add(amount)
}
