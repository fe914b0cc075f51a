package models

import "github.com/shopspring/decimal"

// OutcomeKind tells whether a round paid anyone.
type OutcomeKind int

const (
	// OutcomeNoBids means the fund had no bids and nothing was paid.
	OutcomeNoBids OutcomeKind = iota
	// OutcomeDistributed means the winning bidder was paid.
	OutcomeDistributed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoBids:
		return "no_bids"
	case OutcomeDistributed:
		return "distributed"
	default:
		return "unknown"
	}
}

// Outcome is the result of resolving one auction round.
// Participant, Bid and Amount are only set when Kind is OutcomeDistributed.
type Outcome struct {
	Kind        OutcomeKind
	Participant *Participant
	Bid         *Bid
	Amount      decimal.Decimal
}

// Distributed reports whether the round paid a participant.
func (o Outcome) Distributed() bool {
	return o.Kind == OutcomeDistributed
}
