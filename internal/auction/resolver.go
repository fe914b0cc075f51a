// Package auction resolves chit fund auction rounds.
package auction

import (
	"errors"
	"fmt"

	"github.com/mmynk/chitfund/internal/models"
)

// ErrUnknownBidder is returned when the winning bid belongs to someone who is
// not a member of the fund being resolved.
var ErrUnknownBidder = errors.New("winning bidder is not a member of the fund")

// HighestBid returns the bid with the largest amount, or nil for no bids.
// Ties go to the bid placed first.
func HighestBid(bids []*models.Bid) *models.Bid {
	var best *models.Bid
	for _, bid := range bids {
		if best == nil || bid.Amount.GreaterThan(best.Amount) {
			best = bid
		}
	}
	return best
}

// Resolve runs one auction round for the fund and credits the winning
// bidder's AmountReceived with the winning amount.
//
// Bids are not consumed: resolving the same fund again pays the same winner again.
func Resolve(fund *models.Fund) (models.Outcome, error) {
	if fund == nil {
		return models.Outcome{}, fmt.Errorf("fund is required")
	}

	best := HighestBid(fund.Bids)
	if best == nil {
		return models.Outcome{Kind: models.OutcomeNoBids}, nil
	}

	winner := fund.Member(best.ParticipantID)
	if winner == nil {
		return models.Outcome{}, fmt.Errorf("%w: %s", ErrUnknownBidder, best.ParticipantID)
	}

	winner.Receive(best.Amount)

	return models.Outcome{
		Kind:        models.OutcomeDistributed,
		Participant: winner,
		Bid:         best,
		Amount:      best.Amount,
	}, nil
}
