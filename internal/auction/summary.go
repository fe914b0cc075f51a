package auction

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/chitfund/internal/models"
)

// Summary is the aggregated view of one fund shown in listings.
type Summary struct {
	FundID         string
	TotalAmount    decimal.Decimal
	NumberOfMonths int
	Installment    decimal.Decimal // Monthly contribution per fund
	Members        int
	Bids           int
	BidTotal       decimal.Decimal // Sum of all bid amounts
	Leading        *models.Bid     // Bid that would win if resolved now; nil without bids
}

// Summarize aggregates a fund's membership and bids. It does not mutate the fund.
func Summarize(fund *models.Fund) Summary {
	total := decimal.Zero
	for _, bid := range fund.Bids {
		total = total.Add(bid.Amount)
	}

	return Summary{
		FundID:         fund.ID,
		TotalAmount:    fund.TotalAmount,
		NumberOfMonths: fund.NumberOfMonths,
		Installment:    fund.Installment(),
		Members:        len(fund.Participants),
		Bids:           len(fund.Bids),
		BidTotal:       total,
		Leading:        HighestBid(fund.Bids),
	}
}
