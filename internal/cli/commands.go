package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/number"

	"github.com/mmynk/chitfund/internal/service"
)

func (a *App) createFund(ctx context.Context, args []string) error {
	resp, err := a.svc.CreateFund(ctx, service.CreateFundRequest{
		ID:          args[0],
		TotalAmount: args[1],
		Months:      args[2],
	})
	if err != nil {
		return err
	}

	fund := resp.Fund
	fmt.Fprintf(a.out, "Chit fund %s created: %s over %d months (installment %s)\n",
		fund.ID, a.amount(fund.TotalAmount), fund.NumberOfMonths, a.amount(fund.Installment()))
	return nil
}

func (a *App) addParticipant(ctx context.Context, args []string) error {
	resp, err := a.svc.AddParticipant(ctx, service.AddParticipantRequest{
		FundID:        args[0],
		ParticipantID: args[1],
		Name:          strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Participant %s (%s) added to %s, %d members\n",
		resp.Participant.ID, resp.Participant.Name, resp.Fund.ID, len(resp.Fund.Participants))
	return nil
}

func (a *App) placeBid(ctx context.Context, args []string) error {
	resp, err := a.svc.PlaceBid(ctx, service.PlaceBidRequest{
		FundID:        args[0],
		ParticipantID: args[1],
		Amount:        args[2],
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Bid #%d of %s recorded for %s in %s\n",
		resp.Bid.ID, a.amount(resp.Bid.Amount), resp.Participant.Name, resp.Bid.FundID)
	return nil
}

func (a *App) resolve(ctx context.Context, args []string) error {
	resp, err := a.svc.Resolve(ctx, service.ResolveRequest{FundID: args[0]})
	if err != nil {
		return err
	}

	if !resp.Outcome.Distributed() {
		fmt.Fprintf(a.out, "No bids available for distribution in %s.\n", resp.FundID)
		return nil
	}
	fmt.Fprintf(a.out, "Amount %s distributed to: %s\n",
		a.amount(resp.Outcome.Amount), resp.Outcome.Participant.Name)
	return nil
}

func (a *App) list(ctx context.Context, _ []string) error {
	resp, err := a.svc.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(resp.Funds) == 0 {
		fmt.Fprintln(a.out, "No chit funds available.")
		return nil
	}

	for i, view := range resp.Funds {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		s := view.Summary
		fmt.Fprintf(a.out, "Chit Fund %s: total %s, %d months, installment %s\n",
			s.FundID, a.amount(s.TotalAmount), s.NumberOfMonths, a.amount(s.Installment))

		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  PARTICIPANT\tNAME\tRECEIVED")
		for _, p := range view.Fund.Participants {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.ID, p.Name, a.amount(p.AmountReceived))
		}
		tw.Flush()

		if len(view.Bids) == 0 {
			fmt.Fprintln(a.out, "  No bids.")
			continue
		}
		tw = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  BID\tBIDDER\tAMOUNT")
		for _, b := range view.Bids {
			fmt.Fprintf(tw, "  #%d\t%s\t%s\n", b.Bid.ID, b.ParticipantName, a.amount(b.Bid.Amount))
		}
		tw.Flush()
		fmt.Fprintf(a.out, "  Leading bid: %s by %s\n", a.amount(s.Leading.Amount), view.Leader)
	}
	return nil
}

func (a *App) tables(ctx context.Context, _ []string) error {
	resp, err := a.svc.ListRawTables(ctx)
	if err != nil {
		return err
	}

	for i, table := range resp.Tables {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		fmt.Fprintf(a.out, "%s (%d rows)\n", table.Name, len(table.Rows))

		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(table.Columns, "\t"))
		for _, row := range table.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		tw.Flush()
	}
	return nil
}

// amount renders a monetary value with two decimals and locale grouping.
func (a *App) amount(d decimal.Decimal) string {
	return a.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}
