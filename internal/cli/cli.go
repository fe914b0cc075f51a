// Package cli is the terminal front end. It turns command lines into service
// requests and renders the results.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mmynk/chitfund/internal/metrics"
	"github.com/mmynk/chitfund/internal/middleware"
	"github.com/mmynk/chitfund/internal/service"
)

const prompt = "chitfund> "

// command describes one user action.
type command struct {
	usage   string
	help    string
	minArgs int
	maxArgs int // -1 for no limit
	run     func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"create-fund": {
		usage:   "create-fund <fund-id> <total-amount> <months>",
		help:    "create a new chit fund",
		minArgs: 3,
		maxArgs: 3,
		run:     (*App).createFund,
	},
	"add-participant": {
		usage:   "add-participant <fund-id> <participant-id> <name>",
		help:    "add a participant to a fund",
		minArgs: 3,
		maxArgs: -1,
		run:     (*App).addParticipant,
	},
	"place-bid": {
		usage:   "place-bid <fund-id> <participant-id> <amount>",
		help:    "place a bid for the next payout",
		minArgs: 3,
		maxArgs: 3,
		run:     (*App).placeBid,
	},
	"resolve": {
		usage:   "resolve <fund-id>",
		help:    "pay the pool to the highest bidder",
		minArgs: 1,
		maxArgs: 1,
		run:     (*App).resolve,
	},
	"list": {
		usage:   "list",
		help:    "show every fund with members and bids",
		minArgs: 0,
		maxArgs: 0,
		run:     (*App).list,
	},
	"tables": {
		usage:   "tables",
		help:    "show the raw database tables",
		minArgs: 0,
		maxArgs: 0,
		run:     (*App).tables,
	},
}

// commandOrder fixes the help listing order.
var commandOrder = []string{"create-fund", "add-participant", "place-bid", "resolve", "list", "tables"}

// App executes commands against a ChitService.
type App struct {
	svc     *service.ChitService
	out     io.Writer
	printer *message.Printer
	handle  middleware.CommandFunc
}

// New creates an App writing to out and formatting amounts for locale.
// m may be nil.
func New(svc *service.ChitService, out io.Writer, locale language.Tag, m *metrics.Metrics) *App {
	a := &App{
		svc:     svc,
		out:     out,
		printer: message.NewPrinter(locale),
	}
	a.handle = middleware.Logging(m)(a.dispatch)
	return a
}

// Run executes a single command line. "shell" starts an interactive session
// on in; no arguments prints help.
func (a *App) Run(ctx context.Context, args []string, in io.Reader) error {
	if len(args) == 0 || args[0] == "help" {
		a.printHelp()
		return nil
	}
	if args[0] == "shell" {
		return a.Shell(ctx, in)
	}
	return a.handle(ctx, args[0], args[1:])
}

// Shell reads commands line by line until EOF, "quit" or "exit".
// Command errors are printed and the session continues. Cancelling ctx ends
// the session even while it waits for input; the pending read is abandoned.
func (a *App) Shell(ctx context.Context, in io.Reader) error {
	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(in, done)

	fmt.Fprint(a.out, prompt)
	for {
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(a.out)
				return <-readErr
			}
			line = l
		}

		fields := strings.Fields(line)
		switch {
		case len(fields) == 0:
		case fields[0] == "quit" || fields[0] == "exit":
			return nil
		case fields[0] == "help":
			a.printHelp()
		default:
			if err := a.handle(ctx, fields[0], fields[1:]); err != nil {
				fmt.Fprintf(a.out, "Error: %s\n", Message(err))
			}
		}
		fmt.Fprint(a.out, prompt)
	}
}

// readLines scans in on its own goroutine until done is closed. lines is
// closed at EOF or on a read error, after which readErr yields the scanner
// error (nil at EOF).
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr
}

func (a *App) dispatch(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q (try help)", middleware.ErrUsage, name)
	}
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return fmt.Errorf("%w: %s", middleware.ErrUsage, cmd.usage)
	}
	return cmd.run(a, ctx, args)
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "Commands:")
	for _, name := range commandOrder {
		cmd := commands[name]
		fmt.Fprintf(a.out, "  %-52s %s\n", cmd.usage, cmd.help)
	}
	fmt.Fprintf(a.out, "  %-52s %s\n", "shell", "start an interactive session")
}

// Message turns a command error into text for the user.
func Message(err error) string {
	if errors.Is(err, middleware.ErrUsage) {
		return strings.TrimPrefix(err.Error(), middleware.ErrUsage.Error()+": ")
	}
	switch middleware.ErrorKind(err) {
	case "persistence":
		return fmt.Sprintf("could not save to the database, restart to reload saved data (%v)", err)
	default:
		return err.Error()
	}
}
