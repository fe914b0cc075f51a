// Package registry is the central lookup and mutation point for funds,
// participants and bids. Every successful change is written through to a
// storage.Store.
//
// A Registry is not safe for concurrent use; the application drives it from a
// single command loop.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/chitfund/internal/auction"
	"github.com/mmynk/chitfund/internal/models"
	"github.com/mmynk/chitfund/internal/storage"
)

// Registry holds all funds and participants in memory.
type Registry struct {
	store storage.Store

	funds     map[string]*models.Fund
	fundOrder []*models.Fund

	participants     map[string]*models.Participant
	participantOrder []*models.Participant
}

// New creates an empty Registry that writes through to store.
// Call Load to populate it from the store.
func New(store storage.Store) *Registry {
	return &Registry{
		store:        store,
		funds:        make(map[string]*models.Fund),
		participants: make(map[string]*models.Participant),
	}
}

// Load replaces the registry contents with everything in the store,
// reattaching members and bids to their funds.
// Any store failure or dangling reference is a *PersistenceError.
func (r *Registry) Load(ctx context.Context) error {
	snapshot, err := r.store.Load(ctx)
	if err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}

	funds := make(map[string]*models.Fund, len(snapshot.Funds))
	fundOrder := make([]*models.Fund, 0, len(snapshot.Funds))
	for _, fund := range snapshot.Funds {
		if !fund.TotalAmount.IsPositive() || fund.NumberOfMonths <= 0 {
			return &PersistenceError{Op: "load", Err: fmt.Errorf("fund %s has total %s over %d months", fund.ID, fund.TotalAmount, fund.NumberOfMonths)}
		}
		fund.Participants = nil
		fund.Bids = nil
		funds[fund.ID] = fund
		fundOrder = append(fundOrder, fund)
	}

	participants := make(map[string]*models.Participant, len(snapshot.Participants))
	participantOrder := make([]*models.Participant, 0, len(snapshot.Participants))
	for _, p := range snapshot.Participants {
		if p.AmountReceived.IsNegative() {
			return &PersistenceError{Op: "load", Err: fmt.Errorf("participant %s has negative amount received %s", p.ID, p.AmountReceived)}
		}
		participants[p.ID] = p
		participantOrder = append(participantOrder, p)
	}

	for _, m := range snapshot.Memberships {
		fund, ok := funds[m.FundID]
		if !ok {
			return &PersistenceError{Op: "load", Err: fmt.Errorf("membership references unknown fund %s", m.FundID)}
		}
		p, ok := participants[m.ParticipantID]
		if !ok {
			return &PersistenceError{Op: "load", Err: fmt.Errorf("membership references unknown participant %s", m.ParticipantID)}
		}
		fund.Participants = append(fund.Participants, p)
	}

	for _, bid := range snapshot.Bids {
		fund, ok := funds[bid.FundID]
		if !ok {
			return &PersistenceError{Op: "load", Err: fmt.Errorf("bid %d references unknown fund %s", bid.ID, bid.FundID)}
		}
		if fund.Member(bid.ParticipantID) == nil {
			return &PersistenceError{Op: "load", Err: fmt.Errorf("bid %d references non-member %s of fund %s", bid.ID, bid.ParticipantID, bid.FundID)}
		}
		if !bid.Amount.IsPositive() {
			return &PersistenceError{Op: "load", Err: fmt.Errorf("bid %d has non-positive amount %s", bid.ID, bid.Amount)}
		}
		fund.Bids = append(fund.Bids, bid)
	}

	r.funds = funds
	r.fundOrder = fundOrder
	r.participants = participants
	r.participantOrder = participantOrder
	return nil
}

// CreateFund registers and persists a new fund. An empty id is replaced by a
// generated UUID.
func (r *Registry) CreateFund(ctx context.Context, id string, totalAmount decimal.Decimal, months int) (*models.Fund, error) {
	if err := checkAmount("total amount", totalAmount); err != nil {
		return nil, err
	}
	if months <= 0 {
		return nil, &InvalidAmountError{Field: "number of months", Value: fmt.Sprint(months)}
	}
	if id == "" {
		id = uuid.New().String()
	}
	if _, exists := r.funds[id]; exists {
		return nil, &DuplicateIDError{Kind: "fund", ID: id}
	}

	fund := &models.Fund{
		ID:             id,
		TotalAmount:    totalAmount,
		NumberOfMonths: months,
		CreatedAt:      time.Now().Unix(),
	}
	r.funds[id] = fund
	r.fundOrder = append(r.fundOrder, fund)

	if err := r.store.CreateFund(ctx, fund); err != nil {
		return fund, &PersistenceError{Op: "create fund", Err: err}
	}
	return fund, nil
}

// AddParticipant makes a participant a member of a fund.
//
// If participantID is already known, the existing record is reused and name
// must be empty or equal to its name. Otherwise a new participant is created;
// an empty participantID is replaced by a generated UUID.
func (r *Registry) AddParticipant(ctx context.Context, fundID, participantID, name string) (*models.Participant, error) {
	fund, ok := r.funds[fundID]
	if !ok {
		return nil, &NotFoundError{Kind: "fund", ID: fundID}
	}

	participant, existing := r.participants[participantID]
	if existing {
		if name != "" && name != participant.Name {
			return nil, &DuplicateIDError{Kind: "participant", ID: participantID}
		}
		if fund.Member(participantID) != nil {
			return nil, &DuplicateIDError{Kind: "member", ID: participantID, FundID: fundID}
		}
	} else {
		if participantID == "" {
			participantID = uuid.New().String()
		}
		participant = &models.Participant{ID: participantID, Name: name, AmountReceived: decimal.Zero}
		r.participants[participantID] = participant
		r.participantOrder = append(r.participantOrder, participant)
	}

	fund.Participants = append(fund.Participants, participant)
	membership := models.Membership{
		FundID:        fundID,
		ParticipantID: participantID,
		Position:      len(fund.Participants) - 1,
	}

	// The membership row needs the participant row, so stop at the first failure.
	if !existing {
		if err := r.store.CreateParticipant(ctx, participant); err != nil {
			return participant, &PersistenceError{Op: "create participant", Err: err}
		}
	}
	if err := r.store.AddMember(ctx, membership); err != nil {
		return participant, &PersistenceError{Op: "add member", Err: err}
	}
	return participant, nil
}

// RecordBid appends a bid by a member of the fund.
func (r *Registry) RecordBid(ctx context.Context, fundID, participantID string, amount decimal.Decimal) (*models.Bid, error) {
	fund, ok := r.funds[fundID]
	if !ok {
		return nil, &NotFoundError{Kind: "fund", ID: fundID}
	}
	if fund.Member(participantID) == nil {
		return nil, &NotFoundError{Kind: "participant", ID: participantID, FundID: fundID}
	}
	if err := checkAmount("bid amount", amount); err != nil {
		return nil, err
	}

	bid := &models.Bid{
		FundID:        fundID,
		ParticipantID: participantID,
		Amount:        amount,
		CreatedAt:     time.Now().Unix(),
	}
	fund.Bids = append(fund.Bids, bid)

	if err := r.store.CreateBid(ctx, bid); err != nil {
		return bid, &PersistenceError{Op: "create bid", Err: err}
	}
	return bid, nil
}

// Resolve runs an auction round for the fund and persists the winner's new
// balance. Resolving again without new bids pays the same winner again.
func (r *Registry) Resolve(ctx context.Context, fundID string) (models.Outcome, error) {
	fund, ok := r.funds[fundID]
	if !ok {
		return models.Outcome{}, &NotFoundError{Kind: "fund", ID: fundID}
	}

	outcome, err := auction.Resolve(fund)
	if err != nil {
		return models.Outcome{}, err
	}
	if !outcome.Distributed() {
		return outcome, nil
	}

	if err := r.store.UpdateParticipant(ctx, outcome.Participant); err != nil {
		return outcome, &PersistenceError{Op: "record payout", Err: err}
	}
	return outcome, nil
}

// maxAmount bounds accepted amounts. With at most two decimal places this
// keeps 15 significant digits, which a REAL column stores exactly.
var maxAmount = decimal.New(1, 13)

// amountPlaces is the number of decimal places an amount may carry.
const amountPlaces = 2

// checkAmount rejects amounts that are not positive or would not survive a
// round trip through the store unchanged.
func checkAmount(field string, amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return &InvalidAmountError{Field: field, Value: amount.String()}
	case amount.GreaterThanOrEqual(maxAmount):
		return &InvalidAmountError{Field: field, Value: amount.String(), Reason: "must be less than " + maxAmount.String()}
	case !amount.Equal(amount.Truncate(amountPlaces)):
		return &InvalidAmountError{Field: field, Value: amount.String(), Reason: "must have at most 2 decimal places"}
	}
	return nil
}

// FindFund returns the fund with the given ID.
func (r *Registry) FindFund(fundID string) (*models.Fund, bool) {
	fund, ok := r.funds[fundID]
	return fund, ok
}

// ListFunds returns all funds in creation order.
func (r *Registry) ListFunds() []*models.Fund {
	funds := make([]*models.Fund, len(r.fundOrder))
	copy(funds, r.fundOrder)
	return funds
}

// FindParticipant returns the participant with the given ID.
func (r *Registry) FindParticipant(participantID string) (*models.Participant, bool) {
	p, ok := r.participants[participantID]
	return p, ok
}

// ListParticipants returns all participants in creation order.
func (r *Registry) ListParticipants() []*models.Participant {
	participants := make([]*models.Participant, len(r.participantOrder))
	copy(participants, r.participantOrder)
	return participants
}

// Tables returns the raw contents of the backing store.
func (r *Registry) Tables(ctx context.Context) ([]storage.Table, error) {
	tables, err := r.store.Tables(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list tables", Err: err}
	}
	return tables, nil
}
