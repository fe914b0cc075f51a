// Package models defines the core domain models for chit fund administration.
//
// # Models
//
//   - Fund: a rotating savings pool with a fixed total and duration in months
//   - Participant: a member who can join funds and receive payouts
//   - Bid: an offer by a member of a fund for one auction round
//   - Membership: the persisted link between a fund and a participant
//   - Outcome: the result of resolving one auction round
//
// # Relationships
//
// A participant is a single record shared by every fund it joins. Funds hold
// pointers to the shared Participant values so a payout credited through one
// fund is visible through all of them. Bids reference their fund and bidder by
// ID string, never by pointer.
//
// All monetary values are decimal.Decimal.
package models
