package registry

import "fmt"

// DuplicateIDError is returned when creating a record whose ID is taken.
// Kind is "fund", "participant" or "member".
type DuplicateIDError struct {
	Kind string
	ID   string
	// FundID is set for Kind "member".
	FundID string
}

func (e *DuplicateIDError) Error() string {
	if e.Kind == "member" {
		return fmt.Sprintf("participant %s is already a member of fund %s", e.ID, e.FundID)
	}
	return fmt.Sprintf("%s %s already exists", e.Kind, e.ID)
}

// NotFoundError is returned when a command references an unknown fund, or a
// participant who is not a member of the referenced fund.
type NotFoundError struct {
	Kind string // "fund" or "participant"
	ID   string
	// FundID is set when a participant was looked up within a fund.
	FundID string
}

func (e *NotFoundError) Error() string {
	if e.FundID != "" {
		return fmt.Sprintf("%s %s not found in fund %s", e.Kind, e.ID, e.FundID)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvalidAmountError is returned for an unparseable, non-positive or
// out-of-range amount.
type InvalidAmountError struct {
	Field string
	Value string
	// Reason replaces the default "must be a positive number".
	Reason string
}

func (e *InvalidAmountError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "must be a positive number"
	}
	return fmt.Sprintf("invalid %s: %q %s", e.Field, e.Value, reason)
}

// PersistenceError wraps a store failure. When returned from a mutating
// call, the in-memory change has already been applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
