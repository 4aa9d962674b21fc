package bid

import "context"

// Filter narrows List results; empty fields match everything.
type Filter struct {
	LoadID        string
	TransporterID string
	Status        Status
}

// Store is the persistence contract for bids.
type Store interface {
	Create(ctx context.Context, b *Bid) error
	GetByID(ctx context.Context, id string) (*Bid, error)
	List(ctx context.Context, f Filter) ([]Bid, error)

	// ListPending returns the load's PENDING bids in submission order.
	ListPending(ctx context.Context, loadID string) ([]Bid, error)
	Exists(ctx context.Context, loadID, transporterID string) (bool, error)

	// UpdateStatus flips the status conditioned on the current value being
	// from; a mismatch yields errs.InvalidTransition. This is what makes
	// concurrent accepts of the same bid mutually exclusive.
	UpdateStatus(ctx context.Context, id string, from, to Status) error

	// Load-lifecycle hooks (load.BidBook).
	CountPending(ctx context.Context, loadID string) (int, error)
	RejectPending(ctx context.Context, loadID string) (int, error)
}
