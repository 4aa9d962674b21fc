package load

import "context"

// Filter narrows List results.
type Filter struct {
	ShipperID string
	Status    Status
	Offset    int
	Limit     int
}

// Store is the persistence contract for loads.
type Store interface {
	Create(ctx context.Context, l *Load) error
	GetByID(ctx context.Context, id string) (*Load, error)
	List(ctx context.Context, f Filter) ([]Load, int64, error)

	// UpdateStatus writes the new status conditioned on expectedRevision
	// being current, advancing the revision. Stale revisions yield
	// errs.ConcurrencyConflict.
	UpdateStatus(ctx context.Context, id string, to Status, expectedRevision int64) error
}

// AllocationReader reports committed truck allocation, implemented by the
// booking store.
type AllocationReader interface {
	SumConfirmedTrucks(ctx context.Context, loadID string) (int, error)
}

// BidBook is the slice of the bid store the load lifecycle needs: counting
// active bids and force-rejecting the pending ones when the load closes.
type BidBook interface {
	CountPending(ctx context.Context, loadID string) (int, error)
	RejectPending(ctx context.Context, loadID string) (int, error)
}
