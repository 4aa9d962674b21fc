package booking

import "context"

// Store is the persistence contract for bookings. UpdateStatus is
// conditioned on the current status so that concurrent cancels cannot both
// succeed; SumConfirmedTrucks feeds the load allocation resync.
type Store interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, f Filter) ([]*Booking, error)
	ExistsForBid(ctx context.Context, bidID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	SumConfirmedTrucks(ctx context.Context, loadID string) (int, error)
}

// Filter narrows List. Zero values mean no constraint.
type Filter struct {
	LoadID        string
	TransporterID string
	Status        Status
}
