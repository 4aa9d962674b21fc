package transporter

import "context"

// Store is the persistence contract for transporters and their capacity
// pools. Implementations: the gorm Repo and the in-memory store.
type Store interface {
	Create(ctx context.Context, t *Transporter, pools []CapacityPool) error
	GetByID(ctx context.Context, id string) (*Transporter, error)
	ListPools(ctx context.Context, transporterID string) ([]CapacityPool, error)

	// GetPool returns errs.NotFound when the transporter has never declared
	// capacity for the truck type.
	GetPool(ctx context.Context, transporterID, truckType string) (*CapacityPool, error)
	CreatePool(ctx context.Context, p *CapacityPool) error

	// UpdatePool writes a new available count conditioned on expectedRevision
	// still being current, advancing the revision. A stale revision yields
	// errs.ConcurrencyConflict and no mutation.
	UpdatePool(ctx context.Context, poolID string, available int, expectedRevision int64) error
}
