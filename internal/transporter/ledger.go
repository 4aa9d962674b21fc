package transporter

import (
	"context"

	"github.com/FreightLink/FreightLink/internal/common/errs"
	"github.com/FreightLink/FreightLink/internal/common/logger"
)

// Ledger is the only place where truck counts change. Every mutation is a
// compare-and-swap on the pool's revision, so concurrent deductions against
// the same pool serialize: one wins, the rest see a conflict and must restart
// their whole operation.
type Ledger struct {
	store Store
	log   logger.Logger
}

func NewLedger(store Store, log logger.Logger) *Ledger {
	return &Ledger{store: store, log: log}
}

// TryDeduct removes amount trucks from the (transporterID, truckType) pool.
// Failure modes: errs.NotFound (no such pool), errs.InsufficientCapacity
// (available < amount, no mutation), errs.ConcurrencyConflict (another writer
// advanced the revision between the read and the conditioned write; the
// caller must re-evaluate its whole operation, not just retry the deduction).
func (l *Ledger) TryDeduct(ctx context.Context, transporterID, truckType string, amount int) error {
	if amount <= 0 {
		return errs.Validation("deduct amount must be positive, got %d", amount)
	}

	pool, err := l.store.GetPool(ctx, transporterID, truckType)
	if err != nil {
		return err
	}
	if pool.Available < amount {
		return errs.InsufficientCapacity(truckType, amount, pool.Available)
	}

	if err := l.store.UpdatePool(ctx, pool.ID, pool.Available-amount, pool.Revision); err != nil {
		if errs.Is(err, errs.KindConcurrencyConflict) && l.log != nil {
			l.log.Warnf("capacity deduct lost a race: transporter=%s type=%s amount=%d",
				transporterID, truckType, amount)
		}
		return err
	}

	if l.log != nil {
		l.log.Infof("deducted %d %s trucks from transporter %s (remaining %d)",
			amount, truckType, transporterID, pool.Available-amount)
	}
	return nil
}

// restoreAttempts bounds Restore's re-read/re-CAS loop. Unlike a deduction,
// a restoration is always satisfiable after a fresh read, so a lost race is
// retried here instead of surfacing to the caller, who by then may have
// committed state (a CANCELLED booking) that must not strand truck units.
const restoreAttempts = 3

// Restore adds amount trucks back to the pool. A conditioned write that
// loses a race is retried against a fresh read; only an exhausted retry
// budget surfaces as ConcurrencyConflict.
func (l *Ledger) Restore(ctx context.Context, transporterID, truckType string, amount int) error {
	if amount <= 0 {
		return errs.Validation("restore amount must be positive, got %d", amount)
	}

	for attempt := 0; attempt < restoreAttempts; attempt++ {
		pool, err := l.store.GetPool(ctx, transporterID, truckType)
		if err != nil {
			return err
		}

		err = l.store.UpdatePool(ctx, pool.ID, pool.Available+amount, pool.Revision)
		if err == nil {
			if l.log != nil {
				l.log.Infof("restored %d %s trucks to transporter %s (now %d)",
					amount, truckType, transporterID, pool.Available+amount)
			}
			return nil
		}
		if !errs.Is(err, errs.KindConcurrencyConflict) {
			return err
		}
		if l.log != nil {
			l.log.Warnf("capacity restore lost a race: transporter=%s type=%s amount=%d, re-reading (attempt %d)",
				transporterID, truckType, amount, attempt+1)
		}
	}
	return errs.ConcurrencyConflict("CapacityPool", "could not restore capacity after repeated conflicts")
}

// Available reports the current count for a pool; a transporter that never
// declared the truck type counts as zero.
func (l *Ledger) Available(ctx context.Context, transporterID, truckType string) (int, error) {
	pool, err := l.store.GetPool(ctx, transporterID, truckType)
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return pool.Available, nil
}
