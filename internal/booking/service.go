package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/FreightLink/FreightLink/internal/bid"
	"github.com/FreightLink/FreightLink/internal/common/errs"
	"github.com/FreightLink/FreightLink/internal/common/logger"
	"github.com/FreightLink/FreightLink/internal/load"
	"github.com/FreightLink/FreightLink/internal/transporter"
)

// Service turns accepted bids into bookings. It owns the allocation path:
// capacity is deducted before the bid flips to ACCEPTED, and any step that
// fails after the deduction must restore it. At most one booking can ever
// exist for a bid.
type Service struct {
	store  Store
	bids   *bid.Service
	loads  *load.Service
	ledger *transporter.Ledger
	log    logger.Logger
}

func NewService(store Store, bids *bid.Service, loads *load.Service, ledger *transporter.Ledger, log logger.Logger) *Service {
	return &Service{store: store, bids: bids, loads: loads, ledger: ledger, log: log}
}

// CreateInput carries the accept request. TrucksToAllocate zero means the
// full trucksOffered of the bid.
type CreateInput struct {
	BidID            string
	TrucksToAllocate int
}

// Create accepts a bid and allocates transporter capacity.
//
// Ordering matters here. The pool deduction happens first so that capacity
// can never go negative; the conditioned PENDING -> ACCEPTED flip happens
// second so that when two callers race on the same bid, the loser's
// deduction is compensated and exactly one booking row is written.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Booking, error) {
	b, err := s.bids.Get(ctx, in.BidID)
	if err != nil {
		return nil, err
	}
	if !b.CanBeAccepted() {
		return nil, errs.InvalidTransition("Bid", string(b.Status), "accept")
	}

	taken, err := s.store.ExistsForBid(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.Conflictf("Booking", "bid %s already has a booking", b.ID)
	}

	lv, err := s.loads.Get(ctx, b.LoadID)
	if err != nil {
		return nil, err
	}
	if !lv.CanAcceptBids() {
		return nil, errs.InvalidTransition("Load", string(lv.Status), "book")
	}

	trucks := in.TrucksToAllocate
	if trucks == 0 {
		trucks = b.TrucksOffered
	}
	if trucks < 0 {
		return nil, errs.Validation("trucksToAllocate must be positive")
	}
	if trucks > b.TrucksOffered {
		return nil, errs.Validation("cannot allocate %d trucks, bid offered %d", trucks, b.TrucksOffered)
	}
	if trucks > lv.RemainingTrucks {
		return nil, errs.Validation("cannot allocate %d trucks, load needs only %d more", trucks, lv.RemainingTrucks)
	}

	if err := s.ledger.TryDeduct(ctx, b.TransporterID, lv.TruckType, trucks); err != nil {
		return nil, err
	}

	if err := s.bids.Accept(ctx, b.ID); err != nil {
		if rerr := s.ledger.Restore(ctx, b.TransporterID, lv.TruckType, trucks); rerr != nil {
			s.log.Errorf("restore after lost accept failed: transporter %s, %d %s trucks: %v",
				b.TransporterID, trucks, lv.TruckType, rerr)
		}
		return nil, err
	}

	bk := &Booking{
		ID:              uuid.NewString(),
		LoadID:          b.LoadID,
		BidID:           b.ID,
		TransporterID:   b.TransporterID,
		AllocatedTrucks: trucks,
		FinalRate:       b.ProposedRate,
		Status:          StatusConfirmed,
	}
	if err := s.store.Create(ctx, bk); err != nil {
		if rerr := s.ledger.Restore(ctx, b.TransporterID, lv.TruckType, trucks); rerr != nil {
			s.log.Errorf("restore after failed booking insert failed: transporter %s, %d %s trucks: %v",
				b.TransporterID, trucks, lv.TruckType, rerr)
		}
		return nil, err
	}

	if err := s.loads.SyncAllocation(ctx, b.LoadID); err != nil {
		s.log.Warnf("allocation sync after booking %s: %v", bk.ID, err)
	}

	s.log.Infof("booking created: %s (load %s, bid %s, %d trucks @ %.2f)",
		bk.ID, bk.LoadID, bk.BidID, bk.AllocatedTrucks, bk.FinalRate)
	return bk, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Booking, error) {
	return s.store.List(ctx, f)
}

// Cancel releases a confirmed booking's trucks back to the transporter's
// pool. The conditioned status flip runs first so that two concurrent
// cancels of the same booking restore capacity exactly once. The bid stays
// ACCEPTED; it records history, not current allocation.
func (s *Service) Cancel(ctx context.Context, id string) (*Booking, error) {
	bk, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !bk.CanBeCancelled() {
		return nil, errs.InvalidTransition("Booking", string(bk.Status), "cancel")
	}

	if err := s.store.UpdateStatus(ctx, id, StatusConfirmed, StatusCancelled); err != nil {
		return nil, err
	}

	lv, err := s.loads.Get(ctx, bk.LoadID)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Restore(ctx, bk.TransporterID, lv.TruckType, bk.AllocatedTrucks); err != nil {
		s.log.Errorf("capacity restore for cancelled booking %s failed: %v", id, err)
		return nil, err
	}

	if err := s.loads.SyncAllocation(ctx, bk.LoadID); err != nil {
		s.log.Warnf("allocation sync after cancelling booking %s: %v", id, err)
	}

	s.log.Infof("booking cancelled: %s (%d trucks restored)", id, bk.AllocatedTrucks)
	bk.Status = StatusCancelled
	return bk, nil
}

// Complete marks a delivered booking COMPLETED. Capacity stays deducted
// until the trucks are released by fulfillment, which is outside this
// service; completion only finalizes the record.
func (s *Service) Complete(ctx context.Context, id string) (*Booking, error) {
	bk, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bk.Status != StatusConfirmed {
		return nil, errs.InvalidTransition("Booking", string(bk.Status), "complete")
	}
	if err := s.store.UpdateStatus(ctx, id, StatusConfirmed, StatusCompleted); err != nil {
		return nil, err
	}
	s.log.Infof("booking completed: %s", id)
	bk.Status = StatusCompleted
	return bk, nil
}
