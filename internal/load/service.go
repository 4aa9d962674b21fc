package load

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FreightLink/FreightLink/internal/common/errs"
	"github.com/FreightLink/FreightLink/internal/common/logger"
)

// syncAttempts bounds the internal compare-and-swap retries of the derived
// status transitions (OpenForBids, SyncAllocation). Every retry re-reads the
// load and is logged; user-facing operations never retry.
const syncAttempts = 3

// Service owns the load lifecycle. All status writes go through the state
// machine rules in state_machine.go and the store's conditioned write.
type Service struct {
	store    Store
	bookings AllocationReader
	bids     BidBook
	log      logger.Logger
}

func NewService(store Store, bookings AllocationReader, bids BidBook, log logger.Logger) *Service {
	return &Service{store: store, bookings: bookings, bids: bids, log: log}
}

// CreateInput is the load creation command, already syntactically validated
// by the transport layer.
type CreateInput struct {
	ShipperID      string
	LoadingCity    string
	UnloadingCity  string
	LoadingDate    time.Time
	ProductType    string
	Weight         float64
	WeightUnit     WeightUnit
	TruckType      string
	RequiredTrucks int
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Load, error) {
	if strings.TrimSpace(in.ShipperID) == "" {
		return nil, errs.Validation("shipper id is required")
	}
	if in.RequiredTrucks < 1 {
		return nil, errs.Validation("required trucks must be at least 1, got %d", in.RequiredTrucks)
	}
	if in.Weight <= 0 {
		return nil, errs.Validation("weight must be positive")
	}
	if !ValidWeightUnit(in.WeightUnit) {
		return nil, errs.Validation("weight unit must be KG or TON, got %q", in.WeightUnit)
	}
	truckType := strings.ToUpper(strings.TrimSpace(in.TruckType))
	if truckType == "" {
		return nil, errs.Validation("truck type is required")
	}

	l := &Load{
		ID:             uuid.NewString(),
		ShipperID:      strings.TrimSpace(in.ShipperID),
		LoadingCity:    strings.TrimSpace(in.LoadingCity),
		UnloadingCity:  strings.TrimSpace(in.UnloadingCity),
		LoadingDate:    in.LoadingDate,
		ProductType:    strings.TrimSpace(in.ProductType),
		Weight:         in.Weight,
		WeightUnit:     in.WeightUnit,
		TruckType:      truckType,
		RequiredTrucks: in.RequiredTrucks,
		Status:         StatusPosted,
	}

	if err := s.store.Create(ctx, l); err != nil {
		return nil, err
	}

	s.log.Infof("load created: %s (shipper %s, %d x %s)", l.ID, l.ShipperID, l.RequiredTrucks, l.TruckType)
	return l, nil
}

// Get returns the load with its remaining trucks and active bid count.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, l)
}

// List returns a page of loads, each with its computed figures, plus the
// total match count.
func (s *Service) List(ctx context.Context, f Filter) ([]View, int64, error) {
	loads, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	views := make([]View, 0, len(loads))
	for i := range loads {
		v, err := s.view(ctx, &loads[i])
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *v)
	}
	return views, total, nil
}

func (s *Service) view(ctx context.Context, l *Load) (*View, error) {
	remaining, err := s.remainingOf(ctx, l)
	if err != nil {
		return nil, err
	}
	active, err := s.bids.CountPending(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return &View{Load: *l, RemainingTrucks: remaining, ActiveBids: active}, nil
}

// Remaining is requiredTrucks minus the confirmed allocation.
func (s *Service) Remaining(ctx context.Context, id string) (int, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.remainingOf(ctx, l)
}

func (s *Service) remainingOf(ctx context.Context, l *Load) (int, error) {
	allocated, err := s.bookings.SumConfirmedTrucks(ctx, l.ID)
	if err != nil {
		return 0, err
	}
	return l.RequiredTrucks - allocated, nil
}

// transition performs the conditioned status write after consulting the
// transition graph. Every status change of a load funnels through here, so
// AllowTransition is the single authority on permitted flows.
func (s *Service) transition(ctx context.Context, l *Load, to Status) error {
	if !CanTransition(l.Status, to) {
		return errs.InvalidTransition("Load", string(l.Status), string(to))
	}
	return s.store.UpdateStatus(ctx, l.ID, to, l.Revision)
}

// Cancel moves the load to CANCELLED and force-rejects its pending bids.
// Only POSTED and OPEN_FOR_BIDS loads can be cancelled; the status write is a
// single conditioned attempt, a lost race surfaces as ConcurrencyConflict.
func (s *Service) Cancel(ctx context.Context, id string) (*Load, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.CanBeCancelled() {
		return nil, errs.InvalidTransition("Load", string(l.Status), "cancel")
	}

	if err := s.transition(ctx, l, StatusCancelled); err != nil {
		return nil, err
	}

	rejected, err := s.bids.RejectPending(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Infof("load cancelled: %s (%d pending bids rejected)", id, rejected)
	l.Status = StatusCancelled
	l.Revision++
	return l, nil
}

// OpenForBids transitions POSTED -> OPEN_FOR_BIDS when the first bid lands.
// A no-op for any later status.
func (s *Service) OpenForBids(ctx context.Context, id string) error {
	for attempt := 0; attempt < syncAttempts; attempt++ {
		l, err := s.store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if l.Status != StatusPosted {
			return nil
		}

		err = s.transition(ctx, l, StatusOpenForBids)
		if err == nil {
			s.log.Infof("load %s is now open for bids", id)
			return nil
		}
		if !errs.Is(err, errs.KindConcurrencyConflict) {
			return err
		}
		s.log.Warnf("open-for-bids transition lost a race on load %s, re-reading (attempt %d)", id, attempt+1)
	}
	return errs.ConcurrencyConflict("Load", "could not transition load to OPEN_FOR_BIDS")
}

// SyncAllocation recomputes the allocation-derived status after a booking is
// created or cancelled. When the load becomes fully allocated it flips to
// BOOKED and the leftover pending bids are rejected; when a cancellation
// frees capacity on a BOOKED load it reverts to OPEN_FOR_BIDS.
func (s *Service) SyncAllocation(ctx context.Context, id string) error {
	for attempt := 0; attempt < syncAttempts; attempt++ {
		l, err := s.store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		remaining, err := s.remainingOf(ctx, l)
		if err != nil {
			return err
		}

		switch {
		case remaining == 0 && l.Status == StatusOpenForBids:
			if err := s.transition(ctx, l, StatusBooked); err != nil {
				if errs.Is(err, errs.KindConcurrencyConflict) {
					s.log.Warnf("booked transition lost a race on load %s, re-reading (attempt %d)", id, attempt+1)
					continue
				}
				return err
			}
			rejected, err := s.bids.RejectPending(ctx, id)
			if err != nil {
				return err
			}
			s.log.Infof("load %s fully allocated, now BOOKED (%d pending bids rejected)", id, rejected)
			return nil

		case remaining > 0 && l.Status == StatusBooked:
			if err := s.transition(ctx, l, StatusOpenForBids); err != nil {
				if errs.Is(err, errs.KindConcurrencyConflict) {
					s.log.Warnf("revert transition lost a race on load %s, re-reading (attempt %d)", id, attempt+1)
					continue
				}
				return err
			}
			s.log.Infof("load %s has %d trucks free again, reverted to OPEN_FOR_BIDS", id, remaining)
			return nil

		default:
			return nil
		}
	}
	return errs.ConcurrencyConflict("Load", "could not reconcile load status with its allocation")
}
