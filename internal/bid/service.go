package bid

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/FreightLink/FreightLink/internal/common/errs"
	"github.com/FreightLink/FreightLink/internal/common/logger"
	"github.com/FreightLink/FreightLink/internal/load"
	"github.com/FreightLink/FreightLink/internal/transporter"
)

// Service owns the bid lifecycle: submission gates, the single PENDING ->
// ACCEPTED/REJECTED mutation, and ranking.
type Service struct {
	store        Store
	loads        *load.Service
	transporters *transporter.Service
	ledger       *transporter.Ledger
	log          logger.Logger
}

func NewService(store Store, loads *load.Service, transporters *transporter.Service, ledger *transporter.Ledger, log logger.Logger) *Service {
	return &Service{store: store, loads: loads, transporters: transporters, ledger: ledger, log: log}
}

// SubmitInput is the bid submission command.
type SubmitInput struct {
	LoadID        string
	TransporterID string
	ProposedRate  float64
	TrucksOffered int
}

// Submit validates and creates a PENDING bid. The capacity check here is
// advisory: it gates submission but reserves nothing, capacity is re-checked
// and actually deducted at booking time.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Bid, error) {
	if in.ProposedRate <= 0 {
		return nil, errs.Validation("proposed rate must be positive")
	}
	if in.TrucksOffered < 1 {
		return nil, errs.Validation("trucks offered must be at least 1, got %d", in.TrucksOffered)
	}

	l, err := s.loads.Get(ctx, in.LoadID)
	if err != nil {
		return nil, err
	}
	if !l.CanAcceptBids() {
		return nil, errs.InvalidTransition("Load", string(l.Status), "submit bid")
	}

	if _, _, err := s.transporters.Get(ctx, in.TransporterID); err != nil {
		return nil, err
	}

	exists, err := s.store.Exists(ctx, in.LoadID, in.TransporterID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.DuplicateBid(in.LoadID, in.TransporterID)
	}

	if in.TrucksOffered > l.RemainingTrucks {
		return nil, errs.Validation("trucks offered (%d) exceeds remaining trucks needed (%d)",
			in.TrucksOffered, l.RemainingTrucks)
	}

	available, err := s.ledger.Available(ctx, in.TransporterID, l.TruckType)
	if err != nil {
		return nil, err
	}
	if in.TrucksOffered > available {
		return nil, errs.InsufficientCapacity(l.TruckType, in.TrucksOffered, available)
	}

	b := &Bid{
		ID:            uuid.NewString(),
		LoadID:        in.LoadID,
		TransporterID: in.TransporterID,
		ProposedRate:  in.ProposedRate,
		TrucksOffered: in.TrucksOffered,
		Status:        StatusPending,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}

	// The bid is durably created at this point; a failed derived transition
	// must not make the caller believe submission failed, or a retry would
	// surface DuplicateBid. The next submission or allocation resyncs it.
	if err := s.loads.OpenForBids(ctx, in.LoadID); err != nil {
		s.log.Warnf("open-for-bids after bid %s on load %s: %v", b.ID, in.LoadID, err)
	}

	s.log.Infof("bid submitted: %s (load %s, transporter %s, %d trucks @ %.2f)",
		b.ID, b.LoadID, b.TransporterID, b.TrucksOffered, b.ProposedRate)
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Bid, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Bid, error) {
	return s.store.List(ctx, f)
}

// Reject moves a PENDING bid to REJECTED.
func (s *Service) Reject(ctx context.Context, id string) (*Bid, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.CanBeRejected() {
		return nil, errs.InvalidTransition("Bid", string(b.Status), "reject")
	}

	if err := s.store.UpdateStatus(ctx, id, StatusPending, StatusRejected); err != nil {
		return nil, err
	}

	s.log.Infof("bid rejected: %s", id)
	b.Status = StatusRejected
	return b, nil
}

// Accept flips PENDING -> ACCEPTED with a conditioned write. Only the
// booking allocator calls this; it is never exposed over HTTP. The
// conditioned write guarantees at most one caller wins when several race on
// the same bid.
func (s *Service) Accept(ctx context.Context, id string) error {
	if err := s.store.UpdateStatus(ctx, id, StatusPending, StatusAccepted); err != nil {
		return err
	}
	s.log.Infof("bid accepted: %s", id)
	return nil
}

// Rank returns the load's pending bids scored and sorted best-first. The
// sort is stable, so equal scores keep submission order. Pure read, no side
// effects.
func (s *Service) Rank(ctx context.Context, loadID string) ([]RankedBid, error) {
	if _, err := s.loads.Get(ctx, loadID); err != nil {
		return nil, err
	}

	pending, err := s.store.ListPending(ctx, loadID)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedBid, 0, len(pending))
	for _, b := range pending {
		t, _, err := s.transporters.Get(ctx, b.TransporterID)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, RankedBid{
			Bid:         b,
			CompanyName: t.CompanyName,
			Rating:      t.Rating,
			Score:       Score(b.ProposedRate, t.Rating),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}
