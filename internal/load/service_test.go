package load_test

import (
	"context"
	"testing"
	"time"

	"github.com/FreightLink/FreightLink/internal/bid"
	"github.com/FreightLink/FreightLink/internal/booking"
	"github.com/FreightLink/FreightLink/internal/common/errs"
	"github.com/FreightLink/FreightLink/internal/common/logger"
	"github.com/FreightLink/FreightLink/internal/load"
	"github.com/FreightLink/FreightLink/internal/storage/memory"
)

type fixture struct {
	loads    *load.Service
	bidStore *memory.BidStore
	bkStore  *memory.BookingStore
}

func newFixture() *fixture {
	bidStore := memory.NewBidStore()
	bkStore := memory.NewBookingStore()
	return &fixture{
		loads:    load.NewService(memory.NewLoadStore(), bkStore, bidStore, logger.Nop()),
		bidStore: bidStore,
		bkStore:  bkStore,
	}
}

func validInput() load.CreateInput {
	return load.CreateInput{
		ShipperID:      "shipper-1",
		LoadingCity:    "Mumbai",
		UnloadingCity:  "Delhi",
		LoadingDate:    time.Now().Add(48 * time.Hour),
		ProductType:    "Steel",
		Weight:         12.5,
		WeightUnit:     load.WeightTon,
		TruckType:      "trailer",
		RequiredTrucks: 3,
	}
}

func TestCreateLoad(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	l, err := f.loads.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.Status != load.StatusPosted {
		t.Fatalf("expected POSTED, got %s", l.Status)
	}
	if l.TruckType != "TRAILER" {
		t.Fatalf("expected normalized truck type, got %q", l.TruckType)
	}

	v, err := f.loads.Get(ctx, l.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.RemainingTrucks != 3 {
		t.Fatalf("expected 3 remaining trucks, got %d", v.RemainingTrucks)
	}
	if v.ActiveBids != 0 {
		t.Fatalf("expected no active bids, got %d", v.ActiveBids)
	}
}

func TestCreateLoadValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	bad := []func(*load.CreateInput){
		func(in *load.CreateInput) { in.ShipperID = "  " },
		func(in *load.CreateInput) { in.RequiredTrucks = 0 },
		func(in *load.CreateInput) { in.Weight = 0 },
		func(in *load.CreateInput) { in.WeightUnit = "POUND" },
		func(in *load.CreateInput) { in.TruckType = "" },
	}
	for i, mutate := range bad {
		in := validInput()
		mutate(&in)
		if _, err := f.loads.Create(ctx, in); !errs.Is(err, errs.KindValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestCancelRejectsPendingBids(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	l, err := f.loads.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	seedBid := &bid.Bid{ID: "b1", LoadID: l.ID, TransporterID: "t1", ProposedRate: 100, TrucksOffered: 1, Status: bid.StatusPending}
	if err := f.bidStore.Create(ctx, seedBid); err != nil {
		t.Fatalf("seed bid: %v", err)
	}

	cancelled, err := f.loads.Cancel(ctx, l.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != load.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}

	b, err := f.bidStore.GetByID(ctx, "b1")
	if err != nil {
		t.Fatalf("get bid: %v", err)
	}
	if b.Status != bid.StatusRejected {
		t.Fatalf("expected pending bid rejected on cancel, got %s", b.Status)
	}

	// Cancelling twice is an invalid transition.
	if _, err := f.loads.Cancel(ctx, l.ID); !errs.Is(err, errs.KindInvalidTransition) {
		t.Fatalf("expected invalid transition on second cancel, got %v", err)
	}
}

func TestSyncAllocationFlipsAndReverts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	l, err := f.loads.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.loads.OpenForBids(ctx, l.ID); err != nil {
		t.Fatalf("OpenForBids: %v", err)
	}

	bk := &booking.Booking{ID: "bk1", LoadID: l.ID, BidID: "b1", TransporterID: "t1", AllocatedTrucks: 3, FinalRate: 100, Status: booking.StatusConfirmed}
	if err := f.bkStore.Create(ctx, bk); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	pending := &bid.Bid{ID: "b2", LoadID: l.ID, TransporterID: "t2", ProposedRate: 90, TrucksOffered: 1, Status: bid.StatusPending}
	if err := f.bidStore.Create(ctx, pending); err != nil {
		t.Fatalf("seed bid: %v", err)
	}

	if err := f.loads.SyncAllocation(ctx, l.ID); err != nil {
		t.Fatalf("SyncAllocation: %v", err)
	}
	v, _ := f.loads.Get(ctx, l.ID)
	if v.Status != load.StatusBooked {
		t.Fatalf("expected BOOKED when fully allocated, got %s", v.Status)
	}
	leftover, _ := f.bidStore.GetByID(ctx, "b2")
	if leftover.Status != bid.StatusRejected {
		t.Fatalf("expected leftover pending bid auto-rejected, got %s", leftover.Status)
	}

	// Freeing the allocation reverts the load to bidding.
	if err := f.bkStore.UpdateStatus(ctx, "bk1", booking.StatusConfirmed, booking.StatusCancelled); err != nil {
		t.Fatalf("cancel booking: %v", err)
	}
	if err := f.loads.SyncAllocation(ctx, l.ID); err != nil {
		t.Fatalf("SyncAllocation after free: %v", err)
	}
	v, _ = f.loads.Get(ctx, l.ID)
	if v.Status != load.StatusOpenForBids {
		t.Fatalf("expected revert to OPEN_FOR_BIDS, got %s", v.Status)
	}
	if v.RemainingTrucks != 3 {
		t.Fatalf("expected 3 remaining after booking cancelled, got %d", v.RemainingTrucks)
	}
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for i := 0; i < 5; i++ {
		if _, err := f.loads.Create(ctx, validInput()); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	views, total, err := f.loads.List(ctx, load.Filter{Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(views) != 2 {
		t.Fatalf("expected page of 2, got %d", len(views))
	}

	none, total, err := f.loads.List(ctx, load.Filter{ShipperID: "other"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 || len(none) != 0 {
		t.Fatalf("expected no matches for unknown shipper, got %d/%d", len(none), total)
	}
}
