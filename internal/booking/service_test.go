package booking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/FreightLink/FreightLink/internal/bid"
	"github.com/FreightLink/FreightLink/internal/booking"
	"github.com/FreightLink/FreightLink/internal/common/errs"
	"github.com/FreightLink/FreightLink/internal/common/logger"
	"github.com/FreightLink/FreightLink/internal/load"
	"github.com/FreightLink/FreightLink/internal/storage/memory"
	"github.com/FreightLink/FreightLink/internal/transporter"
)

type fixture struct {
	loads        *load.Service
	bids         *bid.Service
	bookings     *booking.Service
	transporters *transporter.Service
	ledger       *transporter.Ledger
}

func newFixture() *fixture {
	log := logger.Nop()
	trStore := memory.NewTransporterStore()
	bidStore := memory.NewBidStore()
	bkStore := memory.NewBookingStore()

	transporters := transporter.NewService(trStore, log)
	ledger := transporter.NewLedger(trStore, log)
	loads := load.NewService(memory.NewLoadStore(), bkStore, bidStore, log)
	bids := bid.NewService(bidStore, loads, transporters, ledger, log)
	bookings := booking.NewService(bkStore, bids, loads, ledger, log)
	return &fixture{loads: loads, bids: bids, bookings: bookings, transporters: transporters, ledger: ledger}
}

func (f *fixture) newLoad(t *testing.T, trucks int) *load.Load {
	t.Helper()
	l, err := f.loads.Create(context.Background(), load.CreateInput{
		ShipperID:      "shipper-1",
		LoadingCity:    "Jaipur",
		UnloadingCity:  "Surat",
		LoadingDate:    time.Now().Add(24 * time.Hour),
		ProductType:    "Textiles",
		Weight:         8000,
		WeightUnit:     load.WeightKG,
		TruckType:      "TRAILER",
		RequiredTrucks: trucks,
	})
	if err != nil {
		t.Fatalf("create load: %v", err)
	}
	return l
}

func (f *fixture) newTransporter(t *testing.T, name string, trailers int) *transporter.Transporter {
	t.Helper()
	rating := 4.0
	tr, _, err := f.transporters.Register(context.Background(), transporter.RegisterInput{
		CompanyName: name,
		Rating:      &rating,
		Pools:       []transporter.PoolInput{{TruckType: "TRAILER", Count: trailers}},
	})
	if err != nil {
		t.Fatalf("register transporter: %v", err)
	}
	return tr
}

func (f *fixture) newBid(t *testing.T, loadID, transporterID string, rate float64, trucks int) *bid.Bid {
	t.Helper()
	b, err := f.bids.Submit(context.Background(), bid.SubmitInput{
		LoadID: loadID, TransporterID: transporterID, ProposedRate: rate, TrucksOffered: trucks,
	})
	if err != nil {
		t.Fatalf("submit bid: %v", err)
	}
	return b
}

func (f *fixture) available(t *testing.T, transporterID string) int {
	t.Helper()
	n, err := f.ledger.Available(context.Background(), transporterID, "TRAILER")
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	return n
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.newLoad(t, 3)
	tr := f.newTransporter(t, "Acme", 10)
	b := f.newBid(t, l.ID, tr.ID, 50000, 2)

	bk, err := f.bookings.Create(ctx, booking.CreateInput{BidID: b.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if bk.Status != booking.StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", bk.Status)
	}
	if bk.AllocatedTrucks != 2 {
		t.Fatalf("expected full offer allocated by default, got %d", bk.AllocatedTrucks)
	}
	if bk.FinalRate != 50000 {
		t.Fatalf("expected final rate copied from bid, got %v", bk.FinalRate)
	}

	if n := f.available(t, tr.ID); n != 8 {
		t.Fatalf("expected 8 trailers left, got %d", n)
	}
	accepted, err := f.bids.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get bid: %v", err)
	}
	if accepted.Status != bid.StatusAccepted {
		t.Fatalf("expected bid ACCEPTED, got %s", accepted.Status)
	}

	v, _ := f.loads.Get(ctx, l.ID)
	if v.Status != load.StatusOpenForBids {
		t.Fatalf("expected load still open with 1 truck to fill, got %s", v.Status)
	}
	if v.RemainingTrucks != 1 {
		t.Fatalf("expected 1 remaining, got %d", v.RemainingTrucks)
	}
}

func TestFullAllocationBooksLoad(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.newLoad(t, 3)
	tr1 := f.newTransporter(t, "Acme", 10)
	tr2 := f.newTransporter(t, "Roadstar", 10)
	tr3 := f.newTransporter(t, "Lagger", 10)

	b1 := f.newBid(t, l.ID, tr1.ID, 50000, 2)
	b2 := f.newBid(t, l.ID, tr2.ID, 52000, 1)
	b3 := f.newBid(t, l.ID, tr3.ID, 60000, 1)

	if _, err := f.bookings.Create(ctx, booking.CreateInput{BidID: b1.ID}); err != nil {
		t.Fatalf("book b1: %v", err)
	}
	if _, err := f.bookings.Create(ctx, booking.CreateInput{BidID: b2.ID}); err != nil {
		t.Fatalf("book b2: %v", err)
	}

	v, _ := f.loads.Get(ctx, l.ID)
	if v.Status != load.StatusBooked {
		t.Fatalf("expected BOOKED after full allocation, got %s", v.Status)
	}
	if v.RemainingTrucks != 0 {
		t.Fatalf("expected 0 remaining, got %d", v.RemainingTrucks)
	}

	// The leftover pending bid is auto-rejected and can no longer be booked.
	leftover, _ := f.bids.Get(ctx, b3.ID)
	if leftover.Status != bid.StatusRejected {
		t.Fatalf("expected leftover bid auto-rejected, got %s", leftover.Status)
	}
	if _, err := f.bookings.Create(ctx, booking.CreateInput{BidID: b3.ID}); !errs.Is(err, errs.KindInvalidTransition) {
		t.Fatalf("expected invalid transition booking a rejected bid, got %v", err)
	}
}

func TestBookingAllocationBounds(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.newLoad(t, 2)
	tr1 := f.newTransporter(t, "Acme", 10)
	tr2 := f.newTransporter(t, "Roadstar", 10)

	b1 := f.newBid(t, l.ID, tr1.ID, 50000, 1)
	b2 := f.newBid(t, l.ID, tr2.ID, 51000, 2)

	if _, err := f.bookings.Create(ctx, booking.CreateInput{BidID: b1.ID, TrucksToAllocate: 2}); !errs.Is(err, errs.KindValidation) {
		t.Fatalf("expected validation when allocating beyond the offer, got %v", err)
	}
	if _, err := f.bookings.Create(ctx, booking.CreateInput{BidID: b1.ID}); err != nil {
		t.Fatalf("book b1: %v", err)
	}
	// One truck is still needed, so the two-truck bid cannot allocate fully.
	if _, err := f.bookings.Create(ctx, booking.CreateInput{BidID: b2.ID, TrucksToAllocate: 2}); !errs.Is(err, errs.KindValidation) {
		t.Fatalf("expected validation when allocating beyond remaining, got %v", err)
	}
	if _, err := f.bookings.Create(ctx, booking.CreateInput{BidID: b2.ID, TrucksToAllocate: 1}); err != nil {
		t.Fatalf("partial allocation of b2: %v", err)
	}

	v, _ := f.loads.Get(ctx, l.ID)
	if v.Status != load.StatusBooked {
		t.Fatalf("expected BOOKED, got %s", v.Status)
	}
	if n := f.available(t, tr2.ID); n != 9 {
		t.Fatalf("expected only the allocated truck deducted, got %d available", n)
	}
}

func TestCancelBookingRestoresCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.newLoad(t, 2)
	tr := f.newTransporter(t, "Acme", 10)
	b := f.newBid(t, l.ID, tr.ID, 50000, 2)

	bk, err := f.bookings.Create(ctx, booking.CreateInput{BidID: b.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n := f.available(t, tr.ID); n != 8 {
		t.Fatalf("expected 8 available while booked, got %d", n)
	}
	v, _ := f.loads.Get(ctx, l.ID)
	if v.Status != load.StatusBooked {
		t.Fatalf("expected BOOKED, got %s", v.Status)
	}

	cancelled, err := f.bookings.Cancel(ctx, bk.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != booking.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}
	if n := f.available(t, tr.ID); n != 10 {
		t.Fatalf("expected capacity fully restored, got %d", n)
	}

	v, _ = f.loads.Get(ctx, l.ID)
	if v.Status != load.StatusOpenForBids {
		t.Fatalf("expected load reopened for bids, got %s", v.Status)
	}
	if v.RemainingTrucks != 2 {
		t.Fatalf("expected 2 remaining again, got %d", v.RemainingTrucks)
	}

	// The bid keeps its ACCEPTED status; it is history, not allocation.
	accepted, _ := f.bids.Get(ctx, b.ID)
	if accepted.Status != bid.StatusAccepted {
		t.Fatalf("expected bid still ACCEPTED, got %s", accepted.Status)
	}

	if _, err := f.bookings.Cancel(ctx, bk.ID); !errs.Is(err, errs.KindInvalidTransition) {
		t.Fatalf("expected invalid transition on second cancel, got %v", err)
	}
}

// contendedPoolStore lands a competing single-truck deduction between a
// caller's pool read and its conditioned write, once, when armed.
type contendedPoolStore struct {
	transporter.Store
	transporterID string
	armed         bool
}

func (s *contendedPoolStore) UpdatePool(ctx context.Context, poolID string, available int, expectedRevision int64) error {
	if s.armed {
		s.armed = false
		p, err := s.Store.GetPool(ctx, s.transporterID, "TRAILER")
		if err != nil {
			return err
		}
		if err := s.Store.UpdatePool(ctx, p.ID, p.Available-1, p.Revision); err != nil {
			return err
		}
	}
	return s.Store.UpdatePool(ctx, poolID, available, expectedRevision)
}

func TestCancelBookingSurvivesRestoreRace(t *testing.T) {
	ctx := context.Background()
	log := logger.Nop()
	contended := &contendedPoolStore{Store: memory.NewTransporterStore()}
	bidStore := memory.NewBidStore()
	bkStore := memory.NewBookingStore()

	transporters := transporter.NewService(contended, log)
	ledger := transporter.NewLedger(contended, log)
	loads := load.NewService(memory.NewLoadStore(), bkStore, bidStore, log)
	bids := bid.NewService(bidStore, loads, transporters, ledger, log)
	bookings := booking.NewService(bkStore, bids, loads, ledger, log)
	f := &fixture{loads: loads, bids: bids, bookings: bookings, transporters: transporters, ledger: ledger}

	tr := f.newTransporter(t, "Acme", 10)
	contended.transporterID = tr.ID
	l := f.newLoad(t, 2)
	b := f.newBid(t, l.ID, tr.ID, 50000, 2)

	bk, err := f.bookings.Create(ctx, booking.CreateInput{BidID: b.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A competing deduction bumps the pool revision mid-restore. The cancel
	// must still land and give the booking's trucks back.
	contended.armed = true
	cancelled, err := f.bookings.Cancel(ctx, bk.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != booking.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}

	// 10 nominal, minus the competitor's 1; the booking's 2 came back.
	if n := f.available(t, tr.ID); n != 9 {
		t.Fatalf("expected 9 available after contended cancel, got %d", n)
	}
	v, _ := f.loads.Get(ctx, l.ID)
	if v.Status != load.StatusOpenForBids {
		t.Fatalf("expected load reopened, got %s", v.Status)
	}
}

func TestCompleteBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.newLoad(t, 1)
	tr := f.newTransporter(t, "Acme", 5)
	b := f.newBid(t, l.ID, tr.ID, 40000, 1)

	bk, err := f.bookings.Create(ctx, booking.CreateInput{BidID: b.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	done, err := f.bookings.Complete(ctx, bk.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != booking.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", done.Status)
	}
	if _, err := f.bookings.Cancel(ctx, bk.ID); !errs.Is(err, errs.KindInvalidTransition) {
		t.Fatalf("expected invalid transition cancelling a completed booking, got %v", err)
	}
}

func TestConcurrentCreateSameBid(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.newLoad(t, 5)
	tr := f.newTransporter(t, "Acme", 10)
	b := f.newBid(t, l.ID, tr.ID, 50000, 2)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.bookings.Create(ctx, booking.CreateInput{BidID: b.ID})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one booking for the bid, got %d", wins)
	}
	// The loser's deduction must have been compensated.
	if n := f.available(t, tr.ID); n != 8 {
		t.Fatalf("expected net deduction of 2 trucks, got available %d", n)
	}
	bookings, err := f.bookings.List(ctx, booking.Filter{LoadID: l.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected a single booking row, got %d", len(bookings))
	}
}

func TestConcurrentBookingsDrainPoolOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	tr := f.newTransporter(t, "Acme", 4)
	l1 := f.newLoad(t, 4)
	l2 := f.newLoad(t, 4)
	b1 := f.newBid(t, l1.ID, tr.ID, 50000, 4)
	b2 := f.newBid(t, l2.ID, tr.ID, 50000, 4)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, id := range []string{b1.ID, b2.ID} {
		wg.Add(1)
		go func(i int, bidID string) {
			defer wg.Done()
			_, results[i] = f.bookings.Create(ctx, booking.CreateInput{BidID: bidID})
		}(i, id)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		if !errs.Is(err, errs.KindInsufficientCapacity) && !errs.Is(err, errs.KindConcurrencyConflict) {
			t.Fatalf("unexpected error kind: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner for the pool, got %d", wins)
	}
	if n := f.available(t, tr.ID); n != 0 {
		t.Fatalf("expected the pool drained exactly once, got %d", n)
	}
}
