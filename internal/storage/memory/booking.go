package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/FreightLink/FreightLink/internal/booking"
	"github.com/FreightLink/FreightLink/internal/common/errs"
)

// BookingStore keeps bookings in a map.
type BookingStore struct {
	mu       sync.Mutex
	bookings map[string]booking.Booking
}

func NewBookingStore() *BookingStore {
	return &BookingStore{bookings: make(map[string]booking.Booking)}
}

var _ booking.Store = (*BookingStore)(nil)

func (s *BookingStore) Create(ctx context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bookings {
		if existing.BidID == b.BidID {
			return errs.Conflictf("Booking", "bid %s already has a booking", b.BidID)
		}
	}
	b.BookedAt = time.Now()
	s.bookings[b.ID] = *b
	return nil
}

func (s *BookingStore) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, errs.NotFound("Booking", id)
	}
	return &b, nil
}

func (s *BookingStore) List(ctx context.Context, f booking.Filter) ([]*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*booking.Booking
	for _, b := range s.bookings {
		if f.LoadID != "" && b.LoadID != f.LoadID {
			continue
		}
		if f.TransporterID != "" && b.TransporterID != f.TransporterID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		cp := b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].BookedAt.Before(out[j].BookedAt)
	})
	return out, nil
}

func (s *BookingStore) ExistsForBid(ctx context.Context, bidID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.BidID == bidID {
			return true, nil
		}
	}
	return false, nil
}

func (s *BookingStore) UpdateStatus(ctx context.Context, id string, from, to booking.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return errs.NotFound("Booking", id)
	}
	if b.Status != from {
		return errs.InvalidTransition("Booking", string(b.Status), string(to))
	}
	b.Status = to
	s.bookings[id] = b
	return nil
}

func (s *BookingStore) SumConfirmedTrucks(ctx context.Context, loadID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, b := range s.bookings {
		if b.LoadID == loadID && b.Status == booking.StatusConfirmed {
			total += b.AllocatedTrucks
		}
	}
	return total, nil
}
