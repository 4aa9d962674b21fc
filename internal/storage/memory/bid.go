package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/FreightLink/FreightLink/internal/bid"
	"github.com/FreightLink/FreightLink/internal/common/errs"
)

// BidStore keeps bids in a map. A monotonic sequence per bid preserves
// submission order even when two bids land in the same clock tick.
type BidStore struct {
	mu   sync.Mutex
	bids map[string]bid.Bid
	seqs map[string]int64
	next int64
}

func NewBidStore() *BidStore {
	return &BidStore{
		bids: make(map[string]bid.Bid),
		seqs: make(map[string]int64),
	}
}

var _ bid.Store = (*BidStore)(nil)

func (s *BidStore) Create(ctx context.Context, b *bid.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bids {
		if existing.LoadID == b.LoadID && existing.TransporterID == b.TransporterID {
			return errs.DuplicateBid(b.LoadID, b.TransporterID)
		}
	}
	b.SubmittedAt = time.Now()
	s.next++
	s.seqs[b.ID] = s.next
	s.bids[b.ID] = *b
	return nil
}

func (s *BidStore) GetByID(ctx context.Context, id string) (*bid.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bids[id]
	if !ok {
		return nil, errs.NotFound("Bid", id)
	}
	return &b, nil
}

func (s *BidStore) List(ctx context.Context, f bid.Filter) ([]bid.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(f), nil
}

func (s *BidStore) list(f bid.Filter) []bid.Bid {
	var out []bid.Bid
	for _, b := range s.bids {
		if f.LoadID != "" && b.LoadID != f.LoadID {
			continue
		}
		if f.TransporterID != "" && b.TransporterID != f.TransporterID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return s.seqs[out[i].ID] < s.seqs[out[j].ID]
	})
	return out
}

func (s *BidStore) ListPending(ctx context.Context, loadID string) ([]bid.Bid, error) {
	return s.List(ctx, bid.Filter{LoadID: loadID, Status: bid.StatusPending})
}

func (s *BidStore) Exists(ctx context.Context, loadID, transporterID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bids {
		if b.LoadID == loadID && b.TransporterID == transporterID {
			return true, nil
		}
	}
	return false, nil
}

func (s *BidStore) UpdateStatus(ctx context.Context, id string, from, to bid.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bids[id]
	if !ok {
		return errs.NotFound("Bid", id)
	}
	if b.Status != from {
		return errs.InvalidTransition("Bid", string(b.Status), string(to))
	}
	b.Status = to
	s.bids[id] = b
	return nil
}

func (s *BidStore) CountPending(ctx context.Context, loadID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list(bid.Filter{LoadID: loadID, Status: bid.StatusPending})), nil
}

func (s *BidStore) RejectPending(ctx context.Context, loadID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, b := range s.bids {
		if b.LoadID == loadID && b.Status == bid.StatusPending {
			b.Status = bid.StatusRejected
			s.bids[id] = b
			n++
		}
	}
	return n, nil
}
