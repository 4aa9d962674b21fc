package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/FreightLink/FreightLink/internal/common/errs"
	"github.com/FreightLink/FreightLink/internal/load"
)

// LoadStore keeps loads in a map, ordered on read.
type LoadStore struct {
	mu    sync.Mutex
	loads map[string]load.Load
}

func NewLoadStore() *LoadStore {
	return &LoadStore{loads: make(map[string]load.Load)}
}

var _ load.Store = (*LoadStore)(nil)

func (s *LoadStore) Create(ctx context.Context, l *load.Load) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
	s.loads[l.ID] = *l
	return nil
}

func (s *LoadStore) GetByID(ctx context.Context, id string) (*load.Load, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.loads[id]
	if !ok {
		return nil, errs.NotFound("Load", id)
	}
	return &l, nil
}

func (s *LoadStore) List(ctx context.Context, f load.Filter) ([]load.Load, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []load.Load
	for _, l := range s.loads {
		if f.ShipperID != "" && l.ShipperID != f.ShipperID {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		matched = append(matched, l)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	if f.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[f.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (s *LoadStore) UpdateStatus(ctx context.Context, id string, to load.Status, expectedRevision int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.loads[id]
	if !ok {
		return errs.NotFound("Load", id)
	}
	if l.Revision != expectedRevision {
		return errs.ConcurrencyConflict("Load", "load revision changed during status write")
	}
	l.Status = to
	l.Revision++
	l.UpdatedAt = time.Now()
	s.loads[id] = l
	return nil
}
