package memory

import (
	"context"
	"sync"
	"time"

	"github.com/FreightLink/FreightLink/internal/common/errs"
	"github.com/FreightLink/FreightLink/internal/transporter"
)

// TransporterStore keeps transporters and capacity pools in maps. The
// single mutex makes the conditioned UpdatePool atomic, which is all the
// ledger needs for its compare-and-swap loop.
type TransporterStore struct {
	mu           sync.Mutex
	transporters map[string]transporter.Transporter
	pools        map[string]transporter.CapacityPool
}

func NewTransporterStore() *TransporterStore {
	return &TransporterStore{
		transporters: make(map[string]transporter.Transporter),
		pools:        make(map[string]transporter.CapacityPool),
	}
}

var _ transporter.Store = (*TransporterStore)(nil)

func (s *TransporterStore) Create(ctx context.Context, t *transporter.Transporter, pools []transporter.CapacityPool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.transporters[t.ID] = *t
	for _, p := range pools {
		p.CreatedAt = now
		p.UpdatedAt = now
		s.pools[p.ID] = p
	}
	return nil
}

func (s *TransporterStore) GetByID(ctx context.Context, id string) (*transporter.Transporter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transporters[id]
	if !ok {
		return nil, errs.NotFound("Transporter", id)
	}
	return &t, nil
}

func (s *TransporterStore) ListPools(ctx context.Context, transporterID string) ([]transporter.CapacityPool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []transporter.CapacityPool
	for _, p := range s.pools {
		if p.TransporterID == transporterID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *TransporterStore) GetPool(ctx context.Context, transporterID, truckType string) (*transporter.CapacityPool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.pools {
		if p.TransporterID == transporterID && p.TruckType == truckType {
			cp := p
			return &cp, nil
		}
	}
	return nil, errs.NotFound("CapacityPool", transporterID+"/"+truckType)
}

func (s *TransporterStore) CreatePool(ctx context.Context, p *transporter.CapacityPool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.pools[p.ID] = *p
	return nil
}

func (s *TransporterStore) UpdatePool(ctx context.Context, poolID string, available int, expectedRevision int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pools[poolID]
	if !ok {
		return errs.NotFound("CapacityPool", poolID)
	}
	if p.Revision != expectedRevision {
		return errs.ConcurrencyConflict("CapacityPool", "pool revision changed during write")
	}
	p.Available = available
	p.Revision++
	p.UpdatedAt = time.Now()
	s.pools[poolID] = p
	return nil
}
