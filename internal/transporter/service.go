package transporter

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/FreightLink/FreightLink/internal/common/errs"
	"github.com/FreightLink/FreightLink/internal/common/logger"
)

// Service wraps transporter registration and capacity management.
type Service struct {
	store Store
	log   logger.Logger
}

func NewService(store Store, log logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// PoolInput declares capacity for one truck type.
type PoolInput struct {
	TruckType string
	Count     int
}

// RegisterInput is the registration command.
type RegisterInput struct {
	CompanyName string
	Rating      *float64
	Pools       []PoolInput
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Transporter, []CapacityPool, error) {
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		return nil, nil, errs.Validation("company name is required")
	}

	rating := DefaultRating
	if in.Rating != nil {
		rating = *in.Rating
	}
	if rating < MinRating || rating > MaxRating {
		return nil, nil, errs.Validation("rating must be between %.1f and %.1f, got %.1f", MinRating, MaxRating, rating)
	}

	t := &Transporter{
		ID:          uuid.NewString(),
		CompanyName: name,
		Rating:      rating,
	}

	pools := make([]CapacityPool, 0, len(in.Pools))
	seen := make(map[string]bool, len(in.Pools))
	for _, p := range in.Pools {
		truckType := normalizeTruckType(p.TruckType)
		if truckType == "" {
			return nil, nil, errs.Validation("truck type is required")
		}
		if seen[truckType] {
			return nil, nil, errs.Validation("duplicate truck type %s", truckType)
		}
		seen[truckType] = true
		if p.Count < 0 {
			return nil, nil, errs.Validation("truck count must not be negative, got %d", p.Count)
		}
		pools = append(pools, CapacityPool{
			ID:            uuid.NewString(),
			TransporterID: t.ID,
			TruckType:     truckType,
			Available:     p.Count,
		})
	}

	if err := s.store.Create(ctx, t, pools); err != nil {
		return nil, nil, err
	}

	s.log.Infof("transporter registered: %s (%s)", t.ID, t.CompanyName)
	return t, pools, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transporter, []CapacityPool, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	pools, err := s.store.ListPools(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return t, pools, nil
}

// Rating returns the transporter's rating, for bid scoring.
func (s *Service) Rating(ctx context.Context, id string) (float64, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return t.Rating, nil
}

// UpdatePools sets capacity counts absolutely (not as deltas). Existing pools
// are overwritten via a conditioned write; unknown truck types get a new
// pool.
func (s *Service) UpdatePools(ctx context.Context, id string, updates []PoolInput) (*Transporter, []CapacityPool, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	for _, u := range updates {
		truckType := normalizeTruckType(u.TruckType)
		if truckType == "" {
			return nil, nil, errs.Validation("truck type is required")
		}
		if u.Count < 0 {
			return nil, nil, errs.Validation("truck count must not be negative, got %d", u.Count)
		}

		pool, err := s.store.GetPool(ctx, id, truckType)
		if err != nil {
			if !errs.Is(err, errs.KindNotFound) {
				return nil, nil, err
			}
			newPool := &CapacityPool{
				ID:            uuid.NewString(),
				TransporterID: id,
				TruckType:     truckType,
				Available:     u.Count,
			}
			if err := s.store.CreatePool(ctx, newPool); err != nil {
				return nil, nil, err
			}
			continue
		}

		if err := s.store.UpdatePool(ctx, pool.ID, u.Count, pool.Revision); err != nil {
			return nil, nil, err
		}
	}

	pools, err := s.store.ListPools(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s.log.Infof("capacity pools updated for transporter %s", id)
	return t, pools, nil
}

func normalizeTruckType(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}
