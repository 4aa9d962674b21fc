package transporter

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/FreightLink/FreightLink/internal/common/errs"
)

// Repo is the gorm-backed Store.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

var _ Store = (*Repo)(nil)

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) Create(ctx context.Context, t *Transporter, pools []CapacityPool) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		if len(pools) > 0 {
			if err := tx.Create(&pools).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Transporter, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var t Transporter
	if err := db.Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("Transporter", id)
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repo) ListPools(ctx context.Context, transporterID string) ([]CapacityPool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var pools []CapacityPool
	if err := db.Where("transporter_id = ?", transporterID).
		Order("truck_type").Find(&pools).Error; err != nil {
		return nil, err
	}
	return pools, nil
}

func (r *Repo) GetPool(ctx context.Context, transporterID, truckType string) (*CapacityPool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var p CapacityPool
	err := db.Where("transporter_id = ? AND truck_type = ?", transporterID, truckType).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("CapacityPool", transporterID+"/"+truckType)
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) CreatePool(ctx context.Context, p *CapacityPool) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(p).Error
}

// UpdatePool is the conditioned write: the row is only touched when its
// revision still matches what the caller read. Zero rows affected on an
// existing pool means another writer got there first.
func (r *Repo) UpdatePool(ctx context.Context, poolID string, available int, expectedRevision int64) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}

	res := db.Model(&CapacityPool{}).
		Where("id = ? AND revision = ?", poolID, expectedRevision).
		Updates(map[string]interface{}{
			"available": available,
			"revision":  expectedRevision + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&CapacityPool{}).Where("id = ?", poolID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NotFound("CapacityPool", poolID)
		}
		return errs.ConcurrencyConflict("CapacityPool", "pool revision changed during write")
	}
	return nil
}
