package load

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

func (r *Repo) Create(ctx context.Context, l *Load) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(l).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Load, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var l Load
	if err := db.Where("id = ?", id).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("Load", id)
		}
		return nil, err
	}
	return &l, nil
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Load, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	q := db.Model(&Load{})
	if f.ShipperID != "" {
		q = q.Where("shipper_id = ?", f.ShipperID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var loads []Load
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&loads).Error; err != nil {
		return nil, 0, err
	}
	return loads, total, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id string, to Status, expectedRevision int64) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}

	res := db.Model(&Load{}).
		Where("id = ? AND revision = ?", id, expectedRevision).
		Updates(map[string]interface{}{
			"status":   to,
			"revision": expectedRevision + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&Load{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NotFound("Load", id)
		}
		return errs.ConcurrencyConflict("Load", "load revision changed during status write")
	}
	return nil
}
