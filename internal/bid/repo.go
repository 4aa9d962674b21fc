package bid

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

func (r *Repo) Create(ctx context.Context, b *Bid) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(b).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Bid, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var b Bid
	if err := db.Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("Bid", id)
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Bid, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}

	q := db.Model(&Bid{})
	if f.LoadID != "" {
		q = q.Where("load_id = ?", f.LoadID)
	}
	if f.TransporterID != "" {
		q = q.Where("transporter_id = ?", f.TransporterID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var bids []Bid
	if err := q.Order("submitted_at").Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

func (r *Repo) ListPending(ctx context.Context, loadID string) ([]Bid, error) {
	return r.List(ctx, Filter{LoadID: loadID, Status: StatusPending})
}

func (r *Repo) Exists(ctx context.Context, loadID, transporterID string) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	var count int64
	err := db.Model(&Bid{}).
		Where("load_id = ? AND transporter_id = ?", loadID, transporterID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus is conditioned on the current status: zero rows affected on an
// existing bid means the bid already left the from status.
func (r *Repo) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}

	res := db.Model(&Bid{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		b, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return errs.InvalidTransition("Bid", string(b.Status), string(to))
	}
	return nil
}

func (r *Repo) CountPending(ctx context.Context, loadID string) (int, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var count int64
	err := db.Model(&Bid{}).
		Where("load_id = ? AND status = ?", loadID, StatusPending).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repo) RejectPending(ctx context.Context, loadID string) (int, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	res := db.Model(&Bid{}).
		Where("load_id = ? AND status = ?", loadID, StatusPending).
		Update("status", StatusRejected)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}
