package booking

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

func (r *Repo) Create(ctx context.Context, b *Booking) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(b).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Booking, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var b Booking
	if err := db.Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("Booking", id)
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repo) List(ctx context.Context, f Filter) ([]*Booking, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}

	q := db.Model(&Booking{})
	if f.LoadID != "" {
		q = q.Where("load_id = ?", f.LoadID)
	}
	if f.TransporterID != "" {
		q = q.Where("transporter_id = ?", f.TransporterID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var bookings []*Booking
	if err := q.Order("booked_at").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *Repo) ExistsForBid(ctx context.Context, bidID string) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	var count int64
	if err := db.Model(&Booking{}).Where("bid_id = ?", bidID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus is conditioned on the current status: zero rows affected on
// an existing booking means it already left the from status.
func (r *Repo) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}

	res := db.Model(&Booking{}).
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
		return errs.InvalidTransition("Booking", string(b.Status), string(to))
	}
	return nil
}

// SumConfirmedTrucks totals the trucks held by CONFIRMED bookings of a load.
func (r *Repo) SumConfirmedTrucks(ctx context.Context, loadID string) (int, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var total int64
	err := db.Model(&Booking{}).
		Select("COALESCE(SUM(allocated_trucks), 0)").
		Where("load_id = ? AND status = ?", loadID, StatusConfirmed).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
