package transporter

import "time"

const (
	MinRating     = 1.0
	MaxRating     = 5.0
	DefaultRating = 3.0
)

// Transporter is the carriers table model.
type Transporter struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CompanyName string    `gorm:"size:128;not null" json:"companyName"`
	Rating      float64   `gorm:"not null;default:3" json:"rating"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// CapacityPool is the available-truck counter for one (transporter, truck
// type) pair. It is the unit of optimistic concurrency: every write bumps
// Revision and is conditioned on the revision read.
type CapacityPool struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	TransporterID string    `gorm:"size:36;not null;uniqueIndex:idx_pool_transporter_type" json:"transporterId"`
	TruckType     string    `gorm:"size:32;not null;uniqueIndex:idx_pool_transporter_type" json:"truckType"`
	Available     int       `gorm:"not null" json:"available"`
	Revision      int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
