package load

import "time"

// WeightUnit is the unit of the cargo weight.
type WeightUnit string

const (
	WeightKG  WeightUnit = "KG"
	WeightTon WeightUnit = "TON"
)

func ValidWeightUnit(u WeightUnit) bool {
	return u == WeightKG || u == WeightTon
}

// Load is the loads table model. Revision is the optimistic-concurrency
// counter for status changes; it advances on every status write.
type Load struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	ShipperID      string     `gorm:"index;size:64;not null" json:"shipperId"`
	LoadingCity    string     `gorm:"size:128;not null" json:"loadingCity"`
	UnloadingCity  string     `gorm:"size:128;not null" json:"unloadingCity"`
	LoadingDate    time.Time  `gorm:"not null" json:"loadingDate"`
	ProductType    string     `gorm:"size:64;not null" json:"productType"`
	Weight         float64    `gorm:"not null" json:"weight"`
	WeightUnit     WeightUnit `gorm:"type:varchar(8);not null" json:"weightUnit"`
	TruckType      string     `gorm:"size:32;not null" json:"truckType"`
	RequiredTrucks int        `gorm:"not null" json:"requiredTrucks"`
	Status         Status     `gorm:"type:varchar(16);index;not null" json:"status"`
	Revision       int64      `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// View is a load together with its allocation-derived figures.
type View struct {
	Load
	RemainingTrucks int `json:"remainingTrucks"`
	ActiveBids      int `json:"activeBidsCount"`
}
