package booking

import "time"

// Status is the booking lifecycle state. CONFIRMED bookings consume pool
// capacity; CANCELLED releases it; COMPLETED is written by fulfillment.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// Booking is the bookings table model: the durable allocation created when a
// bid is accepted. Exactly one booking per bid, ever. FinalRate is copied
// from the bid at acceptance time and never changes.
type Booking struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	LoadID          string    `gorm:"index;size:36;not null" json:"loadId"`
	BidID           string    `gorm:"uniqueIndex;size:36;not null" json:"bidId"`
	TransporterID   string    `gorm:"index;size:36;not null" json:"transporterId"`
	AllocatedTrucks int       `gorm:"not null" json:"allocatedTrucks"`
	FinalRate       float64   `gorm:"not null" json:"finalRate"`
	Status          Status    `gorm:"type:varchar(16);not null" json:"status"`
	BookedAt        time.Time `gorm:"autoCreateTime" json:"bookedAt"`
}

func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}
