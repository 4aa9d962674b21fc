package bid

import "time"

// Status is the bid lifecycle state. A bid mutates exactly once: PENDING to
// ACCEPTED or PENDING to REJECTED, then it is immutable.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// Bid is the bids table model. At most one bid per (load, transporter) pair,
// enforced at submission and by the composite unique index.
type Bid struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	LoadID        string    `gorm:"size:36;not null;uniqueIndex:idx_bid_load_transporter" json:"loadId"`
	TransporterID string    `gorm:"size:36;not null;uniqueIndex:idx_bid_load_transporter" json:"transporterId"`
	ProposedRate  float64   `gorm:"not null" json:"proposedRate"`
	TrucksOffered int       `gorm:"not null" json:"trucksOffered"`
	Status        Status    `gorm:"type:varchar(16);index;not null" json:"status"`
	SubmittedAt   time.Time `gorm:"autoCreateTime" json:"submittedAt"`
}

func (b *Bid) CanBeAccepted() bool {
	return b.Status == StatusPending
}

func (b *Bid) CanBeRejected() bool {
	return b.Status == StatusPending
}

// RankedBid is a pending bid with its computed score and the transporter
// details a shipper compares on.
type RankedBid struct {
	Bid
	CompanyName string  `json:"companyName"`
	Rating      float64 `json:"rating"`
	Score       float64 `json:"score"`
}
