package load

// Status is the load lifecycle state (persisted as a string).
type Status string

const (
	StatusPosted      Status = "POSTED"        // created, no bids yet
	StatusOpenForBids Status = "OPEN_FOR_BIDS" // at least one bid received
	StatusBooked      Status = "BOOKED"        // fully allocated
	StatusCancelled   Status = "CANCELLED"     // terminal
)

// AllowTransition is the directed graph of permitted status flows. BOOKED is
// not terminal: cancelling a booking frees capacity and reverts the load to
// OPEN_FOR_BIDS.
var AllowTransition = map[Status][]Status{
	StatusPosted:      {StatusOpenForBids, StatusCancelled},
	StatusOpenForBids: {StatusBooked, StatusCancelled},
	StatusBooked:      {StatusOpenForBids},
	StatusCancelled:   {},
}

// CanTransition reports whether from -> to is a permitted flow.
func CanTransition(from, to Status) bool {
	for _, s := range AllowTransition[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanAcceptBids reports whether new bids may be submitted against the load.
func (l *Load) CanAcceptBids() bool {
	return l.Status == StatusPosted || l.Status == StatusOpenForBids
}

// CanBeCancelled reports whether the load may still be cancelled by the
// shipper. Derived from the transition graph: BOOKED and CANCELLED loads
// have no edge to CANCELLED.
func (l *Load) CanBeCancelled() bool {
	return CanTransition(l.Status, StatusCancelled)
}
