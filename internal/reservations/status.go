package reservations

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusFulfilled Status = "FULFILLED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the order status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFulfilled, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is allowed
func (s Status) IsTerminal() bool {
	return s == StatusFulfilled || s == StatusCancelled
}

// HoldsSeats reports whether an order in this status keeps its seats sold
func (s Status) HoldsSeats() bool {
	return s != StatusCancelled
}

// CanTransitionTo checks the order lifecycle:
// PENDING -> PAID | CANCELLED, PAID -> FULFILLED | CANCELLED.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusPaid || next == StatusCancelled
	case StatusPaid:
		return next == StatusFulfilled || next == StatusCancelled
	default:
		return false
	}
}
