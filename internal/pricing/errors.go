package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrPromoUnavailable   = errors.New("promo tickets are not available for this tier")
	ErrAssignmentMismatch = errors.New("ticket type assignment does not match seat count")
	ErrUnknownSeat        = errors.New("seat is not part of the selection")
	ErrUnknownTicketType  = errors.New("unknown ticket type")
	ErrUnknownTier        = errors.New("unknown tier")
)

// AssignmentMismatchError reports how far the assigned ticket count is from the seat count
type AssignmentMismatchError struct {
	Assigned int
	Expected int
}

func (e *AssignmentMismatchError) Error() string {
	if e.TooFew() {
		n := e.Expected - e.Assigned
		return fmt.Sprintf("Please assign types to %d more %s.", n, plural(n, "seat", "seats"))
	}
	return fmt.Sprintf("You have assigned too many tickets! Please remove %d.", e.Assigned-e.Expected)
}

func (e *AssignmentMismatchError) Unwrap() error {
	return ErrAssignmentMismatch
}

// TooFew reports an under-assignment
func (e *AssignmentMismatchError) TooFew() bool {
	return e.Assigned < e.Expected
}

// TooMany reports an over-assignment
func (e *AssignmentMismatchError) TooMany() bool {
	return e.Assigned > e.Expected
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
