package reservations

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrHoldConflict       = errors.New("seats are no longer available")
	ErrHoldUnavailable    = errors.New("hold store unavailable")
	ErrPersistenceTimeout = errors.New("order store timed out")
	ErrPersistenceFailure = errors.New("order could not be stored")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderExists        = errors.New("order already exists")
	ErrInvalidStatus      = errors.New("invalid order status transition")
	ErrInvalidRequest     = errors.New("invalid reservation request")
	ErrUnknownSeat        = errors.New("unknown seat")
)

// HoldConflictError names the seats another buyer holds or has bought
type HoldConflictError struct {
	ShowContext string
	SeatIDs     []string
}

func (e *HoldConflictError) Error() string {
	return fmt.Sprintf("seats may have been taken: %s", strings.Join(e.SeatIDs, ", "))
}

func (e *HoldConflictError) Unwrap() error {
	return ErrHoldConflict
}

// StatusTransitionError is a rejected lifecycle move
type StatusTransitionError struct {
	From Status
	To   Status
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *StatusTransitionError) Unwrap() error {
	return ErrInvalidStatus
}
