package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrConnectivity       = errors.New("request timed out. Please check your internet connection")
	ErrInvalidTransition  = errors.New("invalid checkout transition")
	ErrCheckoutInProgress = errors.New("checkout is already being processed")
	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrInvalidCard        = errors.New("invalid card details")
	ErrInvalidZoom        = errors.New("zoom action must be one of in, out, pan")
)

func transitionError(action string, step Step) error {
	return fmt.Errorf("%w: cannot %s during %s", ErrInvalidTransition, action, step)
}
