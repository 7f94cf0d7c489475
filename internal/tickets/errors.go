package tickets

import "errors"

var (
	// ErrExternalRendering is a failed QR, PDF or email rendering. The order it
	// belongs to still stands.
	ErrExternalRendering = errors.New("ticket rendering failed")
	ErrInvalidTicket     = errors.New("invalid ticket code")
)
