package tickets

import "circustix/internal/reservations"

// ValidationStatus is the gate verdict for a scanned ticket
type ValidationStatus string

const (
	ValidationValid   ValidationStatus = "valid"
	ValidationUsed    ValidationStatus = "used"
	ValidationInvalid ValidationStatus = "invalid"
)

// Validation is the result of checking a ticket code at the gate
type Validation struct {
	Status       ValidationStatus    `json:"status"`
	Message      string              `json:"message"`
	OrderID      string              `json:"order_id,omitempty"`
	ShowContext  string              `json:"show_context,omitempty"`
	ShowTitle    string              `json:"show_title,omitempty"`
	CustomerName string              `json:"customer_name,omitempty"`
	SeatCount    int                 `json:"seat_count,omitempty"`
	OrderStatus  reservations.Status `json:"order_status,omitempty"`
}

// Admitted reports whether the holder may enter
func (v *Validation) Admitted() bool {
	return v.Status == ValidationValid
}
