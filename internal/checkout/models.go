package checkout

import (
	"time"

	"circustix/internal/pricing"
	"circustix/internal/reservations"
	"circustix/internal/seatmap"
)

// Step is a checkout stage. Stages only move forward one at a time or back
// to the one before.
type Step string

const (
	StepSeatSelection        Step = "seat_selection"
	StepTicketTypeAssignment Step = "ticket_type_assignment"
	StepPaymentSummary       Step = "payment_summary"
	StepConfirmation         Step = "confirmation"
)

// Card is what the buyer typed. It never leaves the tokenizer.
type Card struct {
	Number string
	Name   string
	Expiry string
	CVC    string
}

// PaymentToken is the tokenized card reference stored on the order
type PaymentToken struct {
	Token string `json:"token"`
	Brand string `json:"brand"`
	Last4 string `json:"last4"`
}

// PaymentDetails is the buyer input collected on the payment summary
type PaymentDetails struct {
	Customer reservations.Customer
	Card     Card
}

// Confirmation is the outcome of a successful payment
type Confirmation struct {
	OrderID     string              `json:"order_id"`
	Durable     bool                `json:"durable"`
	QRCode      string              `json:"qr_code,omitempty"`
	QRAvailable bool                `json:"qr_available"`
	Notice      string              `json:"notice,omitempty"`
	Order       *reservations.Order `json:"order"`
}

// FlowSnapshot is the serializable state of a checkout flow
type FlowSnapshot struct {
	Step            Step                          `json:"step"`
	ShowContext     string                        `json:"show_context"`
	Holder          string                        `json:"holder"`
	Seats           []pricing.SelectedSeat        `json:"seats"`
	Assignment      map[string]pricing.TicketType `json:"assignment,omitempty"`
	Counts          pricing.Counts                `json:"counts"`
	AssignmentError string                        `json:"assignment_error,omitempty"`
	Lines           []pricing.Line                `json:"lines,omitempty"`
	Quote           *pricing.Quote                `json:"quote,omitempty"`
	HoldExpiresAt   *time.Time                    `json:"hold_expires_at,omitempty"`
	Processing      bool                          `json:"processing"`
	Confirmation    *Confirmation                 `json:"confirmation,omitempty"`
}

// SessionView is one buyer's seat map and checkout state
type SessionView struct {
	ID        string           `json:"id"`
	SeatMap   seatmap.Snapshot `json:"seat_map"`
	Checkout  FlowSnapshot     `json:"checkout"`
	ExpiresAt time.Time        `json:"expires_at"`
}
