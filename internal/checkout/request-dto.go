package checkout

import (
	"circustix/internal/pricing"
	"circustix/internal/reservations"
)

type CreateSessionRequest struct {
	ShowContext string `json:"show_context" binding:"required,show_context"`
}

type ClickPointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ZoomRequest struct {
	Action string  `json:"action" binding:"required,oneof=in out pan"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

// AssignmentRequest either sets per-type counts or the type of one seat.
// An empty ticket type on a seat clears it.
type AssignmentRequest struct {
	Counts     *CountsRequest `json:"counts"`
	SeatID     string         `json:"seat_id" binding:"required_without=Counts"`
	TicketType string         `json:"ticket_type" binding:"omitempty,ticket_type"`
}

type CountsRequest struct {
	Adult int `json:"adult" binding:"gte=0,lte=40"`
	Child int `json:"child" binding:"gte=0,lte=40"`
	Promo int `json:"promo" binding:"gte=0,lte=40"`
}

func (r CountsRequest) ToCounts() pricing.Counts {
	return pricing.Counts{Adult: r.Adult, Child: r.Child, Promo: r.Promo}
}

type PayRequest struct {
	Customer struct {
		Name  string `json:"name" binding:"required,max=255"`
		Email string `json:"email" binding:"required,email"`
		Phone string `json:"phone" binding:"omitempty,max=32"`
	} `json:"customer" binding:"required"`
	Card struct {
		Number string `json:"number" binding:"required,min=12,max=23"`
		Name   string `json:"name" binding:"required,max=255"`
		Expiry string `json:"expiry" binding:"required,max=7"`
		CVC    string `json:"cvc" binding:"required,numeric,min=3,max=4"`
	} `json:"card" binding:"required"`
}

func (r PayRequest) ToDetails() PaymentDetails {
	return PaymentDetails{
		Customer: reservations.Customer{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		Card: Card{
			Number: r.Card.Number,
			Name:   r.Card.Name,
			Expiry: r.Card.Expiry,
			CVC:    r.Card.CVC,
		},
	}
}
