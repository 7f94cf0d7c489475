package reservations

import (
	"circustix/internal/pricing"
)

type HoldSeatsRequest struct {
	ShowContext string   `json:"show_context" binding:"required,show_context"`
	SeatIDs     []string `json:"seat_ids" binding:"required,min=1,max=40,dive,required"`
	Holder      string   `json:"holder" binding:"omitempty,max=64"`
}

type ReleaseHoldRequest struct {
	ShowContext string   `json:"show_context" binding:"required,show_context"`
	SeatIDs     []string `json:"seat_ids" binding:"required,min=1,dive,required"`
	Holder      string   `json:"holder" binding:"omitempty,max=64"`
}

type OrderSeatRequest struct {
	SeatID     string  `json:"seat_id" binding:"required"`
	Label      string  `json:"label"`
	Section    string  `json:"section"`
	Tier       string  `json:"tier"`
	TicketType string  `json:"ticket_type" binding:"required,ticket_type"`
	Price      float64 `json:"price" binding:"gte=0"`
}

type CustomerRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
}

type CreateOrderRequest struct {
	OrderID      string             `json:"order_id" binding:"omitempty,max=40"`
	ShowContext  string             `json:"show_context" binding:"required,show_context"`
	Holder       string             `json:"holder" binding:"omitempty,max=64"`
	Seats        []OrderSeatRequest `json:"seats" binding:"required,min=1,max=40,dive"`
	Customer     CustomerRequest    `json:"customer" binding:"required"`
	PaymentToken string             `json:"payment_token" binding:"required"`
	CardBrand    string             `json:"card_brand" binding:"omitempty,max=32"`
	Last4        string             `json:"last4" binding:"omitempty,len=4,numeric"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,order_status"`
}

// ToInput converts the request into the service payload
func (r CreateOrderRequest) ToInput() CreateOrderInput {
	lines := make([]pricing.Line, len(r.Seats))
	for i, s := range r.Seats {
		lines[i] = pricing.Line{
			SeatID:     s.SeatID,
			Label:      s.Label,
			Section:    s.Section,
			Tier:       pricing.Tier(s.Tier),
			TicketType: pricing.TicketType(s.TicketType),
			Price:      s.Price,
		}
	}

	last4 := r.Last4
	if last4 == "" && len(r.PaymentToken) >= 4 {
		last4 = r.PaymentToken[len(r.PaymentToken)-4:]
	}

	return CreateOrderInput{
		OrderID:     r.OrderID,
		ShowContext: r.ShowContext,
		Holder:      r.Holder,
		Lines:       lines,
		Customer: Customer{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		Payment: PaymentMethod{
			Type:  "card",
			Brand: r.CardBrand,
			Last4: last4,
			Token: r.PaymentToken,
		},
	}
}
