package pricing

import (
	"fmt"
	"strings"
)

// Tier is a seat price band. VIP > Premium > General.
type Tier string

const (
	TierVIP     Tier = "VIP"
	TierPremium Tier = "Premium"
	TierGeneral Tier = "General"
)

// Tiers lists every tier from most to least expensive
var Tiers = []Tier{TierVIP, TierPremium, TierGeneral}

// Rank orders tiers; higher is better
func (t Tier) Rank() int {
	switch t {
	case TierVIP:
		return 3
	case TierPremium:
		return 2
	case TierGeneral:
		return 1
	default:
		return 0
	}
}

func (t Tier) IsValid() bool {
	return t.Rank() > 0
}

// ParseTier accepts tier names case-insensitively
func ParseTier(s string) (Tier, error) {
	for _, t := range Tiers {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// TicketType is the buyer category a seat is sold under
type TicketType string

const (
	TicketAdult TicketType = "Adult"
	TicketChild TicketType = "Child"
	TicketPromo TicketType = "Promo"
)

// TicketTypes lists every ticket type in display order
var TicketTypes = []TicketType{TicketAdult, TicketChild, TicketPromo}

func (t TicketType) IsValid() bool {
	switch t {
	case TicketAdult, TicketChild, TicketPromo:
		return true
	}
	return false
}

// TierPrices is one row of the catalog. Promo is nil where the tier has no promo fare.
type TierPrices struct {
	Adult float64  `json:"adult"`
	Child float64  `json:"child"`
	Promo *float64 `json:"promo,omitempty"`
}

// SelectedSeat is a seat handed from the seat map to checkout
type SelectedSeat struct {
	SeatID  string  `json:"seat_id"`
	Label   string  `json:"label"`
	Section string  `json:"section"`
	Tier    Tier    `json:"tier"`
	Price   float64 `json:"price"`
}

// Line is a priced seat after ticket-type assignment
type Line struct {
	SeatID     string     `json:"seat_id"`
	Label      string     `json:"label"`
	Section    string     `json:"section"`
	Tier       Tier       `json:"tier"`
	TicketType TicketType `json:"ticket_type"`
	Price      float64    `json:"price"`
}

// Quote is the final price breakdown of a checkout
type Quote struct {
	SeatCount          int     `json:"seat_count"`
	Subtotal           float64 `json:"subtotal"`
	Discount           float64 `json:"discount"`
	DiscountedSubtotal float64 `json:"discounted_subtotal"`
	ServiceFee         float64 `json:"service_fee"`
	Total              float64 `json:"total"`
	GroupDiscount      bool    `json:"group_discount"`
}
