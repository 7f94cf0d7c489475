package layout

import (
	"circustix/internal/pricing"
)

// SeatResponse is a seat as drawn by clients
type SeatResponse struct {
	Seat
	Price float64 `json:"price"`
}

// LayoutResponse is the materialized layout of a show context
type LayoutResponse struct {
	ShowContext string                              `json:"show_context"`
	Blueprint   string                              `json:"blueprint"`
	ViewBox     Rect                                `json:"view_box"`
	Stage       Rect                                `json:"stage"`
	Sections    []Section                           `json:"sections"`
	Groups      map[string][]string                 `json:"groups"`
	Seats       []SeatResponse                      `json:"seats"`
	Prices      map[pricing.Tier]pricing.TierPrices `json:"prices"`
}

// NewLayoutResponse renders a layout with nominal seat prices
func NewLayoutResponse(showContext string, l *Layout, catalog *pricing.Catalog) LayoutResponse {
	seats := l.Seats()
	out := make([]SeatResponse, len(seats))
	for i, s := range seats {
		out[i] = SeatResponse{Seat: s, Price: catalog.NominalPrice(s.Tier)}
	}
	return LayoutResponse{
		ShowContext: showContext,
		Blueprint:   l.Blueprint(),
		ViewBox:     l.ViewBox(),
		Stage:       l.Stage(),
		Sections:    l.Sections(),
		Groups:      l.Groups(),
		Seats:       out,
		Prices:      catalog.Table(),
	}
}
