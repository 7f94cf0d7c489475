package seatmap

import (
	"errors"

	"circustix/internal/layout"
)

var (
	ErrUnknownSection   = errors.New("unknown section")
	ErrUnknownSeat      = errors.New("unknown seat")
	ErrSeatOccupied     = errors.New("seat is already reserved")
	ErrEmptySelection   = errors.New("no seats selected")
	ErrNoSectionAtPoint = errors.New("no section at point")
)

// Zoom and viewport constants of the 1000x850 drawing plane
const (
	FocusZoom = 2.5
	ZoomStep  = 1.2
	MinZoom   = 0.5
	MaxZoom   = 5.0
)

// ViewportCenter is where a focused section is centred
var ViewportCenter = layout.Point{X: 500, Y: 425}

// State is the interaction mode of the view
type State string

const (
	StateOverview       State = "overview"
	StateSectionFocused State = "section_focused"
)

// SeatStatus is the derived display status of one seat
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatSelected  SeatStatus = "selected"
	SeatOccupied  SeatStatus = "occupied"
	SeatDimmed    SeatStatus = "dimmed"
)

// ClickResult says what a seat click did
type ClickResult string

const (
	ClickSelected   ClickResult = "selected"
	ClickDeselected ClickResult = "deselected"
	ClickFocused    ClickResult = "focused"
)

// Transform is the translate-then-scale view transform
type Transform struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Identity is the unzoomed transform
func Identity() Transform {
	return Transform{Scale: 1}
}

// ToWorld maps a screen point back onto the drawing plane
func (t Transform) ToWorld(p layout.Point) layout.Point {
	return layout.Point{X: (p.X - t.X) / t.Scale, Y: (p.Y - t.Y) / t.Scale}
}

// ToScreen maps a drawing plane point onto the screen
func (t Transform) ToScreen(p layout.Point) layout.Point {
	return layout.Point{X: p.X*t.Scale + t.X, Y: p.Y*t.Scale + t.Y}
}

// Summary is the informational running total at nominal (adult) prices
type Summary struct {
	SeatCount     int     `json:"seat_count"`
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	Total         float64 `json:"total"`
	GroupDiscount bool    `json:"group_discount"`
}

// Snapshot is the serializable state of a view
type Snapshot struct {
	ShowContext    string    `json:"show_context"`
	State          State     `json:"state"`
	FocusedSection string    `json:"focused_section,omitempty"`
	FocusedGroup   string    `json:"focused_group,omitempty"`
	Transform      Transform `json:"transform"`
	Selection      []string  `json:"selection"`
	Occupied       []string  `json:"occupied"`
	Summary        Summary   `json:"summary"`
}
