package seatmap

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"circustix/internal/layout"
	"circustix/internal/pricing"
)

// OccupancyReader lists the reserved seats of a show context
type OccupancyReader interface {
	GetReservedSeats(ctx context.Context, showContext string) ([]string, error)
}

// View is the seat map interaction state of one buyer. Overview shows every
// section; SectionFocused zooms onto one zoom group whose seats are clickable.
// The selection survives Reset and is only dropped by Clear.
type View struct {
	mu sync.Mutex

	showContext string
	layout      *layout.Layout
	catalog     *pricing.Catalog

	state        State
	focusSection string
	focusGroup   string
	transform    Transform

	selection []string
	occupied  map[string]bool
}

func New(showContext string, l *layout.Layout, catalog *pricing.Catalog) *View {
	return &View{
		showContext: showContext,
		layout:      l,
		catalog:     catalog,
		state:       StateOverview,
		transform:   Identity(),
		occupied:    make(map[string]bool),
	}
}

func (v *View) ShowContext() string {
	return v.showContext
}

func (v *View) Layout() *layout.Layout {
	return v.layout
}

// SelectSection focuses a section together with its zoom group and centres
// the group bounding box at the focus zoom
func (v *View) SelectSection(name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.focus(name)
}

func (v *View) focus(name string) error {
	if _, ok := v.layout.Section(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}
	group, _ := v.layout.GroupOf(name)

	v.state = StateSectionFocused
	v.focusSection = name
	v.focusGroup = group

	if bounds, ok := v.layout.GroupBounds(group); ok {
		c := bounds.Center()
		v.transform = Transform{
			Scale: FocusZoom,
			X:     ViewportCenter.X - c.X*FocusZoom,
			Y:     ViewportCenter.Y - c.Y*FocusZoom,
		}
	}
	return nil
}

// ClickSeat toggles a seat of the focused group. A seat outside it focuses
// the seat's section instead.
func (v *View) ClickSeat(seatID string) (ClickResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	seat, ok := v.layout.Seat(seatID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSeat, seatID)
	}
	if v.occupied[seatID] {
		return "", fmt.Errorf("%w: %s", ErrSeatOccupied, seatID)
	}

	if !v.inFocus(seat.Section) {
		if err := v.focus(seat.Section); err != nil {
			return "", err
		}
		return ClickFocused, nil
	}

	for i, id := range v.selection {
		if id == seatID {
			v.selection = append(v.selection[:i], v.selection[i+1:]...)
			return ClickDeselected, nil
		}
	}
	v.selection = append(v.selection, seatID)
	return ClickSelected, nil
}

// ClickPoint hit-tests a screen point against section boundaries and focuses
// the section found there
func (v *View) ClickPoint(screen layout.Point) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	name, ok := v.layout.SectionAt(v.transform.ToWorld(screen))
	if !ok {
		return "", ErrNoSectionAtPoint
	}
	if v.inFocus(name) {
		return name, nil
	}
	return name, v.focus(name)
}

func (v *View) inFocus(section string) bool {
	if v.state != StateSectionFocused {
		return false
	}
	group, _ := v.layout.GroupOf(section)
	return group == v.focusGroup
}

// Reset returns to the overview at the identity transform
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.state = StateOverview
	v.focusSection = ""
	v.focusGroup = ""
	v.transform = Identity()
}

func (v *View) ZoomIn() Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transform.Scale = math.Min(v.transform.Scale*ZoomStep, MaxZoom)
	return v.transform
}

func (v *View) ZoomOut() Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transform.Scale = math.Max(v.transform.Scale/ZoomStep, MinZoom)
	return v.transform
}

// Pan moves the view by a screen offset
func (v *View) Pan(dx, dy float64) Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transform.X += dx
	v.transform.Y += dy
	return v.transform
}

func (v *View) Transform() Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.transform
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// FocusedSection returns the focused section and its zoom group
func (v *View) FocusedSection() (string, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.focusSection, v.focusGroup
}

// LoadOccupancy refreshes the reserved seats of the show context. Selected
// seats that turned out to be reserved are dropped from the selection and returned.
func (v *View) LoadOccupancy(ctx context.Context, reader OccupancyReader) ([]string, error) {
	reserved, err := reader.GetReservedSeats(ctx, v.showContext)
	if err != nil {
		return nil, fmt.Errorf("failed to load occupancy: %w", err)
	}
	return v.SetOccupied(reserved), nil
}

// SetOccupied replaces the reserved seat set
func (v *View) SetOccupied(seatIDs []string) []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.occupied = make(map[string]bool, len(seatIDs))
	for _, id := range seatIDs {
		v.occupied[id] = true
	}

	var dropped []string
	kept := v.selection[:0]
	for _, id := range v.selection {
		if v.occupied[id] {
			dropped = append(dropped, id)
			continue
		}
		kept = append(kept, id)
	}
	v.selection = kept
	return dropped
}

// SeatStatus derives the display status of a seat
func (v *View) SeatStatus(seatID string) (SeatStatus, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	seat, ok := v.layout.Seat(seatID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSeat, seatID)
	}
	switch {
	case v.occupied[seatID]:
		return SeatOccupied, nil
	case v.selected(seatID):
		return SeatSelected, nil
	case v.state == StateSectionFocused && !v.inFocus(seat.Section):
		return SeatDimmed, nil
	default:
		return SeatAvailable, nil
	}
}

func (v *View) selected(seatID string) bool {
	for _, id := range v.selection {
		if id == seatID {
			return true
		}
	}
	return false
}

// Selection returns the selected seat ids in click order
func (v *View) Selection() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string{}, v.selection...)
}

// Summary totals the selection at nominal prices with the group discount
func (v *View) Summary() Summary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.summary()
}

func (v *View) summary() Summary {
	prices := make([]float64, 0, len(v.selection))
	for _, id := range v.selection {
		seat, _ := v.layout.Seat(id)
		prices = append(prices, v.catalog.NominalPrice(seat.Tier))
	}
	q := v.catalog.Quote(prices)
	return Summary{
		SeatCount:     q.SeatCount,
		Subtotal:      q.Subtotal,
		Discount:      q.Discount,
		Total:         q.DiscountedSubtotal,
		GroupDiscount: q.GroupDiscount,
	}
}

// Proceed resolves the selection into seat records for checkout
func (v *View) Proceed() ([]pricing.SelectedSeat, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.selection) == 0 {
		return nil, ErrEmptySelection
	}
	out := make([]pricing.SelectedSeat, 0, len(v.selection))
	for _, id := range v.selection {
		seat, _ := v.layout.Seat(id)
		out = append(out, pricing.SelectedSeat{
			SeatID:  seat.ID,
			Label:   seat.Label,
			Section: seat.Section,
			Tier:    seat.Tier,
			Price:   v.catalog.NominalPrice(seat.Tier),
		})
	}
	return out, nil
}

// Clear drops the selection once checkout completes or is cancelled
func (v *View) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection = nil
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	occupied := make([]string, 0, len(v.occupied))
	for id := range v.occupied {
		occupied = append(occupied, id)
	}
	sort.Strings(occupied)

	return Snapshot{
		ShowContext:    v.showContext,
		State:          v.state,
		FocusedSection: v.focusSection,
		FocusedGroup:   v.focusGroup,
		Transform:      v.transform,
		Selection:      append([]string{}, v.selection...),
		Occupied:       occupied,
		Summary:        v.summary(),
	}
}
