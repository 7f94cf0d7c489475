package seatmap

import (
	"context"
	"errors"
	"sync"
	"testing"

	"circustix/internal/layout"
	"circustix/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bigTopOnce sync.Once
	bigTop     *layout.Layout
	bigTopErr  error
)

func newView(t *testing.T) *View {
	t.Helper()
	bigTopOnce.Do(func() {
		bigTop, bigTopErr = layout.Build(layout.BigTop(), layout.NewGenerator(layout.DefaultOptions()))
	})
	require.NoError(t, bigTopErr)
	return New("show-42", bigTop, pricing.NewCatalog(pricing.DefaultRules()))
}

type staticOccupancy struct {
	seats []string
	err   error
}

func (s staticOccupancy) GetReservedSeats(ctx context.Context, showContext string) ([]string, error) {
	return s.seats, s.err
}

func TestSelectSectionCentresGroup(t *testing.T) {
	v := newView(t)
	assert.Equal(t, StateOverview, v.State())
	assert.Equal(t, Identity(), v.Transform())

	require.NoError(t, v.SelectSection("Left Top"))
	assert.Equal(t, StateSectionFocused, v.State())

	bounds, ok := v.Layout().GroupBounds("left-top")
	require.True(t, ok)
	c := bounds.Center()
	tr := v.Transform()
	assert.Equal(t, FocusZoom, tr.Scale)
	assert.InDelta(t, 500-c.X*2.5, tr.X, 1e-9)
	assert.InDelta(t, 425-c.Y*2.5, tr.Y, 1e-9)

	// the group centre lands on the viewport centre
	centre := tr.ToScreen(c)
	assert.InDelta(t, ViewportCenter.X, centre.X, 1e-9)
	assert.InDelta(t, ViewportCenter.Y, centre.Y, 1e-9)

	assert.ErrorIs(t, v.SelectSection("Balcony"), ErrUnknownSection)
}

func TestGroupedSectionsShareFocus(t *testing.T) {
	v := newView(t)

	require.NoError(t, v.SelectSection("Gap Left Inner"))
	section, group := v.FocusedSection()
	assert.Equal(t, "Gap Left Inner", section)
	assert.Equal(t, "corner-left", group)
	before := v.Transform()

	// a corner seat belongs to the same zoom group: toggled, not refocused
	res, err := v.ClickSeat("corner-left-r11-c0")
	require.NoError(t, err)
	assert.Equal(t, ClickSelected, res)
	assert.Equal(t, before, v.Transform())

	res, err = v.ClickSeat("gap-left-outer-r0-c0")
	require.NoError(t, err)
	assert.Equal(t, ClickSelected, res)
	assert.Equal(t, []string{"corner-left-r11-c0", "gap-left-outer-r0-c0"}, v.Selection())
}

func TestClickSeatToggles(t *testing.T) {
	v := newView(t)

	// in the overview a seat click opens its section
	res, err := v.ClickSeat("bottom-center-r0-c0")
	require.NoError(t, err)
	assert.Equal(t, ClickFocused, res)
	assert.Empty(t, v.Selection())

	res, err = v.ClickSeat("bottom-center-r0-c0")
	require.NoError(t, err)
	assert.Equal(t, ClickSelected, res)

	res, err = v.ClickSeat("bottom-center-r0-c1")
	require.NoError(t, err)
	assert.Equal(t, ClickSelected, res)

	res, err = v.ClickSeat("bottom-center-r0-c0")
	require.NoError(t, err)
	assert.Equal(t, ClickDeselected, res)
	assert.Equal(t, []string{"bottom-center-r0-c1"}, v.Selection())

	_, err = v.ClickSeat("nowhere-r0-c0")
	assert.ErrorIs(t, err, ErrUnknownSeat)
}

func TestClickSeatInOtherSectionRefocuses(t *testing.T) {
	v := newView(t)
	require.NoError(t, v.SelectSection("Bottom Center"))
	_, err := v.ClickSeat("bottom-center-r0-c0")
	require.NoError(t, err)

	res, err := v.ClickSeat("left-top-r0-c0")
	require.NoError(t, err)
	assert.Equal(t, ClickFocused, res)

	section, _ := v.FocusedSection()
	assert.Equal(t, "Left Top", section)
	assert.Equal(t, []string{"bottom-center-r0-c0"}, v.Selection())
}

func TestResetKeepsSelection(t *testing.T) {
	v := newView(t)
	require.NoError(t, v.SelectSection("Bottom Center"))
	_, err := v.ClickSeat("bottom-center-r0-c0")
	require.NoError(t, err)

	v.Reset()
	assert.Equal(t, StateOverview, v.State())
	assert.Equal(t, Identity(), v.Transform())
	section, group := v.FocusedSection()
	assert.Empty(t, section)
	assert.Empty(t, group)
	assert.Equal(t, []string{"bottom-center-r0-c0"}, v.Selection())

	v.Clear()
	assert.Empty(t, v.Selection())
}

func TestZoomAndPanOnlyMoveTheView(t *testing.T) {
	v := newView(t)
	require.NoError(t, v.SelectSection("Bottom Center"))
	_, err := v.ClickSeat("bottom-center-r0-c0")
	require.NoError(t, err)

	tr := v.ZoomIn()
	assert.InDelta(t, 3.0, tr.Scale, 1e-9)
	for i := 0; i < 10; i++ {
		tr = v.ZoomIn()
	}
	assert.Equal(t, MaxZoom, tr.Scale)

	for i := 0; i < 20; i++ {
		tr = v.ZoomOut()
	}
	assert.Equal(t, MinZoom, tr.Scale)

	before := v.Transform()
	tr = v.Pan(10, -5)
	assert.InDelta(t, before.X+10, tr.X, 1e-9)
	assert.InDelta(t, before.Y-5, tr.Y, 1e-9)

	assert.Equal(t, StateSectionFocused, v.State())
	assert.Equal(t, []string{"bottom-center-r0-c0"}, v.Selection())
}

func TestClickPoint(t *testing.T) {
	v := newView(t)

	seat, ok := v.Layout().Seat("bottom-center-r0-c9")
	require.True(t, ok)
	name, err := v.ClickPoint(seat.Position())
	require.NoError(t, err)
	assert.Equal(t, "Bottom Center", name)
	assert.Equal(t, StateSectionFocused, v.State())

	// screen points are mapped through the zoomed transform
	other, ok := v.Layout().Seat("left-top-r6-c14")
	require.True(t, ok)
	name, err = v.ClickPoint(v.Transform().ToScreen(other.Position()))
	require.NoError(t, err)
	assert.Equal(t, "Left Top", name)
	section, _ := v.FocusedSection()
	assert.Equal(t, "Left Top", section)

	v.Reset()
	_, err = v.ClickPoint(layout.Point{X: 500, Y: 325})
	assert.ErrorIs(t, err, ErrNoSectionAtPoint)
}

func TestOccupancyOverlay(t *testing.T) {
	v := newView(t)
	require.NoError(t, v.SelectSection("Bottom Center"))
	_, err := v.ClickSeat("bottom-center-r0-c0")
	require.NoError(t, err)
	_, err = v.ClickSeat("bottom-center-r0-c1")
	require.NoError(t, err)

	dropped, err := v.LoadOccupancy(context.Background(), staticOccupancy{seats: []string{"bottom-center-r0-c1", "bottom-center-r0-c2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"bottom-center-r0-c1"}, dropped)
	assert.Equal(t, []string{"bottom-center-r0-c0"}, v.Selection())

	_, err = v.ClickSeat("bottom-center-r0-c2")
	assert.ErrorIs(t, err, ErrSeatOccupied)

	tests := []struct {
		seat string
		want SeatStatus
	}{
		{"bottom-center-r0-c0", SeatSelected},
		{"bottom-center-r0-c2", SeatOccupied},
		{"bottom-center-r0-c3", SeatAvailable},
		{"left-top-r0-c0", SeatDimmed},
	}
	for _, tt := range tests {
		t.Run(tt.seat, func(t *testing.T) {
			got, err := v.SeatStatus(tt.seat)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = v.LoadOccupancy(context.Background(), staticOccupancy{err: errors.New("redis down")})
	assert.Error(t, err)
	assert.Equal(t, []string{"bottom-center-r0-c0"}, v.Selection())
}

func TestSummaryAndProceed(t *testing.T) {
	v := newView(t)

	_, err := v.Proceed()
	assert.ErrorIs(t, err, ErrEmptySelection)

	require.NoError(t, v.SelectSection("Bottom Center"))
	for _, id := range []string{"bottom-center-r0-c0", "bottom-center-r0-c1", "bottom-center-r0-c2"} {
		_, err := v.ClickSeat(id)
		require.NoError(t, err)
	}
	s := v.Summary()
	assert.Equal(t, 3, s.SeatCount)
	assert.InDelta(t, 204.21, s.Subtotal, 0.001)
	assert.False(t, s.GroupDiscount)
	assert.InDelta(t, 204.21, s.Total, 0.001)

	_, err = v.ClickSeat("bottom-center-r0-c3")
	require.NoError(t, err)
	s = v.Summary()
	assert.True(t, s.GroupDiscount)
	assert.InDelta(t, 272.28, s.Subtotal, 0.001)
	assert.InDelta(t, 54.46, s.Discount, 0.001)
	assert.InDelta(t, 217.82, s.Total, 0.001)

	seats, err := v.Proceed()
	require.NoError(t, err)
	require.Len(t, seats, 4)
	assert.Equal(t, "bottom-center-r0-c0", seats[0].SeatID)
	assert.Equal(t, "VIP - Row A Seat 1", seats[0].Label)
	assert.Equal(t, "Bottom Center", seats[0].Section)
	assert.Equal(t, pricing.TierVIP, seats[0].Tier)
	assert.Equal(t, 68.07, seats[0].Price)

	snap := v.Snapshot()
	assert.Equal(t, "show-42", snap.ShowContext)
	assert.Len(t, snap.Selection, 4)
	assert.Equal(t, s, snap.Summary)
}
