package checkout

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"circustix/internal/layout"
	"circustix/internal/pricing"
	"circustix/internal/reservations"
	"circustix/internal/seatmap"
	"circustix/internal/shared/config"
	"circustix/internal/shows"
	"circustix/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type stubIssuer struct{}

func (stubIssuer) QRDataURL(order *reservations.Order) (string, error) {
	return "data:image/png;base64," + order.ID, nil
}

type sessionFixture struct {
	service      Service
	sessions     *Sessions
	reservations reservations.Service
	clock        *testClock
}

func newSessionFixture(t *testing.T) sessionFixture {
	t.Helper()
	log := logger.NewWithWriter(io.Discard, "error")
	catalog := pricing.NewCatalog(pricing.DefaultRules())
	provider := shows.NewProvider(shows.Fixtures(), nil)
	layouts := layout.NewCache(layout.NewGenerator(layout.DefaultOptions()), layout.DefaultBlueprints(), provider)

	res := reservations.NewService(
		reservations.NewMemoryHoldStore(nil),
		reservations.NewMemoryOrderStore(),
		reservations.NewMemoryOrderStore(),
		catalog,
		config.ReservationConfig{HoldTTL: 5 * time.Minute, PrimaryStoreTimeout: time.Second},
		reservations.WithLayouts(layouts),
		reservations.WithShowResolver(provider),
		reservations.WithLogger(log),
	)

	clock := &testClock{now: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)}
	sessions := NewSessions(layouts, res, Dependencies{
		Reserver:  res,
		Tickets:   stubIssuer{},
		Tokenizer: NewMockTokenizer(0),
		Catalog:   catalog,
		Config:    config.CheckoutConfig{Timeout: 5 * time.Second, SessionTTL: 10 * time.Minute},
		Logger:    log,
		Now:       clock.Now,
	})
	return sessionFixture{service: NewService(sessions), sessions: sessions, reservations: res, clock: clock}
}

// selectSeats focuses the seats' section and selects each seat
func (f sessionFixture) selectSeats(t *testing.T, id string, seatIDs ...string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.service.SelectSection(ctx, id, "bottom-center")
	require.NoError(t, err)
	for _, seatID := range seatIDs {
		result, _, err := f.service.ClickSeat(ctx, id, seatID)
		require.NoError(t, err)
		require.Equal(t, seatmap.ClickSelected, result)
	}
}

func TestSessionJourney(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateSession(ctx, "1-lv-p1")
	require.NoError(t, err)
	assert.Equal(t, StepSeatSelection, session.Checkout.Step)
	assert.Equal(t, f.clock.Now().Add(10*time.Minute), session.ExpiresAt)

	result, _, err := f.service.ClickSeat(ctx, session.ID, "bottom-center-r0-c0")
	require.NoError(t, err)
	assert.Equal(t, seatmap.ClickFocused, result)

	f.selectSeats(t, session.ID, "bottom-center-r0-c0", "bottom-center-r0-c1")

	view, err := f.service.Proceed(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepTicketTypeAssignment, view.Checkout.Step)

	occ, err := f.reservations.Occupancy(ctx, "1-lv-p1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bottom-center-r0-c0", "bottom-center-r0-c1"}, occ.Held)

	_, _, err = f.service.ClickSeat(ctx, session.ID, "bottom-center-r0-c2")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	view, err = f.service.Advance(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Checkout.Quote)
	assert.InDelta(t, 142.95, view.Checkout.Quote.Total, 0.001)

	conf, err := f.service.Pay(ctx, session.ID, testCard())
	require.NoError(t, err)
	assert.True(t, conf.Durable)
	assert.True(t, conf.QRAvailable)
	assert.InDelta(t, 142.95, conf.Order.Total, 0.001)

	view, err = f.service.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepConfirmation, view.Checkout.Step)
	assert.Empty(t, view.SeatMap.Selection)
	assert.Subset(t, view.SeatMap.Occupied, []string{"bottom-center-r0-c0", "bottom-center-r0-c1"})

	order, err := f.reservations.GetOrder(ctx, conf.OrderID)
	require.NoError(t, err)
	assert.Equal(t, reservations.StatusPaid, order.Status)
	assert.Equal(t, "visa", order.Payment.Brand)
}

func TestProceedConflictRefreshesOccupancy(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateSession(ctx, "1-lv-p1")
	require.NoError(t, err)
	f.selectSeats(t, session.ID, "bottom-center-r0-c0", "bottom-center-r0-c1")

	_, err = f.reservations.HoldSeats(ctx, reservations.HoldRequest{ShowContext: "1-lv-p1", SeatIDs: []string{"bottom-center-r0-c1"}, Holder: "someone-else"})
	require.NoError(t, err)

	_, err = f.service.Proceed(ctx, session.ID)
	require.ErrorIs(t, err, reservations.ErrHoldConflict)

	view, err := f.service.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepSeatSelection, view.Checkout.Step)
	assert.Equal(t, []string{"bottom-center-r0-c0"}, view.SeatMap.Selection)
	assert.Contains(t, view.SeatMap.Occupied, "bottom-center-r0-c1")
}

func TestSelectSectionAcceptsNameOrSlug(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session, err := f.service.CreateSession(ctx, "1-lv-p1")
	require.NoError(t, err)

	view, err := f.service.SelectSection(ctx, session.ID, "Left Top")
	require.NoError(t, err)
	assert.Equal(t, "Left Top", view.SeatMap.FocusedSection)

	view, err = f.service.SelectSection(ctx, session.ID, "bottom-center")
	require.NoError(t, err)
	assert.Equal(t, "Bottom Center", view.SeatMap.FocusedSection)

	_, err = f.service.SelectSection(ctx, session.ID, "balcony")
	assert.ErrorIs(t, err, seatmap.ErrUnknownSection)

	view, err = f.service.ResetView(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, seatmap.StateOverview, view.SeatMap.State)
}

func TestZoom(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session, err := f.service.CreateSession(ctx, "1-lv-p1")
	require.NoError(t, err)

	view, err := f.service.Zoom(ctx, session.ID, ZoomIn, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, seatmap.ZoomStep, view.SeatMap.Transform.Scale, 1e-9)

	view, err = f.service.Zoom(ctx, session.ID, ZoomPan, 10, -5)
	require.NoError(t, err)
	assert.InDelta(t, 10, view.SeatMap.Transform.X, 1e-9)
	assert.InDelta(t, -5, view.SeatMap.Transform.Y, 1e-9)

	_, err = f.service.Zoom(ctx, session.ID, "sideways", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidZoom)
}

func TestCreateSessionUnknownContext(t *testing.T) {
	f := newSessionFixture(t)
	_, err := f.service.CreateSession(context.Background(), "99-nowhere-p9")
	assert.ErrorIs(t, err, layout.ErrUnknownContext)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestPruneExpiredSessionReleasesHold(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateSession(ctx, "1-lv-p1")
	require.NoError(t, err)
	f.selectSeats(t, session.ID, "bottom-center-r0-c0")
	_, err = f.service.Proceed(ctx, session.ID)
	require.NoError(t, err)

	f.clock.Advance(5 * time.Minute)
	assert.Equal(t, 0, f.sessions.Prune(ctx))

	f.clock.Advance(11 * time.Minute)
	assert.Equal(t, 1, f.sessions.Prune(ctx))

	_, err = f.service.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	reserved, err := f.reservations.GetReservedSeats(ctx, "1-lv-p1")
	require.NoError(t, err)
	assert.NotContains(t, reserved, "bottom-center-r0-c0")
}

func TestDeleteSessionReleasesHold(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateSession(ctx, "1-lv-p1")
	require.NoError(t, err)
	f.selectSeats(t, session.ID, "bottom-center-r0-c0")
	_, err = f.service.Proceed(ctx, session.ID)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteSession(ctx, session.ID))
	assert.ErrorIs(t, f.service.DeleteSession(ctx, session.ID), ErrSessionNotFound)

	reserved, err := f.reservations.GetReservedSeats(ctx, "1-lv-p1")
	require.NoError(t, err)
	assert.Empty(t, reserved)
}

func TestCancelKeepsSessionOpen(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateSession(ctx, "1-lv-p1")
	require.NoError(t, err)
	f.selectSeats(t, session.ID, "bottom-center-r0-c0")
	_, err = f.service.Proceed(ctx, session.ID)
	require.NoError(t, err)

	view, err := f.service.Cancel(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepSeatSelection, view.Checkout.Step)
	assert.Empty(t, view.SeatMap.Selection)

	reserved, err := f.reservations.GetReservedSeats(ctx, "1-lv-p1")
	require.NoError(t, err)
	assert.Empty(t, reserved)
}

func TestStartPruningRejectsNonPositiveInterval(t *testing.T) {
	f := newSessionFixture(t)
	assert.Error(t, f.sessions.StartPruning(0))

	require.NoError(t, f.sessions.StartPruning(time.Hour))
	assert.NoError(t, f.sessions.Stop())
}
