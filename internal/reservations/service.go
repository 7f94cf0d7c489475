package reservations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"circustix/internal/layout"
	"circustix/internal/pricing"
	"circustix/internal/shared/config"
	"circustix/internal/shows"
	"circustix/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	// Seat Holding
	HoldSeats(ctx context.Context, req HoldRequest) (*HoldResult, error)
	ReleaseHold(ctx context.Context, showContext, holder string, seatIDs []string) error
	PurgeExpiredHolds(ctx context.Context) (int, error)

	// Occupancy
	GetReservedSeats(ctx context.Context, showContext string) ([]string, error)
	Occupancy(ctx context.Context, showContext string) (*Occupancy, error)

	// Orders
	CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderResult, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status Status) (*Order, error)
}

// ContextResolver stamps orders with show and performance descriptors
type ContextResolver interface {
	Context(ctx context.Context, key string) (*shows.ShowContext, error)
}

// HoldRequest asks for seats under one show context. An empty holder gets a fresh token.
type HoldRequest struct {
	ShowContext string
	SeatIDs     []string
	Holder      string
}

type service struct {
	holds    HoldStore
	primary  OrderStore
	fallback OrderStore
	catalog  *pricing.Catalog
	cfg      config.ReservationConfig

	layouts *layout.Cache
	shows   ContextResolver
	log     *logger.Logger
	now     func() time.Time
}

type Option func(*service)

// WithLayouts rejects seat ids the show context layout does not have
func WithLayouts(c *layout.Cache) Option {
	return func(s *service) { s.layouts = c }
}

func WithShowResolver(r ContextResolver) Option {
	return func(s *service) { s.shows = r }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// NewService wires the reservation stores. primary may be nil when the
// database is disabled; fallback is required.
func NewService(holds HoldStore, primary, fallback OrderStore, catalog *pricing.Catalog, cfg config.ReservationConfig, opts ...Option) Service {
	s := &service{
		holds:    holds,
		primary:  primary,
		fallback: fallback,
		catalog:  catalog,
		cfg:      cfg,
		log:      logger.GetDefault(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOrderID builds GBC-<unix millis>-<6 upper-case alphanumerics>
func NewOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("GBC-%d-%s", now.UnixMilli(), suffix)
}

//  SEAT HOLDING

func (s *service) HoldSeats(ctx context.Context, req HoldRequest) (*HoldResult, error) {
	seatIDs := dedupe(req.SeatIDs)
	if req.ShowContext == "" || len(seatIDs) == 0 {
		return nil, fmt.Errorf("%w: show context and seat ids are required", ErrInvalidRequest)
	}
	if err := s.checkSeats(ctx, req.ShowContext, seatIDs); err != nil {
		return nil, err
	}

	// sold seats are never holdable, whoever asks
	sold, _ := s.soldSeats(ctx, req.ShowContext)
	if taken := intersect(seatIDs, sold); len(taken) > 0 {
		s.log.LogHoldConflict(ctx, req.ShowContext, taken)
		return nil, &HoldConflictError{ShowContext: req.ShowContext, SeatIDs: taken}
	}

	holder := req.Holder
	if holder == "" {
		holder = uuid.NewString()
	}

	expiresAt, err := s.holds.Acquire(ctx, req.ShowContext, holder, seatIDs, s.cfg.HoldTTL)
	if err != nil {
		var conflict *HoldConflictError
		if errors.As(err, &conflict) {
			s.log.LogHoldConflict(ctx, req.ShowContext, conflict.SeatIDs)
			return nil, err
		}
		s.log.WithError(err).ErrorContext(ctx, "Failed to hold seats", "show_context", req.ShowContext)
		return nil, fmt.Errorf("%w: %v", ErrHoldUnavailable, err)
	}

	s.log.LogSeatsHeld(ctx, req.ShowContext, holder, len(seatIDs), expiresAt)
	return &HoldResult{
		ShowContext: req.ShowContext,
		Holder:      holder,
		SeatIDs:     seatIDs,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *service) ReleaseHold(ctx context.Context, showContext, holder string, seatIDs []string) error {
	if showContext == "" {
		return fmt.Errorf("%w: show context is required", ErrInvalidRequest)
	}
	if err := s.holds.Release(ctx, showContext, holder, dedupe(seatIDs)); err != nil {
		return fmt.Errorf("%w: %v", ErrHoldUnavailable, err)
	}
	return nil
}

func (s *service) PurgeExpiredHolds(ctx context.Context) (int, error) {
	return s.holds.Purge(ctx)
}

func (s *service) checkSeats(ctx context.Context, showContext string, seatIDs []string) error {
	if s.layouts == nil {
		return nil
	}
	l, err := s.layouts.Get(ctx, showContext)
	if err != nil {
		return err
	}
	var unknown []string
	for _, id := range seatIDs {
		if _, ok := l.Seat(id); !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSeat, strings.Join(unknown, ", "))
	}
	return nil
}

//  OCCUPANCY

func (s *service) GetReservedSeats(ctx context.Context, showContext string) ([]string, error) {
	occ, err := s.Occupancy(ctx, showContext)
	if err != nil {
		return nil, err
	}
	return occ.Reserved, nil
}

// Occupancy never fails on store trouble; it reports what it could read and flags the gap
func (s *service) Occupancy(ctx context.Context, showContext string) (*Occupancy, error) {
	if showContext == "" {
		return nil, fmt.Errorf("%w: show context is required", ErrInvalidRequest)
	}

	sold, degraded := s.soldSeats(ctx, showContext)

	var held []string
	live, err := s.holds.Live(ctx, showContext)
	if err != nil {
		degraded = true
		s.log.WithError(err).WarnContext(ctx, "Hold store unavailable, occupancy excludes holds", "show_context", showContext)
	}
	for _, h := range live {
		held = append(held, h.SeatID)
	}
	sort.Strings(held)

	return &Occupancy{
		ShowContext: showContext,
		Sold:        nonNil(sold),
		Held:        nonNil(held),
		Reserved:    union(sold, held),
		Degraded:    degraded,
	}, nil
}

// soldSeats unions both order stores; the bool reports a store that could not be read
func (s *service) soldSeats(ctx context.Context, showContext string) ([]string, bool) {
	degraded := false

	sold, err := callPrimary(ctx, s, func(ctx context.Context) ([]string, error) {
		return s.primary.SoldSeats(ctx, showContext)
	})
	if err != nil && s.primary != nil {
		degraded = true
		s.log.WithError(err).WarnContext(ctx, "Primary order store unavailable for occupancy", "show_context", showContext)
	}

	fallbackSold, err := s.fallback.SoldSeats(ctx, showContext)
	if err != nil {
		degraded = true
		s.log.WithError(err).WarnContext(ctx, "Fallback order store unavailable for occupancy", "show_context", showContext)
	}
	return union(sold, fallbackSold), degraded
}

//  ORDERS

func (s *service) CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderResult, error) {
	order, err := s.buildOrder(ctx, in)
	if err != nil {
		return nil, err
	}
	ctx = s.withPrimaryBudget(ctx)

	// a retry may find its first attempt already stored
	if in.OrderID != "" {
		if existing, err := s.GetOrder(ctx, in.OrderID); err == nil {
			return s.replay(ctx, existing, order, existing.Durable)
		}
	}

	if err := s.checkAvailable(ctx, order.ShowContext, in.Holder, order.SeatIDs()); err != nil {
		return nil, err
	}

	primaryCopy := cloneOrder(*order)
	_, err = callPrimary(ctx, s, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.primary.Create(ctx, &primaryCopy)
	})
	if err == nil {
		return s.complete(ctx, order, true), nil
	}
	if errors.Is(err, ErrOrderExists) {
		if existing, getErr := s.getPrimary(ctx, order.ID); getErr == nil {
			return s.replay(ctx, existing, order, true)
		}
	}

	if s.primary != nil {
		s.log.LogOrderFallback(ctx, order.ID, err)
	}
	if ferr := s.fallback.Create(ctx, order); ferr != nil {
		if errors.Is(ferr, ErrOrderExists) {
			if existing, getErr := s.fallback.Get(ctx, order.ID); getErr == nil {
				return s.replay(ctx, existing, order, false)
			}
		}
		s.log.WithError(ferr).ErrorContext(ctx, "Order could not be stored", "order_id", order.ID)
		return nil, fmt.Errorf("%w: primary: %v; fallback: %v", ErrPersistenceFailure, err, ferr)
	}
	return s.complete(ctx, order, false), nil
}

// replay answers a retried order id with the stored order, as long as the
// retry asks for the same seats under the same show context
func (s *service) replay(ctx context.Context, existing, requested *Order, durable bool) (*OrderResult, error) {
	if existing.ShowContext != requested.ShowContext || !sameSeats(existing.SeatIDs(), requested.SeatIDs()) {
		s.log.WarnContext(ctx, "Order id reused for different seats",
			"order_id", existing.ID,
			"show_context", requested.ShowContext,
		)
		return nil, fmt.Errorf("%w: %s was placed for other seats", ErrOrderExists, existing.ID)
	}
	return s.complete(ctx, existing, durable), nil
}

func (s *service) complete(ctx context.Context, order *Order, durable bool) *OrderResult {
	order.Durable = durable

	// only this context's holds on the purchased seats
	if err := s.holds.Release(ctx, order.ShowContext, "", order.SeatIDs()); err != nil {
		s.log.WithError(err).WarnContext(ctx, "Failed to release holds after order", "order_id", order.ID)
	}

	s.log.LogOrderCreated(ctx, order.ID, order.ShowContext, durable, order.Total)
	return &OrderResult{Order: order, Durable: durable}
}

// checkAvailable rejects seats that are sold or held by someone other than
// holder. Without a holder every live hold counts against the order.
func (s *service) checkAvailable(ctx context.Context, showContext, holder string, seatIDs []string) error {
	sold, _ := s.soldSeats(ctx, showContext)
	taken := intersect(seatIDs, sold)

	live, err := s.holds.Live(ctx, showContext)
	if err != nil {
		s.log.WithError(err).WarnContext(ctx, "Hold store unavailable, skipping hold ownership check", "show_context", showContext)
	}
	want := make(map[string]bool, len(seatIDs))
	for _, id := range seatIDs {
		want[id] = true
	}
	for _, h := range live {
		if want[h.SeatID] && (holder == "" || h.Holder != holder) {
			taken = append(taken, h.SeatID)
		}
	}

	if len(taken) > 0 {
		taken = dedupe(taken)
		s.log.LogHoldConflict(ctx, showContext, taken)
		return &HoldConflictError{ShowContext: showContext, SeatIDs: taken}
	}
	return nil
}

func (s *service) buildOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	if in.ShowContext == "" {
		return nil, fmt.Errorf("%w: show context is required", ErrInvalidRequest)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one seat is required", ErrInvalidRequest)
	}
	if in.Customer.Email == "" {
		return nil, fmt.Errorf("%w: customer email is required", ErrInvalidRequest)
	}

	status := in.Status
	if status == "" {
		status = StatusPaid
	}
	if status != StatusPaid && status != StatusPending {
		return nil, fmt.Errorf("%w: orders start PENDING or PAID, not %s", ErrInvalidRequest, status)
	}

	var l *layout.Layout
	if s.layouts != nil {
		var err error
		if l, err = s.layouts.Get(ctx, in.ShowContext); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(in.Lines))
	seats := make([]OrderSeat, 0, len(in.Lines))
	prices := make([]float64, 0, len(in.Lines))
	for _, line := range in.Lines {
		if line.SeatID == "" || seen[line.SeatID] {
			return nil, fmt.Errorf("%w: seat ids must be present and unique", ErrInvalidRequest)
		}
		seen[line.SeatID] = true
		if !line.TicketType.IsValid() {
			return nil, fmt.Errorf("%w: %s has ticket type %q", ErrInvalidRequest, line.SeatID, line.TicketType)
		}
		if line.Price < 0 {
			return nil, fmt.Errorf("%w: %s has a negative price", ErrInvalidRequest, line.SeatID)
		}

		label, section, tier := line.Label, line.Section, line.Tier
		if l != nil {
			seat, ok := l.Seat(line.SeatID)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownSeat, line.SeatID)
			}
			label, section, tier = seat.Label, seat.Section, seat.Tier
		}
		parsed, err := layout.ParseLabel(label)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		if tier == "" {
			tier = parsed.Tier
		}

		seats = append(seats, OrderSeat{
			SeatID:     line.SeatID,
			Label:      label,
			Section:    section,
			Row:        parsed.Row,
			Number:     parsed.Number,
			Tier:       tier,
			TicketType: line.TicketType,
			Price:      pricing.Round2(line.Price),
		})
		prices = append(prices, line.Price)
	}

	quote := s.catalog.Quote(prices)
	now := s.now()
	id := in.OrderID
	if id == "" {
		id = NewOrderID(now)
	}

	order := &Order{
		ID:                 id,
		ShowContext:        in.ShowContext,
		Customer:           in.Customer,
		Payment:            in.Payment,
		Seats:              seats,
		Subtotal:           quote.Subtotal,
		Discount:           quote.Discount,
		DiscountedSubtotal: quote.DiscountedSubtotal,
		ServiceFee:         quote.ServiceFee,
		Total:              quote.Total,
		Status:             status,
		QRCode:             id,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if order.Payment.Type == "" {
		order.Payment.Type = "card"
	}

	if s.shows != nil {
		sc, err := s.shows.Context(ctx, in.ShowContext)
		if err != nil {
			s.log.WithError(err).WarnContext(ctx, "Order show context not in catalog", "show_context", in.ShowContext)
		} else {
			order.ShowID = sc.ShowID
			order.ShowTitle = sc.Title
			order.Venue = sc.Venue
			order.VenueAddress = sc.Address
			order.PerformanceDate = sc.PerformanceDate
		}
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	order, perr := s.getPrimary(ctx, id)
	if perr == nil {
		order.Durable = true
		return order, nil
	}

	order, ferr := s.fallback.Get(ctx, id)
	if ferr == nil {
		order.Durable = false
		return order, nil
	}

	if errors.Is(ferr, ErrOrderNotFound) && (s.primary == nil || errors.Is(perr, ErrOrderNotFound)) {
		return nil, ErrOrderNotFound
	}
	return nil, fmt.Errorf("%w: primary: %v; fallback: %v", ErrOrderNotFound, perr, ferr)
}

func (s *service) UpdateOrderStatus(ctx context.Context, id string, status Status) (*Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, status)
	}

	updated, perr := callPrimary(ctx, s, func(ctx context.Context) (*Order, error) {
		return s.primary.UpdateStatus(ctx, id, status)
	})
	if perr == nil {
		updated.Durable = true
		// a reconciled order may also sit in the fallback store
		if _, err := s.fallback.UpdateStatus(ctx, id, status); err != nil && !errors.Is(err, ErrOrderNotFound) {
			s.log.WithError(err).WarnContext(ctx, "Fallback copy of order not updated", "order_id", id)
		}
		return updated, nil
	}
	if errors.Is(perr, ErrInvalidStatus) {
		return nil, perr
	}

	updated, err := s.fallback.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) && perr != nil && s.primary != nil && !errors.Is(perr, ErrOrderNotFound) {
			return nil, fmt.Errorf("%w: primary: %v", ErrOrderNotFound, perr)
		}
		return nil, err
	}
	updated.Durable = false
	return updated, nil
}

func (s *service) getPrimary(ctx context.Context, id string) (*Order, error) {
	return callPrimary(ctx, s, func(ctx context.Context) (*Order, error) {
		return s.primary.Get(ctx, id)
	})
}

var errPrimaryDisabled = errors.New("primary order store disabled")

type primaryResult[T any] struct {
	value T
	err   error
}

type primaryBudgetKey struct{}

// withPrimaryBudget makes every primary call under ctx share one
// PrimaryStoreTimeout, so a hung primary stalls an operation once
func (s *service) withPrimaryBudget(ctx context.Context) context.Context {
	if _, ok := ctx.Value(primaryBudgetKey{}).(time.Time); ok {
		return ctx
	}
	return context.WithValue(ctx, primaryBudgetKey{}, time.Now().Add(s.cfg.PrimaryStoreTimeout))
}

// callPrimary bounds a primary store call by PrimaryStoreTimeout or by the
// budget left on ctx, whichever ends first. A store that ignores its context
// is abandoned, not waited for.
func callPrimary[T any](ctx context.Context, s *service, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if s.primary == nil {
		return zero, errPrimaryDisabled
	}

	deadline := time.Now().Add(s.cfg.PrimaryStoreTimeout)
	if budget, ok := ctx.Value(primaryBudgetKey{}).(time.Time); ok && budget.Before(deadline) {
		deadline = budget
	}
	if !time.Now().Before(deadline) {
		return zero, fmt.Errorf("%w: primary store budget spent", ErrPersistenceTimeout)
	}

	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	done := make(chan primaryResult[T], 1)
	go func() {
		v, err := op(ctx)
		done <- primaryResult[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %v", ErrPersistenceTimeout, ctx.Err())
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func intersect(ids, set []string) []string {
	in := make(map[string]bool, len(set))
	for _, id := range set {
		in[id] = true
	}
	var out []string
	for _, id := range ids {
		if in[id] {
			out = append(out, id)
		}
	}
	return out
}

func union(a, b []string) []string {
	out := dedupe(append(append([]string(nil), a...), b...))
	sort.Strings(out)
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func sameSeats(a, b []string) bool {
	a, b = dedupe(a), dedupe(b)
	if len(a) != len(b) {
		return false
	}
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
