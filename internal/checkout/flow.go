package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"circustix/internal/pricing"
	"circustix/internal/reservations"
	"circustix/internal/seatmap"
	"circustix/internal/shared/config"
	"circustix/pkg/logger"
)

// Reserver is the reservation surface checkout drives
type Reserver interface {
	HoldSeats(ctx context.Context, req reservations.HoldRequest) (*reservations.HoldResult, error)
	ReleaseHold(ctx context.Context, showContext, holder string, seatIDs []string) error
	CreateOrder(ctx context.Context, in reservations.CreateOrderInput) (*reservations.OrderResult, error)
}

// TicketIssuer renders the QR shown on the confirmation
type TicketIssuer interface {
	QRDataURL(order *reservations.Order) (string, error)
}

// Notifier delivers confirmations without blocking the buyer
type Notifier interface {
	OrderConfirmed(order *reservations.Order, durable bool)
}

// Dependencies are shared by every flow
type Dependencies struct {
	Reserver  Reserver
	Tickets   TicketIssuer
	Notifier  Notifier
	Tokenizer Tokenizer
	Catalog   *pricing.Catalog
	Config    config.CheckoutConfig
	Logger    *logger.Logger
	Now       func() time.Time
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Catalog == nil {
		d.Catalog = pricing.NewCatalog(pricing.DefaultRules())
	}
	if d.Tokenizer == nil {
		d.Tokenizer = NewMockTokenizer(d.Config.TokenizationDelay)
	}
	if d.Logger == nil {
		d.Logger = logger.GetDefault()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// Flow walks one buyer through seat selection, ticket types, payment and
// confirmation for a single show context.
type Flow struct {
	deps        Dependencies
	showContext string
	holder      string

	mu            sync.Mutex
	step          Step
	seats         []pricing.SelectedSeat
	assignment    *pricing.Assignment
	mismatch      error
	lines         []pricing.Line
	quote         *pricing.Quote
	holdExpiresAt time.Time
	orderID       string
	paying        bool
	confirmation  *Confirmation
}

func NewFlow(showContext string, deps Dependencies) *Flow {
	return &Flow{
		deps:        deps.withDefaults(),
		showContext: showContext,
		holder:      uuid.NewString(),
		step:        StepSeatSelection,
	}
}

func (f *Flow) ShowContext() string {
	return f.showContext
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Begin holds the selected seats and moves on to ticket type assignment
func (f *Flow) Begin(ctx context.Context, seats []pricing.SelectedSeat) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.paying {
		return ErrCheckoutInProgress
	}
	if f.step != StepSeatSelection {
		return transitionError("begin checkout", f.step)
	}
	if len(seats) == 0 {
		return seatmap.ErrEmptySelection
	}

	ids := make([]string, len(seats))
	for i, s := range seats {
		ids[i] = s.SeatID
	}
	hold, err := f.deps.Reserver.HoldSeats(ctx, reservations.HoldRequest{
		ShowContext: f.showContext,
		SeatIDs:     ids,
		Holder:      f.holder,
	})
	if err != nil {
		return err
	}

	f.seats = append([]pricing.SelectedSeat(nil), seats...)
	f.assignment = pricing.DefaultAssignment(f.seats, f.deps.Catalog)
	f.mismatch = nil
	f.holdExpiresAt = hold.ExpiresAt
	f.step = StepTicketTypeAssignment
	return nil
}

// AssignCounts distributes per-type counts over the seats in selection
// order. Counts that do not add up block Advance until fixed.
func (f *Flow) AssignCounts(counts pricing.Counts) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.assignable(); err != nil {
		return err
	}

	ids := f.seatIDs()
	a, err := pricing.FromCounts(ids, counts)
	if err != nil {
		if errors.Is(err, pricing.ErrAssignmentMismatch) {
			f.assignment = pricing.NewAssignment(ids)
			f.mismatch = err
		}
		return err
	}
	if _, _, err := f.deps.Catalog.PriceAssignment(f.seats, a); err != nil {
		return err
	}
	f.assignment = a
	f.mismatch = nil
	return nil
}

// AssignSeat sets the ticket type of one seat
func (f *Flow) AssignSeat(seatID string, t pricing.TicketType) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.assignable(); err != nil {
		return err
	}
	seat, ok := f.seat(seatID)
	if !ok {
		return fmt.Errorf("%w: %s", pricing.ErrUnknownSeat, seatID)
	}
	if _, err := f.deps.Catalog.Price(seat.Tier, t); err != nil {
		return err
	}
	if err := f.assignment.Set(seatID, t); err != nil {
		return err
	}
	f.mismatch = nil
	return nil
}

// UnassignSeat clears the ticket type of one seat
func (f *Flow) UnassignSeat(seatID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.assignable(); err != nil {
		return err
	}
	if _, ok := f.seat(seatID); !ok {
		return fmt.Errorf("%w: %s", pricing.ErrUnknownSeat, seatID)
	}
	f.assignment.Unset(seatID)
	return nil
}

func (f *Flow) assignable() error {
	if f.paying {
		return ErrCheckoutInProgress
	}
	if f.step != StepTicketTypeAssignment {
		return transitionError("assign ticket types", f.step)
	}
	return nil
}

// Advance moves from ticket type assignment to the payment summary.
// Seat selection advances through Begin and the payment summary through Pay.
func (f *Flow) Advance() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.paying {
		return ErrCheckoutInProgress
	}
	if f.step != StepTicketTypeAssignment {
		return transitionError("advance", f.step)
	}
	if f.mismatch != nil {
		return f.mismatch
	}

	lines, quote, err := f.deps.Catalog.PriceAssignment(f.seats, f.assignment)
	if err != nil {
		return err
	}
	f.lines = lines
	f.quote = &quote
	f.step = StepPaymentSummary
	return nil
}

// Back returns to the previous step. Leaving ticket type assignment
// releases the hold.
func (f *Flow) Back(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.paying {
		return ErrCheckoutInProgress
	}
	switch f.step {
	case StepTicketTypeAssignment:
		f.release(ctx)
		f.reset()
	case StepPaymentSummary:
		f.lines = nil
		f.quote = nil
		f.step = StepTicketTypeAssignment
	default:
		return transitionError("go back", f.step)
	}
	return nil
}

// Cancel abandons the checkout and releases the hold
func (f *Flow) Cancel(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.paying {
		return ErrCheckoutInProgress
	}
	if f.step == StepConfirmation {
		return transitionError("cancel", f.step)
	}
	if len(f.seats) > 0 {
		f.release(ctx)
	}
	f.reset()
	f.orderID = ""
	return nil
}

// Quote prices the current assignment
func (f *Flow) Quote() (pricing.Quote, []pricing.Line, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case StepSeatSelection:
		return pricing.Quote{}, nil, transitionError("quote", f.step)
	case StepTicketTypeAssignment:
		if f.mismatch != nil {
			return pricing.Quote{}, nil, f.mismatch
		}
		lines, q, err := f.deps.Catalog.PriceAssignment(f.seats, f.assignment)
		return q, lines, err
	default:
		return *f.quote, append([]pricing.Line(nil), f.lines...), nil
	}
}

// Pay tokenizes the card and places the order under the checkout timeout.
// Retries reuse the order id so a write that landed after a timeout is
// picked up instead of duplicated.
func (f *Flow) Pay(ctx context.Context, details PaymentDetails) (*Confirmation, error) {
	f.mu.Lock()
	if f.paying {
		f.mu.Unlock()
		return nil, ErrCheckoutInProgress
	}
	if f.step != StepPaymentSummary {
		step := f.step
		f.mu.Unlock()
		return nil, transitionError("pay", step)
	}
	if f.orderID == "" {
		f.orderID = reservations.NewOrderID(f.deps.Now())
	}
	in := reservations.CreateOrderInput{
		OrderID:     f.orderID,
		ShowContext: f.showContext,
		Holder:      f.holder,
		Lines:       append([]pricing.Line(nil), f.lines...),
		Customer:    details.Customer,
	}
	seatIDs := f.seatIDs()
	f.paying = true
	f.mu.Unlock()

	result, err := f.submit(ctx, details.Card, in)

	f.mu.Lock()
	f.paying = false
	if err != nil {
		conflict := errors.Is(err, reservations.ErrHoldConflict)
		if conflict {
			f.reset()
			f.orderID = ""
		}
		f.mu.Unlock()
		if conflict {
			// whatever is still ours goes back to the pool
			if rerr := f.deps.Reserver.ReleaseHold(ctx, f.showContext, f.holder, seatIDs); rerr != nil {
				f.deps.Logger.WithError(rerr).WarnContext(ctx, "Failed to release hold after conflict", "show_context", f.showContext)
			}
		}
		return nil, err
	}

	confirmation := f.confirm(ctx, result)
	f.confirmation = confirmation
	f.step = StepConfirmation
	f.mu.Unlock()

	if f.deps.Notifier != nil {
		f.deps.Notifier.OrderConfirmed(result.Order, result.Durable)
	}
	return confirmation, nil
}

type orderOutcome struct {
	result *reservations.OrderResult
	err    error
}

func (f *Flow) submit(ctx context.Context, card Card, in reservations.CreateOrderInput) (*reservations.OrderResult, error) {
	var cancel context.CancelFunc
	if f.deps.Config.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, f.deps.Config.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	token, err := f.deps.Tokenizer.Tokenize(ctx, card)
	if err != nil {
		return nil, connectivity(err)
	}
	in.Payment = reservations.PaymentMethod{Type: "card", Brand: token.Brand, Last4: token.Last4, Token: token.Token}

	done := make(chan orderOutcome, 1)
	go func() {
		// the write outlives the outer timeout; a retry reconciles it
		result, err := f.deps.Reserver.CreateOrder(context.WithoutCancel(ctx), in)
		done <- orderOutcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		go f.watchLate(in.OrderID, done)
		return nil, connectivity(ctx.Err())
	}
}

func (f *Flow) watchLate(orderID string, done <-chan orderOutcome) {
	out := <-done
	if out.err != nil {
		return
	}
	f.deps.Logger.InfoWithContext(context.Background(), "Order completed after checkout timeout", map[string]interface{}{
		"order_id": orderID,
		"durable":  out.result.Durable,
	})
}

func connectivity(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	return err
}

// confirm renders the QR. A rendering failure leaves the order standing and
// falls back to the printed order id.
func (f *Flow) confirm(ctx context.Context, result *reservations.OrderResult) *Confirmation {
	c := &Confirmation{
		OrderID: result.Order.ID,
		Durable: result.Durable,
		Order:   result.Order,
	}

	var err error
	if f.deps.Tickets == nil {
		err = errors.New("no ticket issuer configured")
	} else {
		c.QRCode, err = f.deps.Tickets.QRDataURL(result.Order)
	}
	if err != nil {
		f.deps.Logger.LogRenderingFailure(ctx, result.Order.ID, "qr", err)
		c.QRCode = ""
		c.Notice = fmt.Sprintf("Order saved, but we could not generate your QR code. Show order number %s at the entrance.", result.Order.ID)
		return c
	}
	c.QRAvailable = true
	return c
}

// Confirmation returns the completed order, if any
func (f *Flow) Confirmation() *Confirmation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirmation
}

func (f *Flow) Snapshot() FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := FlowSnapshot{
		Step:         f.step,
		ShowContext:  f.showContext,
		Holder:       f.holder,
		Seats:        append([]pricing.SelectedSeat(nil), f.seats...),
		Processing:   f.paying,
		Confirmation: f.confirmation,
	}
	if f.assignment != nil {
		snap.Assignment = f.assignment.Types()
		snap.Counts = f.assignment.Counts()
	}
	if f.mismatch != nil {
		snap.AssignmentError = f.mismatch.Error()
	}
	if f.quote != nil {
		q := *f.quote
		snap.Quote = &q
		snap.Lines = append([]pricing.Line(nil), f.lines...)
	}
	if !f.holdExpiresAt.IsZero() && f.step != StepConfirmation {
		exp := f.holdExpiresAt
		snap.HoldExpiresAt = &exp
	}
	return snap
}

// release drops this flow's hold. Callers hold f.mu.
func (f *Flow) release(ctx context.Context) {
	if err := f.deps.Reserver.ReleaseHold(ctx, f.showContext, f.holder, f.seatIDs()); err != nil {
		f.deps.Logger.WithError(err).WarnContext(ctx, "Failed to release hold", "show_context", f.showContext)
	}
}

func (f *Flow) reset() {
	f.step = StepSeatSelection
	f.seats = nil
	f.assignment = nil
	f.mismatch = nil
	f.lines = nil
	f.quote = nil
	f.holdExpiresAt = time.Time{}
}

func (f *Flow) seatIDs() []string {
	ids := make([]string, len(f.seats))
	for i, s := range f.seats {
		ids[i] = s.SeatID
	}
	return ids
}

func (f *Flow) seat(seatID string) (pricing.SelectedSeat, bool) {
	for _, s := range f.seats {
		if s.SeatID == seatID {
			return s, true
		}
	}
	return pricing.SelectedSeat{}, false
}
