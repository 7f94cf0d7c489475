package notifications

import (
	"context"
	"sync"
	"time"

	"circustix/internal/reservations"
	"circustix/pkg/logger"
)

const defaultDeliveryTimeout = 30 * time.Second

// TicketRenderer produces the printable ticket attached to confirmations
type TicketRenderer interface {
	PDF(order *reservations.Order) ([]byte, error)
}

// Dispatcher fans order changes out to the configured channels in the
// background. Failures are logged and never reach the buyer.
type Dispatcher struct {
	publisher Publisher
	mailer    Mailer
	tickets   TicketRenderer
	log       *logger.Logger
	timeout   time.Duration

	wg sync.WaitGroup
}

type DispatcherOption func(*Dispatcher)

func WithPublisher(p Publisher) DispatcherOption {
	return func(d *Dispatcher) { d.publisher = p }
}

func WithMailer(m Mailer, tickets TicketRenderer) DispatcherOption {
	return func(d *Dispatcher) {
		d.mailer = m
		d.tickets = tickets
	}
}

func WithDeliveryTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.timeout = timeout }
}

func NewDispatcher(log *logger.Logger, opts ...DispatcherOption) *Dispatcher {
	if log == nil {
		log = logger.GetDefault()
	}
	d := &Dispatcher{log: log, timeout: defaultDeliveryTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OrderConfirmed emails the ticket and publishes the confirmation event
func (d *Dispatcher) OrderConfirmed(order *reservations.Order, durable bool) {
	if order == nil {
		return
	}
	snapshot := *order
	event := NewOrderEvent(EventOrderConfirmed, &snapshot, durable)

	d.run(func(ctx context.Context) {
		d.publish(ctx, event)
	})
	if d.mailer != nil {
		d.run(func(ctx context.Context) {
			d.email(ctx, &snapshot)
		})
	}
}

// OrderStatusChanged publishes a lifecycle event
func (d *Dispatcher) OrderStatusChanged(order *reservations.Order) {
	if order == nil {
		return
	}
	snapshot := *order
	event := NewOrderEvent(EventOrderStatusChanged, &snapshot, snapshot.Durable)
	d.run(func(ctx context.Context) {
		d.publish(ctx, event)
	})
}

// Wait blocks until in-flight deliveries finish
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close waits for deliveries and closes the publisher
func (d *Dispatcher) Close() error {
	d.Wait()
	if d.publisher != nil {
		return d.publisher.Close()
	}
	return nil
}

func (d *Dispatcher) run(fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		fn(ctx)
	}()
}

func (d *Dispatcher) publish(ctx context.Context, event *OrderEvent) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.PublishOrderEvent(ctx, event); err != nil {
		d.log.LogRenderingFailure(ctx, event.OrderID, "kafka", err)
	}
}

func (d *Dispatcher) email(ctx context.Context, order *reservations.Order) {
	var pdf []byte
	if d.tickets != nil {
		rendered, err := d.tickets.PDF(order)
		if err != nil {
			// still send the confirmation without the attachment
			d.log.LogRenderingFailure(ctx, order.ID, "pdf", err)
		} else {
			pdf = rendered
		}
	}

	if err := d.mailer.SendConfirmation(ctx, order, pdf); err != nil {
		d.log.LogRenderingFailure(ctx, order.ID, "email", err)
	}
}
