package notifications

import (
	"context"

	"circustix/internal/reservations"
)

// StatusNotifier receives successful order status moves
type StatusNotifier interface {
	OrderStatusChanged(order *reservations.Order)
}

type statusEvents struct {
	reservations.Service
	notifier StatusNotifier
}

// WithStatusEvents decorates a reservation service so every status move,
// from the admin endpoint or a door scan, is published as an event.
func WithStatusEvents(svc reservations.Service, notifier StatusNotifier) reservations.Service {
	if notifier == nil {
		return svc
	}
	return &statusEvents{Service: svc, notifier: notifier}
}

func (s *statusEvents) UpdateOrderStatus(ctx context.Context, id string, status reservations.Status) (*reservations.Order, error) {
	order, err := s.Service.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderStatusChanged(order)
	return order, nil
}
