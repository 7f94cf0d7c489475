package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"circustix/internal/reservations"
)

type EventType string

const (
	EventOrderConfirmed     EventType = "order.confirmed"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// OrderEvent is the message published for every order lifecycle change
type OrderEvent struct {
	ID   uuid.UUID `json:"id"`
	Type EventType `json:"type"`

	OrderID     string              `json:"order_id"`
	ShowContext string              `json:"show_context"`
	ShowTitle   string              `json:"show_title"`
	Status      reservations.Status `json:"status"`
	Durable     bool                `json:"durable"`

	CustomerEmail string   `json:"customer_email"`
	SeatIDs       []string `json:"seat_ids"`
	Total         float64  `json:"total"`

	OccurredAt time.Time `json:"occurred_at"`
}

// NewOrderEvent snapshots an order into an event
func NewOrderEvent(eventType EventType, order *reservations.Order, durable bool) *OrderEvent {
	return &OrderEvent{
		ID:            uuid.New(),
		Type:          eventType,
		OrderID:       order.ID,
		ShowContext:   order.ShowContext,
		ShowTitle:     order.ShowTitle,
		Status:        order.Status,
		Durable:       durable,
		CustomerEmail: order.Customer.Email,
		SeatIDs:       order.SeatIDs(),
		Total:         order.Total,
		OccurredAt:    time.Now().UTC(),
	}
}

// PartitionKey keeps all events of one order on one partition
func (e *OrderEvent) PartitionKey() string {
	return e.OrderID
}

func (e *OrderEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
