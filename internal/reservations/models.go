package reservations

import (
	"time"

	"circustix/internal/pricing"
)

// Order is a finalized purchase of seats for one show context
type Order struct {
	ID              string    `gorm:"primaryKey;size:40" json:"order_id"`
	ShowContext     string    `gorm:"size:128;not null;index" json:"show_context"`
	ShowID          string    `gorm:"size:64" json:"show_id"`
	ShowTitle       string    `gorm:"size:255" json:"show_title"`
	Venue           string    `gorm:"size:255" json:"venue"`
	VenueAddress    string    `gorm:"size:255" json:"venue_address,omitempty"`
	PerformanceDate time.Time `json:"performance_date"`

	Customer Customer      `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Payment  PaymentMethod `gorm:"embedded;embeddedPrefix:payment_" json:"payment_method"`

	Seats []OrderSeat `gorm:"type:jsonb;serializer:json" json:"seats"`

	Subtotal           float64 `json:"subtotal"`
	Discount           float64 `json:"discount"`
	DiscountedSubtotal float64 `json:"discounted_subtotal"`
	ServiceFee         float64 `json:"fees"`
	Total              float64 `json:"total"`

	Status    Status    `gorm:"type:varchar(16);not null" json:"status"`
	QRCode    string    `gorm:"size:512" json:"qr_code_data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// set by the service, never stored
	Durable bool `gorm:"-" json:"durable"`
}

// TableName sets the table name for Order
func (Order) TableName() string {
	return "orders"
}

// SeatIDs lists the seats of the order in purchase order
func (o *Order) SeatIDs() []string {
	ids := make([]string, len(o.Seats))
	for i, s := range o.Seats {
		ids[i] = s.SeatID
	}
	return ids
}

// Customer is the buyer contact
type Customer struct {
	Name  string `gorm:"size:255" json:"name"`
	Email string `gorm:"size:255" json:"email"`
	Phone string `gorm:"size:32" json:"phone,omitempty"`
}

// PaymentMethod is the tokenized card reference. Card numbers never reach the store.
type PaymentMethod struct {
	Type  string `gorm:"size:16" json:"type"`
	Brand string `gorm:"size:32" json:"brand"`
	Last4 string `gorm:"size:4" json:"last4"`
	Token string `gorm:"size:128" json:"-"`
}

// OrderSeat is one purchased seat with the row and number parsed from its label
type OrderSeat struct {
	SeatID     string             `json:"seat_id"`
	Label      string             `json:"label"`
	Section    string             `json:"section"`
	Row        string             `json:"row"`
	Number     int                `json:"seat_number"`
	Tier       pricing.Tier       `json:"tier"`
	TicketType pricing.TicketType `json:"ticket_type"`
	Price      float64            `json:"price"`
}

// Hold is a live, time-boxed claim on a seat
type Hold struct {
	ShowContext string    `json:"show_context"`
	SeatID      string    `json:"seat_id"`
	Holder      string    `json:"holder"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Live reports whether the hold is still in force at now
func (h Hold) Live(now time.Time) bool {
	return h.ExpiresAt.After(now)
}

// CreateOrderInput is the structured checkout payload
type CreateOrderInput struct {
	// OrderID is optional; a retry reusing the id of an earlier attempt never creates a second order
	OrderID     string
	ShowContext string
	// Holder, when set, must own any live hold on the seats
	Holder   string
	Lines    []pricing.Line
	Customer Customer
	Payment  PaymentMethod
	Status   Status
}

// OrderResult reports where an order landed
type OrderResult struct {
	Order   *Order `json:"order"`
	Durable bool   `json:"durable"`
}

// IsMock mirrors Durable for clients that only know the best-effort flag
func (r *OrderResult) IsMock() bool {
	return !r.Durable
}

// HoldResult is a granted hold
type HoldResult struct {
	ShowContext string    `json:"show_context"`
	Holder      string    `json:"holder"`
	SeatIDs     []string  `json:"seat_ids"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Occupancy is the reserved seat set of a show context split by cause
type Occupancy struct {
	ShowContext string   `json:"show_context"`
	Sold        []string `json:"sold"`
	Held        []string `json:"held"`
	Reserved    []string `json:"reserved"`
	// Degraded is set when a store could not be read and the sets may be incomplete
	Degraded bool `json:"degraded"`
}
