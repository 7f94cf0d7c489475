package reservations

import (
	"context"
	"sort"
	"sync"
	"time"
)

// OrderStore persists finalized orders. Create reports ErrOrderExists for a
// known id so retries stay idempotent.
type OrderStore interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
	// SoldSeats lists seats of every non-cancelled order for a show context
	SoldSeats(ctx context.Context, showContext string) ([]string, error)
}

func transition(o *Order, next Status, now time.Time) error {
	if !next.IsValid() || !o.Status.CanTransitionTo(next) {
		return &StatusTransitionError{From: o.Status, To: next}
	}
	o.Status = next
	o.UpdatedAt = now
	return nil
}

func collectSeats(orders []Order) []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range orders {
		if !o.Status.HoldsSeats() {
			continue
		}
		for _, s := range o.Seats {
			if !seen[s.SeatID] {
				seen[s.SeatID] = true
				out = append(out, s.SeatID)
			}
		}
	}
	sort.Strings(out)
	return out
}

type memoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]Order
}

// NewMemoryOrderStore is the last-resort fallback when Redis is disabled
func NewMemoryOrderStore() OrderStore {
	return &memoryOrderStore{orders: make(map[string]Order)}
}

func (m *memoryOrderStore) Create(ctx context.Context, order *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[order.ID]; ok {
		return ErrOrderExists
	}
	m.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (m *memoryOrderStore) Get(ctx context.Context, id string) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	out := cloneOrder(o)
	return &out, nil
}

func (m *memoryOrderStore) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if err := transition(&o, status, time.Now()); err != nil {
		return nil, err
	}
	m.orders[id] = o
	out := cloneOrder(o)
	return &out, nil
}

func (m *memoryOrderStore) SoldSeats(ctx context.Context, showContext string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matching []Order
	for _, o := range m.orders {
		if o.ShowContext == showContext {
			matching = append(matching, o)
		}
	}
	return collectSeats(matching), nil
}

func cloneOrder(o Order) Order {
	o.Seats = append([]OrderSeat(nil), o.Seats...)
	return o
}
