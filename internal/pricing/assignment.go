package pricing

import (
	"fmt"
)

// Counts is the per-ticket-type tally of an assignment
type Counts struct {
	Adult int `json:"adult"`
	Child int `json:"child"`
	Promo int `json:"promo"`
}

func (c Counts) Total() int {
	return c.Adult + c.Child + c.Promo
}

// ValidateCounts checks that the counts cover exactly seatCount seats
func ValidateCounts(c Counts, seatCount int) error {
	if c.Adult < 0 || c.Child < 0 || c.Promo < 0 {
		return fmt.Errorf("ticket counts cannot be negative")
	}
	if c.Total() != seatCount {
		return &AssignmentMismatchError{Assigned: c.Total(), Expected: seatCount}
	}
	return nil
}

// Assignment maps each selected seat to exactly one ticket type.
// Seat order follows the selection.
type Assignment struct {
	seats []string
	types map[string]TicketType
}

// NewAssignment creates an empty assignment over the given seats
func NewAssignment(seatIDs []string) *Assignment {
	seats := make([]string, len(seatIDs))
	copy(seats, seatIDs)
	return &Assignment{
		seats: seats,
		types: make(map[string]TicketType, len(seatIDs)),
	}
}

// DefaultAssignment assigns Adult to every seat, except that a family-pack
// sized selection sharing one promo-capable tier defaults to Promo.
func DefaultAssignment(seats []SelectedSeat, catalog *Catalog) *Assignment {
	ids := make([]string, len(seats))
	for i, s := range seats {
		ids[i] = s.SeatID
	}
	a := NewAssignment(ids)

	def := TicketAdult
	if len(seats) == FamilyPackSize && sameTier(seats) && catalog.PromoAvailable(seats[0].Tier) {
		def = TicketPromo
	}
	for _, id := range ids {
		a.types[id] = def
	}
	return a
}

func sameTier(seats []SelectedSeat) bool {
	for _, s := range seats[1:] {
		if s.Tier != seats[0].Tier {
			return false
		}
	}
	return true
}

// FromCounts distributes per-type counts onto the seats in selection order:
// adults first, then children, then promo.
func FromCounts(seatIDs []string, c Counts) (*Assignment, error) {
	if err := ValidateCounts(c, len(seatIDs)); err != nil {
		return nil, err
	}
	a := NewAssignment(seatIDs)
	i := 0
	for _, part := range []struct {
		t TicketType
		n int
	}{{TicketAdult, c.Adult}, {TicketChild, c.Child}, {TicketPromo, c.Promo}} {
		for k := 0; k < part.n; k++ {
			a.types[a.seats[i]] = part.t
			i++
		}
	}
	return a, nil
}

// Set assigns a ticket type to one selected seat
func (a *Assignment) Set(seatID string, t TicketType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownTicketType, t)
	}
	if !a.has(seatID) {
		return fmt.Errorf("%w: %s", ErrUnknownSeat, seatID)
	}
	a.types[seatID] = t
	return nil
}

// Unset removes the assignment of one seat
func (a *Assignment) Unset(seatID string) {
	delete(a.types, seatID)
}

// Type returns the ticket type of a seat
func (a *Assignment) Type(seatID string) (TicketType, bool) {
	t, ok := a.types[seatID]
	return t, ok
}

// Seats returns the seat ids in selection order
func (a *Assignment) Seats() []string {
	out := make([]string, len(a.seats))
	copy(out, a.seats)
	return out
}

// Types returns a copy of the seat to ticket type map
func (a *Assignment) Types() map[string]TicketType {
	out := make(map[string]TicketType, len(a.types))
	for k, v := range a.types {
		out[k] = v
	}
	return out
}

// Counts tallies the assigned ticket types
func (a *Assignment) Counts() Counts {
	var c Counts
	for _, t := range a.types {
		switch t {
		case TicketAdult:
			c.Adult++
		case TicketChild:
			c.Child++
		case TicketPromo:
			c.Promo++
		}
	}
	return c
}

// Validate holds iff every selected seat carries exactly one ticket type
func (a *Assignment) Validate() error {
	return ValidateCounts(a.Counts(), len(a.seats))
}

func (a *Assignment) has(seatID string) bool {
	for _, s := range a.seats {
		if s == seatID {
			return true
		}
	}
	return false
}
