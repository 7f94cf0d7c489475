package pricing

import (
	"fmt"
	"math"
)

// Rules holds the group discount and fee parameters
type Rules struct {
	GroupDiscountThreshold int
	GroupDiscountRate      float64
	ServiceFeeRate         float64
}

// FamilyPackSize is the selection size that steers the default ticket type to Promo
const FamilyPackSize = 4

// DefaultRules returns 20% off at four or more seats and a 5% service fee
func DefaultRules() Rules {
	return Rules{
		GroupDiscountThreshold: 4,
		GroupDiscountRate:      0.20,
		ServiceFeeRate:         0.05,
	}
}

// Catalog is the static tier x ticket type price table
type Catalog struct {
	prices map[Tier]TierPrices
	rules  Rules
}

func promo(v float64) *float64 { return &v }

// DefaultPrices is the box office fare table
func DefaultPrices() map[Tier]TierPrices {
	return map[Tier]TierPrices{
		TierVIP:     {Adult: 68.07, Child: 47.48, Promo: promo(36.66)},
		TierPremium: {Adult: 57.78, Child: 37.17},
		TierGeneral: {Adult: 47.48, Child: 26.88, Promo: promo(23.27)},
	}
}

// NewCatalog creates a catalog over the default fare table
func NewCatalog(rules Rules) *Catalog {
	return NewCatalogWithPrices(DefaultPrices(), rules)
}

// NewCatalogWithPrices creates a catalog over a custom fare table
func NewCatalogWithPrices(prices map[Tier]TierPrices, rules Rules) *Catalog {
	return &Catalog{prices: prices, rules: rules}
}

func (c *Catalog) Rules() Rules {
	return c.rules
}

// Prices returns the catalog row of a tier
func (c *Catalog) Prices(tier Tier) (TierPrices, error) {
	p, ok := c.prices[tier]
	if !ok {
		return TierPrices{}, fmt.Errorf("%w: %s", ErrUnknownTier, tier)
	}
	return p, nil
}

// Table returns a copy of every catalog row
func (c *Catalog) Table() map[Tier]TierPrices {
	out := make(map[Tier]TierPrices, len(c.prices))
	for k, v := range c.prices {
		out[k] = v
	}
	return out
}

// Price returns the fare of one ticket. Premium promo is an error, never zero.
func (c *Catalog) Price(tier Tier, ticketType TicketType) (float64, error) {
	p, err := c.Prices(tier)
	if err != nil {
		return 0, err
	}
	switch ticketType {
	case TicketAdult:
		return p.Adult, nil
	case TicketChild:
		return p.Child, nil
	case TicketPromo:
		if p.Promo == nil {
			return 0, fmt.Errorf("%w: %s", ErrPromoUnavailable, tier)
		}
		return *p.Promo, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTicketType, ticketType)
	}
}

// NominalPrice is the seat map display price: the adult fare of the tier
func (c *Catalog) NominalPrice(tier Tier) float64 {
	return c.prices[tier].Adult
}

// PromoAvailable reports whether the tier sells promo tickets
func (c *Catalog) PromoAvailable(tier Tier) bool {
	p, ok := c.prices[tier]
	return ok && p.Promo != nil
}

// Quote totals a list of per-seat prices. The group discount is applied once
// to the sum, and the service fee is charged on the discounted subtotal.
func (c *Catalog) Quote(prices []float64) Quote {
	var subtotal float64
	for _, p := range prices {
		subtotal += p
	}

	q := Quote{SeatCount: len(prices), Subtotal: Round2(subtotal)}
	discounted := subtotal
	if c.rules.GroupDiscountThreshold > 0 && len(prices) >= c.rules.GroupDiscountThreshold {
		discounted = subtotal * (1 - c.rules.GroupDiscountRate)
		q.GroupDiscount = true
	}
	q.DiscountedSubtotal = Round2(discounted)
	q.Discount = Round2(subtotal - discounted)
	q.ServiceFee = Round2(discounted * c.rules.ServiceFeeRate)
	q.Total = Round2(q.DiscountedSubtotal + q.ServiceFee)
	return q
}

// ServiceFee returns the fee charged on an already discounted subtotal
func (c *Catalog) ServiceFee(discountedSubtotal float64) float64 {
	return Round2(discountedSubtotal * c.rules.ServiceFeeRate)
}

// PriceAssignment prices every selected seat under its assigned ticket type
func (c *Catalog) PriceAssignment(seats []SelectedSeat, a *Assignment) ([]Line, Quote, error) {
	if err := a.Validate(); err != nil {
		return nil, Quote{}, err
	}

	lines := make([]Line, 0, len(seats))
	prices := make([]float64, 0, len(seats))
	for _, s := range seats {
		tt, ok := a.Type(s.SeatID)
		if !ok {
			return nil, Quote{}, fmt.Errorf("%w: %s", ErrUnknownSeat, s.SeatID)
		}
		price, err := c.Price(s.Tier, tt)
		if err != nil {
			return nil, Quote{}, fmt.Errorf("seat %s: %w", s.SeatID, err)
		}
		lines = append(lines, Line{
			SeatID:     s.SeatID,
			Label:      s.Label,
			Section:    s.Section,
			Tier:       s.Tier,
			TicketType: tt,
			Price:      price,
		})
		prices = append(prices, price)
	}
	return lines, c.Quote(prices), nil
}

// Round2 rounds a money amount to cents
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
