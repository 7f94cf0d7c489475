package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tokenizer exchanges card details for a payment token
type Tokenizer interface {
	Tokenize(ctx context.Context, card Card) (*PaymentToken, error)
}

// MockTokenizer simulates a card processor round trip
type MockTokenizer struct {
	delay time.Duration
}

func NewMockTokenizer(delay time.Duration) *MockTokenizer {
	return &MockTokenizer{delay: delay}
}

func (m *MockTokenizer) Tokenize(ctx context.Context, card Card) (*PaymentToken, error) {
	number := NormalizeCardNumber(card.Number)
	if len(number) < 12 || len(number) > 19 || !luhnValid(number) {
		return nil, fmt.Errorf("%w: card number", ErrInvalidCard)
	}

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	brand := DetectBrand(number)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return &PaymentToken{
		Token: fmt.Sprintf("tok_%s_%s", brand, suffix),
		Brand: brand,
		Last4: number[len(number)-4:],
	}, nil
}

// NormalizeCardNumber strips spaces and dashes
func NormalizeCardNumber(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(number)
}

// DetectBrand names the card network from the number prefix
func DetectBrand(number string) string {
	number = NormalizeCardNumber(number)
	switch {
	case strings.HasPrefix(number, "4"):
		return "visa"
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return "amex"
	case strings.HasPrefix(number, "6011"), strings.HasPrefix(number, "65"):
		return "discover"
	case hasPrefixInRange(number, 2, 51, 55), hasPrefixInRange(number, 4, 2221, 2720):
		return "mastercard"
	default:
		return "card"
	}
}

func hasPrefixInRange(number string, digits, lo, hi int) bool {
	if len(number) < digits {
		return false
	}
	n := 0
	for _, r := range number[:digits] {
		if r < '0' || r > '9' {
			return false
		}
		n = n*10 + int(r-'0')
	}
	return n >= lo && n <= hi
}

func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
