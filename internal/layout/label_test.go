package layout

import (
	"testing"

	"circustix/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowLetter(t *testing.T) {
	tests := map[int]string{0: "A", 1: "B", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA"}
	for in, want := range tests {
		assert.Equal(t, want, RowLetter(in))
		idx, ok := RowIndex(want)
		require.True(t, ok)
		assert.Equal(t, in, idx)
	}
	assert.Equal(t, "", RowLetter(-1))
	_, ok := RowIndex("a1")
	assert.False(t, ok)
}

func TestParseLabel(t *testing.T) {
	label := FormatLabel(pricing.TierPremium, 2, 12)
	assert.Equal(t, "Premium - Row C Seat 12", label)

	parsed, err := ParseLabel(label)
	require.NoError(t, err)
	assert.Equal(t, ParsedLabel{Tier: pricing.TierPremium, Row: "C", Number: 12}, parsed)

	for _, bad := range []string{
		"",
		"Premium Row C Seat 12",
		"Gold - Row C Seat 12",
		"VIP - Row 3 Seat 12",
		"VIP - Row C Seat",
		"VIP - Row C Seat 0",
		"VIP - Aisle C Seat 2",
	} {
		_, err := ParseLabel(bad)
		assert.ErrorIs(t, err, ErrInvalidLabel, bad)
	}
}

func TestSeatID(t *testing.T) {
	assert.Equal(t, "gap-left-outer-r3-c1", SeatID("Gap Left Outer", 3, 1))
}
