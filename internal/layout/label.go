package layout

import (
	"fmt"
	"strconv"
	"strings"

	"circustix/internal/pricing"

	"github.com/gosimple/slug"
)

// SeatID derives the stable seat key from section, row and column
func SeatID(section string, row, col int) string {
	return fmt.Sprintf("%s-r%d-c%d", slug.Make(section), row, col)
}

// RowLetter converts a zero-based row index to A..Z, AA..AZ, ...
func RowLetter(row int) string {
	if row < 0 {
		return ""
	}
	var b []byte
	for n := row + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// RowIndex is the inverse of RowLetter
func RowIndex(letter string) (int, bool) {
	if letter == "" {
		return 0, false
	}
	n := 0
	for _, ch := range strings.ToUpper(letter) {
		if ch < 'A' || ch > 'Z' {
			return 0, false
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n - 1, true
}

// FormatLabel renders "<Tier> - Row <Letter> Seat <N>"
func FormatLabel(tier pricing.Tier, row, number int) string {
	return fmt.Sprintf("%s - Row %s Seat %d", tier, RowLetter(row), number)
}

// ParsedLabel is the structured form of a seat label
type ParsedLabel struct {
	Tier   pricing.Tier
	Row    string
	Number int
}

// ParseLabel reads a label produced by FormatLabel
func ParseLabel(label string) (ParsedLabel, error) {
	tierPart, rest, ok := strings.Cut(label, " - ")
	if !ok {
		return ParsedLabel{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	tier, err := pricing.ParseTier(tierPart)
	if err != nil {
		return ParsedLabel{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}

	fields := strings.Fields(rest)
	if len(fields) != 4 || fields[0] != "Row" || fields[2] != "Seat" {
		return ParsedLabel{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	if _, ok := RowIndex(fields[1]); !ok {
		return ParsedLabel{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	number, err := strconv.Atoi(fields[3])
	if err != nil || number < 1 {
		return ParsedLabel{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return ParsedLabel{Tier: tier, Row: fields[1], Number: number}, nil
}
