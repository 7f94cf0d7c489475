package layout

import (
	"circustix/internal/pricing"
)

// Point is a position on the abstract drawing plane
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BlockKind names the seating block geometries
type BlockKind string

const (
	BlockStraight BlockKind = "straight"
	BlockArc      BlockKind = "arc"
	BlockTapered  BlockKind = "tapered_arc"
)

// Seat is one generated seat. Seats never change after generation.
type Seat struct {
	ID       string       `json:"id"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Radius   float64      `json:"r"`
	Section  string       `json:"section"`
	Row      int          `json:"row"`
	Col      int          `json:"col"`
	RowLabel string       `json:"row_label"`
	Number   int          `json:"number"`
	Tier     pricing.Tier `json:"tier"`
	Label    string       `json:"label"`
}

// Position returns the seat centre
func (s Seat) Position() Point {
	return Point{X: s.X, Y: s.Y}
}

// RowInfo describes one generated row of a block
type RowInfo struct {
	Index      int          `json:"index"`
	Label      string       `json:"label"`
	Tier       pricing.Tier `json:"tier"`
	SeatCount  int          `json:"seat_count"`
	Radius     float64      `json:"radius,omitempty"`
	StartAngle float64      `json:"start_angle,omitempty"`
	EndAngle   float64      `json:"end_angle,omitempty"`
}

// Span is the angular span of an arc row in degrees
func (r RowInfo) Span() float64 {
	if r.EndAngle > r.StartAngle {
		return r.EndAngle - r.StartAngle
	}
	return r.StartAngle - r.EndAngle
}

// Block is the output of one generator call
type Block struct {
	Section  string    `json:"section"`
	Kind     BlockKind `json:"kind"`
	Seats    []Seat    `json:"seats"`
	Rows     []RowInfo `json:"rows"`
	Boundary Boundary  `json:"boundary"`
}

// BlockSpec is the static geometry of one section.
// Origin is the straight block anchor or the arc centre.
type BlockSpec struct {
	Kind    BlockKind `json:"kind"`
	Section string    `json:"section"`
	Origin  Point     `json:"origin"`
	Rows    int       `json:"rows"`

	// straight blocks
	Cols     []int   `json:"cols,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`

	// arc blocks
	StartRadius float64 `json:"start_radius,omitempty"`
	StartAngle  float64 `json:"start_angle,omitempty"`
	EndAngle    float64 `json:"end_angle,omitempty"`

	// tapered arcs: cut the start angle instead of the end angle
	InvertTaper bool    `json:"invert_taper,omitempty"`
	MaxCut      float64 `json:"max_cut,omitempty"`

	ForcedTier pricing.Tier `json:"forced_tier,omitempty"`
}
