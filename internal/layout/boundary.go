package layout

import (
	"math"
)

// BoundaryKind names the hit-test shapes
type BoundaryKind string

const (
	BoundaryRect  BoundaryKind = "rect"
	BoundaryWedge BoundaryKind = "wedge"
)

const wedgeSegments = 24

// Boundary is the clickable outline of a section. Points is a closed polygon
// for drawing; Contains uses the exact shape.
type Boundary struct {
	Kind   BoundaryKind `json:"kind"`
	Points []Point      `json:"points"`

	// wedge parameters
	Center      Point   `json:"center,omitempty"`
	InnerRadius float64 `json:"inner_radius,omitempty"`
	OuterRadius float64 `json:"outer_radius,omitempty"`
	StartAngle  float64 `json:"start_angle,omitempty"`
	EndAngle    float64 `json:"end_angle,omitempty"`
}

// Contains reports whether p lies inside the boundary
func (b Boundary) Contains(p Point) bool {
	switch b.Kind {
	case BoundaryWedge:
		dx, dy := p.X-b.Center.X, p.Y-b.Center.Y
		dist := math.Hypot(dx, dy)
		if dist < b.InnerRadius || dist > b.OuterRadius {
			return false
		}
		deg := math.Atan2(dy, dx) * 180 / math.Pi
		return math.Mod(math.Mod(deg-b.StartAngle, 360)+360, 360) <= b.EndAngle-b.StartAngle
	case BoundaryRect:
		return polygonContains(b.Points, p)
	default:
		return false
	}
}

// rectBoundary encloses a straight block laid out in local coordinates
// (x centred on 0, rows growing along +y) and rotates it into place.
func rectBoundary(origin Point, width, depth, pad, rad float64) Boundary {
	sin, cos := math.Sin(rad), math.Cos(rad)
	local := []Point{
		{X: -width/2 - pad, Y: -pad},
		{X: width/2 + pad, Y: -pad},
		{X: width/2 + pad, Y: depth + pad},
		{X: -width/2 - pad, Y: depth + pad},
	}
	pts := make([]Point, len(local))
	for i, l := range local {
		pts[i] = Point{
			X: origin.X + (l.X*cos - l.Y*sin),
			Y: origin.Y + (l.X*sin + l.Y*cos),
		}
	}
	return Boundary{Kind: BoundaryRect, Points: pts}
}

// wedgeBoundary encloses an arc block between two radii and two angles
func wedgeBoundary(center Point, inner, outer, startDeg, endDeg, pad float64) Boundary {
	inner = math.Max(0, inner-pad)
	outer += pad
	padDeg := pad * 360 / (2 * math.Pi * math.Max(inner, pad))
	startDeg -= padDeg
	endDeg += padDeg

	pts := make([]Point, 0, 2*(wedgeSegments+1))
	for i := 0; i <= wedgeSegments; i++ {
		pts = append(pts, polar(center, outer, startDeg+(endDeg-startDeg)*float64(i)/wedgeSegments))
	}
	for i := wedgeSegments; i >= 0; i-- {
		pts = append(pts, polar(center, inner, startDeg+(endDeg-startDeg)*float64(i)/wedgeSegments))
	}

	return Boundary{
		Kind:        BoundaryWedge,
		Points:      pts,
		Center:      center,
		InnerRadius: inner,
		OuterRadius: outer,
		StartAngle:  startDeg,
		EndAngle:    endDeg,
	}
}

func polar(c Point, r, deg float64) Point {
	rad := deg * math.Pi / 180
	return Point{X: c.X + r*math.Cos(rad), Y: c.Y + r*math.Sin(rad)}
}

// polygonContains is the even-odd ray casting test
func polygonContains(poly []Point, p Point) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// BBox is the bounding box of a set of seats
type BBox struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Center returns the midpoint of the box
func (b BBox) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

func boundsOf(seats []Seat) (BBox, bool) {
	if len(seats) == 0 {
		return BBox{}, false
	}
	b := BBox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, s := range seats {
		b.MinX = math.Min(b.MinX, s.X)
		b.MinY = math.Min(b.MinY, s.Y)
		b.MaxX = math.Max(b.MaxX, s.X)
		b.MaxY = math.Max(b.MaxY, s.Y)
	}
	return b, true
}
