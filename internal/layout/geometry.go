package layout

import (
	"math"

	"circustix/internal/pricing"
)

// Options are the venue-wide geometry constants
type Options struct {
	SeatRadius  float64
	SpacingX    float64 // along a row
	SpacingY    float64 // between rows
	AisleGap    float64 // extra offset once a block enters the General tier
	VIPRows     int
	PremiumRows int
	MaxTaperCut float64 // degrees removed from the innermost tapered row
}

// DefaultOptions returns the arena constants
func DefaultOptions() Options {
	return Options{
		SeatRadius:  3,
		SpacingX:    8,
		SpacingY:    8,
		AisleGap:    12,
		VIPRows:     2,
		PremiumRows: 4,
		MaxTaperCut: 60,
	}
}

// Generator lays out seating blocks. It is pure and safe for concurrent use.
type Generator struct {
	opts Options
}

func NewGenerator(opts Options) *Generator {
	return &Generator{opts: opts}
}

func (g *Generator) Options() Options {
	return g.opts
}

// Generate dispatches on the block kind
func (g *Generator) Generate(spec BlockSpec) (Block, error) {
	switch spec.Kind {
	case BlockStraight:
		return g.Straight(spec)
	case BlockArc:
		return g.Arc(spec)
	case BlockTapered:
		return g.Tapered(spec)
	default:
		return Block{}, configErr(spec.Section, "unknown block kind %q", spec.Kind)
	}
}

// rowTier applies the banding rule: VIP rows, then Premium rows, then General.
// The bool reports whether the aisle offset applies to the row.
func (g *Generator) rowTier(row int, forced pricing.Tier) (pricing.Tier, bool) {
	if forced != "" {
		return forced, false
	}
	switch {
	case row < g.opts.VIPRows:
		return pricing.TierVIP, false
	case row < g.opts.VIPRows+g.opts.PremiumRows:
		return pricing.TierPremium, false
	default:
		return pricing.TierGeneral, true
	}
}

func (g *Generator) validate(spec BlockSpec) error {
	if spec.Section == "" {
		return configErr("", "section name is required")
	}
	if spec.Rows < 0 {
		return configErr(spec.Section, "row count %d is negative", spec.Rows)
	}
	if g.opts.SpacingX <= 0 || g.opts.SpacingY <= 0 {
		return configErr(spec.Section, "seat spacing must be positive")
	}
	if spec.ForcedTier != "" && !spec.ForcedTier.IsValid() {
		return configErr(spec.Section, "unknown tier override %q", spec.ForcedTier)
	}
	return nil
}

// Straight lays out parallel rows centred on the origin, then rotates them
// around the origin by spec.Rotation degrees.
func (g *Generator) Straight(spec BlockSpec) (Block, error) {
	if err := g.validate(spec); err != nil {
		return Block{}, err
	}
	block := Block{Section: spec.Section, Kind: BlockStraight}
	if spec.Rows == 0 {
		return block, nil
	}
	if len(spec.Cols) == 0 {
		return Block{}, configErr(spec.Section, "columns per row are required")
	}

	rad := spec.Rotation * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	var maxWidth, lastY float64
	for r := 0; r < spec.Rows; r++ {
		cols := spec.Cols[0]
		if r < len(spec.Cols) && spec.Cols[r] > 0 {
			cols = spec.Cols[r]
		}
		if cols < 0 {
			return Block{}, configErr(spec.Section, "row %d has negative column count", r)
		}

		tier, aisle := g.rowTier(r, spec.ForcedTier)
		yOffset := 0.0
		if aisle {
			yOffset = g.opts.AisleGap
		}

		rowWidth := float64(cols-1) * g.opts.SpacingX
		if rowWidth > maxWidth {
			maxWidth = rowWidth
		}
		ly := float64(r)*g.opts.SpacingY + yOffset
		lastY = ly

		for c := 0; c < cols; c++ {
			lx := float64(c)*g.opts.SpacingX - rowWidth/2
			block.Seats = append(block.Seats, g.seat(spec.Section, tier, r, c,
				spec.Origin.X+(lx*cos-ly*sin),
				spec.Origin.Y+(lx*sin+ly*cos),
			))
		}
		block.Rows = append(block.Rows, RowInfo{Index: r, Label: RowLetter(r), Tier: tier, SeatCount: cols})
	}

	block.Boundary = rectBoundary(spec.Origin, maxWidth, lastY, g.padding(), rad)
	return block, nil
}

// Arc lays out concentric rows. Seat spacing is constant in linear units,
// so outer rows hold more seats.
func (g *Generator) Arc(spec BlockSpec) (Block, error) {
	return g.arc(spec, false)
}

// Tapered is an arc whose rows lose a linearly shrinking slice of their span:
// the full MaxCut on row 0, nothing on the last row.
func (g *Generator) Tapered(spec BlockSpec) (Block, error) {
	return g.arc(spec, true)
}

func (g *Generator) arc(spec BlockSpec, tapered bool) (Block, error) {
	if err := g.validate(spec); err != nil {
		return Block{}, err
	}
	kind := BlockArc
	if tapered {
		kind = BlockTapered
	}
	block := Block{Section: spec.Section, Kind: kind}
	if spec.Rows == 0 {
		return block, nil
	}

	maxCut := spec.MaxCut
	if maxCut == 0 {
		maxCut = g.opts.MaxTaperCut
	}
	baseSpan := math.Abs(spec.EndAngle - spec.StartAngle)
	dir := 1.0
	if spec.StartAngle > spec.EndAngle {
		dir = -1
	}

	minAngle, maxAngle := math.Inf(1), math.Inf(-1)
	innerRadius, outerRadius := math.Inf(1), math.Inf(-1)

	for r := 0; r < spec.Rows; r++ {
		tier, aisle := g.rowTier(r, spec.ForcedTier)
		radiusOffset := 0.0
		if aisle {
			radiusOffset = g.opts.AisleGap
		}
		radius := spec.StartRadius + float64(r)*g.opts.SpacingY + radiusOffset
		if radius <= 0 {
			return Block{}, configErr(spec.Section, "row %d radius %.2f must be positive", r, radius)
		}

		start, end := spec.StartAngle, spec.EndAngle
		if tapered {
			cut := taperCut(maxCut, r, spec.Rows)
			if cut > baseSpan {
				cut = baseSpan
			}
			if spec.InvertTaper {
				start += dir * cut
			} else {
				end -= dir * cut
			}
		}

		angStep := g.opts.SpacingX * 360 / (2 * math.Pi * radius)
		available := math.Abs(end - start)
		cols := int(math.Floor(available/angStep + 1e-9))

		// plain arcs centre the used span; tapered rows hug the adjusted start
		offset := 0.0
		if !tapered && cols > 0 {
			offset = (available - float64(cols-1)*angStep) / 2
		}

		for c := 0; c < cols; c++ {
			deg := start + dir*(offset+float64(c)*angStep)
			rad := deg * math.Pi / 180
			block.Seats = append(block.Seats, g.seat(spec.Section, tier, r, c,
				spec.Origin.X+radius*math.Cos(rad),
				spec.Origin.Y+radius*math.Sin(rad),
			))
		}

		block.Rows = append(block.Rows, RowInfo{
			Index:      r,
			Label:      RowLetter(r),
			Tier:       tier,
			SeatCount:  cols,
			Radius:     radius,
			StartAngle: start,
			EndAngle:   end,
		})

		minAngle = math.Min(minAngle, math.Min(start, end))
		maxAngle = math.Max(maxAngle, math.Max(start, end))
		innerRadius = math.Min(innerRadius, radius)
		outerRadius = math.Max(outerRadius, radius)
	}

	block.Boundary = wedgeBoundary(spec.Origin, innerRadius, outerRadius, minAngle, maxAngle, g.padding())
	return block, nil
}

// taperCut interpolates from maxCut on row 0 to zero on the last row.
// A single-row block is its own outermost row and keeps the full span.
func taperCut(maxCut float64, row, rows int) float64 {
	if rows <= 1 {
		return 0
	}
	return math.Max(0, maxCut*(1-float64(row)/float64(rows-1)))
}

func (g *Generator) padding() float64 {
	return g.opts.SeatRadius + math.Max(g.opts.SpacingX, g.opts.SpacingY)/2
}

func (g *Generator) seat(section string, tier pricing.Tier, row, col int, x, y float64) Seat {
	return Seat{
		ID:       SeatID(section, row, col),
		X:        x,
		Y:        y,
		Radius:   g.opts.SeatRadius,
		Section:  section,
		Row:      row,
		Col:      col,
		RowLabel: RowLetter(row),
		Number:   col + 1,
		Tier:     tier,
		Label:    FormatLabel(tier, row, col+1),
	}
}
