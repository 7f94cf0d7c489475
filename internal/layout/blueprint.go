package layout

import (
	"circustix/internal/pricing"
)

// Blueprint is the static configuration of a venue
type Blueprint struct {
	Name    string              `json:"name"`
	ViewBox Rect                `json:"view_box"`
	Stage   Rect                `json:"stage"`
	Blocks  []BlockSpec         `json:"blocks"`
	Groups  map[string][]string `json:"groups"` // zoom group id -> section names
}

const BigTopBlueprint = "big-top"

// BigTop is the touring arena: long side stands either side of the ring,
// gap fillers and tapered corners wrapping the bottom, and a bottom stand.
func BigTop() Blueprint {
	straight := func(section string, x, y float64, rows, cols int, rotation float64, tier pricing.Tier) BlockSpec {
		return BlockSpec{
			Kind:       BlockStraight,
			Section:    section,
			Origin:     Point{X: x, Y: y},
			Rows:       rows,
			Cols:       []int{cols},
			Rotation:   rotation,
			ForcedTier: tier,
		}
	}
	corner := func(section string, x, start, end float64) BlockSpec {
		return BlockSpec{
			Kind:        BlockTapered,
			Section:     section,
			Origin:      Point{X: x, Y: 470},
			Rows:        12,
			StartRadius: 170,
			StartAngle:  start,
			EndAngle:    end,
			InvertTaper: true,
		}
	}

	return Blueprint{
		Name:    BigTopBlueprint,
		ViewBox: Rect{Width: 1000, Height: 850},
		Stage:   Rect{X: 500 - 175, Y: 325 - 275, Width: 350, Height: 550},
		Blocks: []BlockSpec{
			straight("Left Top", 300, 180, 12, 28, 90, ""),
			straight("Left Bot", 300, 430, 12, 28, 90, ""),
			straight("Right Top", 700, 180, 12, 28, -90, ""),
			straight("Right Bot", 700, 430, 12, 28, -90, ""),
			straight("Gap Left Outer", 262, 550, 4, 4, 0, pricing.TierPremium),
			straight("Gap Left Inner", 292, 550, 4, 3, 0, pricing.TierVIP),
			straight("Gap Right Inner", 708, 550, 4, 3, 0, pricing.TierVIP),
			straight("Gap Right Outer", 738, 550, 4, 4, 0, pricing.TierPremium),
			corner("Corner Left", 460, 165, 100),
			straight("Bottom Center", 500, 640, 12, 18, 0, ""),
			corner("Corner Right", 540, 15, 80),
		},
		Groups: map[string][]string{
			"corner-left":  {"Corner Left", "Gap Left Outer", "Gap Left Inner"},
			"corner-right": {"Corner Right", "Gap Right Inner", "Gap Right Outer"},
		},
	}
}

// Blueprints is a name -> blueprint registry
type Blueprints map[string]Blueprint

// DefaultBlueprints registers the built-in venues
func DefaultBlueprints() Blueprints {
	bp := BigTop()
	return Blueprints{bp.Name: bp}
}
