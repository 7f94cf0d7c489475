package layout

import (
	"sort"

	"github.com/gosimple/slug"
)

// Section is a named block of seats plus its zoom group
type Section struct {
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Kind      BlockKind `json:"kind"`
	Group     string    `json:"group"`
	SeatCount int       `json:"seat_count"`
	Rows      []RowInfo `json:"rows"`
	Boundary  Boundary  `json:"boundary"`
}

// Layout is the immutable seat graph of one venue
type Layout struct {
	blueprint string
	viewBox   Rect
	stage     Rect

	seats    []Seat
	sections []Section

	seatIndex    map[string]int
	sectionIndex map[string]int
	groupOf      map[string]string
	groups       map[string][]string
}

// Build generates every block of the blueprint and resolves zoom groups once
func Build(bp Blueprint, gen *Generator) (*Layout, error) {
	l := &Layout{
		blueprint:    bp.Name,
		viewBox:      bp.ViewBox,
		stage:        bp.Stage,
		seatIndex:    make(map[string]int),
		sectionIndex: make(map[string]int),
		groupOf:      make(map[string]string),
		groups:       make(map[string][]string),
	}

	for _, spec := range bp.Blocks {
		if _, dup := l.sectionIndex[spec.Section]; dup {
			return nil, configErr(spec.Section, "duplicate section")
		}
		block, err := gen.Generate(spec)
		if err != nil {
			return nil, err
		}
		for _, s := range block.Seats {
			if _, dup := l.seatIndex[s.ID]; dup {
				return nil, configErr(spec.Section, "seat id %s collides with another section", s.ID)
			}
			l.seatIndex[s.ID] = len(l.seats)
			l.seats = append(l.seats, s)
		}
		l.sectionIndex[spec.Section] = len(l.sections)
		l.sections = append(l.sections, Section{
			Name:      spec.Section,
			Slug:      slug.Make(spec.Section),
			Kind:      block.Kind,
			SeatCount: len(block.Seats),
			Rows:      block.Rows,
			Boundary:  block.Boundary,
		})
	}

	groupIDs := make([]string, 0, len(bp.Groups))
	for id := range bp.Groups {
		groupIDs = append(groupIDs, id)
	}
	sort.Strings(groupIDs)
	for _, id := range groupIDs {
		for _, name := range bp.Groups[id] {
			if _, ok := l.sectionIndex[name]; !ok {
				return nil, configErr(name, "zoom group %q references unknown section", id)
			}
			if other, taken := l.groupOf[name]; taken {
				return nil, configErr(name, "section belongs to zoom groups %q and %q", other, id)
			}
			l.groupOf[name] = id
			l.groups[id] = append(l.groups[id], name)
		}
	}
	// every ungrouped section is its own group
	for i := range l.sections {
		sec := &l.sections[i]
		if _, ok := l.groupOf[sec.Name]; !ok {
			if _, clash := l.groups[sec.Slug]; clash {
				return nil, configErr(sec.Name, "section slug clashes with zoom group id")
			}
			l.groupOf[sec.Name] = sec.Slug
			l.groups[sec.Slug] = []string{sec.Name}
		}
		sec.Group = l.groupOf[sec.Name]
	}

	return l, nil
}

func (l *Layout) Blueprint() string { return l.blueprint }
func (l *Layout) ViewBox() Rect     { return l.viewBox }
func (l *Layout) Stage() Rect       { return l.stage }

// Seats returns every seat in generation order
func (l *Layout) Seats() []Seat {
	out := make([]Seat, len(l.seats))
	copy(out, l.seats)
	return out
}

// Sections returns every section in blueprint order
func (l *Layout) Sections() []Section {
	out := make([]Section, len(l.sections))
	copy(out, l.sections)
	return out
}

// Seat looks up a seat by id
func (l *Layout) Seat(id string) (Seat, bool) {
	i, ok := l.seatIndex[id]
	if !ok {
		return Seat{}, false
	}
	return l.seats[i], true
}

// Section looks up a section by name
func (l *Layout) Section(name string) (Section, bool) {
	i, ok := l.sectionIndex[name]
	if !ok {
		return Section{}, false
	}
	return l.sections[i], true
}

// SectionBySlug looks up a section by its url-safe name
func (l *Layout) SectionBySlug(s string) (Section, bool) {
	for _, sec := range l.sections {
		if sec.Slug == s {
			return sec, true
		}
	}
	return Section{}, false
}

// GroupOf returns the zoom group of a section
func (l *Layout) GroupOf(section string) (string, bool) {
	g, ok := l.groupOf[section]
	return g, ok
}

// GroupSections returns the sections linked into one zoom group
func (l *Layout) GroupSections(group string) []string {
	out := make([]string, len(l.groups[group]))
	copy(out, l.groups[group])
	return out
}

// Groups returns the zoom group relation
func (l *Layout) Groups() map[string][]string {
	out := make(map[string][]string, len(l.groups))
	for k, v := range l.groups {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// SectionSeats returns the seats of one section
func (l *Layout) SectionSeats(section string) []Seat {
	var out []Seat
	for _, s := range l.seats {
		if s.Section == section {
			out = append(out, s)
		}
	}
	return out
}

// GroupBounds is the bounding box of every seat in a zoom group
func (l *Layout) GroupBounds(group string) (BBox, bool) {
	members := make(map[string]bool)
	for _, name := range l.groups[group] {
		members[name] = true
	}
	var seats []Seat
	for _, s := range l.seats {
		if members[s.Section] {
			seats = append(seats, s)
		}
	}
	return boundsOf(seats)
}

// SectionAt hit-tests section boundaries in blueprint order
func (l *Layout) SectionAt(p Point) (string, bool) {
	for _, sec := range l.sections {
		if sec.Boundary.Contains(p) {
			return sec.Name, true
		}
	}
	return "", false
}
