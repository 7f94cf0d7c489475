package layout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"circustix/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBigTop(t *testing.T) *Layout {
	t.Helper()
	l, err := Build(BigTop(), NewGenerator(DefaultOptions()))
	require.NoError(t, err)
	return l
}

func TestBigTopSeatIDsAreUniqueAndDeterministic(t *testing.T) {
	a := buildBigTop(t)
	b := buildBigTop(t)

	seen := make(map[string]bool)
	for _, s := range a.Seats() {
		assert.False(t, seen[s.ID], "duplicate seat id %s", s.ID)
		seen[s.ID] = true
	}
	assert.NotEmpty(t, seen)
	assert.Equal(t, a.Seats(), b.Seats())
	assert.Equal(t, a.Sections(), b.Sections())
}

func TestBigTopSections(t *testing.T) {
	l := buildBigTop(t)

	assert.Len(t, l.Sections(), 11)

	left, ok := l.Section("Left Top")
	require.True(t, ok)
	assert.Equal(t, 12*28, left.SeatCount)
	assert.Equal(t, BlockStraight, left.Kind)

	gap, ok := l.Section("Gap Left Inner")
	require.True(t, ok)
	for _, s := range l.SectionSeats(gap.Name) {
		assert.Equal(t, pricing.TierVIP, s.Tier)
	}

	corner, ok := l.Section("Corner Right")
	require.True(t, ok)
	assert.Equal(t, BlockTapered, corner.Kind)
	assert.Equal(t, BoundaryWedge, corner.Boundary.Kind)

	bySlug, ok := l.SectionBySlug("bottom-center")
	require.True(t, ok)
	assert.Equal(t, "Bottom Center", bySlug.Name)
}

func TestBoundariesContainTheirSeats(t *testing.T) {
	l := buildBigTop(t)

	for _, sec := range l.Sections() {
		for _, s := range l.SectionSeats(sec.Name) {
			assert.True(t, sec.Boundary.Contains(s.Position()), "%s does not contain %s", sec.Name, s.ID)
		}
	}
}

func TestZoomGroups(t *testing.T) {
	l := buildBigTop(t)

	tests := []struct {
		section string
		group   string
	}{
		{"Corner Left", "corner-left"},
		{"Gap Left Outer", "corner-left"},
		{"Gap Left Inner", "corner-left"},
		{"Corner Right", "corner-right"},
		{"Gap Right Inner", "corner-right"},
		{"Gap Right Outer", "corner-right"},
		{"Left Top", "left-top"},
		{"Bottom Center", "bottom-center"},
	}
	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			g, ok := l.GroupOf(tt.section)
			require.True(t, ok)
			assert.Equal(t, tt.group, g)
		})
	}

	assert.ElementsMatch(t, []string{"Corner Left", "Gap Left Outer", "Gap Left Inner"}, l.GroupSections("corner-left"))
	assert.Equal(t, []string{"Left Bot"}, l.GroupSections("left-bot"))
}

func TestGroupBoundsSpanLinkedSections(t *testing.T) {
	l := buildBigTop(t)

	box, ok := l.GroupBounds("corner-left")
	require.True(t, ok)
	for _, name := range l.GroupSections("corner-left") {
		for _, s := range l.SectionSeats(name) {
			assert.True(t, s.X >= box.MinX && s.X <= box.MaxX && s.Y >= box.MinY && s.Y <= box.MaxY)
		}
	}

	_, ok = l.GroupBounds("nowhere")
	assert.False(t, ok)
}

func TestSectionAt(t *testing.T) {
	l := buildBigTop(t)

	for _, id := range []string{"left-top-r6-c14", "bottom-center-r0-c9", "gap-right-inner-r1-c1"} {
		seat, ok := l.Seat(id)
		require.True(t, ok, id)
		got, ok := l.SectionAt(seat.Position())
		require.True(t, ok)
		assert.Equal(t, seat.Section, got)
	}

	_, ok := l.SectionAt(Point{X: 500, Y: 325})
	assert.False(t, ok, "the ring is not a section")
}

func TestBuildRejectsBadBlueprints(t *testing.T) {
	gen := NewGenerator(DefaultOptions())
	block := BlockSpec{Kind: BlockStraight, Section: "A", Rows: 1, Cols: []int{2}}

	_, err := Build(Blueprint{Blocks: []BlockSpec{block, block}}, gen)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = Build(Blueprint{Blocks: []BlockSpec{block}, Groups: map[string][]string{"g": {"A", "B"}}}, gen)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = Build(Blueprint{
		Blocks: []BlockSpec{block, {Kind: BlockStraight, Section: "B", Rows: 1, Cols: []int{1}}},
		Groups: map[string][]string{"g1": {"A"}, "g2": {"A", "B"}},
	}, gen)
	assert.ErrorIs(t, err, ErrConfiguration)
}

type stubResolver struct {
	mu    sync.Mutex
	calls int
	name  string
	err   error
}

func (s *stubResolver) BlueprintFor(ctx context.Context, showContext string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.name, s.err
}

func TestCacheMemoizesPerContext(t *testing.T) {
	resolver := &stubResolver{name: BigTopBlueprint}
	cache := NewCache(NewGenerator(DefaultOptions()), DefaultBlueprints(), resolver)

	a, err := cache.Get(context.Background(), "show-42")
	require.NoError(t, err)
	b, err := cache.Get(context.Background(), "show-42")
	require.NoError(t, err)
	c, err := cache.Get(context.Background(), "show-7")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Same(t, a, c, "contexts on one blueprint share the immutable layout")
	assert.Equal(t, 2, resolver.calls)
	assert.Equal(t, 2, cache.Len())
}

func TestCacheErrors(t *testing.T) {
	cache := NewCache(NewGenerator(DefaultOptions()), DefaultBlueprints(), &stubResolver{name: "opera-house"})
	_, err := cache.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnknownBlueprint)

	boom := errors.New("lookup failed")
	cache = NewCache(NewGenerator(DefaultOptions()), DefaultBlueprints(), &stubResolver{err: boom})
	_, err = cache.Get(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, cache.Len())
}

func TestCacheConcurrentGet(t *testing.T) {
	cache := NewCache(NewGenerator(DefaultOptions()), DefaultBlueprints(), &stubResolver{name: BigTopBlueprint})

	var wg sync.WaitGroup
	results := make([]*Layout, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l, err := cache.Get(context.Background(), "show-1")
			if err == nil {
				results[i] = l
			}
		}(i)
	}
	wg.Wait()

	for _, l := range results {
		assert.Same(t, results[0], l)
	}
}
