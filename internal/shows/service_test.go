package shows

import (
	"context"
	"testing"

	"circustix/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextKey(t *testing.T) {
	assert.Equal(t, "1-lv-p2", ContextKey("1", "lv", "p2"))
	assert.Equal(t, "1", ContextKey("1", "lv", ""))
	assert.Equal(t, "1", ContextKey("1", "", "p2"))
	assert.Equal(t, "3", ContextKey("3", "", ""))
}

func TestListIsChronological(t *testing.T) {
	p := NewProvider(Fixtures(), nil)

	list, err := p.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].Date.Before(list[i-1].Date))
	}
	assert.Equal(t, "Cirque du Mystique", list[0].Title)
}

func TestResolveContext(t *testing.T) {
	p := NewProvider(Fixtures(), nil)
	ctx := context.Background()

	t.Run("tour stop performance", func(t *testing.T) {
		sc, err := p.ResolveContext(ctx, "1", "phx", "p2")
		require.NoError(t, err)
		assert.Equal(t, "1-phx-p2", sc.Key)
		assert.Equal(t, "Desert Pavilion, Phoenix", sc.Venue)
		assert.Equal(t, "Sun Nov 3 - 3:00 PM", sc.TimeLabel)
		assert.Equal(t, layout.BigTopBlueprint, sc.Blueprint)
	})

	t.Run("show without tour stops", func(t *testing.T) {
		sc, err := p.ResolveContext(ctx, "3", "", "")
		require.NoError(t, err)
		assert.Equal(t, "3", sc.Key)
		assert.Equal(t, "Comedy Tent, Chicago", sc.Venue)
	})

	t.Run("no stop selected falls back to the show id", func(t *testing.T) {
		sc, err := p.ResolveContext(ctx, "2", "", "")
		require.NoError(t, err)
		assert.Equal(t, "2", sc.Key)
	})

	t.Run("half selected", func(t *testing.T) {
		_, err := p.ResolveContext(ctx, "2", "orl", "")
		assert.ErrorIs(t, err, ErrUnknownPerformance)
	})

	t.Run("unknown performance", func(t *testing.T) {
		_, err := p.ResolveContext(ctx, "2", "orl", "p9")
		assert.ErrorIs(t, err, ErrUnknownPerformance)
	})

	t.Run("unknown show", func(t *testing.T) {
		_, err := p.ResolveContext(ctx, "99", "", "")
		assert.ErrorIs(t, err, ErrShowNotFound)
	})
}

func TestContextRoundTrip(t *testing.T) {
	p := NewProvider(Fixtures(), nil)
	ctx := context.Background()

	sc, err := p.Context(ctx, "2-orl-p3")
	require.NoError(t, err)
	assert.Equal(t, "2", sc.ShowID)
	assert.Equal(t, "Sun Nov 17 - 1:00 PM", sc.TimeLabel)

	name, err := p.BlueprintFor(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, layout.BigTopBlueprint, name)

	_, err = p.BlueprintFor(ctx, "show-42")
	assert.ErrorIs(t, err, layout.ErrUnknownContext)
}

func TestProviderFeedsLayoutCache(t *testing.T) {
	p := NewProvider(Fixtures(), nil)
	cache := layout.NewCache(layout.NewGenerator(layout.DefaultOptions()), layout.DefaultBlueprints(), p)

	a, err := cache.Get(context.Background(), "1-lv-p1")
	require.NoError(t, err)
	b, err := cache.Get(context.Background(), "1-lv-p2")
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = cache.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, layout.ErrUnknownContext)
}
