package shows

import (
	"context"
	"fmt"
	"sort"

	"circustix/internal/layout"
	"circustix/internal/shared/constants"
	"circustix/pkg/cache"
)

// Provider is the show and venue configuration consumed by the box office
type Provider interface {
	List(ctx context.Context) ([]Show, error)
	Get(ctx context.Context, id string) (*Show, error)
	ResolveContext(ctx context.Context, showID, stopID, perfID string) (*ShowContext, error)
	Context(ctx context.Context, key string) (*ShowContext, error)
	BlueprintFor(ctx context.Context, showContext string) (string, error)
}

type provider struct {
	shows []Show
	byID  map[string]int
	cache cache.Service
}

// NewProvider serves a fixed catalog. The cache is optional; when set, listings
// are read through it the same way every instance sees one catalog.
func NewProvider(catalog []Show, cacheService cache.Service) Provider {
	p := &provider{
		shows: catalog,
		byID:  make(map[string]int, len(catalog)),
		cache: cacheService,
	}
	for i, s := range catalog {
		p.byID[s.ID] = i
	}
	return p
}

func (p *provider) List(ctx context.Context) ([]Show, error) {
	if p.cache == nil {
		return p.sorted(), nil
	}

	var out []Show
	err := p.cache.GetOrSet(ctx, constants.CACHE_KEY_SHOW_CATALOG, constants.TTL_SHOW_CATALOG, func() (interface{}, error) {
		return p.sorted(), nil
	}, &out)
	if err != nil {
		// the catalog is in memory, a broken cache never hides it
		return p.sorted(), nil
	}
	return out, nil
}

func (p *provider) sorted() []Show {
	out := make([]Show, len(p.shows))
	copy(out, p.shows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (p *provider) Get(ctx context.Context, id string) (*Show, error) {
	i, ok := p.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrShowNotFound, id)
	}
	show := p.shows[i]
	return &show, nil
}

// ResolveContext picks the showing a buyer is booking. Shows with tour stops
// need both a stop and a performance; shows without them ignore both.
func (p *provider) ResolveContext(ctx context.Context, showID, stopID, perfID string) (*ShowContext, error) {
	show, err := p.Get(ctx, showID)
	if err != nil {
		return nil, err
	}

	sc := &ShowContext{
		Key:             show.ID,
		ShowID:          show.ID,
		Title:           show.Title,
		Venue:           show.Venue,
		PerformanceDate: show.Date,
		Blueprint:       blueprintOf(*show),
	}
	if !show.HasTourStops() || (stopID == "" && perfID == "") {
		return sc, nil
	}
	if stopID == "" || perfID == "" {
		return nil, fmt.Errorf("%w: both tour stop and performance are required", ErrUnknownPerformance)
	}

	for _, stop := range show.TourStops {
		if stop.ID != stopID {
			continue
		}
		for _, perf := range stop.Performances {
			if perf.ID != perfID {
				continue
			}
			sc.Key = ContextKey(show.ID, stop.ID, perf.ID)
			sc.Venue = stop.Venue + ", " + stop.City
			sc.Address = stop.Address
			sc.PerformanceDate = perf.Date
			sc.TimeLabel = perf.TimeLabel
			return sc, nil
		}
	}
	return nil, fmt.Errorf("%w: show %s stop %s performance %s", ErrUnknownPerformance, showID, stopID, perfID)
}

// Context reverses a context key into the showing it names
func (p *provider) Context(ctx context.Context, key string) (*ShowContext, error) {
	if _, ok := p.byID[key]; ok {
		return p.ResolveContext(ctx, key, "", "")
	}
	for _, show := range p.shows {
		for _, stop := range show.TourStops {
			for _, perf := range stop.Performances {
				if ContextKey(show.ID, stop.ID, perf.ID) == key {
					return p.ResolveContext(ctx, show.ID, stop.ID, perf.ID)
				}
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", layout.ErrUnknownContext, key)
}

// BlueprintFor lets the layout cache resolve venues from context keys
func (p *provider) BlueprintFor(ctx context.Context, showContext string) (string, error) {
	sc, err := p.Context(ctx, showContext)
	if err != nil {
		return "", err
	}
	return sc.Blueprint, nil
}

func blueprintOf(s Show) string {
	if s.Blueprint == "" {
		return layout.BigTopBlueprint
	}
	return s.Blueprint
}
