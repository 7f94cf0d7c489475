package layout

import (
	"context"
	"fmt"
	"sync"
)

// BlueprintResolver maps a show context to the name of its venue blueprint
type BlueprintResolver interface {
	BlueprintFor(ctx context.Context, showContext string) (string, error)
}

// Cache memoizes one layout per show context
type Cache struct {
	mu         sync.Mutex
	layouts    map[string]*Layout
	byPrint    map[string]*Layout
	gen        *Generator
	blueprints Blueprints
	resolver   BlueprintResolver
}

func NewCache(gen *Generator, blueprints Blueprints, resolver BlueprintResolver) *Cache {
	return &Cache{
		layouts:    make(map[string]*Layout),
		byPrint:    make(map[string]*Layout),
		gen:        gen,
		blueprints: blueprints,
		resolver:   resolver,
	}
}

// Get returns the layout of a show context, building it on first use.
// Contexts sharing a blueprint share one immutable layout.
func (c *Cache) Get(ctx context.Context, showContext string) (*Layout, error) {
	c.mu.Lock()
	if l, ok := c.layouts[showContext]; ok {
		c.mu.Unlock()
		return l, nil
	}
	c.mu.Unlock()

	name, err := c.resolver.BlueprintFor(ctx, showContext)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.layouts[showContext]; ok {
		return l, nil
	}
	l, ok := c.byPrint[name]
	if !ok {
		bp, known := c.blueprints[name]
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrUnknownBlueprint, name)
		}
		l, err = Build(bp, c.gen)
		if err != nil {
			return nil, fmt.Errorf("failed to build layout %s: %w", name, err)
		}
		c.byPrint[name] = l
	}
	c.layouts[showContext] = l
	return l, nil
}

// Len reports how many show contexts are memoized
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.layouts)
}
