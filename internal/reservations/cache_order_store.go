package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"circustix/internal/shared/constants"
	"circustix/pkg/cache"
)

type cacheOrderStore struct {
	cache cache.Service
	ttl   time.Duration
}

// NewCacheOrderStore keeps best-effort orders in Redis. A zero ttl keeps
// them until reconciled by hand.
func NewCacheOrderStore(cacheService cache.Service, ttl time.Duration) OrderStore {
	return &cacheOrderStore{cache: cacheService, ttl: ttl}
}

func (s *cacheOrderStore) Create(ctx context.Context, order *Order) error {
	created, err := s.cache.SetNX(ctx, constants.BuildOrderDetailKey(order.ID), order, s.ttl)
	if err != nil {
		return fmt.Errorf("failed to cache order: %w", err)
	}
	if !created {
		return ErrOrderExists
	}
	if err := s.cache.AddToSet(ctx, constants.BuildOrdersByContextKey(order.ShowContext), s.ttl, order.ID); err != nil {
		return fmt.Errorf("failed to index order: %w", err)
	}
	return nil
}

func (s *cacheOrderStore) Get(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := s.cache.Get(ctx, constants.BuildOrderDetailKey(id), &order); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *cacheOrderStore) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	var order Order
	err := s.cache.Update(ctx, constants.BuildOrderDetailKey(id), &order, func() error {
		return transition(&order, status, time.Now())
	})
	switch {
	case err == nil:
		return &order, nil
	case errors.Is(err, cache.ErrCacheMiss):
		return nil, ErrOrderNotFound
	case errors.Is(err, ErrInvalidStatus):
		return nil, err
	case errors.Is(err, cache.ErrConflict):
		return nil, fmt.Errorf("%w: order %s changed while updating", ErrInvalidStatus, id)
	default:
		return nil, fmt.Errorf("failed to update cached order: %w", err)
	}
}

func (s *cacheOrderStore) SoldSeats(ctx context.Context, showContext string) ([]string, error) {
	ids, err := s.cache.SetMembers(ctx, constants.BuildOrdersByContextKey(showContext))
	if err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(ids))
	for _, id := range ids {
		order, err := s.Get(ctx, id)
		if errors.Is(err, ErrOrderNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return collectSeats(orders), nil
}
