package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postgresOrderStore struct {
	db *gorm.DB
}

// NewPostgresOrderStore is the durable primary order store
func NewPostgresOrderStore(db *gorm.DB) OrderStore {
	return &postgresOrderStore{db: db}
}

func (r *postgresOrderStore) Create(ctx context.Context, order *Order) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(order)
	if result.Error != nil {
		return fmt.Errorf("failed to insert order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderExists
	}
	return nil
}

func (r *postgresOrderStore) Get(ctx context.Context, id string) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *postgresOrderStore) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	order, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := transition(order, status, time.Now()); err != nil {
		return nil, err
	}

	// compare-and-set on the previous status so concurrent moves cannot both win
	result := r.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     order.Status,
			"updated_at": order.UpdatedAt,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, &StatusTransitionError{From: from, To: status}
	}
	return order, nil
}

func (r *postgresOrderStore) SoldSeats(ctx context.Context, showContext string) ([]string, error) {
	var orders []Order
	err := r.db.WithContext(ctx).
		Select("id", "seats", "status").
		Where("show_context = ? AND status <> ?", showContext, StatusCancelled).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sold seats: %w", err)
	}
	return collectSeats(orders), nil
}
