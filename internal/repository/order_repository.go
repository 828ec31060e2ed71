package repository

import (
	"errors"
	"fmt"

	"craftstore/internal/domain"
	"craftstore/internal/store"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines access to the order ledger. Orders are listed
// newest first and, once recorded, change only through status transitions.
type OrderRepository interface {
	List() ([]domain.Order, error)
	FindByID(orderID string) (*domain.Order, error)
	SetStatus(orderID string, status domain.OrderStatus) error
}

type orderRepository struct {
	store *store.Store
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(s *store.Store) OrderRepository {
	return &orderRepository{store: s}
}

// List returns all orders, newest first.
func (r *orderRepository) List() ([]domain.Order, error) {
	var orders []domain.Order
	if err := r.store.ReadAll(store.CollectionOrders, &orders); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	return orders, nil
}

// FindByID returns the order matching orderID, or ErrOrderNotFound.
func (r *orderRepository) FindByID(orderID string) (*domain.Order, error) {
	orders, err := r.List()
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].ID == orderID {
			return &orders[i], nil
		}
	}
	return nil, ErrOrderNotFound
}

// SetStatus advances the matching order through the lifecycle. Transitions
// that are not a single forward step return domain.ErrInvalidTransition.
func (r *orderRepository) SetStatus(orderID string, status domain.OrderStatus) error {
	orders, err := r.List()
	if err != nil {
		return err
	}

	found := false
	for i := range orders {
		if orders[i].ID != orderID {
			continue
		}
		if !orders[i].Status.CanTransition(status) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, orders[i].Status, status)
		}
		orders[i].Status = status
		found = true
		break
	}
	if !found {
		return ErrOrderNotFound
	}

	if err := r.store.WriteAll(store.CollectionOrders, orders); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}
