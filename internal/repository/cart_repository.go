package repository

import (
	"fmt"

	"craftstore/internal/domain"
	"craftstore/internal/store"
)

// CartRepository defines the cart ledger operations. The cart holds at
// most one item per product id; repeated adds increment the quantity.
type CartRepository interface {
	Get() ([]domain.CartItem, error)
	Count() (int, error)
	Add(product domain.Product, quantity int) error
	SetQuantity(productID, quantity int) error
	Remove(productID int) error
	Clear() error
}

type cartRepository struct {
	store *store.Store
}

// NewCartRepository creates a new instance of CartRepository.
func NewCartRepository(s *store.Store) CartRepository {
	return &cartRepository{store: s}
}

// Get returns the cart ledger in insertion order.
func (r *cartRepository) Get() ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := r.store.ReadAll(store.CollectionCart, &items); err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return items, nil
}

// Count returns the total unit count across all cart lines.
func (r *cartRepository) Count() (int, error) {
	items, err := r.Get()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total, nil
}

// Add puts a snapshot of product into the cart with the given quantity,
// or increments the quantity of an existing line with the same id. Stock
// bounds are the caller's concern; the authoritative check happens at
// checkout.
func (r *cartRepository) Add(product domain.Product, quantity int) error {
	items, err := r.Get()
	if err != nil {
		return err
	}

	found := false
	for i := range items {
		if items[i].ID == product.ID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, domain.CartItem{Product: product, Quantity: quantity})
	}

	if err := r.store.WriteAll(store.CollectionCart, items); err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}
	return nil
}

// SetQuantity rewrites the matching line's quantity as given, including
// zero or negative values; only Remove deletes a line.
func (r *cartRepository) SetQuantity(productID, quantity int) error {
	items, err := r.Get()
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ID == productID {
			items[i].Quantity = quantity
			break
		}
	}

	if err := r.store.WriteAll(store.CollectionCart, items); err != nil {
		return fmt.Errorf("failed to update cart quantity: %w", err)
	}
	return nil
}

// Remove filters out the line matching productID.
func (r *cartRepository) Remove(productID int) error {
	items, err := r.Get()
	if err != nil {
		return err
	}

	remaining := items[:0]
	for _, item := range items {
		if item.ID != productID {
			remaining = append(remaining, item)
		}
	}

	if err := r.store.WriteAll(store.CollectionCart, remaining); err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}
	return nil
}

// Clear replaces the ledger with an empty sequence.
func (r *cartRepository) Clear() error {
	if err := r.store.WriteAll(store.CollectionCart, []domain.CartItem{}); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
