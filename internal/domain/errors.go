package domain

import "errors"

var (
	// ErrEmptyCart is returned when checkout is attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInsufficientStock is returned when a cart line asks for more
	// units than the live catalog has.
	ErrInsufficientStock = errors.New("insufficient stock for cart item")

	// ErrProductGone is returned when a cart line references a product
	// that no longer exists in the catalog.
	ErrProductGone = errors.New("cart item references a missing product")

	// ErrInvalidTransition is returned when an order status change does
	// not follow the Processing -> Dispatched -> Delivered sequence.
	ErrInvalidTransition = errors.New("invalid order status transition")
)
