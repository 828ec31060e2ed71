package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusDispatched OrderStatus = "Dispatched"
	StatusDelivered  OrderStatus = "Delivered"
)

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusDispatched, StatusDelivered:
		return true
	}
	return false
}

// transitions is the forward-only lifecycle table. A status not present
// here (Delivered) is terminal.
var transitions = map[OrderStatus]OrderStatus{
	StatusProcessing: StatusDispatched,
	StatusDispatched: StatusDelivered,
}

// CanTransition reports whether moving from s to next is allowed.
// Only single forward steps are permitted; no regression, no skipping.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	return transitions[s] == next
}

// Order is a finalized cart with customer details and a lifecycle status.
// Items are an immutable copy of the cart at checkout time; later catalog
// changes never alter a recorded order.
type Order struct {
	ID              string      `json:"id"`
	Items           []CartItem  `json:"items"`
	Total           float64     `json:"total"`
	CustomerName    string      `json:"customerName"`
	CustomerAddress string      `json:"customerAddress"`
	CustomerPhone   string      `json:"customerPhone"`
	PaymentMethod   string      `json:"paymentMethod"`
	Status          OrderStatus `json:"status"`
	Date            string      `json:"date"`
}

// NewOrderID generates a collision-resistant order identifier. The ORD-
// prefix and uppercase form match the identifiers the storefront has
// always displayed to customers.
func NewOrderID() string {
	return fmt.Sprintf("ORD-%s", strings.ToUpper(uuid.NewString()))
}

// NewOrder builds an order in the initial Processing state from a cart
// snapshot. The items slice is deep-copied so the caller's cart can be
// cleared or mutated afterwards without touching the order.
func NewOrder(items []CartItem, total float64, name, address, phone, paymentMethod string) Order {
	snapshot := make([]CartItem, len(items))
	copy(snapshot, items)

	return Order{
		ID:              NewOrderID(),
		Items:           snapshot,
		Total:           total,
		CustomerName:    name,
		CustomerAddress: address,
		CustomerPhone:   phone,
		PaymentMethod:   paymentMethod,
		Status:          StatusProcessing,
		Date:            time.Now().UTC().Format(time.RFC3339),
	}
}
