package service

import (
	"fmt"

	"craftstore/internal/domain"
	"craftstore/internal/store"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TaxRate is applied on the cart subtotal at checkout.
const TaxRate = 0.18

// CheckoutInfo carries the customer details captured by the checkout form.
type CheckoutInfo struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Address       string `json:"address" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

// CheckoutService turns the current cart into a recorded order. PlaceOrder
// is the one operation that touches products, orders, and cart in a single
// logical unit, so all three writes are staged and committed together.
type CheckoutService interface {
	PlaceOrder(info CheckoutInfo) (*domain.Order, error)
}

type checkoutService struct {
	store    *store.Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCheckoutService creates a new CheckoutService. It takes the store
// directly rather than per-collection repositories because the commit has
// to span all three collections in one transaction.
func NewCheckoutService(s *store.Store, logger *zap.Logger) CheckoutService {
	return &checkoutService{
		store:    s,
		validate: validator.New(),
		logger:   logger,
	}
}

// PlaceOrder validates the customer details and every cart line against
// live stock, then commits the order record, the per-line stock
// decrements, and the cart clear atomically. Any validation failure
// leaves all three collections untouched.
func (s *checkoutService) PlaceOrder(info CheckoutInfo) (*domain.Order, error) {
	if err := s.validate.Struct(info); err != nil {
		return nil, fmt.Errorf("invalid checkout details: %w", err)
	}

	var order domain.Order
	err := s.store.Batch(func(tx *store.Tx) error {
		var items []domain.CartItem
		if err := tx.ReadAll(store.CollectionCart, &items); err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}

		var products []domain.Product
		if err := tx.ReadAll(store.CollectionProducts, &products); err != nil {
			return err
		}

		byID := make(map[int]int, len(products))
		for i, p := range products {
			byID[p.ID] = i
		}

		// Validate every line before staging any write.
		subtotal := 0.0
		for _, item := range items {
			i, ok := byID[item.ID]
			if !ok {
				return fmt.Errorf("%w: product %d", domain.ErrProductGone, item.ID)
			}
			if item.Quantity > products[i].Stock {
				return fmt.Errorf("%w: product %d wants %d, have %d",
					domain.ErrInsufficientStock, item.ID, item.Quantity, products[i].Stock)
			}
			subtotal += item.Subtotal()
		}

		for _, item := range items {
			products[byID[item.ID]].Stock -= item.Quantity
		}

		var orders []domain.Order
		if err := tx.ReadAll(store.CollectionOrders, &orders); err != nil {
			return err
		}

		total := subtotal * (1 + TaxRate)
		order = domain.NewOrder(items, total, info.Name, info.Address, info.Phone, info.PaymentMethod)
		orders = append([]domain.Order{order}, orders...)

		if err := tx.WriteAll(store.CollectionProducts, products); err != nil {
			return err
		}
		if err := tx.WriteAll(store.CollectionOrders, orders); err != nil {
			return err
		}
		return tx.WriteAll(store.CollectionCart, []domain.CartItem{})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total),
	)
	return &order, nil
}
