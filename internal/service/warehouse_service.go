package service

import (
	"craftstore/internal/domain"
	"craftstore/internal/repository"
	"craftstore/internal/store"

	"go.uber.org/zap"
)

// WarehouseStats is the dashboard summary shown on the warehouse page.
type WarehouseStats struct {
	TotalProducts int `json:"totalProducts"`
	LowStock      int `json:"lowStock"`
	PendingOrders int `json:"pendingOrders"`
	TotalOrders   int `json:"totalOrders"`
}

// WarehouseService backs the warehouse dashboard: inventory overview,
// low-stock alerts, order dispatch, restocking, and the demo-data reset.
type WarehouseService interface {
	Stats() (*WarehouseStats, error)
	LowStock() ([]domain.Product, error)
	PendingOrders() ([]domain.Order, error)
	Dispatch(orderID string) error
	Deliver(orderID string) error
	Restock(productID, quantity int) error
	Reset() error
}

type warehouseService struct {
	store   *store.Store
	catalog repository.CatalogRepository
	orders  repository.OrderRepository
	seed    []domain.Product
	logger  *zap.Logger
}

// NewWarehouseService creates a new WarehouseService. seed is the bundled
// catalog that Reset restores.
func NewWarehouseService(s *store.Store, catalog repository.CatalogRepository, orders repository.OrderRepository, seed []domain.Product, logger *zap.Logger) WarehouseService {
	return &warehouseService{
		store:   s,
		catalog: catalog,
		orders:  orders,
		seed:    seed,
		logger:  logger,
	}
}

// Stats summarizes the catalog and order ledgers for the dashboard cards.
func (s *warehouseService) Stats() (*WarehouseStats, error) {
	products, err := s.catalog.List()
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.List()
	if err != nil {
		return nil, err
	}

	stats := &WarehouseStats{
		TotalProducts: len(products),
		TotalOrders:   len(orders),
	}
	for _, p := range products {
		if p.StockStatus() != domain.StockStatusIn {
			stats.LowStock++
		}
	}
	for _, o := range orders {
		if o.Status == domain.StatusProcessing {
			stats.PendingOrders++
		}
	}
	return stats, nil
}

// LowStock returns products at or below their reorder level, including
// the ones that have run out entirely.
func (s *warehouseService) LowStock() ([]domain.Product, error) {
	products, err := s.catalog.List()
	if err != nil {
		return nil, err
	}

	flagged := []domain.Product{}
	for _, p := range products {
		if p.StockStatus() != domain.StockStatusIn {
			flagged = append(flagged, p)
		}
	}
	return flagged, nil
}

// PendingOrders returns the orders still waiting to be dispatched.
func (s *warehouseService) PendingOrders() ([]domain.Order, error) {
	orders, err := s.orders.List()
	if err != nil {
		return nil, err
	}

	pending := []domain.Order{}
	for _, o := range orders {
		if o.Status == domain.StatusProcessing {
			pending = append(pending, o)
		}
	}
	return pending, nil
}

// Dispatch moves a Processing order to Dispatched.
func (s *warehouseService) Dispatch(orderID string) error {
	if err := s.orders.SetStatus(orderID, domain.StatusDispatched); err != nil {
		return err
	}
	s.logger.Info("Order dispatched", zap.String("order_id", orderID))
	return nil
}

// Deliver moves a Dispatched order to Delivered.
func (s *warehouseService) Deliver(orderID string) error {
	if err := s.orders.SetStatus(orderID, domain.StatusDelivered); err != nil {
		return err
	}
	s.logger.Info("Order delivered", zap.String("order_id", orderID))
	return nil
}

// Restock adds quantity units to a product's stock.
func (s *warehouseService) Restock(productID, quantity int) error {
	product, err := s.catalog.FindByID(productID)
	if err != nil {
		return err
	}
	return s.catalog.SetStock(productID, product.Stock+quantity)
}

// Reset restores the seed catalog and empties the cart and order ledgers.
func (s *warehouseService) Reset() error {
	if err := s.store.Reset(s.seed); err != nil {
		return err
	}
	s.logger.Info("Store reset to seed data")
	return nil
}
