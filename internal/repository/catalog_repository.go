package repository

import (
	"errors"
	"fmt"

	"craftstore/internal/domain"
	"craftstore/internal/store"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// CatalogRepository defines read access to the product catalog plus the
// single stock mutation used when orders commit.
type CatalogRepository interface {
	List() ([]domain.Product, error)
	ListByCategory(category string) ([]domain.Product, error)
	FindByID(id int) (*domain.Product, error)
	SetStock(id, newStock int) error
}

type catalogRepository struct {
	store *store.Store
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(s *store.Store) CatalogRepository {
	return &catalogRepository{store: s}
}

// List returns the full catalog in stored insertion order.
func (r *catalogRepository) List() ([]domain.Product, error) {
	var products []domain.Product
	if err := r.store.ReadAll(store.CollectionProducts, &products); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return products, nil
}

// ListByCategory returns the products of one category, keeping catalog order.
func (r *catalogRepository) ListByCategory(category string) ([]domain.Product, error) {
	products, err := r.List()
	if err != nil {
		return nil, err
	}

	filtered := []domain.Product{}
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// FindByID returns the first product matching id, or ErrProductNotFound.
func (r *catalogRepository) FindByID(id int) (*domain.Product, error) {
	products, err := r.List()
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

// SetStock rewrites the catalog with the matching product's stock replaced.
// An absent id is a no-op; callers own the non-negativity of newStock.
func (r *catalogRepository) SetStock(id, newStock int) error {
	products, err := r.List()
	if err != nil {
		return err
	}

	for i := range products {
		if products[i].ID == id {
			products[i].Stock = newStock
			break
		}
	}

	if err := r.store.WriteAll(store.CollectionProducts, products); err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	return nil
}
