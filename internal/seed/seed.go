// Package seed bundles the demo catalog the store is initialized with on
// first run and restored to by the warehouse reset.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"craftstore/internal/domain"
)

//go:embed products.json
var productsJSON []byte

// Products returns a fresh copy of the bundled catalog.
func Products() ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(productsJSON, &products); err != nil {
		return nil, fmt.Errorf("failed to decode bundled catalog: %w", err)
	}
	return products, nil
}
