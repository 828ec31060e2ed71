package repository

import (
	"path/filepath"
	"testing"

	"craftstore/internal/domain"
	"craftstore/internal/store"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testCatalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Handwoven Ikat Stole", Price: 1450, Category: "Textile Weaves", Stock: 24, ReorderLevel: 8, SKU: "TW-IKAT-001"},
		{ID: 2, Name: "Dhokra Elephant Figurine", Price: 1850, Category: "Metal Crafts", Stock: 12, ReorderLevel: 5, SKU: "MC-DHKR-004"},
		{ID: 3, Name: "Sabai Grass Storage Basket", Price: 620, Category: "Natural Fibers", Stock: 0, ReorderLevel: 12, SKU: "NF-SABA-010"},
	}
}

func seedCatalog(t *testing.T, s *store.Store) {
	t.Helper()
	if err := s.WriteAll(store.CollectionProducts, testCatalog()); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
}
