package domain

// Product represents a catalog entry. JSON field names match the persisted
// collection layout, so stored data stays readable across resets.
type Product struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	Category     string  `json:"category"`
	Subcategory  string  `json:"subcategory"`
	Stock        int     `json:"stock"`
	ReorderLevel int     `json:"reorderLevel"`
	Description  string  `json:"description"`
	SKU          string  `json:"sku"`
}

// StockStatus classifies a product's stock level against its reorder level.
type StockStatus string

const (
	StockStatusOut StockStatus = "out-of-stock"
	StockStatusLow StockStatus = "low-stock"
	StockStatusIn  StockStatus = "in-stock"
)

// StockStatus returns the classification for the product's current stock.
// The boundary stock == reorderLevel counts as low-stock.
func (p Product) StockStatus() StockStatus {
	switch {
	case p.Stock == 0:
		return StockStatusOut
	case p.Stock <= p.ReorderLevel:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}
