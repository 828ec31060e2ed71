package domain

// CartItem is a full product snapshot taken at add time plus the chosen
// quantity. It is intentionally not kept in sync with later catalog edits;
// the snapshot is what gets copied into an order at checkout.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price times quantity for this line.
func (c CartItem) Subtotal() float64 {
	return c.Price * float64(c.Quantity)
}
