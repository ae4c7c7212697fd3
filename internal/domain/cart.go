package domain

// CartItem is one product line in a visitor's cart. At most one item per ID
// exists in a cart and Quantity is always at least 1.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price multiplied by quantity.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
