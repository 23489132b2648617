package models

type CartItem struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product"`
}

type Cart struct {
	ID         int64      `json:"id"`
	SessionID  string     `json:"session_id"`
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	Subtotal   float64    `json:"subtotal"`
}

// Recount fills TotalItems and Subtotal from Items.
func (c *Cart) Recount() {
	c.TotalItems, c.Subtotal = 0, 0
	for _, it := range c.Items {
		c.TotalItems += it.Quantity
		if it.Product != nil {
			c.Subtotal += it.Product.Price * float64(it.Quantity)
		}
	}
}

type WishlistItem struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Product   *Product `json:"product"`
}
