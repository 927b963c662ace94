package domain

// CartItem is a single cart line as reported by the cart service.
type CartItem struct {
	ProductID string `json:"product_id" bson:"product_id"`
	Quantity  int32  `json:"quantity" bson:"quantity"`
}

// Cart is the transient snapshot fetched for a user on every tick.
type Cart struct {
	UserID string     `json:"user_id" bson:"user_id"`
	Items  []CartItem `json:"items" bson:"items"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Product holds the catalog fields enrichment needs.
type Product struct {
	ID         string
	Name       string
	Price      *Money
	Categories []string
}
