package domain

import (
	"github.com/shopspring/decimal"
)

// Cart is a user's collection of products pending purchase.
// There is at most one cart per user.
type Cart struct {
	Entity
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// CartItem is one (product, quantity) line in a cart. A cart holds at most
// one line per product and a line always has quantity >= 1.
type CartItem struct {
	Entity
	CartID    string `json:"cart_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`

	// Product is populated when the cart is loaded for display.
	Product *Product `json:"product,omitempty"`
}

// LineTotal returns price × quantity, or zero when the product is not loaded.
func (i CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums the line totals using exact decimal arithmetic.
// An empty cart totals zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemCount returns the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Item returns the line for productID, if present.
func (c *Cart) Item(productID string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
