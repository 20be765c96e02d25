package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func product(id, price string) *Product {
	return &Product{Entity: Entity{ID: id}, Price: decimal.RequireFromString(price), Available: true}
}

func TestCart_TotalIsExact(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{ProductID: "a", Quantity: 2, Product: product("a", "9.99")},
		{ProductID: "b", Quantity: 1, Product: product("b", "3.50")},
	}}

	assert.Equal(t, "23.48", cart.Total().StringFixed(2))
	assert.True(t, cart.Total().Equal(decimal.RequireFromString("23.48")))
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCart_TotalNoDriftAcrossManyLines(t *testing.T) {
	var cart Cart
	for range 1000 {
		cart.Items = append(cart.Items, CartItem{Quantity: 1, Product: product("p", "0.10")})
	}

	assert.Equal(t, "100.00", cart.Total().StringFixed(2))
}

func TestCart_EmptyTotalsZero(t *testing.T) {
	var cart Cart

	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())
	assert.Equal(t, "0.00", cart.Total().StringFixed(2))
}

func TestCart_Item(t *testing.T) {
	cart := Cart{Items: []CartItem{{ProductID: "shirt", Quantity: 2}}}

	item, ok := cart.Item("shirt")
	assert.True(t, ok)
	assert.Equal(t, 2, item.Quantity)

	_, ok = cart.Item("hat")
	assert.False(t, ok)
}

func TestCartItem_LineTotalWithoutProduct(t *testing.T) {
	assert.True(t, CartItem{Quantity: 3}.LineTotal().IsZero())
}

func TestProduct_EnsureSlug(t *testing.T) {
	p := Product{Title: "Blue Shirt"}
	p.EnsureSlug()
	assert.Equal(t, "blue-shirt", p.Slug)

	p.Title = "Red Shirt"
	p.EnsureSlug()
	assert.Equal(t, "blue-shirt", p.Slug, "slug is assigned once")
}
