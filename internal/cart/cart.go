package cart

import (
	"github.com/shopspring/decimal"
)

// Compute aggregates items into totals. It has no side effects and returns
// the same totals for the same items in any order. Items with a non-positive
// quantity contribute nothing.
func Compute(items []LineItem) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(it.LineTotal())
	}

	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = FlatShipping
	}
	tax := subtotal.Mul(TaxRate).Round(currencyPlaces)

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// Cart is an in-memory line-item collection keyed by product. The zero value
// is an empty cart.
type Cart struct {
	items []LineItem
}

// Add puts quantity of a product in the cart. Adding a product that is
// already present increases its quantity and keeps the price captured first.
func (c *Cart) Add(productID, name string, quantity int, unitPrice decimal.Decimal) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return ErrNegativePrice
	}
	if i := c.index(productID); i >= 0 {
		c.items[i].Quantity += quantity
		c.items[i].Total = c.items[i].LineTotal()
		return nil
	}

	it := LineItem{ProductID: productID, ProductName: name, Quantity: quantity, UnitPrice: unitPrice}
	it.Total = it.LineTotal()
	c.items = append(c.items, it)
	return nil
}

// SetQuantity replaces an item's quantity; zero or less removes the item.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	i := c.index(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	if quantity <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		return nil
	}
	c.items[i].Quantity = quantity
	c.items[i].Total = c.items[i].LineTotal()
	return nil
}

func (c *Cart) Remove(productID string) error {
	return c.SetQuantity(productID, 0)
}

// Items returns a copy of the cart's lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) Totals() Totals {
	return Compute(c.items)
}

func (c *Cart) index(productID string) int {
	for i, it := range c.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
