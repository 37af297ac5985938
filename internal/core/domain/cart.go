package domain

import "errors"

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CartLine pairs a product with a quantity. A cart holds at most one
// line per product id.
type CartLine struct {
	Product  Product
	Quantity int
}

// Cart is the session-scoped accumulation of a shopper's selections.
// It is ephemeral: created empty, mutated freely, cleared on checkout.
type Cart struct {
	lines []CartLine
}

// AddItem inserts a line for the product or, if one already exists,
// increases its quantity by qty.
func (c *Cart) AddItem(p Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			c.lines[i].Quantity += qty
			return nil
		}
	}
	c.lines = append(c.lines, CartLine{Product: p, Quantity: qty})
	return nil
}

// SetQuantity sets the line for productID to exactly qty. A quantity of
// zero or less removes the line.
func (c *Cart) SetQuantity(productID int64, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity = qty
			return
		}
	}
}

// Remove drops the line for productID. Removing an absent product is a
// no-op.
func (c *Cart) Remove(productID int64) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the cart's lines.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Quote prices the current lines.
func (c *Cart) Quote() Totals {
	priced := make([]PricedLine, 0, len(c.lines))
	for _, l := range c.lines {
		priced = append(priced, PricedLine{UnitPrice: l.Product.Price, Quantity: l.Quantity})
	}
	return Quote(priced)
}

// Subtotal is the sum of unit price times quantity over all lines.
func (c *Cart) Subtotal() Amount {
	return c.Quote().Subtotal
}
