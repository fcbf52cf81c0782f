package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrLineOutOfRange = errors.New("cart line index out of range")

type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal is price times quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines with at most one line per product ID.
// It is a value: every operation returns a new Cart and leaves the receiver untouched.
type Cart struct {
	lines []CartLine
	index map[int]int // product ID -> position in lines
}

func NewCart() Cart {
	return Cart{}
}

// Add increments the line for p.ID, or appends a new line with quantity 1.
func (c Cart) Add(p Product) Cart {
	next := c.clone()
	if pos, ok := next.index[p.ID]; ok {
		next.lines[pos].Quantity++
		return next
	}
	next.index[p.ID] = len(next.lines)
	next.lines = append(next.lines, CartLine{Product: p, Quantity: 1})
	return next
}

func (c Cart) Increase(i int) (Cart, error) {
	if err := c.checkIndex(i); err != nil {
		return c, err
	}
	next := c.clone()
	next.lines[i].Quantity++
	return next, nil
}

// Decrease lowers the quantity of line i, but never below 1.
func (c Cart) Decrease(i int) (Cart, error) {
	if err := c.checkIndex(i); err != nil {
		return c, err
	}
	if c.lines[i].Quantity <= 1 {
		return c, nil
	}
	next := c.clone()
	next.lines[i].Quantity--
	return next, nil
}

// Remove deletes line i and shifts the following lines down by one.
func (c Cart) Remove(i int) (Cart, error) {
	if err := c.checkIndex(i); err != nil {
		return c, err
	}
	lines := make([]CartLine, 0, len(c.lines)-1)
	lines = append(lines, c.lines[:i]...)
	lines = append(lines, c.lines[i+1:]...)
	return cartFromLines(lines), nil
}

func (c Cart) Len() int {
	return len(c.lines)
}

func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c Cart) Line(i int) (CartLine, error) {
	if err := c.checkIndex(i); err != nil {
		return CartLine{}, err
	}
	return c.lines[i], nil
}

// Lines returns a copy of the cart lines in cart order.
func (c Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// IndexOf returns the position of the line holding productID.
func (c Cart) IndexOf(productID int) (int, bool) {
	pos, ok := c.index[productID]
	return pos, ok
}

func (c Cart) TotalItemCount() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round(2)
}

// FormattedTotal renders the total price with exactly two decimals.
func (c Cart) FormattedTotal() string {
	return c.TotalPrice().StringFixed(2)
}

func (c Cart) checkIndex(i int) error {
	if i < 0 || i >= len(c.lines) {
		return fmt.Errorf("%w: index %d, cart has %d lines", ErrLineOutOfRange, i, len(c.lines))
	}
	return nil
}

func (c Cart) clone() Cart {
	lines := make([]CartLine, len(c.lines), len(c.lines)+1)
	copy(lines, c.lines)
	return cartFromLines(lines)
}

func cartFromLines(lines []CartLine) Cart {
	index := make(map[int]int, len(lines))
	for pos, l := range lines {
		index[l.ID] = pos
	}
	return Cart{lines: lines, index: index}
}
