package domain

import (
	"bytes"
	"encoding/json"
)

// CartLine is one entry in a customer's cart: a product, a quantity and
// the customization options picked for it (option label -> chosen variations).
type CartLine struct {
	ID              string              `json:"id"`
	ProductID       uint64              `json:"productId"`
	Name            string              `json:"name"`
	UnitPrice       float64             `json:"unitPrice"`
	Quantity        int                 `json:"quantity"`
	SelectedOptions map[string][]string `json:"selectedOptions,omitempty"`
	LineTotal       float64             `json:"lineTotal"`
}

// Recalculate restores the lineTotal invariant after a mutation.
func (l *CartLine) Recalculate() {
	l.LineTotal = RoundCents(l.UnitPrice * float64(l.Quantity))
}

// SameSelection reports whether two option selections are byte-equal once
// encoded. Variation order inside an option is significant.
func SameSelection(a, b map[string][]string) bool {
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return bytes.Equal(ab, bb)
}

// Cart is the session-held collection of lines. It is a plain value so it
// can be serialized as-is into the cart store.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, l := range c.Lines {
		sum += l.LineTotal
	}
	return RoundCents(sum)
}

func (c *Cart) Count() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) FindLine(id string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			return &c.Lines[i]
		}
	}
	return nil
}
