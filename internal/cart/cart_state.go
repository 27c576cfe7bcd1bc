package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductID is opaque to the cart. It decodes from either a JSON string or
// a JSON number so upstream ids keep their textual form.
type ProductID string

func (id *ProductID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id must be a string or a number: %w", err)
	}
	*id = ProductID(n.String())
	return nil
}

func (id ProductID) String() string { return string(id) }

// Product is the payload of ADD_TO_CART. Attributes carries every product
// field the cart does not interpret.
type Product struct {
	ID         ProductID       `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Image      []string        `json:"image"`
	Attributes map[string]any  `json:"attributes,omitempty"`
}

type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal is price × quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// State is an immutable cart snapshot. The zero value is an empty cart.
// Items are unique by ID and always have Quantity >= 1.
type State struct {
	items []LineItem
}

func Empty() State { return State{} }

// NewState builds a snapshot from arbitrary line items, restoring the
// invariants: non-positive quantities are dropped and duplicate ids are
// merged into the first occurrence.
func NewState(items ...LineItem) State {
	out := make([]LineItem, 0, len(items))
	pos := make(map[ProductID]int, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if i, ok := pos[it.ID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[it.ID] = len(out)
		out = append(out, LineItem{Product: it.Product.clone(), Quantity: it.Quantity})
	}
	if len(out) == 0 {
		return State{}
	}
	return State{items: out}
}

// Items returns a copy of the line items in insertion order.
func (s State) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	for i, it := range s.items {
		out[i] = LineItem{Product: it.Product.clone(), Quantity: it.Quantity}
	}
	return out
}

func (s State) Len() int { return len(s.items) }

// Quantity reports the quantity for id, 0 when absent.
func (s State) Quantity(id ProductID) int {
	if i := s.index(id); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

func (s State) Contains(id ProductID) bool { return s.index(id) >= 0 }

func (s State) Item(id ProductID) (LineItem, bool) {
	i := s.index(id)
	if i < 0 {
		return LineItem{}, false
	}
	it := s.items[i]
	return LineItem{Product: it.Product.clone(), Quantity: it.Quantity}, true
}

// Units is the sum of all quantities.
func (s State) Units() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items []LineItem `json:"items"`
	}{Items: s.Items()})
}

// Same reports whether a and b are the same snapshot, i.e. a transition
// from a to b was a no-op.
func Same(a, b State) bool {
	if len(a.items) != len(b.items) {
		return false
	}
	return len(a.items) == 0 || &a.items[0] == &b.items[0]
}

func (s State) index(id ProductID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (p Product) clone() Product {
	out := p
	if p.Image != nil {
		out.Image = append([]string(nil), p.Image...)
	}
	if p.Attributes != nil {
		out.Attributes = cloneMap(p.Attributes)
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}
