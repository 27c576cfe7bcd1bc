package cart

// Reduce applies cmd to s and returns the next snapshot. It never fails and
// never mutates s. Commands that target an id not in the cart, unknown
// commands and a nil command all return s itself.
func Reduce(s State, cmd Command) State {
	switch c := cmd.(type) {
	case AddToCart:
		return s.add(c.Product)
	case IncrementQuantity:
		return s.adjust(c.ID, 1)
	case DecrementQuantity:
		return s.adjust(c.ID, -1)
	case RemoveFromCart:
		return s.remove(c.ID)
	case ClearCart:
		if len(s.items) == 0 {
			return s
		}
		return State{}
	default:
		return s
	}
}

func (s State) add(p Product) State {
	if p.ID == "" {
		return s
	}
	if i := s.index(p.ID); i >= 0 {
		return s.withQuantity(i, s.items[i].Quantity+1)
	}

	items := make([]LineItem, len(s.items), len(s.items)+1)
	copy(items, s.items)
	items = append(items, LineItem{Product: p.clone(), Quantity: 1})
	return State{items: items}
}

func (s State) adjust(id ProductID, delta int) State {
	i := s.index(id)
	if i < 0 {
		return s
	}
	q := s.items[i].Quantity + delta
	if q < 1 {
		return s.removeAt(i)
	}
	return s.withQuantity(i, q)
}

func (s State) remove(id ProductID) State {
	i := s.index(id)
	if i < 0 {
		return s
	}
	return s.removeAt(i)
}

func (s State) withQuantity(i, q int) State {
	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	items[i].Quantity = q
	return State{items: items}
}

func (s State) removeAt(i int) State {
	if len(s.items) == 1 {
		return State{}
	}
	items := make([]LineItem, 0, len(s.items)-1)
	items = append(items, s.items[:i]...)
	items = append(items, s.items[i+1:]...)
	return State{items: items}
}
