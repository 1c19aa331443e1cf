package cart

import "strings"

// AddItem merges qty units of p into s. A product without an ID is skipped.
// An existing line keeps its position and is capped at the product's stock;
// a new line is clamped into [1, stock] and goes to the front.
func AddItem(s *Snapshot, p Product, qty int) *Snapshot {
	id := p.id()
	if id == "" {
		return s
	}
	stock := p.stockLimit()

	if idx := s.index(id); idx >= 0 {
		current := s.lines[idx]
		// saturate before adding; qty may be negative and the floor keeps the line alive
		if room := stock - current.Quantity; qty > room {
			qty = room
		}
		quantity := clamp(current.Quantity+qty, 1, stock)
		if quantity == current.Quantity {
			return s
		}
		next := current
		next.Stock = stock
		next.Quantity = quantity
		return s.withLine(idx, next)
	}

	return s.prepend(Line{
		ID:        id,
		Title:     p.title(),
		Price:     p.unitPrice(),
		Thumbnail: p.thumbnail(),
		Stock:     stock,
		Quantity:  clamp(qty, 1, stock),
	})
}

// RemoveItem drops the line with id, if any.
func RemoveItem(s *Snapshot, id string) *Snapshot {
	idx := s.index(strings.TrimSpace(id))
	if idx < 0 {
		return s
	}
	return s.without(idx)
}

// UpdateQuantity sets the quantity of line id, clamped into [1, stock].
// Driving a line to zero is not possible here; RemoveItem is the only way out.
func UpdateQuantity(s *Snapshot, id string, qty int) *Snapshot {
	idx := s.index(strings.TrimSpace(id))
	if idx < 0 {
		return s
	}
	current := s.lines[idx]
	quantity := clamp(qty, 1, normalizeStock(current.Stock))
	if quantity == current.Quantity {
		return s
	}
	next := current
	next.Quantity = quantity
	return s.withLine(idx, next)
}

// Clear empties the cart.
func Clear(s *Snapshot) *Snapshot {
	if s.Len() == 0 {
		return s
	}
	return emptySnapshot
}
