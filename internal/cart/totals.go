package cart

// Totals are derived from a snapshot on every read and never stored.
type Totals struct {
	Count    int     `json:"count"`
	Subtotal float64 `json:"subtotal"`
}

// ComputeTotals sums quantities and unit price times quantity. No rounding is
// applied; currency formatting and tax belong to the caller.
func ComputeTotals(s *Snapshot) Totals {
	var totals Totals
	if s == nil {
		return totals
	}
	for _, line := range s.lines {
		totals.Count += line.Quantity
		totals.Subtotal += line.Subtotal()
	}
	return totals
}
