package cart

import (
	"github.com/angelmondragon/packfinderz-cart/internal/cart"
	"github.com/angelmondragon/packfinderz-cart/pkg/types"
)

// cartView is the cart as rendered to clients.
type cartView struct {
	Items   []cart.Line        `json:"items"`
	Totals  cart.Totals        `json:"totals"`
	Summary types.OrderSummary `json:"summary"`
	Changed *bool              `json:"changed,omitempty"`
}

func newCartView(s *cart.Snapshot, taxRate float64) cartView {
	totals := cart.ComputeTotals(s)
	return cartView{
		Items:   s.Lines(),
		Totals:  totals,
		Summary: types.NewOrderSummary(totals.Count, totals.Subtotal, taxRate),
	}
}

// newMutationView marks whether the mutation produced a new snapshot.
func newMutationView(prev, next *cart.Snapshot, taxRate float64) cartView {
	view := newCartView(next, taxRate)
	changed := prev != next
	view.Changed = &changed
	return view
}
