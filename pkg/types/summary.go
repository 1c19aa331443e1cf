package types

import "github.com/shopspring/decimal"

// currencyPlaces is the display precision for money in the order summary.
const currencyPlaces = 2

// OrderSummary is the display-ready breakdown of a cart. Amounts are rounded
// to cents; the engine's totals stay unrounded.
type OrderSummary struct {
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// NewOrderSummary applies taxRate to subtotal. Tax is computed from the
// unrounded subtotal and both parts are rounded before they are summed, so
// subtotal + tax always equals total on screen.
func NewOrderSummary(count int, subtotal, taxRate float64) OrderSummary {
	exact := decimal.NewFromFloat(subtotal)
	sub := exact.Round(currencyPlaces)
	tax := exact.Mul(decimal.NewFromFloat(taxRate)).Round(currencyPlaces)
	return OrderSummary{
		Count:    count,
		Subtotal: sub,
		Tax:      tax,
		Total:    sub.Add(tax),
	}
}
