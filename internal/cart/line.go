package cart

import (
	"encoding/json"
	"math"
	"strings"
)

const (
	// DefaultStock caps quantity when the product does not declare its stock.
	DefaultStock = 99
	// DefaultTitle is shown for products created without a title.
	DefaultTitle = "Untitled"
)

// Line is one purchasable entry in the cart.
type Line struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Thumbnail string  `json:"thumbnail"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
}

// Subtotal is the line's unit price times its quantity.
func (l Line) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Product is the input contract for AddItem. Only ID is required; every other
// field the product source may carry is ignored.
type Product struct {
	ID        string
	Title     string
	Price     *float64
	Stock     *int
	Thumbnail string
	Images    []string
}

// UnmarshalJSON accepts catalog payloads where id, price and stock may arrive
// as numbers or numeric strings.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        flexString `json:"id"`
		Title     string     `json:"title"`
		Price     flexNumber `json:"price"`
		Stock     flexNumber `json:"stock"`
		Thumbnail string     `json:"thumbnail"`
		Images    []string   `json:"images"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Product{
		ID:        string(raw.ID),
		Title:     raw.Title,
		Thumbnail: raw.Thumbnail,
		Images:    raw.Images,
	}
	if raw.Price.valid {
		price := raw.Price.value
		p.Price = &price
	}
	if raw.Stock.valid {
		stock := truncate(raw.Stock.value)
		p.Stock = &stock
	}
	return nil
}

func (p Product) id() string {
	return strings.TrimSpace(p.ID)
}

func (p Product) stockLimit() int {
	if p.Stock == nil {
		return DefaultStock
	}
	return normalizeStock(*p.Stock)
}

func (p Product) unitPrice() float64 {
	if p.Price == nil {
		return 0
	}
	return normalizePrice(*p.Price)
}

func (p Product) title() string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return p.Title
	}
	return DefaultTitle
}

func (p Product) thumbnail() string {
	if p.Thumbnail != "" {
		return p.Thumbnail
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// normalizeStock maps a missing or non-positive stock to DefaultStock.
func normalizeStock(stock int) int {
	if stock < 1 {
		return DefaultStock
	}
	return stock
}

func normalizePrice(price float64) float64 {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0
	}
	return price
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}

func truncate(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(math.Trunc(v))
}
