package cart

import (
	"github.com/angelmondragon/packfinderz-cart/internal/cart"
)

const defaultAddQty = 1

// addItemRequest carries the catalog product as-is; fields the cart does not
// use are ignored by cart.Product's decoder.
type addItemRequest struct {
	Product *cart.Product `json:"product" validate:"required"`
	Qty     *int          `json:"qty" validate:"omitempty,min=-1000000,max=1000000"`
}

func (r addItemRequest) quantity() int {
	if r.Qty == nil {
		return defaultAddQty
	}
	return *r.Qty
}

type updateQuantityRequest struct {
	Qty *int `json:"qty" validate:"required,min=-1000000,max=1000000"`
}
