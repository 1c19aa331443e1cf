package cart

import (
	"net/http"

	"github.com/angelmondragon/packfinderz-cart/api/responses"
	"github.com/angelmondragon/packfinderz-cart/api/validators"
	"github.com/angelmondragon/packfinderz-cart/internal/cart"
	"github.com/angelmondragon/packfinderz-cart/pkg/logger"
)

const maxItemIDLen = 255

// CartFetch renders the session's cart with totals and order summary.
func CartFetch(taxRate float64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := cart.FromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(engine.Snapshot(), taxRate))
	}
}

// CartAddItem merges a product into the cart. A product without an id is
// skipped and reported as unchanged.
func CartAddItem(taxRate float64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := cart.FromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prev := engine.Snapshot()
		next := engine.AddItem(r.Context(), *payload.Product, payload.quantity())
		responses.WriteSuccess(w, newMutationView(prev, next, taxRate))
	}
}

// CartUpdateQuantity sets a line's quantity, clamped into its stock range.
func CartUpdateQuantity(taxRate float64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := cart.FromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := itemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prev := engine.Snapshot()
		next := engine.UpdateQuantity(r.Context(), id, *payload.Qty)
		responses.WriteSuccess(w, newMutationView(prev, next, taxRate))
	}
}

func CartRemoveItem(taxRate float64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := cart.FromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := itemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prev := engine.Snapshot()
		next := engine.RemoveItem(r.Context(), id)
		responses.WriteSuccess(w, newMutationView(prev, next, taxRate))
	}
}

func CartClear(taxRate float64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := cart.FromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prev := engine.Snapshot()
		next := engine.Clear(r.Context())
		responses.WriteSuccess(w, newMutationView(prev, next, taxRate))
	}
}

func itemID(r *http.Request) (string, error) {
	return validators.PathParam(r, "id", maxItemIDLen)
}
