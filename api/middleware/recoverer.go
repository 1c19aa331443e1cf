package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/packfinderz-cart/api/responses"
	"github.com/angelmondragon/packfinderz-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/packfinderz-cart/pkg/errors"
	"github.com/angelmondragon/packfinderz-cart/pkg/logger"
)

// Recoverer turns handler panics into error envelopes. A panicking cart
// contract call without an engine maps to MISSING_PROVIDER.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{"panic": fmt.Sprint(rec)})
				}

				code := pkgerrors.CodeInternal
				if cart.IsMissingProvider(err) {
					code = pkgerrors.CodeMissingProvider
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(code, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
