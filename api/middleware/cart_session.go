package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-cart/api/responses"
	"github.com/angelmondragon/packfinderz-cart/api/validators"
	"github.com/angelmondragon/packfinderz-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/packfinderz-cart/pkg/errors"
	"github.com/angelmondragon/packfinderz-cart/pkg/logger"
)

const maxSessionIDLen = 128

// EngineSource resolves the engine for a cart session.
type EngineSource interface {
	Get(ctx context.Context, sessionID string) (*cart.Engine, error)
}

// CartSession reads the session id from header (minting one when absent),
// echoes it back, and binds that session's engine into the request context.
func CartSession(engines EngineSource, header string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := validators.SanitizeString(r.Header.Get(header), maxSessionIDLen)
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			w.Header().Set(header, sessionID)

			ctx := withSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			if engines == nil {
				responses.WriteError(ctx, logg, w, &cart.MissingProviderError{Op: "CartSession"})
				return
			}
			engine, err := engines.Get(ctx, sessionID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve cart session"))
				return
			}

			next.ServeHTTP(w, r.WithContext(cart.WithEngine(ctx, engine)))
		})
	}
}
