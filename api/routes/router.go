package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/packfinderz-cart/api/controllers"
	cartcontrollers "github.com/angelmondragon/packfinderz-cart/api/controllers/cart"
	"github.com/angelmondragon/packfinderz-cart/api/middleware"
	"github.com/angelmondragon/packfinderz-cart/pkg/config"
	"github.com/angelmondragon/packfinderz-cart/pkg/logger"
)

// NewRouter wires the cart API. backend may be nil for the memory driver;
// metrics may be nil to leave /metrics unmounted.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	engines middleware.EngineSource,
	backend controllers.Pinger,
	metrics http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins, cfg.Cart.SessionHeader),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, backend))
	})

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	taxRate := cfg.Cart.TaxRate
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.CartSession(engines, cfg.Cart.SessionHeader, logg))
		r.Get("/", cartcontrollers.CartFetch(taxRate, logg))
		r.Delete("/", cartcontrollers.CartClear(taxRate, logg))
		r.Post("/items", cartcontrollers.CartAddItem(taxRate, logg))
		r.Patch("/items/{id}", cartcontrollers.CartUpdateQuantity(taxRate, logg))
		r.Delete("/items/{id}", cartcontrollers.CartRemoveItem(taxRate, logg))
	})

	return r
}
