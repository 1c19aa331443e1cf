package controllers

import (
	"net/http"

	"github.com/angelmondragon/packfinderz-cart/api/middleware"
	"github.com/angelmondragon/packfinderz-cart/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "public", "status": "ok"}
		if id := middleware.RequestIDFromContext(r.Context()); id != "" {
			payload["request_id"] = id
		}
		responses.WriteSuccess(w, payload)
	}
}
