package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/ayurcart-backend/api/middleware"
	"github.com/angelmondragon/ayurcart-backend/api/responses"
	"github.com/angelmondragon/ayurcart-backend/api/validators"
	"github.com/angelmondragon/ayurcart-backend/internal/catalog"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
)

// BuyNowResponse is the single-product checkout preview.
type BuyNowResponse struct {
	*catalog.QuoteResult
	Email string `json:"email"`
}

// BuyNow resolves the product and selected pack for a signed-in shopper. The route
// sits behind the session cookie guard.
func BuyNow(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offer, err := validators.ParseQueryInt(r, "offer", 0, 0, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.Quote(r.Context(), chi.URLParam(r, "slug"), offer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		email := ""
		if cookie, err := r.Cookie(middleware.CookieUserEmail); err == nil {
			email = cookie.Value
		}
		responses.WriteSuccess(w, BuyNowResponse{QuoteResult: quote, Email: email})
	}
}
