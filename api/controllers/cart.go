package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/ayurcart-backend/api/responses"
	"github.com/angelmondragon/ayurcart-backend/api/validators"
	"github.com/angelmondragon/ayurcart-backend/internal/cart"
	"github.com/angelmondragon/ayurcart-backend/pkg/config"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
)

// CartCookies identifies the anonymous cart slot of a browser.
type CartCookies struct {
	Cart    config.CartConfig
	Cookies config.CookieConfig
}

func (c CartCookies) name() string {
	if c.Cart.CookieName == "" {
		return "cart_id"
	}
	return c.Cart.CookieName
}

// existing returns the cart id from the cookie, or "" when absent or malformed.
func (c CartCookies) existing(r *http.Request) string {
	cookie, err := r.Cookie(c.name())
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(strings.TrimSpace(cookie.Value))
	if err != nil {
		return ""
	}
	return id.String()
}

// ensure returns the current cart id, minting one and refreshing the cookie.
func (c CartCookies) ensure(w http.ResponseWriter, r *http.Request) string {
	id := c.existing(r)
	if id == "" {
		id = uuid.NewString()
	}
	setCookie(w, c.Cookies, c.name(), id, c.Cart.TTL)
	return id
}

func CartView(svc cart.Service, cookies CartCookies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := cookies.existing(r)
		if id == "" {
			responses.WriteSuccess(w, cart.NewView(nil))
			return
		}
		responses.WriteSuccess(w, svc.View(r.Context(), id))
	}
}

// CartAddItem prices the requested pack server side and merges it into the cart.
func CartAddItem(svc cart.Service, cookies CartCookies, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cart.AddItemInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := cookies.ensure(w, r)
		view, err := svc.AddItem(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartRemoveItem(svc cart.Service, cookies CartCookies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := cookies.existing(r)
		if id == "" {
			responses.WriteSuccess(w, cart.NewView(nil))
			return
		}
		name := chi.URLParam(r, "name")
		if decoded, err := url.PathUnescape(name); err == nil {
			name = decoded
		}
		responses.WriteSuccess(w, svc.RemoveItem(r.Context(), id, name))
	}
}

func CartClear(svc cart.Service, cookies CartCookies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := cookies.existing(r)
		if id == "" {
			responses.WriteSuccess(w, cart.NewView(nil))
			return
		}
		responses.WriteSuccess(w, svc.Clear(r.Context(), id))
	}
}
