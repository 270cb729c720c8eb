package controllers

import (
	"net/http"

	"github.com/angelmondragon/ayurcart-backend/api/middleware"
	"github.com/angelmondragon/ayurcart-backend/api/responses"
	"github.com/angelmondragon/ayurcart-backend/api/validators"
	"github.com/angelmondragon/ayurcart-backend/internal/auth"
	"github.com/angelmondragon/ayurcart-backend/pkg/config"
	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
)

// AuthRegister creates a storefront account.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// AuthLogin wires the login endpoint into the HTTP layer. Besides the token in the
// body and header it sets the cookies the storefront route guards read.
func AuthLogin(svc auth.Service, cookies config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if result.User != nil {
			setCookie(w, cookies, middleware.CookieUserRole, string(result.User.Role), sessionCookieTTL)
			setCookie(w, cookies, middleware.CookieUserEmail, result.User.Email, sessionCookieTTL)
			if result.User.Role == enums.UserRoleAdmin {
				setCookie(w, cookies, middleware.CookieAdminRole, result.AccessToken, sessionCookieTTL)
			}
		}

		w.Header().Set(middleware.TokenHeader, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout expires every session cookie. Tokens are stateless and simply age out.
func AuthLogout(cookies config.CookieConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, name := range []string{middleware.CookieUserRole, middleware.CookieUserEmail, middleware.CookieAdminRole} {
			expireCookie(w, cookies, name)
		}
		responses.WriteSuccess(w, map[string]bool{"logged_out": true})
	}
}
