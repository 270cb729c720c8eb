package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/angelmondragon/ayurcart-backend/api/validators"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
)

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login"

// RequireSessionCookies redirects to the login page unless both the user_email and
// user_role cookies are present. The original path is preserved in ?next=.
func RequireSessionCookies(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := cookieValue(r, CookieUserEmail)
			role := cookieValue(r, CookieUserRole)
			if email == "" || role == "" {
				target := LoginPath + "?next=" + url.QueryEscape(validators.SafeRedirectPath(r.URL.RequestURI()))
				if logg != nil {
					logg.Info(logg.WithField(r.Context(), "redirect", target), "session.redirect_login")
				}
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithUserEmail(ctx, email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}
