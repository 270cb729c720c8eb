package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/ayurcart-backend/api/responses"
	pkgAuth "github.com/angelmondragon/ayurcart-backend/pkg/auth"
	"github.com/angelmondragon/ayurcart-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
)

// Cookie names shared between the login controller and the route guards.
const (
	CookieUserRole  = "user_role"
	CookieUserEmail = "user_email"
	CookieAdminRole = "admin_role"
)

// Auth validates a bearer token and seeds the request context with the claims.
// Browsers without the header may present the admin_role cookie, which carries
// the same signed token.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithIdentity(r.Context(), claims.UserID, claims.Email, string(claims.Role))
			if logg != nil {
				ctx = logg.WithField(ctx, "user_id", strconv.FormatInt(claims.UserID, 10))
				ctx = logg.WithUserEmail(ctx, claims.Email)
				ctx = logg.WithActorRole(ctx, string(claims.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw != "" {
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			raw = strings.TrimSpace(raw[7:])
		}
		return raw
	}
	if cookie, err := r.Cookie(CookieAdminRole); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
