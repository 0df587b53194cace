// Package middleware contains reusable HTTP middleware. The session guard
// resolves the signed session cookie to identity claims and stores them in
// the request context; handlers read them via CurrentUser(c).
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mouradf/it-asset-tracker/internal/session"
	"github.com/mouradf/it-asset-tracker/internal/utils"
)

// CookieName is the session cookie. It holds only the signed opaque token,
// never identity data.
const CookieName = "asset_session"

// identityKey is the context key the resolved claims live under.
const identityKey = "identity"

// CurrentUser returns the identity claims the session guard stored for this
// request. The bool is false on anonymous requests.
func CurrentUser(c echo.Context) (session.Identity, bool) {
	id, ok := c.Get(identityKey).(session.Identity)
	return id, ok
}

// Resolve reads the session cookie, verifies its signature and loads the
// session. A missing, tampered or expired session simply leaves the request
// anonymous; rejection is the job of RequireSession / RequirePage so that
// endpoints like /auth/session can answer for anonymous callers too.
func Resolve(store session.Store, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			token, ok := utils.VerifySignedToken(secret, cookie.Value)
			if !ok {
				return next(c)
			}
			id, ok, err := store.Get(c.Request().Context(), token)
			if err != nil || !ok {
				return next(c)
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// RequireSession rejects anonymous API requests with a structured 401. It
// assumes Resolve already ran.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			return next(c)
		}
	}
}

// RequirePage redirects anonymous page requests to the login page instead
// of erroring; authenticated requests fall through to the static handler.
func RequirePage(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}
