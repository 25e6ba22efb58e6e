package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/church-member-library/admin-gateway/internal/core/service"
)

// Context keys set by SessionLoader for downstream middleware and handlers.
const (
	SessionContextKey = "session"
	RoleContextKey    = "role"
)

// SessionStore is the slice of the session registry the loader needs.
type SessionStore interface {
	CookieName() string
	ParseCookie(value string) (string, error)
	Lookup(sid string) (*service.Session, error)
	Create() *service.Session
	IssueCookie(sid string) (*http.Cookie, error)
}

// SessionLoader attaches a session to every request. A valid cookie maps to
// its live session; anything else (no cookie, tampered cookie, expired or
// unknown sid) gets a fresh session and a new cookie. The session's one-shot
// silent refresh resolves here, before any route or guard decision runs.
func SessionLoader(store SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sess *service.Session

			if cookie, err := c.Cookie(store.CookieName()); err == nil && cookie.Value != "" {
				if sid, err := store.ParseCookie(cookie.Value); err == nil {
					sess, _ = store.Lookup(sid)
				}
			}

			if sess == nil {
				sess = store.Create()
				cookie, err := store.IssueCookie(sess.ID())
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "failed to establish session")
				}
				c.SetCookie(cookie)
			}

			sess.Resolve(c.Request().Context())

			c.Set(SessionContextKey, sess)
			c.Set(RoleContextKey, sess.Role())

			return next(c)
		}
	}
}
