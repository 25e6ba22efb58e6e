package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/church-member-library/admin-gateway/internal/api/middleware"
	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/service"
)

// ctxSession extracts the session injected by the SessionLoader middleware.
// Its absence means the middleware did not run on this route, which is a
// wiring bug surfaced as 401 rather than a panic.
func ctxSession(c echo.Context) (*service.Session, error) {
	sess, ok := c.Get(middleware.SessionContextKey).(*service.Session)
	if !ok || sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}

// ctxActor returns the authenticated identity for audit stamping.
func ctxActor(c echo.Context) *domain.Member {
	sess, err := ctxSession(c)
	if err != nil {
		return nil
	}
	return sess.Member()
}
