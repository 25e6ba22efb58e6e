package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/church-member-library/admin-gateway/internal/api/guard"
)

// PageHandler resolves page navigations through the route guard. The actual
// views are the front-end's concern; allowed navigations answer with a
// minimal shell and denied ones with a redirect.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

const loadingShell = `<!doctype html><html><body><p>Checking session...</p></body></html>`

// Resolve applies the guard decision table to the requested path.
func (h *PageHandler) Resolve(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	decision := guard.Resolve(sess.State(), sess.Member(), c.Request().URL.Path)
	switch {
	case decision.Loading:
		return c.HTML(http.StatusOK, loadingShell)
	case decision.Redirect != "":
		return c.Redirect(http.StatusFound, decision.Redirect)
	default:
		return c.HTML(http.StatusOK, viewShell(c.Request().URL.Path))
	}
}

func viewShell(path string) string {
	return `<!doctype html><html><body><div id="app" data-view="` + path + `"></div></body></html>`
}
