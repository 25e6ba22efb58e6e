package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/church-member-library/admin-gateway/internal/core/service"
)

// AuthHandler serves the session lifecycle endpoints the browser uses.
type AuthHandler struct {
	sessions *service.SessionRegistry
}

func NewAuthHandler(sessions *service.SessionRegistry) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login authenticates the browser's session against the registry.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	// Upstream failures (bad credentials, network) surface verbatim through
	// the error handler; session state stays untouched on failure.
	if err := sess.Login(c.Request().Context(), req.Identifier, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Member: sess.Member()})
}

// Logout revokes the upstream session best-effort and destroys the local one.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	sess.Logout(c.Request().Context())
	h.sessions.Destroy(sess.ID())
	c.SetCookie(h.sessions.ExpiredCookie())

	return c.NoContent(http.StatusNoContent)
}

// Session reports the current session snapshot for the front-end.
//
// @Summary      Current session state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  service.Snapshot
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// ForgotPassword relays a reset-code request to the registry.
//
// @Summary      Request a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	msg, err := sess.Client().ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "reset code sent"
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// ResetPassword redeems a reset code against the registry.
//
// @Summary      Reset password with a code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset code and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	msg, err := sess.Client().ResetPassword(c.Request().Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "password updated"
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}
