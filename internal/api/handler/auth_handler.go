package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esop/dhcp-console/internal/api/middleware"
	"github.com/esop/dhcp-console/internal/api/view"
	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/service"
)

const loginFailed = "Login failed"

// AuthHandler serves the login form and the logout action.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type loginForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// LoginForm renders GET /login. A logged-in operator goes straight to site
// selection.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	if sessionState(c).User != nil {
		return c.Redirect(http.StatusSeeOther, string(service.NavigateSelectSite))
	}
	return h.renderLogin(c, http.StatusOK, "", "")
}

// Login handles POST /login.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.renderLogin(c, http.StatusBadRequest, "", loginFailed)
	}
	if err := c.Validate(&form); err != nil {
		return h.renderLogin(c, http.StatusBadRequest, form.Username, err.Error())
	}

	nav, err := middleware.Login(c, form.Username, form.Password)
	if err != nil {
		return h.renderLogin(c, loginStatus(err), form.Username, domain.DisplayMessage(err, loginFailed))
	}
	return c.Redirect(http.StatusSeeOther, string(nav))
}

// Logout handles POST /logout. It always lands on the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	nav := service.NavigateLogin
	if sess := middleware.SessionFrom(c); sess != nil {
		nav = sess.Logout(c.Request().Context())
	}
	return c.Redirect(http.StatusSeeOther, string(nav))
}

func (h *AuthHandler) renderLogin(c echo.Context, status int, username, msg string) error {
	return c.Render(status, view.PageLogin, view.LoginPage{
		Layout:   view.NewLayout("Login", view.PageLogin, nil),
		Username: username,
		Error:    msg,
	})
}

func loginStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrServer):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrSuperseded):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
