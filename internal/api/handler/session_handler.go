package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esop/dhcp-console/internal/api/middleware"
	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/service"
)

// SessionHandler is the JSON face of the session for scripted clients.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

type sessionResponse struct {
	Loading       bool         `json:"loading"`
	Authenticated bool         `json:"authenticated"`
	IsAdmin       bool         `json:"is_admin"`
	User          *domain.User `json:"user,omitempty"`
}

type navigationResponse struct {
	Redirect string       `json:"redirect"`
	User     *domain.User `json:"user,omitempty"`
}

// Get returns the current session state.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	st := sessionState(c)
	return c.JSON(http.StatusOK, sessionResponse{
		Loading:       st.Loading,
		Authenticated: st.User != nil,
		IsAdmin:       st.IsAdmin(),
		User:          st.User,
	})
}

// Create logs in with a username and password.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginForm  true  "Credentials"
// @Success      200   {object}  navigationResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/session [post]
func (h *SessionHandler) Create(c echo.Context) error {
	var req loginForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	nav, err := middleware.Login(c, req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, navigationResponse{Redirect: string(nav), User: sessionState(c).User})
}

// Delete logs out. Logging out twice is not an error.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  navigationResponse
// @Router       /api/session [delete]
func (h *SessionHandler) Delete(c echo.Context) error {
	nav := service.NavigateLogin
	if sess := middleware.SessionFrom(c); sess != nil {
		nav = sess.Logout(c.Request().Context())
	}
	return c.JSON(http.StatusOK, navigationResponse{Redirect: string(nav)})
}
