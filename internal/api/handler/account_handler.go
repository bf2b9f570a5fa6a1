package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esop/dhcp-console/internal/api/view"
	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
)

// AccountHandler lets an operator change their own password.
type AccountHandler struct {
	users ports.UserService
}

func NewAccountHandler(users ports.UserService) *AccountHandler {
	return &AccountHandler{users: users}
}

type changePasswordForm struct {
	CurrentPassword string `form:"current_password" validate:"required"`
	NewPassword     string `form:"new_password" validate:"required"`
}

func (h *AccountHandler) ResetPasswordForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "", "")
}

// ResetPassword handles POST /reset-password.
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	var form changePasswordForm
	if err := c.Bind(&form); err != nil {
		return h.render(c, http.StatusBadRequest, "", "Failed to reset password")
	}
	if err := c.Validate(&form); err != nil {
		return h.render(c, http.StatusBadRequest, "", err.Error())
	}

	if err := h.users.ChangeOwnPassword(c.Request().Context(), actorOf(c), form.CurrentPassword, form.NewPassword); err != nil {
		if sessionExpired(err) {
			return err
		}
		return h.render(c, http.StatusOK, "", domain.DisplayMessage(err, "Failed to reset password"))
	}
	return h.render(c, http.StatusOK, "Password updated successfully", "")
}

func (h *AccountHandler) render(c echo.Context, status int, notice, errMsg string) error {
	return c.Render(status, view.PageResetPassword, view.ResetPasswordPage{
		Layout: layoutFor(c, "Change password", view.PageResetPassword),
		Notice: notice,
		Error:  errMsg,
	})
}
