package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/esop/dhcp-console/internal/api/view"
	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
)

// adminNotices are the confirmations a redirect back to /admin can ask for.
var adminNotices = map[string]string{
	"created":     "User created",
	"reset":       "Password reset",
	"activated":   "User activated",
	"deactivated": "User deactivated",
	"deleted":     "User deleted",
}

var adminRoles = []domain.Role{domain.RoleUser, domain.RoleAdmin}

// AdminHandler serves the user administration page. Every successful action
// redirects back to the page; failures render it in place with the reason.
type AdminHandler struct {
	users ports.UserService
}

func NewAdminHandler(users ports.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

type newUserForm struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"role"`
}

type resetPasswordForm struct {
	NewPassword string `form:"new_password" validate:"required"`
}

type activeForm struct {
	Active bool `form:"active"`
}

// Page renders GET /admin.
func (h *AdminHandler) Page(c echo.Context) error {
	return h.render(c, http.StatusOK, view.NewUserForm{}, adminNotices[c.QueryParam("notice")], "")
}

// Create handles POST /admin/users.
func (h *AdminHandler) Create(c echo.Context) error {
	var form newUserForm
	if err := c.Bind(&form); err != nil {
		return h.render(c, http.StatusBadRequest, view.NewUserForm{}, "", "Failed to add user")
	}
	retry := view.NewUserForm{Username: form.Username, Email: form.Email, Role: domain.Role(form.Role)}
	if err := c.Validate(&form); err != nil {
		return h.render(c, http.StatusBadRequest, retry, "", err.Error())
	}

	_, err := h.users.Create(c.Request().Context(), actorOf(c), ports.RegisterUserInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Role:     domain.Role(form.Role),
	})
	if err != nil {
		return h.fail(c, err, retry, "Failed to add user")
	}
	return h.done(c, "created")
}

// ResetPassword handles POST /admin/users/:id/reset-password.
func (h *AdminHandler) ResetPassword(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return h.render(c, http.StatusBadRequest, view.NewUserForm{}, "", "Failed to reset password")
	}
	var form resetPasswordForm
	if err := c.Bind(&form); err != nil {
		return h.render(c, http.StatusBadRequest, view.NewUserForm{}, "", "Failed to reset password")
	}
	if err := c.Validate(&form); err != nil {
		return h.render(c, http.StatusBadRequest, view.NewUserForm{}, "", err.Error())
	}

	if err := h.users.ResetPassword(c.Request().Context(), actorOf(c), id, form.NewPassword); err != nil {
		return h.fail(c, err, view.NewUserForm{}, "Failed to reset password")
	}
	return h.done(c, "reset")
}

// SetActive handles POST /admin/users/:id/active.
func (h *AdminHandler) SetActive(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return h.render(c, http.StatusBadRequest, view.NewUserForm{}, "", "Failed to update user")
	}
	var form activeForm
	if err := c.Bind(&form); err != nil {
		return h.render(c, http.StatusBadRequest, view.NewUserForm{}, "", "Failed to update user")
	}

	if _, err := h.users.SetActive(c.Request().Context(), actorOf(c), id, form.Active); err != nil {
		return h.fail(c, err, view.NewUserForm{}, "Failed to update user")
	}
	if form.Active {
		return h.done(c, "activated")
	}
	return h.done(c, "deactivated")
}

// Delete handles POST /admin/users/:id/delete.
func (h *AdminHandler) Delete(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return h.render(c, http.StatusBadRequest, view.NewUserForm{}, "", "Failed to delete user")
	}
	if err := h.users.Delete(c.Request().Context(), actorOf(c), id); err != nil {
		return h.fail(c, err, view.NewUserForm{}, "Failed to delete user")
	}
	return h.done(c, "deleted")
}

func (h *AdminHandler) done(c echo.Context, notice string) error {
	return c.Redirect(http.StatusSeeOther, "/admin?"+url.Values{"notice": {notice}}.Encode())
}

func (h *AdminHandler) fail(c echo.Context, err error, form view.NewUserForm, fallback string) error {
	if sessionExpired(err) {
		return err
	}
	return h.render(c, http.StatusOK, form, "", domain.DisplayMessage(err, fallback))
}

// render reloads the user list. A list failure is reported only when no
// other error is already on the page.
func (h *AdminHandler) render(c echo.Context, status int, form view.NewUserForm, notice, errMsg string) error {
	page := view.AdminPage{
		Layout: layoutFor(c, "Admin", view.PageAdmin),
		Form:   form,
		Roles:  adminRoles,
		Notice: notice,
		Error:  errMsg,
	}

	users, err := h.users.List(c.Request().Context())
	if err != nil {
		if sessionExpired(err) {
			return err
		}
		if page.Error == "" {
			page.Error = domain.DisplayMessage(err, "Failed to load users")
		}
	}
	page.Users = view.UserRows(users, page.User)
	return c.Render(status, view.PageAdmin, page)
}

func userID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
