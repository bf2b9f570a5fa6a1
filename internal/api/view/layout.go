// Package view renders the console's HTML pages.
package view

import (
	"github.com/esop/dhcp-console/internal/core/domain"
)

// Layout captures the chrome shared by every page: title, navigation state
// and who is logged in.
type Layout struct {
	Title           string
	CurrentPage     string
	IsAuthenticated bool
	IsAdmin         bool
	User            *domain.User
}

// NewLayout builds the chrome for user, which may be nil.
func NewLayout(title, page string, user *domain.User) Layout {
	return Layout{
		Title:           title,
		CurrentPage:     page,
		IsAuthenticated: user != nil,
		IsAdmin:         user.IsAdmin(),
		User:            user,
	}
}

type LoginPage struct {
	Layout
	Username string
	Error    string
}

type HomePage struct {
	Layout
}

type SitesPage struct {
	Layout
	Query string
	Sites []SiteRow
	Error string
}

type ClientsPage struct {
	Layout
	NePk     string
	Hostname string
	Site     string
	Rows     []LeaseRow
	Error    string
}

type AdminPage struct {
	Layout
	Users  []UserRow
	Form   NewUserForm
	Roles  []domain.Role
	Notice string
	Error  string
}

// NewUserForm is echoed back into the add-user form after a failed submit.
type NewUserForm struct {
	Username string
	Email    string
	Role     domain.Role
}

type ResetPasswordPage struct {
	Layout
	Notice string
	Error  string
}

// LoadingPage is shown while a session is still resolving its token.
type LoadingPage struct {
	Layout
	RefreshSeconds int
}

type DeniedPage struct {
	Layout
}

type ErrorPage struct {
	Layout
	Status  int
	Message string
}
