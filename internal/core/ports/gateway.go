package ports

import (
	"context"

	"github.com/esop/dhcp-console/internal/core/domain"
)

// RegisterUserInput is the body of POST /auth/register.
type RegisterUserInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput carries the optional fields of PATCH /users/{id}.
// Nil fields are left unchanged upstream.
type UpdateUserInput struct {
	Email    *string
	Role     *domain.Role
	IsActive *bool
}

// Gateway is the only way the console talks to the remote API.
// Authenticated calls take their bearer credential from the context
// (see WithCredentials).
type Gateway interface {
	IssueToken(ctx context.Context, username, password string) (string, error)
	Profile(ctx context.Context) (*domain.User, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	RegisterUser(ctx context.Context, in RegisterUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error)
	ResetPassword(ctx context.Context, id int64, newPassword string) error
	ResetOwnPassword(ctx context.Context, currentPassword, newPassword string) error
	DeleteUser(ctx context.Context, id int64) error

	ListAppliances(ctx context.Context) ([]domain.Appliance, error)
	// ListClients returns the lease table of one appliance, or of all
	// appliances when nePk is empty.
	ListClients(ctx context.Context, nePk string) ([]domain.Lease, error)
}
