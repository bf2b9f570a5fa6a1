package ports

import (
	"context"

	"github.com/esop/dhcp-console/internal/core/domain"
)

// Actor identifies who performs an action, for the audit trail.
type Actor struct {
	SessionID string
	User      *domain.User
}

// SiteService lists the appliances an operator can pick a site from.
type SiteService interface {
	Search(ctx context.Context, query string) ([]domain.Appliance, error)
}

// LeaseService reads the DHCP lease table of a site.
type LeaseService interface {
	ListBySite(ctx context.Context, nePk string) ([]domain.Lease, error)
}

// UserService covers the admin user management and the own password change.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, actor Actor, in RegisterUserInput) (*domain.User, error)
	ResetPassword(ctx context.Context, actor Actor, id int64, newPassword string) error
	SetActive(ctx context.Context, actor Actor, id int64, active bool) (*domain.User, error)
	Delete(ctx context.Context, actor Actor, id int64) error
	ChangeOwnPassword(ctx context.Context, actor Actor, currentPassword, newPassword string) error
}
