package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
)

// UserService implements the admin user-management actions and the
// operator's own password change. Every successful mutation is audited.
type UserService struct {
	gateway ports.Gateway
	audit   ports.AuditRecorder
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(gateway ports.Gateway, audit ports.AuditRecorder) *UserService {
	return &UserService{gateway: gateway, audit: audit}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.gateway.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Create(ctx context.Context, actor ports.Actor, in ports.RegisterUserInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if !in.Role.Valid() {
		return nil, rejected(fmt.Sprintf("unknown role %q", in.Role))
	}
	user, err := s.gateway.RegisterUser(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	s.record(actor, domain.ActionUserCreated, fmt.Sprintf("created %s (%s)", user.Username, user.Role))
	return user, nil
}

func (s *UserService) ResetPassword(ctx context.Context, actor ports.Actor, id int64, newPassword string) error {
	if err := s.gateway.ResetPassword(ctx, id, newPassword); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.record(actor, domain.ActionPasswordReset, fmt.Sprintf("user %d", id))
	return nil
}

// SetActive enables or disables a user account.
func (s *UserService) SetActive(ctx context.Context, actor ports.Actor, id int64, active bool) (*domain.User, error) {
	if actor.User != nil && actor.User.ID == id && !active {
		return nil, rejected("Cannot deactivate your own account")
	}
	user, err := s.gateway.UpdateUser(ctx, id, ports.UpdateUserInput{IsActive: &active})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.record(actor, domain.ActionUserUpdated, fmt.Sprintf("user %d active=%t", id, active))
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor ports.Actor, id int64) error {
	if actor.User != nil && actor.User.ID == id {
		return rejected("Cannot delete your own account")
	}
	if err := s.gateway.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.record(actor, domain.ActionUserDeleted, fmt.Sprintf("user %d", id))
	return nil
}

// ChangeOwnPassword changes the password of the logged-in operator.
func (s *UserService) ChangeOwnPassword(ctx context.Context, actor ports.Actor, currentPassword, newPassword string) error {
	if err := s.gateway.ResetOwnPassword(ctx, currentPassword, newPassword); err != nil {
		return fmt.Errorf("reset own password: %w", err)
	}
	s.record(actor, domain.ActionPasswordReset, "own password")
	return nil
}

func (s *UserService) record(actor ports.Actor, action domain.AuditAction, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		SessionID: actor.SessionID,
		Username:  usernameOf(actor.User),
		Action:    action,
		Detail:    detail,
	})
}

func rejected(detail string) error {
	return &domain.APIError{Kind: domain.ErrValidation, Status: http.StatusBadRequest, Detail: detail}
}
