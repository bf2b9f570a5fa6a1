package service

import (
	"context"
	"errors"
	"testing"

	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
)

var rootAdmin = &domain.User{ID: 9, Username: "root", Role: domain.RoleAdmin}

func TestUserService_CreateDefaultsRole(t *testing.T) {
	var got ports.RegisterUserInput
	g := &stubGateway{registerUserFn: func(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
		got = in
		return &domain.User{ID: 3, Username: in.Username, Role: in.Role}, nil
	}}
	rec := &stubRecorder{}
	svc := NewUserService(g, rec)

	u, err := svc.Create(context.Background(), ports.Actor{SessionID: "s", User: rootAdmin}, ports.RegisterUserInput{Username: "bob", Email: "bob@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Role != domain.RoleUser || u.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %q", got.Role)
	}
	if rec.count(domain.ActionUserCreated) != 1 {
		t.Fatal("expected an audit event")
	}
}

func TestUserService_CreateRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(&stubGateway{}, &stubRecorder{})
	_, err := svc.Create(context.Background(), ports.Actor{User: rootAdmin}, ports.RegisterUserInput{Username: "bob", Role: "superuser"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserService_DeleteSelfRefused(t *testing.T) {
	svc := NewUserService(&stubGateway{}, &stubRecorder{})

	err := svc.Delete(context.Background(), ports.Actor{User: rootAdmin}, rootAdmin.ID)

	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if domain.DisplayMessage(err, "") != "Cannot delete your own account" {
		t.Fatalf("unexpected message %q", domain.DisplayMessage(err, ""))
	}
}

func TestUserService_DeleteKeepsUpstreamDetail(t *testing.T) {
	g := &stubGateway{deleteUserFn: func(ctx context.Context, id int64) error {
		return &domain.APIError{Kind: domain.ErrValidation, Status: 404, Detail: "User not found"}
	}}
	rec := &stubRecorder{}
	err := NewUserService(g, rec).Delete(context.Background(), ports.Actor{User: rootAdmin}, 5)

	if domain.DisplayMessage(err, "Failed to delete user") != "User not found" {
		t.Fatalf("expected upstream detail, got %v", err)
	}
	if rec.count(domain.ActionUserDeleted) != 0 {
		t.Fatal("failed deletes must not be audited")
	}
}

func TestUserService_SetActive(t *testing.T) {
	var gotActive *bool
	g := &stubGateway{updateUserFn: func(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
		gotActive = in.IsActive
		return &domain.User{ID: id, IsActive: *in.IsActive}, nil
	}}
	svc := NewUserService(g, &stubRecorder{})

	if _, err := svc.SetActive(context.Background(), ports.Actor{User: rootAdmin}, rootAdmin.ID, false); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("deactivating yourself must be refused, got %v", err)
	}
	if gotActive != nil {
		t.Fatal("no upstream call expected for a refused change")
	}

	u, err := svc.SetActive(context.Background(), ports.Actor{User: rootAdmin}, 4, false)
	if err != nil || u.IsActive || gotActive == nil || *gotActive {
		t.Fatalf("unexpected result %+v, %v", u, err)
	}
}

func TestUserService_ChangeOwnPassword(t *testing.T) {
	var cur, next string
	g := &stubGateway{resetOwnPasswordFn: func(ctx context.Context, c, n string) error {
		cur, next = c, n
		return nil
	}}
	rec := &stubRecorder{}
	if err := NewUserService(g, rec).ChangeOwnPassword(context.Background(), ports.Actor{User: alice}, "old", "new"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cur != "old" || next != "new" || rec.count(domain.ActionPasswordReset) != 1 {
		t.Fatalf("unexpected call %q %q", cur, next)
	}
}
