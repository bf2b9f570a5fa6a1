package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
)

// stubGateway answers only what a test wires; anything else panics.
type stubGateway struct {
	issueTokenFn       func(ctx context.Context, username, password string) (string, error)
	profileFn          func(ctx context.Context) (*domain.User, error)
	listUsersFn        func(ctx context.Context) ([]domain.User, error)
	registerUserFn     func(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error)
	updateUserFn       func(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error)
	resetPasswordFn    func(ctx context.Context, id int64, newPassword string) error
	resetOwnPasswordFn func(ctx context.Context, current, newPassword string) error
	deleteUserFn       func(ctx context.Context, id int64) error
	listAppliancesFn   func(ctx context.Context) ([]domain.Appliance, error)
	listClientsFn      func(ctx context.Context, nePk string) ([]domain.Lease, error)

	mu           sync.Mutex
	profileCalls int
}

func (g *stubGateway) IssueToken(ctx context.Context, username, password string) (string, error) {
	return g.issueTokenFn(ctx, username, password)
}

func (g *stubGateway) Profile(ctx context.Context) (*domain.User, error) {
	g.mu.Lock()
	g.profileCalls++
	g.mu.Unlock()
	return g.profileFn(ctx)
}

func (g *stubGateway) ProfileCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profileCalls
}

func (g *stubGateway) ListUsers(ctx context.Context) ([]domain.User, error) {
	return g.listUsersFn(ctx)
}

func (g *stubGateway) RegisterUser(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	return g.registerUserFn(ctx, in)
}

func (g *stubGateway) UpdateUser(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	return g.updateUserFn(ctx, id, in)
}

func (g *stubGateway) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	return g.resetPasswordFn(ctx, id, newPassword)
}

func (g *stubGateway) ResetOwnPassword(ctx context.Context, current, newPassword string) error {
	return g.resetOwnPasswordFn(ctx, current, newPassword)
}

func (g *stubGateway) DeleteUser(ctx context.Context, id int64) error {
	return g.deleteUserFn(ctx, id)
}

func (g *stubGateway) ListAppliances(ctx context.Context) ([]domain.Appliance, error) {
	return g.listAppliancesFn(ctx)
}

func (g *stubGateway) ListClients(ctx context.Context, nePk string) ([]domain.Lease, error) {
	return g.listClientsFn(ctx, nePk)
}

type stubTokenStore struct {
	mu      sync.Mutex
	tokens  map[string]string
	ttls    map[string]time.Duration
	saveErr error

	// loadGate, when set, holds every Load until it is closed.
	loadGate chan struct{}
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{tokens: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *stubTokenStore) Load(_ context.Context, sid string) (string, error) {
	if s.loadGate != nil {
		<-s.loadGate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[sid], nil
}

func (s *stubTokenStore) Save(_ context.Context, sid, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.tokens[sid] = token
	s.ttls[sid] = ttl
	return nil
}

func (s *stubTokenStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sid)
	return nil
}

func (s *stubTokenStore) get(sid string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[sid]
}

type stubRecorder struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *stubRecorder) Record(e domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *stubRecorder) count(action domain.AuditAction) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Action == action {
			n++
		}
	}
	return n
}

func testDeps(g *stubGateway, store *stubTokenStore, rec *stubRecorder) SessionDeps {
	return SessionDeps{
		Gateway:  g,
		Tokens:   store,
		Audit:    rec,
		TokenTTL: time.Hour,
		Log:      zerolog.Nop(),
	}
}
