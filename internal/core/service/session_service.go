package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/esop/dhcp-console/internal/api/metrics"
	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
)

// Phase is the position of a session in its three-state lifecycle.
//
//	Unresolved ──init──▶ Authenticated ──logout / 401──▶ Unauthenticated
//	     └──────init────────────────────────────────────────▲
//
// Nothing moves a session back to Unresolved.
type Phase int

const (
	PhaseUnresolved Phase = iota
	PhaseAuthenticated
	PhaseUnauthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseUnauthenticated:
		return "unauthenticated"
	default:
		return "unresolved"
	}
}

// Navigation is where the browser has to go after a session operation.
type Navigation string

const (
	NavigateLogin      Navigation = "/login"
	NavigateSelectSite Navigation = "/select-site"
)

// SessionState is the read-only view of a session handed to views and guards.
type SessionState struct {
	Loading bool
	User    *domain.User
}

// IsAdmin is false, not an error, when nobody is logged in.
func (s SessionState) IsAdmin() bool {
	return s.User.IsAdmin()
}

// SessionDeps are the collaborators shared by every session of a registry.
type SessionDeps struct {
	Gateway  ports.Gateway
	Tokens   ports.TokenStore
	Audit    ports.AuditRecorder
	TokenTTL time.Duration
	Log      zerolog.Logger
}

// Session owns the bearer token and the resolved identity of one browser.
// It is the only writer of the (token, user) pair, and writes both under mu.
//
// Every token change bumps gen. Work that started under an older generation
// (a profile fetch, a 401 revocation) is dropped when it completes.
type Session struct {
	id   string
	deps SessionDeps
	log  zerolog.Logger

	mu    sync.RWMutex
	phase Phase
	token string
	user  *domain.User
	gen   uint64

	// persist orders token store I/O. It is never held together with mu
	// while a store call is in flight.
	persist sync.Mutex

	resolved     chan struct{}
	resolvedOnce sync.Once
}

// NewSession returns an Unresolved session. Call Initialize to resolve it.
func NewSession(id string, deps SessionDeps) *Session {
	if deps.TokenTTL <= 0 {
		deps.TokenTTL = 24 * time.Hour
	}
	return &Session{
		id:       id,
		deps:     deps,
		log:      deps.Log.With().Str("session", shortID(id)).Logger(),
		resolved: make(chan struct{}),
	}
}

// ID returns the browser session id the session is keyed by.
func (s *Session) ID() string { return s.id }

// Initialize resolves the persisted token, if any, into a user identity.
// Without a persisted token the session becomes Unauthenticated without any
// network call. Any failure to resolve clears the persisted token.
func (s *Session) Initialize(ctx context.Context) {
	s.mu.RLock()
	gen, phase := s.gen, s.phase
	s.mu.RUnlock()
	if phase != PhaseUnresolved {
		return
	}

	s.persist.Lock()
	token, err := s.deps.Tokens.Load(ctx, s.id)
	if err != nil {
		s.log.Warn().Err(err).Msg("persisted token unreadable, discarding")
		if s.generation() == gen {
			if delErr := s.deps.Tokens.Delete(ctx, s.id); delErr != nil {
				s.log.Warn().Err(delErr).Msg("failed to discard persisted token")
			}
		}
		token = ""
	}
	s.persist.Unlock()

	if token == "" {
		s.mu.Lock()
		if s.gen == gen && s.phase == PhaseUnresolved {
			s.phase = PhaseUnauthenticated
		}
		s.mu.Unlock()
		s.markResolved(PhaseUnauthenticated)
		return
	}

	user, err := s.deps.Gateway.Profile(ports.WithCredentials(ctx, s.credentials(gen, token)))
	if err != nil {
		s.log.Info().Err(err).Msg("persisted token did not resolve")
		s.teardown(ctx, gen, domain.ActionRevoked, err.Error())
		return
	}
	if !s.commit(gen, token, user) {
		s.log.Debug().Msg("profile resolution superseded")
		return
	}
	s.log.Info().Str("username", user.Username).Msg("session restored")
}

// Login exchanges credentials for a token, persists it, resolves the
// profile, and only then exposes the new (token, user) pair.
//
// A rejected token request or a token that cannot be persisted leaves the
// session untouched. A profile failure after the token was persisted tears
// the session down.
func (s *Session) Login(ctx context.Context, username, password string) (Navigation, error) {
	token, err := s.deps.Gateway.IssueToken(ctx, username, password)
	if err != nil {
		s.record(domain.ActionLoginFailed, username, domain.DisplayMessage(err, err.Error()))
		return "", err
	}

	s.persist.Lock()
	if err := s.deps.Tokens.Save(ctx, s.id, token, tokenLifetime(token, s.deps.TokenTTL, time.Now())); err != nil {
		s.persist.Unlock()
		s.log.Warn().Err(err).Msg("failed to persist token")
		s.record(domain.ActionLoginFailed, username, "token could not be persisted")
		return "", err
	}
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	s.persist.Unlock()

	user, err := s.deps.Gateway.Profile(ports.WithCredentials(ctx, s.credentials(gen, token)))
	if err != nil {
		s.teardown(ctx, gen, domain.ActionLoginFailed, err.Error())
		return "", err
	}
	if !s.commit(gen, token, user) {
		return "", domain.ErrSuperseded
	}

	s.log.Info().Str("username", user.Username).Msg("logged in")
	s.record(domain.ActionLogin, user.Username, "")
	return NavigateSelectSite, nil
}

// Logout clears the session and the persisted token. Calling it on a
// session that is already logged out only returns the navigation.
func (s *Session) Logout(ctx context.Context) Navigation {
	s.mu.Lock()
	username := usernameOf(s.user)
	wasSet := s.token != "" || s.user != nil
	gen := s.clearLocked()
	s.mu.Unlock()
	s.markResolved(PhaseUnauthenticated)
	s.deleteToken(ctx, gen)

	if wasSet {
		s.log.Info().Str("username", username).Msg("logged out")
		metrics.SessionTransitionsTotal.WithLabelValues(PhaseUnauthenticated.String()).Inc()
		s.record(domain.ActionLogout, username, "")
	}
	return NavigateLogin
}

// IsAdmin reports whether the resolved identity carries the admin role.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

// Snapshot returns the current state for rendering decisions.
func (s *Session) Snapshot() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := SessionState{Loading: s.phase == PhaseUnresolved}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// Phase returns the lifecycle position of the session.
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Credentials captures the current token for the duration of one request.
// A 401 on any call made with it tears the session down, unless the
// session has already moved on to another token.
func (s *Session) Credentials() ports.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credentials(s.gen, s.token)
}

// WaitResolved blocks until the session has left Unresolved or ctx is done.
func (s *Session) WaitResolved(ctx context.Context) bool {
	select {
	case <-s.resolved:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Session) credentials(gen uint64, token string) ports.Credentials {
	return &sessionCredentials{session: s, gen: gen, token: token}
}

// commit publishes token and user together if gen is still current.
func (s *Session) commit(gen uint64, token string, user *domain.User) bool {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return false
	}
	s.token = token
	s.user = user
	s.phase = PhaseAuthenticated
	s.mu.Unlock()

	s.markResolved(PhaseAuthenticated)
	metrics.SessionTransitionsTotal.WithLabelValues(PhaseAuthenticated.String()).Inc()
	return true
}

// teardown clears the session if gen is still current.
func (s *Session) teardown(ctx context.Context, gen uint64, action domain.AuditAction, detail string) bool {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return false
	}
	username := usernameOf(s.user)
	cleared := s.clearLocked()
	s.mu.Unlock()

	s.markResolved(PhaseUnauthenticated)
	s.deleteToken(ctx, cleared)
	metrics.SessionTransitionsTotal.WithLabelValues(PhaseUnauthenticated.String()).Inc()
	s.record(action, username, detail)
	return true
}

// clearLocked must be called with mu held. It returns the generation the
// session moved to.
func (s *Session) clearLocked() uint64 {
	s.gen++
	s.token = ""
	s.user = nil
	s.phase = PhaseUnauthenticated
	return s.gen
}

// deleteToken removes the persisted token unless the session has moved past
// gen, in which case the stored token belongs to a newer login.
func (s *Session) deleteToken(ctx context.Context, gen uint64) {
	s.persist.Lock()
	defer s.persist.Unlock()
	if s.generation() != gen {
		return
	}
	if err := s.deps.Tokens.Delete(ctx, s.id); err != nil {
		s.log.Warn().Err(err).Msg("failed to delete persisted token")
	}
}

func (s *Session) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// resolveEmpty resolves a session that is known to have no persisted token.
func (s *Session) resolveEmpty() {
	s.mu.Lock()
	if s.phase == PhaseUnresolved {
		s.phase = PhaseUnauthenticated
	}
	s.mu.Unlock()
	s.markResolved(PhaseUnauthenticated)
}

func (s *Session) markResolved(p Phase) {
	s.resolvedOnce.Do(func() {
		s.log.Debug().Str("phase", p.String()).Msg("session resolved")
		close(s.resolved)
	})
}

func (s *Session) record(action domain.AuditAction, username, detail string) {
	if s.deps.Audit == nil {
		return
	}
	s.deps.Audit.Record(domain.AuditEvent{
		SessionID: s.id,
		Username:  username,
		Action:    action,
		Detail:    detail,
	})
}

type sessionCredentials struct {
	session *Session
	gen     uint64
	token   string
}

func (c *sessionCredentials) BearerToken() string { return c.token }

func (c *sessionCredentials) Revoke(ctx context.Context) {
	if c.session.teardown(context.WithoutCancel(ctx), c.gen, domain.ActionRevoked, "upstream rejected the bearer token") {
		c.session.log.Info().Msg("session revoked by upstream 401")
	}
}

func usernameOf(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
