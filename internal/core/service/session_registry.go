package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/esop/dhcp-console/internal/api/metrics"
)

const defaultIdleTTL = 30 * time.Minute

type registryEntry struct {
	session  *Session
	lastSeen time.Time
}

// SessionRegistry holds one Session per browser, keyed by the session id
// cookie. A session that is seen for the first time is initialized in the
// background from its persisted token.
//
// Evicting an idle session only drops the in-memory state; the persisted
// token survives and is resolved again on the next request.
type SessionRegistry struct {
	baseCtx context.Context
	deps    SessionDeps
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*registryEntry
}

// NewSessionRegistry returns a registry whose background initializations
// run under baseCtx.
func NewSessionRegistry(baseCtx context.Context, deps SessionDeps, idleTTL time.Duration) *SessionRegistry {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &SessionRegistry{
		baseCtx:  baseCtx,
		deps:     deps,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*registryEntry),
	}
}

// Acquire returns the session for id, creating it and starting its
// initialization when the id is new.
func (r *SessionRegistry) Acquire(id string) *Session {
	r.mu.Lock()
	entry, ok := r.sessions[id]
	if !ok {
		entry = &registryEntry{session: NewSession(id, r.deps)}
		r.sessions[id] = entry
		metrics.SessionsTracked.Set(float64(len(r.sessions)))
	}
	entry.lastSeen = r.now()
	r.mu.Unlock()

	if !ok {
		go entry.session.Initialize(r.baseCtx)
	}
	return entry.session
}

// Begin returns a logged-out session under a new id. The registry does not
// track it until Promote, so an abandoned login leaves nothing behind.
func (r *SessionRegistry) Begin() *Session {
	s := NewSession(uuid.NewString(), r.deps)
	s.resolveEmpty()
	return s
}

// Promote tracks s and retires the session under oldID. The retired session
// is logged out and its persisted token deleted, so an id the browser held
// before logging in never carries the identity established by s.
func (r *SessionRegistry) Promote(ctx context.Context, s *Session, oldID string) {
	r.mu.Lock()
	r.sessions[s.id] = &registryEntry{session: s, lastSeen: r.now()}
	old, ok := r.sessions[oldID]
	if oldID != s.id {
		delete(r.sessions, oldID)
	}
	metrics.SessionsTracked.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	switch {
	case oldID == "" || oldID == s.id:
	case ok:
		old.session.Logout(ctx)
	default:
		if err := r.deps.Tokens.Delete(ctx, oldID); err != nil {
			r.deps.Log.Warn().Err(err).Msg("failed to delete token of retired session")
		}
	}
}

// Len returns the number of sessions currently held.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run evicts idle sessions until ctx is cancelled.
func (r *SessionRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.idleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.evictIdle(); n > 0 {
				r.deps.Log.Debug().Int("evicted", n).Msg("idle sessions evicted")
			}
		}
	}
}

func (r *SessionRegistry) evictIdle() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	idle := make(map[string]*registryEntry)
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			idle[id] = entry
		}
	}
	r.mu.Unlock()

	// An unresolved session still has an initialization running.
	for id, entry := range idle {
		if entry.session.Phase() == PhaseUnresolved {
			delete(idle, id)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, entry := range idle {
		if cur, ok := r.sessions[id]; ok && cur == entry && entry.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	metrics.SessionsTracked.Set(float64(len(r.sessions)))
	return evicted
}
