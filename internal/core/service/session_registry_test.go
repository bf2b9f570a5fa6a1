package service

import (
	"context"
	"testing"
	"time"

	"github.com/esop/dhcp-console/internal/core/domain"
)

func TestSessionRegistry_AcquireInitializesOnce(t *testing.T) {
	store := newStubTokenStore()
	store.tokens["sid-a"] = "tok-1"
	g := &stubGateway{profileFn: profileFor(map[string]*domain.User{"tok-1": alice})}
	r := NewSessionRegistry(context.Background(), testDeps(g, store, &stubRecorder{}), time.Minute)

	s1 := r.Acquire("sid-a")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if !s1.WaitResolved(ctx) {
		t.Fatal("session did not resolve")
	}
	s2 := r.Acquire("sid-a")

	if s1 != s2 {
		t.Fatal("expected the same session for the same id")
	}
	if g.ProfileCalls() != 1 {
		t.Fatalf("expected one initialization, got %d profile calls", g.ProfileCalls())
	}
	if s1.Snapshot().User == nil {
		t.Fatal("expected the persisted token to be restored")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", r.Len())
	}
}

func TestSessionRegistry_EvictIdle(t *testing.T) {
	now := time.Unix(10_000, 0)
	r := NewSessionRegistry(context.Background(), testDeps(&stubGateway{}, newStubTokenStore(), &stubRecorder{}), time.Minute)
	r.now = func() time.Time { return now }

	old := r.Acquire("old")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	old.WaitResolved(ctx)

	now = now.Add(2 * time.Minute)
	fresh := r.Acquire("fresh")
	fresh.WaitResolved(ctx)

	if n := r.evictIdle(); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if r.Len() != 1 {
		t.Fatalf("expected the fresh session to remain, got %d", r.Len())
	}
	if r.Acquire("old") == old {
		t.Fatal("an evicted session must be rebuilt on next use")
	}
}

func TestSessionRegistry_SlowTokenStoreDoesNotBlockOtherSessions(t *testing.T) {
	now := time.Unix(10_000, 0)
	store := newStubTokenStore()
	store.loadGate = make(chan struct{})
	defer close(store.loadGate)
	r := NewSessionRegistry(context.Background(), testDeps(&stubGateway{}, store, &stubRecorder{}), time.Minute)
	r.now = func() time.Time { return now }

	stuck := r.Acquire("stuck")
	now = now.Add(2 * time.Minute)

	done := make(chan int, 1)
	go func() {
		evicted := r.evictIdle()
		r.Acquire("other")
		done <- evicted
	}()
	select {
	case n := <-done:
		if n != 0 {
			t.Fatalf("a session still loading must not be evicted, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("registry blocked behind a pending token load")
	}
	if stuck.Phase() != PhaseUnresolved {
		t.Fatalf("expected the stuck session to be unresolved, got %s", stuck.Phase())
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Len())
	}
}

func TestSessionRegistry_PromoteRetiresPreviousID(t *testing.T) {
	store := newStubTokenStore()
	store.tokens["before"] = "tok-0"
	g := &stubGateway{
		issueTokenFn: func(ctx context.Context, u, p string) (string, error) { return "tok-1", nil },
		profileFn:    profileFor(map[string]*domain.User{"tok-0": alice, "tok-1": alice}),
	}
	r := NewSessionRegistry(context.Background(), testDeps(g, store, &stubRecorder{}), time.Minute)

	old := r.Acquire("before")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	old.WaitResolved(ctx)

	fresh := r.Begin()
	if fresh.ID() == "before" || fresh.Phase() != PhaseUnauthenticated {
		t.Fatalf("expected a new logged-out session, got %s in %s", fresh.ID(), fresh.Phase())
	}
	if r.Len() != 1 {
		t.Fatal("a begun session must not be tracked before promotion")
	}
	if _, err := fresh.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	r.Promote(context.Background(), fresh, "before")

	if r.Acquire(fresh.ID()) != fresh {
		t.Fatal("the promoted session must be tracked under its id")
	}
	if old.Snapshot().User != nil {
		t.Fatal("the retired session must be logged out")
	}
	if store.get("before") != "" {
		t.Fatal("the retired id must lose its persisted token")
	}
	if store.get(fresh.ID()) != "tok-1" {
		t.Fatal("the promoted session must keep its token")
	}
}

func TestSessionRegistry_PromoteUntrackedPreviousID(t *testing.T) {
	store := newStubTokenStore()
	store.tokens["evicted"] = "tok-0"
	r := NewSessionRegistry(context.Background(), testDeps(&stubGateway{}, store, &stubRecorder{}), time.Minute)

	r.Promote(context.Background(), r.Begin(), "evicted")

	if store.get("evicted") != "" {
		t.Fatal("a persisted token under the retired id must be deleted")
	}
	if r.Len() != 1 {
		t.Fatalf("expected only the promoted session, got %d", r.Len())
	}
}
