package tokenstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMemory_Expiry(t *testing.T) {
	now := time.Unix(1000, 0)
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Save(ctx, "sid", "tok", time.Minute)
	if got, _ := m.Load(ctx, "sid"); got != "tok" {
		t.Fatalf("expected tok, got %q", got)
	}

	now = now.Add(time.Minute)
	if got, _ := m.Load(ctx, "sid"); got != "" {
		t.Fatalf("expected expired token to be gone, got %q", got)
	}
}

func TestMemory_NoTTLNeverExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Save(ctx, "sid", "tok", 0)
	now = now.Add(365 * 24 * time.Hour)
	if got, _ := m.Load(ctx, "sid"); got != "tok" {
		t.Fatalf("expected tok, got %q", got)
	}
}

func TestSealed_RoundTripAndCiphertextAtRest(t *testing.T) {
	inner := NewMemory()
	s, err := NewSealed(inner, "s3cret")
	if err != nil {
		t.Fatalf("NewSealed: %v", err)
	}
	ctx := context.Background()

	if err := s.Save(ctx, "sid", "eyJhbGciOi.bearer", time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, _ := inner.Load(ctx, "sid")
	if raw == "" || strings.Contains(raw, "bearer") {
		t.Fatalf("expected sealed value at rest, got %q", raw)
	}

	got, err := s.Load(ctx, "sid")
	if err != nil || got != "eyJhbGciOi.bearer" {
		t.Fatalf("Load = %q, %v", got, err)
	}

	_ = s.Delete(ctx, "sid")
	if got, err := s.Load(ctx, "sid"); got != "" || err != nil {
		t.Fatalf("expected empty after delete, got %q, %v", got, err)
	}
}

func TestSealed_WrongSecret(t *testing.T) {
	inner := NewMemory()
	ctx := context.Background()

	a, _ := NewSealed(inner, "one")
	b, _ := NewSealed(inner, "two")
	_ = a.Save(ctx, "sid", "tok", 0)

	if _, err := b.Load(ctx, "sid"); !errors.Is(err, ErrUnsealable) {
		t.Fatalf("expected ErrUnsealable, got %v", err)
	}

	_ = inner.Save(ctx, "plain", "not-sealed", 0)
	if _, err := a.Load(ctx, "plain"); !errors.Is(err, ErrUnsealable) {
		t.Fatalf("expected ErrUnsealable for plaintext, got %v", err)
	}
}

func TestNewSealed_EmptySecret(t *testing.T) {
	if _, err := NewSealed(NewMemory(), ""); err == nil {
		t.Fatal("expected an error")
	}
}
