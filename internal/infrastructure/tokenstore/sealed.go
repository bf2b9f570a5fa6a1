package tokenstore

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/esop/dhcp-console/internal/core/ports"
)

const nonceSize = 24

// ErrUnsealable is returned by Load when a stored value was not sealed with
// the current secret.
var ErrUnsealable = errors.New("stored token cannot be opened")

// Sealed encrypts tokens with NaCl secretbox before handing them to the
// wrapped store, so a dump of the store does not leak usable bearer tokens.
type Sealed struct {
	next ports.TokenStore
	key  [32]byte
}

// NewSealed derives the sealing key from secret.
func NewSealed(next ports.TokenStore, secret string) (*Sealed, error) {
	if secret == "" {
		return nil, errors.New("tokenstore: empty sealing secret")
	}
	s := &Sealed{next: next}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("dhcp-console token seal v1"))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, fmt.Errorf("tokenstore: derive key: %w", err)
	}
	return s, nil
}

func (s *Sealed) Load(ctx context.Context, sessionID string) (string, error) {
	stored, err := s.next.Load(ctx, sessionID)
	if err != nil || stored == "" {
		return stored, err
	}
	raw, err := base64.RawURLEncoding.DecodeString(stored)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrUnsealable
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrUnsealable
	}
	return string(plain), nil
}

func (s *Sealed) Save(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("tokenstore: nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(token), &nonce, &s.key)
	return s.next.Save(ctx, sessionID, base64.RawURLEncoding.EncodeToString(box), ttl)
}

func (s *Sealed) Delete(ctx context.Context, sessionID string) error {
	return s.next.Delete(ctx, sessionID)
}
