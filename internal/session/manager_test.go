package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeStore is an in-memory Store that honors ttl via the records'
// ExpiresAt only (expiry decisions belong to the manager under test).
type fakeStore struct {
	recs    map[string]Record
	failing bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{recs: make(map[string]Record)}
}

var errBackend = errors.New("backend down")

func (s *fakeStore) Set(ctx context.Context, rec Record, ttl time.Duration) error {
	if s.failing {
		return errBackend
	}
	s.recs[rec.Token] = rec
	return nil
}

func (s *fakeStore) Get(ctx context.Context, token string) (*Record, error) {
	if s.failing {
		return nil, errBackend
	}
	rec, ok := s.recs[token]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *fakeStore) Delete(ctx context.Context, token string) error {
	if s.failing {
		return errBackend
	}
	delete(s.recs, token)
	return nil
}

func TestNewToken_UniqueAndOpaque(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := NewToken()
		if err != nil {
			t.Fatalf("NewToken failed: %v", err)
		}
		// 32 bytes base64url without padding
		if len(tok) != 43 {
			t.Fatalf("unexpected token length %d: %q", len(tok), tok)
		}
		if seen[tok] {
			t.Fatalf("duplicate token generated: %q", tok)
		}
		seen[tok] = true
	}
}

func TestManager_CreateResolveRoundTrip(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, 24*time.Hour)

	rec, err := m.Create(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.Token == "" {
		t.Fatal("Create returned empty token")
	}
	if got, want := rec.ExpiresAt, rec.CreatedAt.Add(24*time.Hour); !got.Equal(want) {
		t.Errorf("ExpiresAt = %v, want CreatedAt + TTL = %v", got, want)
	}

	resolved, err := m.Resolve(context.Background(), rec.Token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved == nil {
		t.Fatal("Resolve returned nil for a fresh session")
	}
	if resolved.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", resolved.UserID, "user-1")
	}
}

func TestManager_ResolveUnknownToken(t *testing.T) {
	m := NewManager(newFakeStore(), time.Hour)

	rec, err := m.Resolve(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rec != nil {
		t.Fatalf("Resolve returned %+v for unknown token, want nil", rec)
	}
}

func TestManager_ResolveEmptyToken(t *testing.T) {
	m := NewManager(newFakeStore(), time.Hour)

	rec, err := m.Resolve(context.Background(), "")
	if err != nil || rec != nil {
		t.Fatalf("Resolve(\"\") = (%+v, %v), want (nil, nil)", rec, err)
	}
}

func TestManager_ExpiryBoundaryInclusive(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, time.Hour)

	rec, err := m.Create(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Exactly at ExpiresAt: already expired, no valid access at the boundary.
	m.now = func() time.Time { return rec.ExpiresAt }
	got, err := m.Resolve(context.Background(), rec.Token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != nil {
		t.Fatalf("session resolved exactly at expiry, want nil")
	}
	if _, ok := store.recs[rec.Token]; ok {
		t.Error("expired record not removed from store")
	}
}

func TestManager_ResolveJustBeforeExpiry(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, time.Hour)

	rec, err := m.Create(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	m.now = func() time.Time { return rec.ExpiresAt.Add(-time.Second) }
	got, err := m.Resolve(context.Background(), rec.Token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got == nil {
		t.Fatal("session expired one second early")
	}
}

func TestManager_DestroyIdempotent(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, time.Hour)

	rec, err := m.Create(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := m.Destroy(context.Background(), rec.Token); err != nil {
		t.Fatalf("first Destroy failed: %v", err)
	}
	if err := m.Destroy(context.Background(), rec.Token); err != nil {
		t.Fatalf("second Destroy failed: %v", err)
	}

	got, err := m.Resolve(context.Background(), rec.Token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != nil {
		t.Fatal("Resolve returned a record after Destroy")
	}
}

func TestManager_StoreUnavailable(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, time.Hour)

	rec, err := m.Create(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	store.failing = true

	if _, err := m.Create(context.Background(), "user-2"); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Create error = %v, want ErrStoreUnavailable", err)
	}
	if _, err := m.Resolve(context.Background(), rec.Token); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Resolve error = %v, want ErrStoreUnavailable", err)
	}
	if err := m.Destroy(context.Background(), rec.Token); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Destroy error = %v, want ErrStoreUnavailable", err)
	}
}
