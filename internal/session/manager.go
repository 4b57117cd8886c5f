package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStoreUnavailable distinguishes "the store broke" from "no session".
// Callers turn it into a 5xx; a plain miss turns into a redirect or 401.
var ErrStoreUnavailable = errors.New("session store unavailable")

// Manager owns the session lifecycle: issue on login, resolve on every
// protected request, destroy on logout. TTL is fixed at creation and is
// not refreshed on activity.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

// TTL returns the configured session lifespan.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create allocates a token and persists {userID, createdAt, expiresAt}.
func (m *Manager) Create(ctx context.Context, userID string) (Record, error) {
	token, err := NewToken()
	if err != nil {
		return Record{}, err
	}
	now := m.now()
	rec := Record{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Set(ctx, rec, m.ttl); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return rec, nil
}

// Resolve returns the live record for token, or nil when the token is
// unknown or expired. The expiry boundary is inclusive: a session
// resolved exactly at ExpiresAt is already dead. Expired-but-present
// records are deleted best-effort and leak no attributes.
func (m *Manager) Resolve(ctx context.Context, token string) (*Record, error) {
	if token == "" {
		return nil, nil
	}
	rec, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if rec == nil {
		return nil, nil
	}
	if !m.now().Before(rec.ExpiresAt) {
		_ = m.store.Delete(ctx, token)
		return nil, nil
	}
	return rec, nil
}

// Destroy removes the session. Destroying an absent token succeeds, so
// logout is idempotent.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
