package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"userhub/internal/cache"
	"userhub/internal/model"
)

const sessionKeyPrefix = "session:"

// SessionStoreInterface defines the interface for server-side session
// storage. A session missing from the store is treated as logged out,
// even when the cookie token still verifies.
type SessionStoreInterface interface {
	Store(ctx context.Context, sessionID string, session *model.Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// SessionStore keeps session records in Redis with TTL.
type SessionStore struct {
	cache *cache.Client
}

// Ensure SessionStore implements SessionStoreInterface
var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *SessionStore {
	return &SessionStore{cache: cache}
}

// Store writes a session record with TTL.
func (s *SessionStore) Store(ctx context.Context, sessionID string, session *model.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+sessionID, payload, ttl)
}

// Get retrieves a session record, or nil if it does not exist.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes a session record. Deleting an absent session is not
// an error, which makes logout idempotent.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+sessionID)
}
