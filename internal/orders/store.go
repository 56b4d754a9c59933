package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/jyl33/cardscanner-backend/pkg/errors"
	"github.com/jyl33/cardscanner-backend/pkg/redis"
)

// sessionCache is the subset of the redis client the session store needs.
type sessionCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SessionKey(sessionID string) string
}

// SessionStore keeps order sessions in Redis with a bounded lifetime, so an
// abandoned selection expires instead of leaking across sessions.
type SessionStore struct {
	cache sessionCache
	ttl   time.Duration
}

// NewSessionStore builds the store with the configured session TTL.
func NewSessionStore(cache sessionCache, ttl time.Duration) (*SessionStore, error) {
	if cache == nil {
		return nil, fmt.Errorf("session cache required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &SessionStore{cache: cache, ttl: ttl}, nil
}

// Create starts and persists a new session for the buyer.
func (s *SessionStore) Create(ctx context.Context, buyerID uuid.UUID, buyerName string) (*Session, error) {
	session := NewSession(buyerID, buyerName)
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get loads a session by ID. An expired or unknown session maps to
// NotFound.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	payload, err := s.cache.Get(ctx, s.cache.SessionKey(sessionID))
	if errors.Is(err, redis.Nil) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order session not found").
			WithDetails(map[string]any{"session_id": sessionID})
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order session")
	}

	var session Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding order session")
	}
	return &session, nil
}

// Save persists the session and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding order session")
	}
	if err := s.cache.Set(ctx, s.cache.SessionKey(session.ID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing order session")
	}
	return nil
}

// Delete removes the session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.cache.Del(ctx, s.cache.SessionKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting order session")
	}
	return nil
}
