package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vuzon/vuzon/config"
)

// SessionService is an in-memory login session store. Sessions are keyed by
// an opaque id and hold a single authenticated flag implied by presence in
// the map. The store is not shared across processes.
//
// Cookie values are "<id>.<hmac>" so a tampered id is rejected without a
// map lookup.
type SessionService struct {
	secret []byte
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]time.Time
}

func NewSessionService(conf config.Config) *SessionService {
	return &SessionService{
		secret:   []byte(conf.SessionSecret),
		ttl:      time.Duration(conf.SessionTTLHours) * time.Hour,
		sessions: make(map[string]time.Time),
	}
}

// Create starts an authenticated session and returns the signed cookie value.
func (s *SessionService) Create() string {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = time.Now().Add(s.ttl)
	s.mu.Unlock()

	return id + "." + s.sign(id)
}

// Validate reports whether a cookie value belongs to a live session.
// Expired sessions are removed on sight.
func (s *SessionService) Validate(token string) bool {
	id, ok := s.verify(token)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, found := s.sessions[id]
	if !found {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.sessions, id)
		return false
	}
	return true
}

// Destroy ends a session. Unknown or malformed tokens are a no-op.
func (s *SessionService) Destroy(token string) {
	id, ok := s.verify(token)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// PurgeExpired removes all expired sessions and returns how many were dropped.
func (s *SessionService) PurgeExpired() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, expiry := range s.sessions {
		if now.After(expiry) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}

// TTL returns the session lifetime, used to align the cookie MaxAge.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

func (s *SessionService) sign(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *SessionService) verify(token string) (string, bool) {
	id, sig, found := strings.Cut(token, ".")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(id))) {
		return "", false
	}
	return id, true
}
