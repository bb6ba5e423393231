package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-regform/pkg/controller"
)

// SessionCookie names the cookie carrying the form session id.
const SessionCookie = "regform_session"

// DefaultSessionTTL is how long an idle session is kept in memory.
const DefaultSessionTTL = 30 * time.Minute

type sessionEntry struct {
	ctrl     *controller.Controller
	lastSeen time.Time
}

// Sessions maps browser sessions to controllers. State lives in process
// memory only.
type Sessions struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	ttl     time.Duration
	now     func() time.Time
	factory func() *controller.Controller
}

// NewSessions creates a store building controllers with factory.
func NewSessions(factory func() *controller.Controller, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		entries: make(map[string]*sessionEntry),
		ttl:     ttl,
		now:     time.Now,
		factory: factory,
	}
}

// Resolve returns the controller bound to the request's session cookie,
// creating a session (and setting the cookie) when none matches.
func (s *Sessions) Resolve(w http.ResponseWriter, r *http.Request) (string, *controller.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if entry, ok := s.entries[cookie.Value]; ok {
			entry.lastSeen = now
			return cookie.Value, entry.ctrl
		}
	}

	id := uuid.NewString()
	entry := &sessionEntry{ctrl: s.factory(), lastSeen: now}
	s.entries[id] = entry

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl / time.Second),
	})
	return id, entry.ctrl
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweepLocked drops idle sessions. Sessions with a submission in flight are
// kept until it resolves.
func (s *Sessions) sweepLocked(now time.Time) {
	for id, entry := range s.entries {
		if now.Sub(entry.lastSeen) < s.ttl {
			continue
		}
		if entry.ctrl.Snapshot().Submission == controller.Submitting {
			continue
		}
		delete(s.entries, id)
	}
}
