package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/matchpoint-app/matchpoint/internal/profile"
)

const sessionCookie = "matchpoint_session"

// session is the per-browser state record: created on first interaction,
// discarded when the process exits. A session with no profile is
// unauthenticated; one with a chat pointer is chatting.
type session struct {
	mu sync.Mutex

	id      string
	profile *profile.User

	// matches is the cached ranked list; nil means not computed yet, which
	// is distinct from an empty computed result.
	matches []*Match

	// currentChat points at the selected match's user id. No chat transport
	// exists behind it.
	currentChat string
}

// InvalidateMatches clears the cached list so the next read recomputes it.
func (s *session) InvalidateMatches() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = nil
}

type sessions struct {
	mu   sync.Mutex
	byID map[string]*session
}

func newSessions() *sessions {
	return &sessions{byID: make(map[string]*session)}
}

func (s *sessions) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	return sess, ok
}

func (s *sessions) create() *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &session{id: uuid.NewString()}
	s.byID[sess.id] = sess
	return sess
}

// currentSession returns the session identified by the request cookie, or nil
// when the caller has never submitted a profile.
func (s *Server) currentSession(r *http.Request) *session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	sess, ok := s.sessions.get(cookie.Value)
	if !ok {
		return nil
	}
	return sess
}

// activeSession is currentSession narrowed to sessions that hold a profile.
func (s *Server) activeSession(r *http.Request) *session {
	sess := s.currentSession(r)
	if sess == nil {
		return nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.profile == nil {
		return nil
	}
	return sess
}

func setSessionCookie(w http.ResponseWriter, sess *session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
