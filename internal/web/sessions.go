package web

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"tasktrack/internal/controller"

	"github.com/google/uuid"
)

const (
	sessionCookieName = "tasktrack_session"
	sessionIdleTTL    = 12 * time.Hour
)

type session struct {
	ctrl     *controller.Controller
	lastSeen time.Time
}

// sessionSet keeps one controller per browser session: the selected filter and the inline
// edit are per tab, the task list is shared.
type sessionSet struct {
	mu   sync.Mutex
	byID map[string]*session
	now  func() time.Time
}

func newSessionSet() *sessionSet {
	return &sessionSet{byID: map[string]*session{}, now: time.Now}
}

func (ss *sessionSet) len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.byID)
}

func (ss *sessionSet) get(id string) (*controller.Controller, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	sess, ok := ss.byID[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = ss.now()
	return sess.ctrl, true
}

func (ss *sessionSet) put(id string, c *controller.Controller) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	for k, sess := range ss.byID {
		if now.Sub(sess.lastSeen) > sessionIdleTTL {
			delete(ss.byID, k)
		}
	}
	ss.byID[id] = &session{ctrl: c, lastSeen: now}
}

func sessionIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	id := strings.TrimSpace(c.Value)
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}

// controllerFor returns the caller's session controller, starting a session (and setting
// the cookie) when the request carries none. Callers must hold s.mu.
func (s *Server) controllerFor(w http.ResponseWriter, r *http.Request) *controller.Controller {
	id := sessionIDFromRequest(r)
	if id != "" {
		if c, ok := s.sessions.get(id); ok {
			// Another session may have mutated the shared store since our last render.
			c.Refresh()
			return c
		}
	} else {
		id = uuid.NewString()
	}

	c := controller.New(s.cfg.Store, controller.Options{Mode: s.cfg.Mode, Logger: s.logger})
	s.sessions.put(id, c)
	s.logger.Debug("web session started", slog.String("session", id))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c
}
