package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"
)

const sseKeepAlive = 25 * time.Second

// handleEvents streams the caller's #tasks section, re-rendered whenever the shared list
// changes (another tab, the CLI, the TUI).
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	render := func() (string, error) {
		s.mu.Lock()
		vm := newPageVM(s.controllerFor(w, r))
		s.mu.Unlock()
		return s.renderTemplate("tasks", vm)
	}
	// Resolve the session before the stream starts writing, so a new cookie still lands.
	if _, err := render(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ch, cancel := s.hub.subscribe()
	defer cancel()
	s.metrics.sseClients.Inc()
	defer s.metrics.sseClients.Dec()

	sse := datastar.NewSSE(w, r)

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			html, err := render()
			if err != nil {
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
				continue
			}
			if strings.TrimSpace(html) == "" {
				continue
			}
			_ = sse.PatchElements(html, datastar.WithSelector("#tasks"), datastar.WithMode(datastar.ElementPatchModeOuter))
		}
	}
}
