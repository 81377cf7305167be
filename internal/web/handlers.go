package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"tasktrack/internal/controller"
	"tasktrack/internal/format"
	"tasktrack/internal/model"
	"tasktrack/internal/render"
)

type filterVM struct {
	Name   string
	Label  string
	Active bool
}

type pageVM struct {
	Snap    controller.Snapshot
	Filters []filterVM
	Legacy  bool
	// Draft refills the new-task input after a submit that added nothing.
	Draft string
}

func newPageVM(c *controller.Controller) pageVM {
	snap := c.Snapshot()
	vm := pageVM{Snap: snap, Legacy: snap.Mode == model.IndexLegacy}
	for _, f := range model.Filters() {
		vm.Filters = append(vm.Filters, filterVM{
			Name:   string(f),
			Label:  f.Label(),
			Active: f == snap.Selected,
		})
	}
	return vm
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	vm := newPageVM(s.controllerFor(w, r))
	s.mu.Unlock()
	vm.Draft = r.URL.Query().Get("draft")
	s.writeHTMLTemplate(w, "index.html", vm)
}

// mutate runs fn against the caller's controller under the server lock, records the
// outcome and notifies open streams. It reports false after writing an error response.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context, c *controller.Controller) (bool, error)) bool {
	// Persisting must not be cut short by the browser navigating away.
	ctx := context.WithoutCancel(r.Context())

	s.mu.Lock()
	c := s.controllerFor(w, r)
	changed, err := fn(ctx, c)
	s.metrics.observe(s.cfg.Store)
	s.mu.Unlock()

	if changed {
		// The in-memory list changed even when persisting it failed.
		s.hub.broadcast()
	}
	switch {
	case err != nil:
		s.metrics.mutation(op, "error")
		s.logger.Warn("task mutation failed", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "saving tasks failed: "+err.Error(), http.StatusInternalServerError)
		return false
	case changed:
		s.metrics.mutation(op, "changed")
	default:
		s.metrics.mutation(op, "unchanged")
	}
	return true
}

// withSession runs fn for session-scoped state (filter, edit mode) that never touches storage.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(c *controller.Controller)) {
	s.mu.Lock()
	fn(s.controllerFor(w, r))
	s.mu.Unlock()
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	text := r.PostFormValue("text")
	added := false
	ok := s.mutate(w, r, "add", func(ctx context.Context, c *controller.Controller) (bool, error) {
		var err error
		added, err = c.Submit(ctx, text)
		return added, err
	})
	if !ok {
		return
	}
	if !added {
		http.Redirect(w, r, "/?draft="+url.QueryEscape(text), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleTaskToggle(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.PathValue("ref"))
	ok := s.mutate(w, r, "toggle", func(ctx context.Context, c *controller.Controller) (bool, error) {
		res, err := c.Toggle(ctx, ref)
		return res.Changed, err
	})
	if ok {
		redirectBack(w, r, "/")
	}
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.PathValue("ref"))
	ok := s.mutate(w, r, "delete", func(ctx context.Context, c *controller.Controller) (bool, error) {
		res, err := c.Delete(ctx, ref)
		return res.Changed, err
	})
	if ok {
		redirectBack(w, r, "/")
	}
}

func (s *Server) handleTaskEditBegin(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.PathValue("ref"))
	s.withSession(w, r, func(c *controller.Controller) {
		c.BeginEdit(ref)
	})
	redirectBack(w, r, "/")
}

func (s *Server) handleTaskEditSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ref := strings.TrimSpace(r.PathValue("ref"))
	text := r.PostFormValue("text")
	ok := s.mutate(w, r, "edit", func(ctx context.Context, c *controller.Controller) (bool, error) {
		// A save for a row this session isn't editing (e.g. after a restart) starts the edit first.
		if snap := c.Snapshot(); !snap.Editing || snap.EditingRef != ref {
			if !c.BeginEdit(ref) {
				return false, nil
			}
		}
		res, err := c.CommitEdit(ctx, text)
		return res.Changed, err
	})
	if ok {
		redirectBack(w, r, "/")
	}
}

func (s *Server) handleTaskEditCancel(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(c *controller.Controller) {
		c.CancelEdit()
	})
	redirectBack(w, r, "/")
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	s.withSession(w, r, func(c *controller.Controller) {
		if !c.SelectFilter(name) {
			s.logger.Debug("ignoring unknown filter", slog.String("filter", name))
		}
	})
	redirectBack(w, r, "/")
}

func (s *Server) handleAPITasks(w http.ResponseWriter, r *http.Request) {
	f, ok := model.ParseFilter(r.URL.Query().Get("filter"))
	if !ok {
		http.Error(w, "invalid filter (expected all|active|completed)", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	tasks := s.cfg.Store.Tasks()
	s.mu.Unlock()

	view := render.Render(tasks, f, s.cfg.Mode)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = format.WriteJSON(w, map[string]any{
		"data": view,
		"meta": map[string]any{
			"mode":    s.cfg.Mode,
			"counter": render.CounterLabel(view.Counter),
		},
	}, r.URL.Query().Has("pretty"))
}
