package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"tasktrack/internal/model"
	"tasktrack/internal/render"
	"tasktrack/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

type ServerConfig struct {
	Addr string

	// Store is shared by every browser session. The server serializes access to it.
	Store *store.Store
	Mode  model.IndexMode

	// Changes, when set, signals that another process rewrote the persisted list.
	Changes <-chan struct{}

	Logger *slog.Logger

	// Registry receives the server's metrics. Nil means a private registry.
	Registry *prometheus.Registry
}

type Server struct {
	// mu serializes the store and every session controller (they share the store).
	mu   sync.Mutex
	cfg  ServerConfig
	tmpl *template.Template

	logger   *slog.Logger
	sessions *sessionSet
	hub      *resourceHub
	metrics  *serverMetrics
	registry *prometheus.Registry

	stop     context.CancelFunc
	stopOnce sync.Once
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Store == nil {
		return nil, errors.New("web: store is nil")
	}
	if cfg.Mode == "" {
		cfg.Mode = model.IndexStable
	}
	if cfg.Mode != model.IndexStable && cfg.Mode != model.IndexLegacy {
		return nil, errors.New("web: invalid index mode (expected stable|legacy)")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim":    strings.TrimSpace,
		"counter": render.CounterLabel,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	srv := &Server{
		cfg:      cfg,
		tmpl:     tmpl,
		logger:   logger,
		sessions: newSessionSet(),
		hub:      newResourceHub(),
		metrics:  newServerMetrics(reg),
		registry: reg,
		stop:     cancel,
	}
	srv.metrics.observe(cfg.Store)
	if cfg.Changes != nil {
		go srv.watchLoop(ctx, cfg.Changes)
	}
	return srv, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

// Close stops the storage watch loop. Open SSE streams end with their requests.
func (s *Server) Close() {
	s.stopOnce.Do(s.stop)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /api/tasks", s.handleAPITasks)
	mux.HandleFunc("POST /tasks", s.handleTaskCreate)
	mux.HandleFunc("POST /tasks/{ref}/toggle", s.handleTaskToggle)
	mux.HandleFunc("POST /tasks/{ref}/edit", s.handleTaskEditBegin)
	mux.HandleFunc("POST /tasks/{ref}/save", s.handleTaskEditSave)
	mux.HandleFunc("POST /tasks/{ref}/cancel", s.handleTaskEditCancel)
	mux.HandleFunc("POST /tasks/{ref}/delete", s.handleTaskDelete)
	mux.HandleFunc("POST /filter/{name}", s.handleFilter)
	mux.HandleFunc("GET /{$}", s.handleHome)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", slog.String("method", r.Method), slog.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// watchLoop re-reads the persisted list whenever another process changes it and pushes
// the new state to every open stream.
func (s *Server) watchLoop(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			s.mu.Lock()
			s.cfg.Store.Load(ctx)
			s.metrics.observe(s.cfg.Store)
			s.mu.Unlock()
			s.logger.Debug("task storage changed on disk; broadcasting")
			s.hub.broadcast()
		}
	}
}

func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	ref := strings.TrimSpace(r.Header.Get("Referer"))
	if ref != "" {
		http.Redirect(w, r, ref, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fallback, http.StatusSeeOther)
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}
