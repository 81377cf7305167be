package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatcherConfig struct {
	Backend Backend
	Dir     string

	// Debounce coalesces bursts of writes (sqlite touches the db, -wal and -shm files).
	Debounce time.Duration

	Logger *slog.Logger
}

// Watcher signals when persisted task state changes on disk, e.g. because another
// tasktrack process (CLI, TUI, web) mutated the list.
type Watcher struct {
	cfg     WatcherConfig
	fsw     *fsnotify.Watcher
	logger  *slog.Logger
	changes chan struct{}
}

func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 150 * time.Millisecond
	}
	return &Watcher{
		cfg:     cfg,
		fsw:     fsw,
		logger:  logger,
		changes: make(chan struct{}, 1),
	}, nil
}

// Changes delivers at most one pending signal; readers should re-load on receipt.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Start adds the backend paths and runs the event loop until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	paths := WatchPaths(w.cfg.Backend, w.cfg.Dir)
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return err
		}
		if err := w.fsw.Add(p); err != nil {
			return err
		}
		w.logger.Debug("watching task storage", slog.String("path", p))
	}
	go w.loop(ctx)
	return nil
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevantStorageEvent(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("task storage watcher error", slog.String("error", err.Error()))
		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

func relevantStorageEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasSuffix(base, ".tmp") {
		return false
	}
	return strings.HasPrefix(base, sqliteFileName) || strings.HasSuffix(base, ".json")
}
