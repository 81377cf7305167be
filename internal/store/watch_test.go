package store

import (
	"context"
	"testing"
	"time"
)

func TestWatcher_SignalsOnExternalWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	w, err := NewWatcher(WatcherConfig{Backend: BackendJSON, Dir: dir, Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	other := New(NewJSONFileKV(dir), Options{})
	if _, err := other.Add(ctx, "from another process"); err != nil {
		t.Fatalf("add: %v", err)
	}

	select {
	case <-w.Changes():
	case <-time.After(3 * time.Second):
		t.Fatalf("expected change signal")
	}
}
