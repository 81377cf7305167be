package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TasksKey is the single key the task list is persisted under.
const TasksKey = "tasks"

// KV is the persistent key-value storage the task list is mirrored into.
//
// Values are opaque strings; the task store writes a JSON array under TasksKey.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
	Close() error
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendJSON   Backend = "json"
	BackendMemory Backend = "memory"
)

func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite":
		return BackendSQLite, nil
	case "json", "file":
		return BackendJSON, nil
	case "memory", "mem":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("invalid backend: %q (expected sqlite|json|memory)", s)
	}
}

// OpenKV opens the key-value backend rooted at dir.
func OpenKV(ctx context.Context, backend Backend, dir string) (KV, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryKV(), nil
	case BackendJSON:
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
		return NewJSONFileKV(dir), nil
	case BackendSQLite, "":
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
		return OpenSQLiteKV(ctx, filepath.Join(dir, sqliteFileName))
	default:
		return nil, fmt.Errorf("unknown backend: %s", backend)
	}
}

// WatchPaths returns the directories whose changes indicate a new persisted state.
func WatchPaths(backend Backend, dir string) []string {
	switch backend {
	case BackendJSON:
		return []string{filepath.Join(filepath.Clean(dir), jsonKVDirName)}
	case BackendSQLite, "":
		return []string{filepath.Clean(dir)}
	default:
		return nil
	}
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("store: dir is empty")
	}
	return os.MkdirAll(dir, 0o755)
}
