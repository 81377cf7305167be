package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const jsonKVDirName = "kv"

// JSONFileKV stores each key as <dir>/kv/<key>.json.
//
// Writes go through a temp file + rename so a concurrent reader never sees a partial value.
type JSONFileKV struct {
	dir string
}

func NewJSONFileKV(dir string) *JSONFileKV {
	return &JSONFileKV{dir: filepath.Join(filepath.Clean(dir), jsonKVDirName)}
}

func (j *JSONFileKV) path(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("json kv: invalid key %q", key)
	}
	return filepath.Join(j.dir, key+".json"), nil
}

func (j *JSONFileKV) Get(_ context.Context, key string) (string, bool, error) {
	p, err := j.path(key)
	if err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

func (j *JSONFileKV) Set(_ context.Context, key, value string) error {
	p, err := j.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(j.dir, key+".json.*.tmp", p, []byte(value), 0o644)
}

func (j *JSONFileKV) Close() error { return nil }

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
