package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestKVBackends_SetGetReplace(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []Backend{BackendSQLite, BackendJSON, BackendMemory} {
		t.Run(string(backend), func(t *testing.T) {
			dir := t.TempDir()
			kv, err := OpenKV(ctx, backend, dir)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer kv.Close()

			if _, ok, err := kv.Get(ctx, TasksKey); err != nil || ok {
				t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
			}
			if err := kv.Set(ctx, TasksKey, `[1]`); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := kv.Set(ctx, TasksKey, `[2]`); err != nil {
				t.Fatalf("set: %v", err)
			}
			v, ok, err := kv.Get(ctx, TasksKey)
			if err != nil || !ok || v != `[2]` {
				t.Fatalf("expected replaced value, got %q ok=%v err=%v", v, ok, err)
			}
		})
	}
}

func TestKVBackends_PersistAcrossReopen(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []Backend{BackendSQLite, BackendJSON} {
		t.Run(string(backend), func(t *testing.T) {
			dir := t.TempDir()
			kv, err := OpenKV(ctx, backend, dir)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			s := New(kv, Options{})
			if _, err := s.Add(ctx, "persist me"); err != nil {
				t.Fatalf("add: %v", err)
			}
			_ = kv.Close()

			kv2, err := OpenKV(ctx, backend, dir)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer kv2.Close()
			s2 := Open(ctx, kv2, Options{})
			if s2.Len() != 1 || s2.Tasks()[0].Text != "persist me" {
				t.Fatalf("expected task after reopen, got %+v", s2.Tasks())
			}
		})
	}
}

func TestJSONFileKV_LayoutAndInvalidKeys(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	kv := NewJSONFileKV(dir)
	if err := kv.Set(ctx, TasksKey, `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "kv", "tasks.json")); err != nil {
		t.Fatalf("expected kv/tasks.json: %v", err)
	}
	if err := kv.Set(ctx, "../escape", "x"); err == nil {
		t.Fatalf("expected invalid key error")
	}
}

func TestParseBackend(t *testing.T) {
	if b, err := ParseBackend(""); err != nil || b != BackendSQLite {
		t.Fatalf("expected sqlite default, got %v %v", b, err)
	}
	if _, err := ParseBackend("redis"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
