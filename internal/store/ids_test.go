package store

import (
	"strings"
	"testing"

	"tasktrack/internal/model"
)

func TestNewRandomID_TaskIDsAreShort(t *testing.T) {
	id, err := newRandomID(taskIDPrefix)
	if err != nil {
		t.Fatalf("newRandomID: %v", err)
	}
	if !strings.HasPrefix(id, "task-") {
		t.Fatalf("expected task prefix, got %q", id)
	}
	suffix := strings.TrimPrefix(id, "task-")
	if got, want := len(suffix), 8; got != want {
		t.Fatalf("expected id suffix len %d, got %d (%q)", want, got, suffix)
	}
	if suffix != strings.ToLower(suffix) {
		t.Fatalf("expected lowercase suffix, got %q", suffix)
	}
}

func TestNextTaskID_AvoidsExisting(t *testing.T) {
	seen := map[string]bool{}
	var tasks []model.Task
	for i := 0; i < 200; i++ {
		id := nextTaskID(tasks)
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		tasks = append(tasks, model.Task{ID: id, Text: "x"})
	}
}
