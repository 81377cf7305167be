package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

type mdSample struct{}

func (mdSample) Markdown() string { return "- [ ] hi\n" }

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample{ID: "task-a"}, "json", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "{\"id\":\"task-a\",\"completed\":false}\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestWrite_YAMLUsesJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": []sample{{ID: "task-a", Completed: true}}}, "yaml", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := buf.String()
	for _, want := range []string{"data:", "id: task-a", "completed: true"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in yaml output:\n%s", want, got)
		}
	}
}

func TestWrite_Markdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, mdSample{}, "md", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "- [ ] hi\n" {
		t.Fatalf("unexpected markdown: %q", buf.String())
	}

	buf.Reset()
	if err := Write(&buf, sample{ID: "x"}, "md", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "```json\n") {
		t.Fatalf("expected fenced json fallback, got %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, sample{}, "edn", false); err == nil {
		t.Fatalf("expected error")
	}
	if Valid("xml") || !Valid("YAML") {
		t.Fatalf("unexpected Valid results")
	}
}
