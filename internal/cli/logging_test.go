package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info to be filtered at warn, got %q", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "k=v") {
		t.Fatalf("expected text-handler warn line, got %q", out)
	}

	if _, err := newLogger(&buf, "DEBUG"); err != nil {
		t.Fatalf("expected case-insensitive level, got %v", err)
	}
	if _, err := newLogger(&buf, "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestEnvelopeMarkdownFallsBackToFencedJSON(t *testing.T) {
	got := envelope{Data: map[string]any{"a": 1}}.Markdown()
	if !strings.HasPrefix(got, "```json\n") || !strings.Contains(got, `"a": 1`) {
		t.Fatalf("unexpected fallback markdown: %q", got)
	}
	if got := (envelope{md: "x\n"}).Markdown(); got != "x\n" {
		t.Fatalf("expected explicit markdown, got %q", got)
	}
}
