package docs

import (
	"strings"
	"testing"
)

func TestTopicsAreSortedAndReadable(t *testing.T) {
	topics := Topics()
	if len(topics) == 0 {
		t.Fatalf("expected embedded topics")
	}
	for i := 1; i < len(topics); i++ {
		if topics[i-1] > topics[i] {
			t.Fatalf("topics not sorted: %v", topics)
		}
	}
	for _, topic := range topics {
		body, ok := Get(topic)
		if !ok || !strings.HasPrefix(body, "# ") {
			t.Fatalf("topic %q: ok=%v body=%q", topic, ok, body)
		}
	}
}

func TestGet_CaseInsensitiveAndUnknown(t *testing.T) {
	if _, ok := Get(" Refs "); !ok {
		t.Fatalf("expected refs topic")
	}
	if _, ok := Get(""); ok {
		t.Fatalf("expected empty topic to miss")
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("expected unknown topic to miss")
	}
}
