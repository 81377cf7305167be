package model

import "testing"

func TestParseFilter(t *testing.T) {
	cases := []struct {
		in   string
		want Filter
		ok   bool
	}{
		{"", FilterAll, true},
		{"All", FilterAll, true},
		{" active ", FilterActive, true},
		{"done", FilterCompleted, true},
		{"completed", FilterCompleted, true},
		{"someday", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseFilter(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseFilter(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFilterMatch(t *testing.T) {
	open := Task{Text: "a"}
	done := Task{Text: "b", Completed: true}
	if !FilterAll.Match(open) || !FilterAll.Match(done) {
		t.Fatalf("all should match everything")
	}
	if !FilterActive.Match(open) || FilterActive.Match(done) {
		t.Fatalf("active should match only incomplete tasks")
	}
	if FilterCompleted.Match(open) || !FilterCompleted.Match(done) {
		t.Fatalf("completed should match only completed tasks")
	}
}

func TestParseIndexMode(t *testing.T) {
	if m, err := ParseIndexMode(""); err != nil || m != IndexStable {
		t.Fatalf("default: got %q, %v", m, err)
	}
	if m, err := ParseIndexMode("LEGACY"); err != nil || m != IndexLegacy {
		t.Fatalf("legacy: got %q, %v", m, err)
	}
	if _, err := ParseIndexMode("positional"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
