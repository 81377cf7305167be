package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Markdowner is implemented by payloads that have a human-readable markdown form.
type Markdowner interface {
	Markdown() string
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - yaml
// - md (payloads implementing Markdowner; others fall back to a fenced JSON block)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "yaml", "yml":
		return WriteYAML(w, v)
	case "md", "markdown":
		return WriteMarkdown(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// Valid reports whether format is one Write understands.
func Valid(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json", "yaml", "yml", "md", "markdown":
		return true
	default:
		return false
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML writes YAML using the payload's json field names.
//
// Structs are routed through JSON first so yaml keys match the json tags.
func WriteYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(x); err != nil {
		return err
	}
	return enc.Close()
}

func WriteMarkdown(w io.Writer, v any) error {
	if m, ok := v.(Markdowner); ok {
		_, err := io.WriteString(w, m.Markdown())
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "```json\n%s\n```\n", b)
	return err
}
