package cli

import (
	"encoding/json"
	"fmt"
)

// envelope is the output contract of every command: {"data": ..., "meta": {...}, "_hints": [...]}.
type envelope struct {
	Data  any            `json:"data"`
	Meta  map[string]any `json:"meta,omitempty"`
	Hints []string       `json:"_hints,omitempty"`

	// md is the --format md rendering; empty means a fenced JSON block of Data.
	md string
}

func (e envelope) Markdown() string {
	if e.md != "" {
		return e.md
	}
	b, err := json.MarshalIndent(e.Data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v\n", e.Data)
	}
	return "```json\n" + string(b) + "\n```\n"
}
