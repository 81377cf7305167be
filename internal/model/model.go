package model

import (
	"fmt"
	"strings"
	"time"
)

// Task is a single to-do entry.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists the filter controls in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilter resolves a filter name. The empty string means "all".
func ParseFilter(s string) (Filter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, true
	case "active":
		return FilterActive, true
	case "completed", "done":
		return FilterCompleted, true
	default:
		return "", false
	}
}

func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// IndexMode selects how rendered rows refer back to store tasks.
//
// stable: rows carry the task id, so actions taken in a filtered view hit the right task.
// legacy: rows carry their position within the rendered (possibly filtered) list, and every
// mutation re-renders the unfiltered view. Matches the old browser app.
type IndexMode string

const (
	IndexStable IndexMode = "stable"
	IndexLegacy IndexMode = "legacy"
)

func ParseIndexMode(s string) (IndexMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stable":
		return IndexStable, nil
	case "legacy":
		return IndexLegacy, nil
	default:
		return "", fmt.Errorf("invalid index mode: %q (expected stable|legacy)", s)
	}
}
