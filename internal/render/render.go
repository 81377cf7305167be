// Package render projects the task list into display rows.
//
// Everything here is pure: rendering never mutates the tasks it is given.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"tasktrack/internal/model"
)

type Row struct {
	// Ref is what row actions route back to the store with: the task id in stable
	// mode, the row's position within the rendered list in legacy mode.
	Ref string `json:"ref"`
	// Position is the row's position within the rendered (possibly filtered) list.
	Position int `json:"position"`
	// Index is the task's position in the unfiltered list as far as this row knows.
	// In legacy mode it equals Position, which is wrong for filtered views.
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Editing   bool   `json:"editing,omitempty"`
}

type View struct {
	Filter model.Filter `json:"filter"`
	Rows   []Row        `json:"rows"`
	// Counter is the number of incomplete tasks in the whole list, not just the visible rows.
	Counter int `json:"counter"`
	Total   int `json:"total"`
}

// Render applies filter to tasks and builds one row per visible task.
func Render(tasks []model.Task, filter model.Filter, mode model.IndexMode) View {
	if _, ok := model.ParseFilter(string(filter)); !ok || filter == "" {
		filter = model.FilterAll
	}
	v := View{
		Filter:  filter,
		Rows:    []Row{},
		Counter: ActiveCount(tasks),
		Total:   len(tasks),
	}
	for i, t := range tasks {
		if !filter.Match(t) {
			continue
		}
		pos := len(v.Rows)
		row := Row{
			Position:  pos,
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
		}
		if mode == model.IndexLegacy {
			row.Ref = strconv.Itoa(pos)
			row.Index = pos
		} else {
			row.Ref = t.ID
			row.Index = i
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// ActiveCount is the number of tasks that are not completed.
func ActiveCount(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

func CounterLabel(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}

// Markdown renders the view as a GitHub-style checklist.
func Markdown(v View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tasks (%s)\n\n", strings.ToLower(v.Filter.Label()))
	if len(v.Rows) == 0 {
		b.WriteString("_No tasks._\n")
	}
	for _, r := range v.Rows {
		b.WriteString(ChecklistLine(r.Text, r.Completed))
	}
	fmt.Fprintf(&b, "\n%s\n", CounterLabel(v.Counter))
	return b.String()
}

// ChecklistLine renders one task as a markdown checklist entry; completed text is struck through.
func ChecklistLine(text string, completed bool) string {
	box := " "
	text = escapeMarkdown(text)
	if completed {
		box = "x"
		text = "~~" + text + "~~"
	}
	return fmt.Sprintf("- [%s] %s\n", box, text)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"~", `\~`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
