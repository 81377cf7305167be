package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"tasktrack/internal/model"
	"tasktrack/internal/render"
)

type RenderOptions struct {
	Filter model.Filter
	// LinkTasks turns every checklist entry into a link to its task page.
	LinkTasks bool
}

// RenderTaskMarkdown renders one task page. index is the task's position in the unfiltered list.
func RenderTaskMarkdown(t model.Task, index int) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(t.Text))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + t.ID)
	writeLn(fmt.Sprintf("- Position: %d", index))
	if t.Completed {
		writeLn("- Status: completed")
	} else {
		writeLn("- Status: active")
	}
	if !t.CreatedAt.IsZero() {
		writeLn("- Created: " + t.CreatedAt.UTC().Format(time.RFC3339))
	}
	if !t.UpdatedAt.IsZero() {
		writeLn("- Updated: " + t.UpdatedAt.UTC().Format(time.RFC3339))
	}
	return buf.String()
}

// RenderIndexMarkdown renders the filtered checklist plus the counter.
func RenderIndexMarkdown(tasks []model.Task, opt RenderOptions) string {
	v := render.Render(tasks, opt.Filter, model.IndexStable)
	if !opt.LinkTasks {
		return render.Markdown(v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Tasks (%s)\n\n", strings.ToLower(v.Filter.Label()))
	if len(v.Rows) == 0 {
		b.WriteString("_No tasks._\n")
	}
	for _, r := range v.Rows {
		box := " "
		if r.Completed {
			box = "x"
		}
		fmt.Fprintf(&b, "- [%s] [%s](%s)\n", box, linkText(r.Text), taskPagePath(r.ID))
	}
	fmt.Fprintf(&b, "\n%s\n", render.CounterLabel(v.Counter))
	return b.String()
}

func taskPagePath(id string) string {
	return "tasks/" + id + ".md"
}

var linkTextEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)

func linkText(s string) string {
	return linkTextEscaper.Replace(s)
}
