package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// taskDelegate draws one line per task: checkbox, then text (struck through when done).
// The editing row shows the inline editor instead of its text.
type taskDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style

	// editView is the rendered inline editor, shown on the row marked Editing.
	editView string
}

func newTaskDelegate(editView string) taskDelegate {
	return taskDelegate{
		normal:   lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true),
		done:     styleCompleted(),
		editView: editView,
	}
}

func (d taskDelegate) Height() int  { return 1 }
func (d taskDelegate) Spacing() int { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	isSelected := index == m.Index()

	box := glyphCheckbox(it.row.Completed) + " "
	if it.row.Editing {
		line := box + strings.ReplaceAll(d.editView, "\n", " ")
		fmt.Fprint(w, fitLine(line, contentW))
		return
	}

	text := it.row.Text
	if it.row.Completed {
		text = d.done.Render(text)
	}
	line := box + text
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	if isSelected {
		fmt.Fprint(w, d.selected.Render(line))
		return
	}
	fmt.Fprint(w, d.normal.Render(line))
}
