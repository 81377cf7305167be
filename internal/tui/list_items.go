package tui

import (
	"tasktrack/internal/render"

	"github.com/charmbracelet/bubbles/list"
)

// taskItem is one rendered row in the list.
type taskItem struct {
	row render.Row
}

func (i taskItem) FilterValue() string { return i.row.Text }

func (i taskItem) Title() string { return i.row.Text }

func itemsFromRows(rows []render.Row) []list.Item {
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, taskItem{row: r})
	}
	return items
}

func selectedRow(l list.Model) (render.Row, bool) {
	it, ok := l.SelectedItem().(taskItem)
	if !ok {
		return render.Row{}, false
	}
	return it.row, true
}

// selectRowByID moves the cursor to the row showing task id. It reports whether the row
// is visible.
func selectRowByID(l *list.Model, id string) bool {
	if id == "" {
		return false
	}
	for idx, it := range l.Items() {
		if ti, ok := it.(taskItem); ok && ti.row.ID == id {
			l.Select(idx)
			return true
		}
	}
	return false
}
