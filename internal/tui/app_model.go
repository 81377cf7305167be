package tui

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"tasktrack/internal/controller"
	"tasktrack/internal/model"
	"tasktrack/internal/render"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const flashDuration = 3 * time.Second

// Header: title, filter bar, input line, blank. Footer: status line, help.
const chromeLines = 6

type appModel struct {
	ctx     context.Context
	ctrl    *controller.Controller
	logger  *slog.Logger
	changes <-chan struct{}

	width  int
	height int
	focus  focusKind

	input textinput.Model
	edit  textinput.Model
	list  list.Model
	keys  keyMap
	help  help.Model

	flash    string
	flashSeq int
}

func newAppModel(ctx context.Context, c *controller.Controller, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "What needs to be done?"
	in.CharLimit = 500

	ed := textinput.New()
	ed.Prompt = ""
	ed.CharLimit = 500

	l := list.New(nil, newTaskDelegate(""), 80, 20)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	m := appModel{
		ctx:     ctx,
		ctrl:    c,
		logger:  logger,
		changes: opts.Changes,
		input:   in,
		edit:    ed,
		list:    l,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	m.syncList()

	// An empty list starts in the input line, like the browser app's autofocused field.
	if len(m.list.Items()) == 0 {
		m.focus = focusInput
		m.input.Focus()
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForChange())
}

// waitForChange blocks on the storage watcher and turns its next signal into a message.
func (m appModel) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ctx, ch := m.ctx, m.changes
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return storageChangedMsg{}
		}
	}
}

func (m *appModel) resize() {
	w := m.width
	if w <= 0 {
		w = 80
	}
	m.help.Width = w
	m.input.Width = w - 4
	m.edit.Width = w - 8

	h := m.height - chromeLines
	if m.help.ShowAll {
		h -= 3
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(w, h)
}

// syncList copies the controller's snapshot into the list, keeping the cursor on the same
// task when it is still visible.
func (m *appModel) syncList() {
	prevID := ""
	if r, ok := selectedRow(m.list); ok {
		prevID = r.ID
	}
	prevIdx := m.list.Index()

	snap := m.ctrl.Snapshot()
	m.list.SetItems(itemsFromRows(snap.Rows))

	if snap.Editing {
		for i, r := range snap.Rows {
			if r.Editing {
				m.list.Select(i)
				return
			}
		}
	}
	if selectRowByID(&m.list, prevID) {
		return
	}
	n := len(snap.Rows)
	if prevIdx >= n {
		prevIdx = n - 1
	}
	if prevIdx < 0 {
		prevIdx = 0
	}
	m.list.Select(prevIdx)
}

func (m *appModel) showFlash(err error) tea.Cmd {
	m.flash = err.Error()
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	snap := m.ctrl.Snapshot()

	lines := []string{
		styleTitle().Render("tasks"),
		m.renderFilterBar(snap),
		renderInputLine(w, glyphPrompt(), m.input.View()),
		"",
	}

	if len(snap.Rows) == 0 {
		lines = append(lines, styleMuted().Render(emptyMessage(snap)))
	} else {
		l := m.list
		l.SetDelegate(newTaskDelegate(m.edit.View()))
		lines = append(lines, l.View())
	}

	body := strings.Join(lines, "\n")
	footer := m.renderStatusLine(snap, w) + "\n" + m.renderHelp()

	if m.height <= 0 {
		return body + "\n\n" + footer
	}
	footerH := lipgloss.Height(footer)
	return normalizePane(body, w, m.height-footerH) + "\n" + normalizePane(footer, w, footerH)
}

func (m appModel) renderFilterBar(snap controller.Snapshot) string {
	parts := make([]string, 0, len(model.Filters()))
	for i, f := range model.Filters() {
		label := strconv.Itoa(i+1) + " " + f.Label()
		if f == snap.Selected {
			parts = append(parts, styleFilterActive().Render(label))
		} else {
			parts = append(parts, styleFilterInactive().Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m appModel) renderStatusLine(snap controller.Snapshot, w int) string {
	sep := " " + glyphSeparator() + " "
	status := render.CounterLabel(snap.Counter) + sep + "showing " + strings.ToLower(snap.Filter.Label())
	if snap.Mode == model.IndexLegacy {
		status += sep + "legacy index mode"
	}
	if m.focus != focusList {
		status += sep + focusToString(m.focus)
	}
	line := styleMuted().Render(status)
	if m.flash != "" {
		line += "  " + styleFlashError().Render(m.flash)
	}
	return fitLine(line, w)
}

func (m appModel) renderHelp() string {
	if m.focus == focusList {
		return m.help.View(m.keys)
	}
	return m.help.View(inputKeyMap{Submit: m.keys.Submit, Cancel: m.keys.Cancel})
}

func emptyMessage(snap controller.Snapshot) string {
	if snap.Total == 0 {
		return "No tasks yet. Press a to add one."
	}
	return "Nothing " + strings.ToLower(snap.Filter.Label()) + "."
}
