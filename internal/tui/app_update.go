package tui

import (
	"tasktrack/internal/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case storageChangedMsg:
		m.ctrl.Reload(m.ctx)
		if m.focus == focusEdit && !m.ctrl.IsEditing() {
			m.focus = focusList
			m.edit.Blur()
		}
		m.syncList()
		return m, m.waitForChange()

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case focusInput:
			return m.updateInput(msg)
		case focusEdit:
			return m.updateEdit(msg)
		default:
			return m.updateList(msg)
		}
	}

	// Cursor blink and friends go to whichever input has focus.
	var cmd tea.Cmd
	switch m.focus {
	case focusInput:
		m.input, cmd = m.input.Update(msg)
	case focusEdit:
		m.edit, cmd = m.edit.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		added, err := m.ctrl.Submit(m.ctx, m.input.Value())
		if added {
			m.input.Reset()
		}
		m.syncList()
		if added {
			if tasks := m.ctrl.Tasks(); len(tasks) > 0 {
				selectRowByID(&m.list, tasks[len(tasks)-1].ID)
			}
		}
		if err != nil {
			return m, m.showFlash(err)
		}
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.input.Blur()
		m.focus = focusList
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		_, err := m.ctrl.CommitEdit(m.ctx, m.edit.Value())
		m.leaveEdit()
		if err != nil {
			return m, m.showFlash(err)
		}
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CancelEdit()
		m.leaveEdit()
		return m, nil
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m *appModel) leaveEdit() {
	m.edit.Blur()
	m.edit.Reset()
	m.focus = focusList
	m.syncList()
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NewTask):
		m.focus = focusInput
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Toggle):
		row, ok := selectedRow(m.list)
		if !ok {
			return m, nil
		}
		_, err := m.ctrl.Toggle(m.ctx, row.Ref)
		m.syncList()
		if err != nil {
			return m, m.showFlash(err)
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		row, ok := selectedRow(m.list)
		if !ok || !m.ctrl.BeginEdit(row.Ref) {
			return m, nil
		}
		m.edit.SetValue(m.ctrl.Snapshot().Draft)
		m.edit.CursorEnd()
		m.focus = focusEdit
		m.syncList()
		cmd := m.edit.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		row, ok := selectedRow(m.list)
		if !ok {
			return m, nil
		}
		_, err := m.ctrl.Delete(m.ctx, row.Ref)
		m.syncList()
		if err != nil {
			return m, m.showFlash(err)
		}
		return m, nil

	case key.Matches(msg, m.keys.FilterAll):
		return m.selectFilter(model.FilterAll)
	case key.Matches(msg, m.keys.FilterAct):
		return m.selectFilter(model.FilterActive)
	case key.Matches(msg, m.keys.FilterDone):
		return m.selectFilter(model.FilterCompleted)
	case key.Matches(msg, m.keys.NextFilter):
		return m.selectFilter(nextFilter(m.ctrl.Selected()))

	case key.Matches(msg, m.keys.Reload):
		m.ctrl.Reload(m.ctx)
		m.syncList()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) selectFilter(f model.Filter) (tea.Model, tea.Cmd) {
	m.ctrl.SelectFilter(string(f))
	m.syncList()
	return m, nil
}

func nextFilter(f model.Filter) model.Filter {
	all := model.Filters()
	for i := range all {
		if all[i] == f {
			return all[(i+1)%len(all)]
		}
	}
	return model.FilterAll
}
