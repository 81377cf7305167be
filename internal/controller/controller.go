// Package controller turns user actions into store mutations and re-renders after each one.
//
// A Controller is owned by a single interaction surface (one TUI program, one browser
// session) and is not safe for concurrent use.
package controller

import (
	"context"
	"log/slog"
	"strings"

	"tasktrack/internal/model"
	"tasktrack/internal/render"
	"tasktrack/internal/store"
)

type ActionKind string

const (
	ActionToggle ActionKind = "toggle"
	ActionEdit   ActionKind = "edit"
	ActionDelete ActionKind = "delete"
)

func ParseActionKind(s string) (ActionKind, bool) {
	switch ActionKind(strings.ToLower(strings.TrimSpace(s))) {
	case ActionToggle:
		return ActionToggle, true
	case ActionEdit:
		return ActionEdit, true
	case ActionDelete:
		return ActionDelete, true
	default:
		return "", false
	}
}

// Action is a row action; Ref is the row's Ref as rendered.
type Action struct {
	Kind ActionKind
	Ref  string
}

// Snapshot is what a surface draws.
type Snapshot struct {
	render.View
	// Selected is the filter control marked active. In legacy mode it can differ from
	// View.Filter right after a mutation, which always redraws the unfiltered list.
	Selected model.Filter `json:"selected"`
	Mode     model.IndexMode `json:"mode"`

	Editing    bool   `json:"editing"`
	EditingRef string `json:"editingRef,omitempty"`
	// Draft is the text the inline editor starts with.
	Draft string `json:"draft,omitempty"`
}

type Options struct {
	Mode   model.IndexMode
	Logger *slog.Logger
}

type editState struct {
	ref   store.Ref
	id    string
	draft string
}

type Controller struct {
	st     *store.Store
	mode   model.IndexMode
	logger *slog.Logger

	selected model.Filter
	shown    model.Filter
	editing  *editState
	view     render.View
}

// New binds a controller to st and renders the unfiltered list once.
func New(st *store.Store, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mode := opts.Mode
	if mode == "" {
		mode = model.IndexStable
	}
	c := &Controller{
		st:       st,
		mode:     mode,
		logger:   logger,
		selected: model.FilterAll,
		shown:    model.FilterAll,
	}
	c.rerender()
	return c
}

func (c *Controller) Mode() model.IndexMode { return c.mode }

func (c *Controller) Selected() model.Filter { return c.selected }

func (c *Controller) Tasks() []model.Task { return c.st.Tasks() }

// Snapshot returns the most recent render.
func (c *Controller) Snapshot() Snapshot {
	v := c.view
	v.Rows = append([]render.Row(nil), c.view.Rows...)
	snap := Snapshot{View: v, Selected: c.selected, Mode: c.mode}
	if c.editing != nil {
		snap.Editing = true
		snap.EditingRef = c.rowRefFor(c.editing)
		snap.Draft = c.editing.draft
		for i := range snap.Rows {
			if snap.Rows[i].Ref == snap.EditingRef {
				snap.Rows[i].Editing = true
			}
		}
	}
	return snap
}

// Submit adds a task from the input line. The caller clears its input only when clear is true.
func (c *Controller) Submit(ctx context.Context, input string) (clear bool, err error) {
	res, err := c.st.Add(ctx, input)
	if !res.Changed {
		return false, err
	}
	c.afterMutation(res.Task.ID)
	return true, err
}

// Dispatch routes a row action. Edit enters inline editing instead of mutating.
func (c *Controller) Dispatch(ctx context.Context, a Action) (store.Result, error) {
	switch a.Kind {
	case ActionToggle:
		return c.Toggle(ctx, a.Ref)
	case ActionDelete:
		return c.Delete(ctx, a.Ref)
	case ActionEdit:
		ok := c.BeginEdit(a.Ref)
		return store.Result{Found: ok}, nil
	default:
		c.logger.Debug("ignoring unknown action", slog.String("kind", string(a.Kind)))
		return store.Result{}, nil
	}
}

func (c *Controller) Toggle(ctx context.Context, ref string) (store.Result, error) {
	res, err := c.st.Toggle(ctx, c.resolveRef(ref))
	if res.Changed {
		c.afterMutation(res.Task.ID)
	}
	return res, err
}

func (c *Controller) Delete(ctx context.Context, ref string) (store.Result, error) {
	res, err := c.st.Delete(ctx, c.resolveRef(ref))
	if res.Changed {
		c.afterMutation(res.Task.ID)
	}
	return res, err
}

// BeginEdit puts the row named by ref into editing mode. Only one row edits at a time.
func (c *Controller) BeginEdit(ref string) bool {
	r := c.resolveRef(ref)
	t, ok := c.st.Get(r)
	if !ok {
		c.logger.Debug("edit: no such task", slog.String("ref", ref))
		return false
	}
	if c.mode == model.IndexStable {
		r = store.RefID(t.ID)
	}
	c.editing = &editState{ref: r, id: t.ID, draft: t.Text}
	return true
}

// CommitEdit applies text to the editing row and leaves editing mode.
// Whitespace-only text leaves the task unchanged.
func (c *Controller) CommitEdit(ctx context.Context, text string) (store.Result, error) {
	if c.editing == nil {
		return store.Result{}, nil
	}
	ref := c.editing.ref
	c.editing = nil
	res, err := c.st.Edit(ctx, ref, text)
	if res.Changed {
		c.afterMutation(res.Task.ID)
	} else {
		c.rerender()
	}
	return res, err
}

// CancelEdit leaves editing mode without changing anything.
func (c *Controller) CancelEdit() {
	if c.editing == nil {
		return
	}
	c.editing = nil
	c.rerender()
}

func (c *Controller) IsEditing() bool { return c.editing != nil }

// SelectFilter marks name as the active filter and re-renders. Unknown names are ignored.
func (c *Controller) SelectFilter(name string) bool {
	f, ok := model.ParseFilter(name)
	if !ok {
		return false
	}
	c.selected = f
	c.shown = f
	c.rerender()
	return true
}

// Refresh re-renders from the store, e.g. after another controller sharing it mutated the list.
func (c *Controller) Refresh() {
	if c.editing != nil {
		if _, ok := c.st.Get(c.editing.ref); !ok {
			c.editing = nil
		}
	}
	c.rerender()
}

// Reload re-reads the persisted list (another process changed it) and re-renders.
func (c *Controller) Reload(ctx context.Context) {
	c.st.Load(ctx)
	c.Refresh()
}

func (c *Controller) resolveRef(ref string) store.Ref {
	return store.ParseRef(ref)
}

func (c *Controller) rowRefFor(e *editState) string {
	if c.mode == model.IndexStable {
		return e.id
	}
	return e.ref.String()
}

// afterMutation re-renders after the task with id changed. A pending edit survives only
// a mutation of its own row that leaves the task in the list.
func (c *Controller) afterMutation(id string) {
	if c.editing != nil && c.editing.id != id {
		c.editing = nil
	}
	if c.editing != nil {
		i, ok := c.st.Resolve(store.RefID(c.editing.id))
		switch {
		case !ok:
			c.editing = nil
		case c.mode == model.IndexLegacy:
			c.editing.ref = store.RefIndex(i)
		}
	}
	if c.mode == model.IndexLegacy {
		// Redraw the unfiltered list; the selected filter control stays marked.
		c.shown = model.FilterAll
	}
	c.rerender()
}

func (c *Controller) rerender() {
	c.view = render.Render(c.st.Tasks(), c.shown, c.mode)
}
