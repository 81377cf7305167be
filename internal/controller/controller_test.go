package controller

import (
	"context"
	"testing"

	"tasktrack/internal/model"
	"tasktrack/internal/store"

	"github.com/stretchr/testify/require"
)

func newController(t *testing.T, mode model.IndexMode) (*Controller, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemoryKV(), store.Options{})
	return New(st, Options{Mode: mode}), st
}

func rowTexts(s Snapshot) []string {
	out := []string{}
	for _, r := range s.Rows {
		out = append(out, r.Text)
	}
	return out
}

func TestStartup_RendersUnfilteredList(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	seed := store.New(kv, store.Options{})
	_, _ = seed.Add(ctx, "a")
	_, _ = seed.Add(ctx, "b")
	_, _ = seed.Toggle(ctx, store.RefIndex(0))

	c := New(store.Open(ctx, kv, store.Options{}), Options{})
	snap := c.Snapshot()
	require.Equal(t, model.FilterAll, snap.Filter)
	require.Equal(t, model.FilterAll, snap.Selected)
	require.Equal(t, []string{"a", "b"}, rowTexts(snap))
	require.Equal(t, 1, snap.Counter)
}

func TestSubmit_ClearsOnlyOnAdd(t *testing.T) {
	ctx := context.Background()
	c, st := newController(t, model.IndexStable)

	clear, err := c.Submit(ctx, "   ")
	require.NoError(t, err)
	require.False(t, clear)
	require.Equal(t, 0, st.Len())

	clear, err = c.Submit(ctx, " Buy milk ")
	require.NoError(t, err)
	require.True(t, clear)
	require.Equal(t, []string{"Buy milk"}, rowTexts(c.Snapshot()))
}

// Walks the "Buy milk" scenario in both index modes.
func TestScenario_BuyMilk(t *testing.T) {
	for _, mode := range []model.IndexMode{model.IndexStable, model.IndexLegacy} {
		t.Run(string(mode), func(t *testing.T) {
			ctx := context.Background()
			c, st := newController(t, mode)

			_, err := c.Submit(ctx, "Buy milk")
			require.NoError(t, err)
			require.Equal(t, 1, c.Snapshot().Counter)

			ref := c.Snapshot().Rows[0].Ref
			_, err = c.Toggle(ctx, ref)
			require.NoError(t, err)
			require.Equal(t, 0, c.Snapshot().Counter)

			require.True(t, c.SelectFilter("completed"))
			snap := c.Snapshot()
			require.Len(t, snap.Rows, 1)
			require.Equal(t, "Buy milk", snap.Rows[0].Text)
			require.True(t, snap.Rows[0].Completed)

			require.True(t, c.SelectFilter("active"))
			require.Empty(t, c.Snapshot().Rows)

			res, err := c.Delete(ctx, "0")
			require.NoError(t, err)
			require.True(t, res.Changed)
			require.Equal(t, 0, st.Len())
			require.Equal(t, 0, c.Snapshot().Counter)
		})
	}
}

func TestScenario_DeleteFirstLeavesSecond(t *testing.T) {
	for _, mode := range []model.IndexMode{model.IndexStable, model.IndexLegacy} {
		t.Run(string(mode), func(t *testing.T) {
			ctx := context.Background()
			c, st := newController(t, mode)
			_, _ = c.Submit(ctx, "A")
			_, _ = c.Submit(ctx, "B")

			_, err := c.Delete(ctx, c.Snapshot().Rows[0].Ref)
			require.NoError(t, err)

			tasks := st.Tasks()
			require.Len(t, tasks, 1)
			require.Equal(t, "B", tasks[0].Text)
			require.False(t, tasks[0].Completed)
			require.Equal(t, 0, c.Snapshot().Rows[0].Index)
		})
	}
}

func TestStable_FilteredRowActionsHitTheRightTask(t *testing.T) {
	ctx := context.Background()
	c, st := newController(t, model.IndexStable)
	_, _ = c.Submit(ctx, "A")
	_, _ = c.Submit(ctx, "B")
	_, _ = c.Toggle(ctx, c.Snapshot().Rows[1].Ref) // B completed

	require.True(t, c.SelectFilter("completed"))
	row := c.Snapshot().Rows[0]
	require.Equal(t, "B", row.Text)

	_, err := c.Delete(ctx, row.Ref)
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, []string{st.Tasks()[0].Text})

	// The active filter survives mutations in stable mode.
	require.Equal(t, model.FilterCompleted, c.Snapshot().Filter)
	require.Empty(t, c.Snapshot().Rows)
}

func TestLegacy_FilteredRowActionsUseLocalIndex(t *testing.T) {
	ctx := context.Background()
	c, st := newController(t, model.IndexLegacy)
	_, _ = c.Submit(ctx, "A")
	_, _ = c.Submit(ctx, "B")
	_, _ = c.Toggle(ctx, "1") // B completed

	require.True(t, c.SelectFilter("completed"))
	row := c.Snapshot().Rows[0]
	require.Equal(t, "B", row.Text)
	require.Equal(t, "0", row.Ref)

	// Deleting the only visible row removes store index 0, which is A.
	_, err := c.Delete(ctx, row.Ref)
	require.NoError(t, err)
	require.Equal(t, "B", st.Tasks()[0].Text)

	// Mutations redraw the unfiltered list while the selected control stays "completed".
	snap := c.Snapshot()
	require.Equal(t, model.FilterAll, snap.Filter)
	require.Equal(t, model.FilterCompleted, snap.Selected)
	require.Equal(t, []string{"B"}, rowTexts(snap))
}

func TestEdit_InlineFlow(t *testing.T) {
	ctx := context.Background()
	c, st := newController(t, model.IndexStable)
	_, _ = c.Submit(ctx, "old")
	_, _ = c.Toggle(ctx, c.Snapshot().Rows[0].Ref)
	ref := c.Snapshot().Rows[0].Ref

	_, err := c.Dispatch(ctx, Action{Kind: ActionEdit, Ref: ref})
	require.NoError(t, err)
	snap := c.Snapshot()
	require.True(t, snap.Editing)
	require.Equal(t, "old", snap.Draft)
	require.True(t, snap.Rows[0].Editing)

	// Cancel leaves the task unchanged.
	c.CancelEdit()
	require.False(t, c.Snapshot().Editing)
	require.Equal(t, "old", st.Tasks()[0].Text)

	// Empty commit leaves the task unchanged.
	require.True(t, c.BeginEdit(ref))
	res, err := c.CommitEdit(ctx, "   ")
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.False(t, c.IsEditing())
	require.Equal(t, "old", st.Tasks()[0].Text)

	require.True(t, c.BeginEdit(ref))
	res, err = c.CommitEdit(ctx, "new text")
	require.NoError(t, err)
	require.True(t, res.Changed)
	got := st.Tasks()[0]
	require.Equal(t, "new text", got.Text)
	require.True(t, got.Completed)
}

func TestEdit_OtherMutationCancelsPendingEdit(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t, model.IndexStable)
	_, _ = c.Submit(ctx, "a")
	_, _ = c.Submit(ctx, "b")
	rows := c.Snapshot().Rows

	require.True(t, c.BeginEdit(rows[0].Ref))
	_, _ = c.Toggle(ctx, rows[1].Ref)
	require.False(t, c.IsEditing())

	res, err := c.CommitEdit(ctx, "ignored")
	require.NoError(t, err)
	require.False(t, res.Found)
}

func TestEdit_MutatingTheEditedRowKeepsEditUntilDeleted(t *testing.T) {
	ctx := context.Background()
	for _, mode := range []model.IndexMode{model.IndexStable, model.IndexLegacy} {
		c, st := newController(t, mode)
		_, _ = c.Submit(ctx, "a")
		_, _ = c.Submit(ctx, "b")
		ref := c.Snapshot().Rows[1].Ref

		require.True(t, c.BeginEdit(ref), mode)
		_, err := c.Toggle(ctx, ref)
		require.NoError(t, err)
		require.True(t, c.IsEditing(), "%s: toggling the edited row keeps the edit", mode)
		snap := c.Snapshot()
		require.Equal(t, "b", snap.Draft)
		require.True(t, snap.Rows[1].Editing)

		res, err := c.CommitEdit(ctx, "b2")
		require.NoError(t, err)
		require.True(t, res.Changed)
		require.Equal(t, "b2", st.Tasks()[1].Text)
		require.True(t, st.Tasks()[1].Completed)

		require.True(t, c.BeginEdit(c.Snapshot().Rows[1].Ref))
		_, err = c.Delete(ctx, c.Snapshot().Rows[1].Ref)
		require.NoError(t, err)
		require.False(t, c.IsEditing(), "%s: deleting the edited row ends the edit", mode)
	}
}

func TestStableMode_NumericIDsInStoredListDoNotRouteByPosition(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, store.TasksKey, `[{"id":"1","text":"A"},{"id":"0","text":"B"}]`))

	st := store.Open(ctx, kv, store.Options{})
	c := New(st, Options{Mode: model.IndexStable})
	rows := c.Snapshot().Rows
	require.Equal(t, "A", rows[0].Text)

	res, err := c.Toggle(ctx, rows[0].Ref)
	require.NoError(t, err)
	require.Equal(t, "A", res.Task.Text)
	tasks := st.Tasks()
	require.True(t, tasks[0].Completed)
	require.False(t, tasks[1].Completed)
}

func TestBeginEdit_UnknownRef(t *testing.T) {
	c, _ := newController(t, model.IndexStable)
	require.False(t, c.BeginEdit("task-nope"))
	require.False(t, c.BeginEdit("7"))
	require.False(t, c.IsEditing())
}

func TestStaleRefs_AreNoOps(t *testing.T) {
	ctx := context.Background()
	c, st := newController(t, model.IndexLegacy)
	_, _ = c.Submit(ctx, "a")

	for _, a := range []Action{{ActionToggle, "5"}, {ActionDelete, "5"}, {ActionEdit, "5"}, {ActionKind("zap"), "0"}} {
		res, err := c.Dispatch(ctx, a)
		require.NoError(t, err)
		require.False(t, res.Changed)
	}
	require.Equal(t, 1, st.Len())
	require.False(t, st.Tasks()[0].Completed)
}

func TestSelectFilter_StateMachine(t *testing.T) {
	c, _ := newController(t, model.IndexStable)
	require.Equal(t, model.FilterAll, c.Selected())

	require.True(t, c.SelectFilter("active"))
	require.Equal(t, model.FilterActive, c.Selected())

	require.False(t, c.SelectFilter("bogus"))
	require.Equal(t, model.FilterActive, c.Selected(), "invalid selection keeps the current state")

	require.True(t, c.SelectFilter("all"))
	require.Equal(t, model.FilterAll, c.Snapshot().Filter)
}

func TestRefresh_PicksUpChangesFromSharedStore(t *testing.T) {
	ctx := context.Background()
	st := store.New(store.NewMemoryKV(), store.Options{})
	a := New(st, Options{})
	b := New(st, Options{})

	_, _ = a.Submit(ctx, "from a")
	require.Empty(t, b.Snapshot().Rows)
	b.Refresh()
	require.Equal(t, []string{"from a"}, rowTexts(b.Snapshot()))
}

func TestReload_DropsEditOfDeletedTask(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	c := New(store.Open(ctx, kv, store.Options{}), Options{})
	_, _ = c.Submit(ctx, "doomed")
	require.True(t, c.BeginEdit(c.Snapshot().Rows[0].Ref))

	other := store.Open(ctx, kv, store.Options{})
	_, _ = other.Delete(ctx, store.RefIndex(0))

	c.Reload(ctx)
	require.False(t, c.IsEditing())
	require.Empty(t, c.Snapshot().Rows)
}
