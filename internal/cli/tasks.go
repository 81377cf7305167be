package cli

import (
	"fmt"
	"strings"

	"tasktrack/internal/model"
	"tasktrack/internal/render"
	"tasktrack/internal/store"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func taskMarkdown(t model.Task) string {
	return render.ChecklistLine(t.Text, t.Completed)
}

func taskEnvelope(st *store.Store, t model.Task, meta map[string]any) envelope {
	if meta == nil {
		meta = map[string]any{}
	}
	if i, ok := st.Resolve(store.RefID(t.ID)); ok {
		meta["index"] = i
	}
	meta["counter"] = render.CounterLabel(st.ActiveCount())
	return envelope{Data: t, Meta: meta, md: taskMarkdown(t)}
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			res, err := st.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, fmt.Errorf("add: %w", err))
			}
			if !res.Changed {
				return writeOut(cmd, app, envelope{
					Data:  nil,
					Meta:  map[string]any{"added": false},
					Hints: []string{"task text is empty after trimming; nothing was added"},
					md:    "_Nothing added._\n",
				})
			}
			return writeOut(cmd, app, taskEnvelope(st, res.Task, map[string]any{"added": true}))
		},
	}
}

func newLsCmd(app *App) *cobra.Command {
	var filter string
	var renderMD bool
	var style string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Example: strings.TrimSpace(`
tasktrack ls
tasktrack ls --filter active --format md
tasktrack ls --render
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := model.ParseFilter(filter)
			if !ok {
				return writeErr(cmd, fmt.Errorf("invalid --filter: %q (expected all|active|completed)", filter))
			}
			mode, _ := app.indexMode()

			st, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			view := render.Render(st.Tasks(), f, mode)
			md := render.Markdown(view)

			if renderMD {
				out, err := renderMarkdown(md, style)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}

			return writeOut(cmd, app, envelope{
				Data: view,
				Meta: map[string]any{
					"mode":    mode,
					"counter": render.CounterLabel(view.Counter),
				},
				md: md,
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "Filter (all|active|completed)")
	cmd.Flags().BoolVar(&renderMD, "render", false, "Render the list as styled markdown for the terminal (ignores --format)")
	cmd.Flags().StringVar(&style, "style", envOr("TASKTRACK_MD_STYLE", "dark"), "Markdown style for --render (dark|light|notty|ascii|dracula|pink)")
	return cmd
}

func renderMarkdown(md, style string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ref>",
		Short: "Show one task by id or position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			t, err := st.MustFind(store.ParseRef(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, taskEnvelope(st, t, nil))
		},
	}
}

// mutationCmd runs a ref-addressed store mutation and reports unknown refs as errors.
func mutationCmd(app *App, cmd *cobra.Command, op string, ref string, fn func(st *store.Store, r store.Ref) (store.Result, error)) error {
	st, closeStore, err := openStore(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeStore()

	r := store.ParseRef(ref)
	res, err := fn(st, r)
	if err != nil {
		return writeErr(cmd, fmt.Errorf("%s: %w", op, err))
	}
	if !res.Found {
		return writeErr(cmd, store.NotFoundError{Kind: "task", Ref: r.String()})
	}
	return writeOut(cmd, app, taskEnvelope(st, res.Task, map[string]any{"changed": res.Changed}))
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <ref>",
		Short: "Flip a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutationCmd(app, cmd, "toggle", args[0], func(st *store.Store, r store.Ref) (store.Result, error) {
				return st.Toggle(cmd.Context(), r)
			})
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <ref> <text...>",
		Short: "Replace a task's text (whitespace-only text leaves it unchanged)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return mutationCmd(app, cmd, "edit", args[0], func(st *store.Store, r store.Ref) (store.Result, error) {
				return st.Edit(cmd.Context(), r, text)
			})
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Delete a task; later tasks shift down by one",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			r := store.ParseRef(args[0])
			res, err := st.Delete(cmd.Context(), r)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("rm: %w", err))
			}
			if !res.Found {
				return writeErr(cmd, store.NotFoundError{Kind: "task", Ref: r.String()})
			}
			return writeOut(cmd, app, envelope{
				Data: res.Task,
				Meta: map[string]any{
					"deleted": true,
					"counter": render.CounterLabel(st.ActiveCount()),
				},
				md: "Deleted: " + res.Task.Text + "\n",
			})
		},
	}
}

func newCountCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of incomplete tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			active := st.ActiveCount()
			label := render.CounterLabel(active)
			return writeOut(cmd, app, envelope{
				Data: map[string]any{
					"active": active,
					"total":  st.Len(),
					"label":  label,
				},
				md: label + "\n",
			})
		},
	}
}
