package cli

import (
	"fmt"
	"strings"

	"tasktrack/internal/model"
	"tasktrack/internal/publish"
	"tasktrack/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var to string
	var filter string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export [ref]",
		Short: "Write the list (or one task) as markdown files",
		Long: strings.TrimSpace(`
Write <to>/index.md (a linked checklist) plus <to>/tasks/<id>.md for every task
visible under --filter. With a ref, only that task's page is written.
Existing files are kept unless --overwrite is given.
`),
		Example: strings.TrimSpace(`
tasktrack export --to ./site
tasktrack export --to ./site --filter active --overwrite
tasktrack export 0 --to ./site
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := model.ParseFilter(filter)
			if !ok {
				return writeErr(cmd, fmt.Errorf("invalid --filter: %q (expected all|active|completed)", filter))
			}

			st, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			opt := publish.WriteOptions{Filter: f, Overwrite: overwrite}
			var res publish.WriteResult
			if len(args) == 1 {
				r := store.ParseRef(args[0])
				i, ok := st.Resolve(r)
				if !ok {
					return writeErr(cmd, store.NotFoundError{Kind: "task", Ref: r.String()})
				}
				res, err = publish.WriteTask(st.Tasks(), i, to, opt)
			} else {
				res, err = publish.WriteList(st.Tasks(), to, opt)
			}
			if err != nil {
				return writeErr(cmd, fmt.Errorf("export: %w", err))
			}

			var md strings.Builder
			for _, p := range res.Written {
				md.WriteString("- " + p + "\n")
			}
			return writeOut(cmd, app, envelope{
				Data: res,
				Meta: map[string]any{"filter": f, "count": len(res.Written)},
				md:   md.String(),
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().StringVar(&filter, "filter", "all", "Filter (all|active|completed)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
