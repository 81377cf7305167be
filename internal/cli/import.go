package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tasktrack/internal/model"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newImportCmd(app *App) *cobra.Command {
	var from string
	var appendTasks bool
	var noBackup bool

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace (or extend) the list from a JSON or YAML task array",
		Long: strings.TrimSpace(`
Import a task array. Both the current {id,text,completed,...} entries and the legacy
{text,completed} entries written by the browser app are accepted; entries without an
id get a fresh one and entries with empty text are dropped.

Unless --no-backup is given, the list being replaced is saved under <dir>/backups first.
`),
		Example: strings.TrimSpace(`
tasktrack import tasks.json
tasktrack import --append more.yaml
cat legacy.json | tasktrack import -
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := strings.TrimSpace(args[0])
			var raw []byte
			var err error
			if src == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(src)
			}
			if err != nil {
				return writeErr(cmd, fmt.Errorf("import: %w", err))
			}

			kind := strings.ToLower(strings.TrimSpace(from))
			if kind == "" {
				kind = importKindFromPath(src)
			}
			incoming, err := decodeImport(raw, kind)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("import: %w", err))
			}

			st, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			backupPath := ""
			if !noBackup && st.Len() > 0 {
				backupPath, err = st.Backup(app.Dir)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("import: backup: %w", err))
				}
			}

			next := incoming
			if appendTasks {
				next = append(st.Tasks(), incoming...)
			}
			if err := st.Replace(cmd.Context(), next); err != nil {
				return writeErr(cmd, fmt.Errorf("import: %w", err))
			}

			meta := map[string]any{"appended": appendTasks}
			if backupPath != "" {
				meta["backup"] = backupPath
			}
			return writeOut(cmd, app, envelope{
				Data: map[string]any{
					"read":   len(incoming),
					"total":  st.Len(),
					"active": st.ActiveCount(),
				},
				Meta: meta,
				md:   fmt.Sprintf("Imported %d tasks (%d total).\n", len(incoming), st.Len()),
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Input format (json|yaml); default: by file extension")
	cmd.Flags().BoolVar(&appendTasks, "append", false, "Append to the current list instead of replacing it")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the backup of the list being replaced")
	return cmd
}

func importKindFromPath(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// decodeImport reads a task array. YAML is normalized through JSON so field names match
// the persisted layout (createdAt, updatedAt).
func decodeImport(raw []byte, kind string) ([]model.Task, error) {
	switch kind {
	case "json":
	case "yaml", "yml":
		var x any
		if err := yaml.Unmarshal(raw, &x); err != nil {
			return nil, err
		}
		b, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		raw = b
	default:
		return nil, fmt.Errorf("unknown import format: %s (expected json|yaml)", kind)
	}
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
