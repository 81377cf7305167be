package cli

import (
	"fmt"
	"strings"

	"tasktrack/internal/docs"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var renderMD bool
	var style string

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Example: strings.TrimSpace(`
tasktrack docs
tasktrack docs refs --render
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				topics := docs.Topics()
				var md strings.Builder
				md.WriteString("# Topics\n\n")
				for _, t := range topics {
					md.WriteString("- " + t + "\n")
				}
				return writeOut(cmd, app, envelope{
					Data:  map[string]any{"topics": topics},
					Hints: []string{"tasktrack docs <topic>"},
					md:    md.String(),
				})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (available: %s)", topic, strings.Join(docs.Topics(), ", ")))
			}
			if renderMD {
				out, err := renderMarkdown(body, style)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			return writeOut(cmd, app, envelope{
				Data: map[string]any{"topic": strings.ToLower(strings.TrimSpace(topic)), "markdown": body},
				md:   body,
			})
		},
	}
	cmd.Flags().BoolVar(&renderMD, "render", false, "Render the topic as styled markdown for the terminal (ignores --format)")
	cmd.Flags().StringVar(&style, "style", envOr("TASKTRACK_MD_STYLE", "dark"), "Markdown style for --render (dark|light|notty|ascii|dracula|pink)")
	return cmd
}
