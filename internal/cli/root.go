package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"tasktrack/internal/controller"
	"tasktrack/internal/format"
	"tasktrack/internal/model"
	"tasktrack/internal/store"
	"tasktrack/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Backend    string
	IndexMode  string
	PrettyJSON bool
	Format     string
	LogLevel   string

	logger *slog.Logger
	cfg    *store.GlobalConfig
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tasktrack",
		Short:        "Single-list task tracker (TUI, web UI and scriptable CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tasktrack

  # Scriptable commands
  tasktrack add Buy milk
  tasktrack ls --filter active
  tasktrack toggle 0

  # Direct task lookup (shortcut for: tasktrack show <task-id>)
  tasktrack task-abcd2345

  # Serve the browser UI
  tasktrack web --addr 127.0.0.1:3336 --open
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TASKTRACK_DIR", ""), "Data directory (default: ~/.tasktrack/data)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("TASKTRACK_BACKEND", ""), "Storage backend (sqlite|json|memory)")
	cmd.PersistentFlags().StringVar(&app.IndexMode, "index-mode", envOr("TASKTRACK_INDEX_MODE", ""), "Row routing (stable|legacy)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKTRACK_FORMAT", "json"), "Output format (json|yaml|md)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TASKTRACK_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newLsCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newCountCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// init applies flag > env > config precedence and builds the logger.
func (app *App) init(cmd *cobra.Command) error {
	logger, err := newLogger(cmd.ErrOrStderr(), app.LogLevel)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.logger = logger

	cfg, err := store.LoadConfig()
	if err != nil {
		app.logger.Warn("ignoring unreadable config", slog.String("error", err.Error()))
		cfg = &store.GlobalConfig{}
	}
	app.cfg = cfg

	if strings.TrimSpace(app.Backend) == "" {
		app.Backend = cfg.Backend
	}
	if strings.TrimSpace(app.IndexMode) == "" {
		app.IndexMode = cfg.IndexMode
	}
	if !format.Valid(app.Format) {
		return writeErr(cmd, fmt.Errorf("invalid --format: %q (expected json|yaml|md)", app.Format))
	}
	if _, err := app.indexMode(); err != nil {
		return writeErr(cmd, err)
	}
	if _, err := store.ParseBackend(app.Backend); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func (app *App) backend() store.Backend {
	b, err := store.ParseBackend(app.Backend)
	if err != nil {
		return store.BackendSQLite
	}
	return b
}

func (app *App) indexMode() (model.IndexMode, error) {
	return model.ParseIndexMode(app.IndexMode)
}

func resolveDir(app *App) (string, error) {
	if d := strings.TrimSpace(app.Dir); d != "" {
		return d, nil
	}
	if app.cfg != nil && strings.TrimSpace(app.cfg.Dir) != "" {
		app.Dir = strings.TrimSpace(app.cfg.Dir)
		return app.Dir, nil
	}
	d, err := store.DefaultDataDir()
	if err != nil {
		return "", err
	}
	app.Dir = d
	return d, nil
}

// openStore opens the configured backend and loads the list. Unlike Load, which starts empty
// on a bad backend, a backend that cannot be opened at all is reported to the caller.
func openStore(ctx context.Context, app *App) (*store.Store, func(), error) {
	dir, err := resolveDir(app)
	if err != nil {
		return nil, nil, err
	}
	kv, err := store.OpenKV(ctx, app.backend(), dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage in %s: %w", app.backend(), dir, err)
	}
	st := store.Open(ctx, kv, store.Options{Logger: app.logger})
	closeFn := func() {
		if err := kv.Close(); err != nil {
			app.logger.Warn("closing task storage failed", slog.String("error", err.Error()))
		}
	}
	return st, closeFn, nil
}

// startWatcher watches the backend files for changes made by other processes. It never
// fails the command: without a watcher the UI just doesn't live-reload.
func startWatcher(ctx context.Context, app *App) (<-chan struct{}, func()) {
	if app.backend() == store.BackendMemory {
		return nil, func() {}
	}
	w, err := store.NewWatcher(store.WatcherConfig{Backend: app.backend(), Dir: app.Dir, Logger: app.logger})
	if err != nil {
		app.logger.Warn("storage watcher unavailable", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Close()
		app.logger.Warn("storage watcher unavailable", slog.String("error", err.Error()))
		return nil, func() {}
	}
	return w.Changes(), func() { _ = w.Close() }
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	st, closeStore, err := openStore(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeStore()

	mode, _ := app.indexMode()
	ctrl := controller.New(st, controller.Options{Mode: mode, Logger: app.logger})

	changes, stopWatch := startWatcher(ctx, app)
	defer stopWatch()

	opts := tui.Options{Logger: app.logger, Changes: changes}
	if app.cfg != nil && app.cfg.TUI != nil {
		opts.Glyphs = app.cfg.TUI.Glyphs
		opts.Accent = app.cfg.TUI.AccentColor
	}
	if err := tui.Run(ctx, ctrl, opts); err != nil && !errors.Is(err, context.Canceled) {
		return writeErr(cmd, err)
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
