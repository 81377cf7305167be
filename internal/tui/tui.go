package tui

import (
	"context"
	"log/slog"

	"tasktrack/internal/controller"
	"tasktrack/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Logger *slog.Logger

	// Changes, when set, signals that the persisted list changed on disk.
	Changes <-chan struct{}

	// Glyphs is "unicode" (default) or "ascii".
	Glyphs string

	Accent *store.AdaptiveColor
}

// Run starts the interactive TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, c *controller.Controller, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opts.Glyphs)
	applyAccentPreference(opts.Accent)

	m := newAppModel(ctx, c, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
