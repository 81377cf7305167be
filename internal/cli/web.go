package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"tasktrack/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the task list as a local web UI",
		Long: strings.TrimSpace(`
Serve the task list from a local HTTP server.

Every browser tab gets its own filter and edit state; the list itself is shared with
other tabs and with any CLI/TUI process using the same data directory. Open pages update
live over server-sent events.
`),
		Example: strings.TrimSpace(`
# Serve on localhost
tasktrack web --addr 127.0.0.1:3336

# Serve a specific data dir and open a browser
tasktrack --dir ./tasks web --open
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			st, closeStore, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			changes, stopWatch := startWatcher(ctx, app)
			defer stopWatch()

			mode, _ := app.indexMode()
			srv, err := web.NewServer(web.ServerConfig{
				Addr:    listenAddr,
				Store:   st,
				Mode:    mode,
				Changes: changes,
				Logger:  app.logger,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer srv.Close()

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}

			_ = writeOut(cmd, app, envelope{
				Data: map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"dir":       app.Dir,
					"backend":   string(app.backend()),
					"mode":      string(mode),
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				Hints: hints,
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "tasktrack web running at %s (dir=%s)\n", url, app.Dir)
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			httpSrv := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-ctx.Done()
				shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
				defer done()
				if err := httpSrv.Shutdown(shutdownCtx); err != nil {
					app.logger.Warn("web shutdown", slog.String("error", err.Error()))
				}
			}()
			if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3336", "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the UI in your default browser")
	return cmd
}
