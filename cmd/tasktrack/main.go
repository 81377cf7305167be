package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tasktrack/internal/cli"
)

func isTaskID(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "task-") {
		return false
	}
	// Keep it permissive; ids are generated but users may paste variants.
	return len(s) > len("task-")
}

// rewriteDirectTaskLookupArgs makes `tasktrack <task-id>` work like `tasktrack show <task-id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may come first (`tasktrack --dir ... <task-id>`), so we look for the first
// positional token, not just argv[1].
func rewriteDirectTaskLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Flags we don't recognize are skipped without consuming a value, so the id is never eaten.
	valueFlags := map[string]bool{
		"--dir":        true,
		"--backend":    true,
		"--index-mode": true,
		"--format":     true,
		"--log-level":  true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insertShow := func(at int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:at]...)
		out = append(out, "show")
		out = append(out, argv[at:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isTaskID(argv[i+1]) {
				return insertShow(i + 1)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isTaskID(a) {
			return insertShow(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectTaskLookupArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	cmd.SetArgs(os.Args[1:])
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
