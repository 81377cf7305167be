// Package publish writes the task list out as a tree of markdown files.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"tasktrack/internal/model"
)

type WriteOptions struct {
	Filter    model.Filter
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteTask writes <toDir>/tasks/<id>.md for the task at index.
func WriteTask(tasks []model.Task, index int, toDir string, opt WriteOptions) (WriteResult, error) {
	if index < 0 || index >= len(tasks) {
		return WriteResult{}, errors.New("task index out of range")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	t := tasks[index]
	outDir := filepath.Join(toDir, "tasks")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, t.ID+".md")
	if err := writeFile(outPath, []byte(RenderTaskMarkdown(t, index)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

// WriteList writes <toDir>/index.md and one page per task visible under opt.Filter.
func WriteList(tasks []model.Task, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	tasksDir := filepath.Join(toDir, "tasks")
	if err := os.MkdirAll(tasksDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexMD := RenderIndexMarkdown(tasks, RenderOptions{Filter: opt.Filter, LinkTasks: true})
	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(indexMD), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stops on the first error; files already written stay.
	written := []string{indexPath}
	for i, t := range tasks {
		if !opt.Filter.Match(t) {
			continue
		}
		p := filepath.Join(tasksDir, t.ID+".md")
		if err := writeFile(p, []byte(RenderTaskMarkdown(t, i)), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}

	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
