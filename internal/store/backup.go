package store

import (
	"os"
	"path/filepath"
)

const backupDirName = "backups"

// Backup writes the current list to <dir>/backups/tasks-<utc timestamp>.json and returns
// the file path. It is taken before destructive operations such as import.
func (s *Store) Backup(dir string) (string, error) {
	b, err := encodeTasks(s.tasks)
	if err != nil {
		return "", err
	}
	backupDir := filepath.Join(dir, backupDirName)
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", err
	}
	name := "tasks-" + s.now().UTC().Format("20060102T150405.000000000Z") + ".json"
	path := filepath.Join(backupDir, name)
	if err := atomicWriteFile(backupDir, "tasks-*.json.tmp", path, append(b, '\n'), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
