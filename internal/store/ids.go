package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"

	"tasktrack/internal/model"
)

const taskIDPrefix = "task"

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
// 8 chars base32 ~= 40 bits of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

func idExists(tasks []model.Task, id string) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// nextTaskID returns an id not used by any task in tasks.
func nextTaskID(tasks []model.Task) string {
	for i := 0; i < 10; i++ {
		id, err := newRandomID(taskIDPrefix)
		if err != nil {
			break
		}
		if !idExists(tasks, id) {
			return id
		}
	}
	// crypto/rand failed or we collided repeatedly; fall back to a positional id.
	n := len(tasks) + 1
	for {
		id := fmt.Sprintf("%s-%d", taskIDPrefix, n)
		if !idExists(tasks, id) {
			return id
		}
		n++
	}
}
