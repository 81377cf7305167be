package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"tasktrack/internal/model"
)

// Store owns the ordered task list and mirrors it into a KV backend.
//
// Every successful mutation is followed by exactly one Save (write-through, no coalescing).
// Store is not safe for concurrent use; callers that share it across goroutines must
// serialize access.
type Store struct {
	kv     KV
	logger *slog.Logger
	now    func() time.Time

	tasks []model.Task
}

type Options struct {
	Logger *slog.Logger
	// Now overrides the clock used for createdAt/updatedAt (tests).
	Now func() time.Time
}

// Result describes the outcome of a mutation.
type Result struct {
	Task model.Task
	// Found is false when the ref did not name a task in the current list.
	Found bool
	// Changed is true when the list was modified (and persisted).
	Changed bool
}

func New(kv KV, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if kv == nil {
		kv = NewMemoryKV()
	}
	return &Store{kv: kv, logger: logger, now: now, tasks: []model.Task{}}
}

// Open creates a store over kv and loads the persisted list.
func Open(ctx context.Context, kv KV, opts Options) *Store {
	s := New(kv, opts)
	s.Load(ctx)
	return s
}

// Load replaces the in-memory list with the persisted one.
//
// It never fails: an absent key, malformed value or unavailable backend all yield an
// empty list. Malformed data is discarded, not repaired.
func (s *Store) Load(ctx context.Context) []model.Task {
	raw, ok, err := s.kv.Get(ctx, TasksKey)
	switch {
	case err != nil:
		s.logger.Warn("task storage unavailable; starting empty", slog.String("error", err.Error()))
		s.tasks = []model.Task{}
	case !ok:
		s.tasks = []model.Task{}
	default:
		tasks, derr := decodeTasks(raw)
		if derr != nil {
			s.logger.Debug("discarding malformed task state", slog.String("error", derr.Error()))
			tasks = []model.Task{}
		}
		s.tasks = tasks
	}
	return s.Tasks()
}

// Save writes the full ordered list under TasksKey, replacing any prior value.
func (s *Store) Save(ctx context.Context) error {
	b, err := encodeTasks(s.tasks)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, TasksKey, string(b)); err != nil {
		s.logger.Warn("saving tasks failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) ActiveCount() int {
	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Resolve returns the position of the task named by ref in the unfiltered list.
func (s *Store) Resolve(ref Ref) (int, bool) {
	if ref.IsIndex() {
		if ref.Index < 0 || ref.Index >= len(s.tasks) {
			return -1, false
		}
		return ref.Index, true
	}
	if ref.ID == "" {
		return -1, false
	}
	for i := range s.tasks {
		if s.tasks[i].ID == ref.ID {
			return i, true
		}
	}
	return -1, false
}

func (s *Store) Get(ref Ref) (model.Task, bool) {
	i, ok := s.Resolve(ref)
	if !ok {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

// Add appends a new incomplete task. Whitespace-only text is a no-op.
func (s *Store) Add(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, nil
	}
	now := s.now()
	t := model.Task{
		ID:        nextTaskID(s.tasks),
		Text:      text,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tasks = append(s.tasks, t)
	s.logger.Debug("task added", slog.String("id", t.ID))
	return Result{Task: t, Found: true, Changed: true}, s.Save(ctx)
}

// Delete removes the task named by ref; later tasks shift down by one.
func (s *Store) Delete(ctx context.Context, ref Ref) (Result, error) {
	i, ok := s.Resolve(ref)
	if !ok {
		s.logger.Debug("delete: no such task", slog.String("ref", ref.String()))
		return Result{}, nil
	}
	t := s.tasks[i]
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.logger.Debug("task deleted", slog.String("id", t.ID))
	return Result{Task: t, Found: true, Changed: true}, s.Save(ctx)
}

// Edit replaces the text of the task named by ref. Whitespace-only text leaves it unchanged.
func (s *Store) Edit(ctx context.Context, ref Ref, text string) (Result, error) {
	i, ok := s.Resolve(ref)
	if !ok {
		s.logger.Debug("edit: no such task", slog.String("ref", ref.String()))
		return Result{}, nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Task: s.tasks[i], Found: true}, nil
	}
	s.tasks[i].Text = text
	s.tasks[i].UpdatedAt = s.now()
	return Result{Task: s.tasks[i], Found: true, Changed: true}, s.Save(ctx)
}

// Toggle flips the completed flag of the task named by ref.
func (s *Store) Toggle(ctx context.Context, ref Ref) (Result, error) {
	i, ok := s.Resolve(ref)
	if !ok {
		s.logger.Debug("toggle: no such task", slog.String("ref", ref.String()))
		return Result{}, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.tasks[i].UpdatedAt = s.now()
	return Result{Task: s.tasks[i], Found: true, Changed: true}, s.Save(ctx)
}

// Replace swaps the whole list (import). Entries are normalized the same way Load does.
func (s *Store) Replace(ctx context.Context, tasks []model.Task) error {
	s.tasks = normalizeTasks(tasks)
	return s.Save(ctx)
}

// MustFind is like Get but reports a NotFoundError.
func (s *Store) MustFind(ref Ref) (model.Task, error) {
	t, ok := s.Get(ref)
	if !ok {
		return model.Task{}, errTaskNotFound(ref)
	}
	return t, nil
}

func encodeTasks(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return json.Marshal(tasks)
}

// decodeTasks accepts both the current {id,text,completed,...} entries and the legacy
// {text,completed} entries written by the browser app.
func decodeTasks(raw string) ([]model.Task, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return []model.Task{}, nil
	}
	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, err
	}
	return normalizeTasks(tasks), nil
}

// normalizeTasks trims text, drops empty entries and assigns ids to entries missing one,
// sharing one with an earlier entry, or carrying one that ParseRef would read as a position.
func normalizeTasks(in []model.Task) []model.Task {
	out := make([]model.Task, 0, len(in))
	for _, t := range in {
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			continue
		}
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" || ParseRef(t.ID).IsIndex() || idExists(out, t.ID) {
			t.ID = nextTaskID(out)
		}
		out = append(out, t)
	}
	return out
}
