package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingID      = errors.New("model: id is required")
	ErrMissingName    = errors.New("model: name is required")
	ErrMissingInstant = errors.New("model: created_at and due_date are required")
)

type SubTask struct {
	ID          string
	Name        string
	IsCompleted bool
	CreatedAt   time.Time
	DueDate     time.Time
}

func (s SubTask) Window() Window {
	return Window{CreatedAt: s.CreatedAt, DueDate: s.DueDate}
}

func (s SubTask) Validate() error {
	return validateRecord(s.ID, s.Name, s.CreatedAt, s.DueDate)
}

type Task struct {
	ID          string
	Name        string
	IsCompleted bool
	CreatedAt   time.Time
	DueDate     time.Time
	SubTasks    []SubTask
}

// OwnWindow is the stored window, authoritative only while the task has no
// subtasks.
func (t Task) OwnWindow() Window {
	return Window{CreatedAt: t.CreatedAt, DueDate: t.DueDate}
}

// EffectiveWindow spans the earliest subtask start to the latest subtask due
// instant. The boolean is false when there are no subtasks, in which case the
// stored window is returned and no duration semantics apply.
func (t Task) EffectiveWindow() (Window, bool) {
	if len(t.SubTasks) == 0 {
		return t.OwnWindow(), false
	}
	w := t.SubTasks[0].Window()
	for _, st := range t.SubTasks[1:] {
		if st.CreatedAt.Before(w.CreatedAt) {
			w.CreatedAt = st.CreatedAt
		}
		if st.DueDate.After(w.DueDate) {
			w.DueDate = st.DueDate
		}
	}
	return w, true
}

func (t Task) SubTaskCount() int {
	return len(t.SubTasks)
}

func (t Task) FindSubTask(id string) (SubTask, bool) {
	for _, st := range t.SubTasks {
		if st.ID == id {
			return st, true
		}
	}
	return SubTask{}, false
}

func (t Task) Validate() error {
	if err := validateRecord(t.ID, t.Name, t.CreatedAt, t.DueDate); err != nil {
		return err
	}
	seen := make(map[string]bool, len(t.SubTasks))
	for _, st := range t.SubTasks {
		if err := st.Validate(); err != nil {
			return err
		}
		if seen[st.ID] {
			return errors.New("model: duplicate subtask id " + st.ID)
		}
		seen[st.ID] = true
	}
	return nil
}

// Collection is the ordered root aggregate. It is replaced wholesale on every
// mutation.
type Collection []Task

func (c Collection) Index(id string) int {
	for i, t := range c {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (c Collection) Find(id string) (Task, bool) {
	if i := c.Index(id); i >= 0 {
		return c[i], true
	}
	return Task{}, false
}

func (c Collection) HasID(id string) bool {
	return c.Index(id) >= 0
}

func validateRecord(id, name string, created, due time.Time) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(name) == "" {
		return ErrMissingName
	}
	if created.IsZero() || due.IsZero() {
		return ErrMissingInstant
	}
	return nil
}
