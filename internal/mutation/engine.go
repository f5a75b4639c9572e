// Package mutation holds the state transitions over a task collection. Every
// operation takes the prior collection and returns the next one; the input is
// never modified, so callers can persist or discard the result freely.
package mutation

import (
	"errors"
	"strings"
	"time"

	"github.com/sandeepkv93/tasktimer/internal/clock"
	"github.com/sandeepkv93/tasktimer/internal/ids"
	"github.com/sandeepkv93/tasktimer/internal/model"
)

var (
	ErrEmptyName      = errors.New("mutation: name is required")
	ErrParentNotFound = errors.New("mutation: parent task not found")
	ErrInvalidDueDate = errors.New("mutation: due date is required")
)

// Windows substituted when a repeated item has a zero or negative duration.
const (
	SubTaskFallback = time.Hour
	TaskFallback    = 24 * time.Hour
)

type Engine struct {
	clock clock.Clock
	ids   ids.Source
}

func New(c clock.Clock, src ids.Source) Engine {
	if c == nil {
		c = clock.System{}
	}
	if src == nil {
		src = ids.UUIDSource{}
	}
	return Engine{clock: c, ids: src}
}

// AddTask appends an empty task whose window starts and ends now. A blank name
// leaves the collection unchanged and reports ErrEmptyName.
func (e Engine) AddTask(c model.Collection, name string) (model.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return c, ErrEmptyName
	}
	now := e.clock.Now()
	task := model.Task{
		ID:        ids.Unique(e.ids, c.HasID),
		Name:      name,
		CreatedAt: now,
		DueDate:   now,
	}
	return appendTask(c, task), nil
}

func (e Engine) DeleteTask(c model.Collection, taskID string) model.Collection {
	i := c.Index(taskID)
	if i < 0 {
		return c
	}
	next := make(model.Collection, 0, len(c)-1)
	next = append(next, c[:i]...)
	return append(next, c[i+1:]...)
}

func (e Engine) ToggleTask(c model.Collection, taskID string) model.Collection {
	i := c.Index(taskID)
	if i < 0 {
		return c
	}
	task := c[i]
	task.IsCompleted = !task.IsCompleted
	return replaceTask(c, i, task)
}

func (e Engine) RenameTask(c model.Collection, taskID, name string) (model.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return c, ErrEmptyName
	}
	i := c.Index(taskID)
	if i < 0 {
		return c, nil
	}
	task := c[i]
	task.Name = name
	return replaceTask(c, i, task), nil
}

// AddSubTask appends a subtask created now and due at the given instant.
func (e Engine) AddSubTask(c model.Collection, taskID, name string, due time.Time) (model.Collection, error) {
	i := c.Index(taskID)
	if i < 0 {
		return c, ErrParentNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return c, ErrEmptyName
	}
	if due.IsZero() {
		return c, ErrInvalidDueDate
	}
	task := c[i]
	sub := model.SubTask{
		ID:        e.subTaskID(task),
		Name:      name,
		CreatedAt: e.clock.Now(),
		DueDate:   due.UTC(),
	}
	task.SubTasks = appendSubTask(task.SubTasks, sub)
	return replaceTask(c, i, task), nil
}

func (e Engine) DeleteSubTask(c model.Collection, taskID, subTaskID string) model.Collection {
	i := c.Index(taskID)
	if i < 0 {
		return c
	}
	task := c[i]
	j := subTaskIndex(task, subTaskID)
	if j < 0 {
		return c
	}
	subs := make([]model.SubTask, 0, len(task.SubTasks)-1)
	subs = append(subs, task.SubTasks[:j]...)
	task.SubTasks = append(subs, task.SubTasks[j+1:]...)
	return replaceTask(c, i, task)
}

func (e Engine) ToggleSubTask(c model.Collection, taskID, subTaskID string) model.Collection {
	i := c.Index(taskID)
	if i < 0 {
		return c
	}
	task := c[i]
	j := subTaskIndex(task, subTaskID)
	if j < 0 {
		return c
	}
	subs := append([]model.SubTask(nil), task.SubTasks...)
	subs[j].IsCompleted = !subs[j].IsCompleted
	task.SubTasks = subs
	return replaceTask(c, i, task)
}

// RepeatTask appends a fresh copy of a task anchored at now. Each subtask
// keeps its offset from the original task start and its own length.
func (e Engine) RepeatTask(c model.Collection, taskID string) model.Collection {
	orig, ok := c.Find(taskID)
	if !ok {
		return c
	}
	now := e.clock.Now()
	clone := model.Task{
		ID:        ids.Unique(e.ids, c.HasID),
		Name:      orig.Name,
		CreatedAt: now,
		DueDate:   now.Add(positiveOr(orig.OwnWindow().Duration(), TaskFallback)),
	}
	if len(orig.SubTasks) > 0 {
		clone.SubTasks = make([]model.SubTask, 0, len(orig.SubTasks))
	}
	for _, st := range orig.SubTasks {
		created := now.Add(st.CreatedAt.Sub(orig.CreatedAt))
		clone.SubTasks = append(clone.SubTasks, model.SubTask{
			ID:        e.subTaskID(clone),
			Name:      st.Name,
			CreatedAt: created,
			DueDate:   created.Add(positiveOr(st.Window().Duration(), SubTaskFallback)),
		})
	}
	return appendTask(c, clone)
}

// RepeatSubTask appends a fresh copy of a subtask to the same parent, starting
// now and lasting as long as the original did.
func (e Engine) RepeatSubTask(c model.Collection, taskID, subTaskID string) model.Collection {
	i := c.Index(taskID)
	if i < 0 {
		return c
	}
	task := c[i]
	orig, ok := task.FindSubTask(subTaskID)
	if !ok {
		return c
	}
	now := e.clock.Now()
	clone := model.SubTask{
		ID:        e.subTaskID(task),
		Name:      orig.Name,
		CreatedAt: now,
		DueDate:   now.Add(positiveOr(orig.Window().Duration(), SubTaskFallback)),
	}
	task.SubTasks = appendSubTask(task.SubTasks, clone)
	return replaceTask(c, i, task)
}

func (e Engine) subTaskID(parent model.Task) string {
	return ids.Unique(e.ids, func(id string) bool {
		_, taken := parent.FindSubTask(id)
		return taken
	})
}

func positiveOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

func appendTask(c model.Collection, t model.Task) model.Collection {
	next := make(model.Collection, len(c), len(c)+1)
	copy(next, c)
	return append(next, t)
}

func replaceTask(c model.Collection, i int, t model.Task) model.Collection {
	next := make(model.Collection, len(c))
	copy(next, c)
	next[i] = t
	return next
}

func appendSubTask(subs []model.SubTask, st model.SubTask) []model.SubTask {
	next := make([]model.SubTask, len(subs), len(subs)+1)
	copy(next, subs)
	return append(next, st)
}

func subTaskIndex(t model.Task, id string) int {
	for i, st := range t.SubTasks {
		if st.ID == id {
			return i
		}
	}
	return -1
}
