package update

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/mutation"
	taskprogress "github.com/sandeepkv93/tasktimer/internal/progress"
)

var ErrNoSelection = errors.New("update: nothing selected")

// commit installs next as the collection and writes it through to the store.
// A failed write keeps the in-memory state and reports it on the status bar.
func (m *Model) commit(next model.Collection, okText string) {
	m.Tasks = next
	m.pruneExpanded()
	m.clampCursor()
	if err := m.store.Save(context.Background(), next); err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: fmt.Sprintf("save failed: %v", err), IsError: true}
		m.logger.Error("persist tasks", "error", err, "count", len(next))
		return
	}
	m.logger.Debug("tasks saved", "count", len(next))
	if okText != "" {
		m.Status = StatusBar{Text: okText}
	}
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	if !isValidation(err) {
		m.logger.Warn("mutation rejected", "error", err)
	}
}

func (m *Model) addTask(name string) error {
	next, err := m.engine.AddTask(m.Tasks, name)
	if err != nil {
		m.fail(err)
		return err
	}
	m.commit(next, fmt.Sprintf("added task: %s", next[len(next)-1].Name))
	m.focusRow(Row{TaskID: next[len(next)-1].ID})
	return nil
}

func (m *Model) addSubTask(taskID, name string, sel model.DueSelection) error {
	if err := sel.Validate(); err != nil {
		m.fail(err)
		return err
	}
	next, err := m.engine.AddSubTask(m.Tasks, taskID, name, sel.Resolve(m.clock.Now()))
	if err != nil {
		m.fail(err)
		return err
	}
	parent, _ := next.Find(taskID)
	added := parent.SubTasks[len(parent.SubTasks)-1]
	m.Expanded[taskID] = true
	m.commit(next, fmt.Sprintf("added subtask: %s (%s)", added.Name, sel))
	m.focusRow(Row{TaskID: taskID, SubTaskID: added.ID})
	return nil
}

func (m *Model) renameTask(taskID, name string) error {
	next, err := m.engine.RenameTask(m.Tasks, taskID, name)
	if err != nil {
		m.fail(err)
		return err
	}
	m.commit(next, "task renamed")
	return nil
}

func (m *Model) toggleSelected() error {
	r, ok := m.selectedRow()
	if !ok {
		return ErrNoSelection
	}
	if r.IsSubTask() {
		m.commit(m.engine.ToggleSubTask(m.Tasks, r.TaskID, r.SubTaskID), "")
	} else {
		m.commit(m.engine.ToggleTask(m.Tasks, r.TaskID), "")
	}
	m.focusRow(r)
	return nil
}

func (m *Model) repeatSelected() error {
	r, ok := m.selectedRow()
	if !ok {
		return ErrNoSelection
	}
	if r.IsSubTask() {
		next := m.engine.RepeatSubTask(m.Tasks, r.TaskID, r.SubTaskID)
		parent, _ := next.Find(r.TaskID)
		if len(parent.SubTasks) == 0 {
			return nil
		}
		clone := parent.SubTasks[len(parent.SubTasks)-1]
		m.commit(next, fmt.Sprintf("repeated subtask: %s", clone.Name))
		m.focusRow(Row{TaskID: r.TaskID, SubTaskID: clone.ID})
		return nil
	}
	next := m.engine.RepeatTask(m.Tasks, r.TaskID)
	if len(next) == len(m.Tasks) {
		return nil
	}
	clone := next[len(next)-1]
	m.commit(next, fmt.Sprintf("repeated task: %s", clone.Name))
	m.focusRow(Row{TaskID: clone.ID})
	return nil
}

// requestDelete opens the confirmation dialog; nothing is removed yet.
func (m *Model) requestDelete() error {
	r, ok := m.selectedRow()
	if !ok {
		return ErrNoSelection
	}
	t, ok := m.Tasks.Find(r.TaskID)
	if !ok {
		return ErrNoSelection
	}
	target := &deleteTarget{TaskID: t.ID, Name: t.Name}
	if r.IsSubTask() {
		st, ok := t.FindSubTask(r.SubTaskID)
		if !ok {
			return ErrNoSelection
		}
		target.SubTaskID = st.ID
		target.Name = st.Name
	}
	m.pending = target
	m.Mode = ModeConfirmDelete
	return nil
}

func (m *Model) confirmDelete() {
	target := m.pending
	m.pending = nil
	m.Mode = ModeBrowse
	if target == nil {
		return
	}
	if target.SubTaskID != "" {
		m.monitor.Latch().Forget(taskprogress.SubTaskKey(target.TaskID, target.SubTaskID))
		m.commit(m.engine.DeleteSubTask(m.Tasks, target.TaskID, target.SubTaskID), fmt.Sprintf("deleted subtask: %s", target.Name))
		return
	}
	if t, ok := m.Tasks.Find(target.TaskID); ok {
		keys := make([]string, 0, len(t.SubTasks))
		for _, st := range t.SubTasks {
			keys = append(keys, taskprogress.SubTaskKey(t.ID, st.ID))
		}
		m.monitor.Latch().Forget(keys...)
	}
	m.commit(m.engine.DeleteTask(m.Tasks, target.TaskID), fmt.Sprintf("deleted task: %s", target.Name))
}

func (m *Model) cancelDelete() {
	m.pending = nil
	m.Mode = ModeBrowse
	m.Status = StatusBar{Text: "delete cancelled"}
}

func isValidation(err error) bool {
	return errors.Is(err, mutation.ErrEmptyName) ||
		errors.Is(err, mutation.ErrInvalidDueDate) ||
		errors.Is(err, model.ErrInvalidDueUnit) ||
		errors.Is(err, model.ErrInvalidDueValue)
}
