package update

import "github.com/sandeepkv93/tasktimer/internal/model"

// Row is one visible line: a task, or a subtask of an expanded task.
type Row struct {
	TaskID    string
	SubTaskID string
}

func (r Row) IsSubTask() bool {
	return r.SubTaskID != ""
}

func (m Model) Rows() []Row {
	out := make([]Row, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		out = append(out, Row{TaskID: t.ID})
		if !m.Expanded[t.ID] {
			continue
		}
		for _, st := range t.SubTasks {
			out = append(out, Row{TaskID: t.ID, SubTaskID: st.ID})
		}
	}
	return out
}

func (m Model) selectedRow() (Row, bool) {
	rows := m.Rows()
	if m.Cursor < 0 || m.Cursor >= len(rows) {
		return Row{}, false
	}
	return rows[m.Cursor], true
}

func (m Model) selectedTask() (model.Task, bool) {
	r, ok := m.selectedRow()
	if !ok {
		return model.Task{}, false
	}
	return m.Tasks.Find(r.TaskID)
}

func (m *Model) moveCursor(delta int) {
	m.Cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.Rows())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// focusRow moves the cursor onto r if it is visible.
func (m *Model) focusRow(r Row) {
	for i, candidate := range m.Rows() {
		if candidate == r {
			m.Cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) toggleExpanded() {
	r, ok := m.selectedRow()
	if !ok {
		return
	}
	m.Expanded[r.TaskID] = !m.Expanded[r.TaskID]
	m.focusRow(Row{TaskID: r.TaskID})
}

// pruneExpanded forgets expansion state for tasks that no longer exist.
func (m *Model) pruneExpanded() {
	for id := range m.Expanded {
		if !m.Tasks.HasID(id) {
			delete(m.Expanded, id)
		}
	}
}
