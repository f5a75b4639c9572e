package update

import (
	"fmt"

	"github.com/sandeepkv93/tasktimer/internal/model"
	taskprogress "github.com/sandeepkv93/tasktimer/internal/progress"
	"github.com/sandeepkv93/tasktimer/internal/views"
)

func (m Model) renderTaskList() string {
	rows := m.Rows()
	data := make([]views.TaskRowData, 0, len(rows))
	for i, r := range rows {
		t, ok := m.Tasks.Find(r.TaskID)
		if !ok {
			continue
		}
		if r.IsSubTask() {
			st, ok := t.FindSubTask(r.SubTaskID)
			if !ok {
				continue
			}
			data = append(data, m.subTaskRow(st, i == m.Cursor))
			continue
		}
		data = append(data, m.taskRow(t, i == m.Cursor))
	}
	return views.RenderTaskList(data)
}

func (m Model) taskRow(t model.Task, selected bool) views.TaskRowData {
	p := taskprogress.ForTask(t, m.Now)
	return views.TaskRowData{
		Selected:  selected,
		Checked:   t.IsCompleted,
		Name:      t.Name,
		Badge:     t.SubTaskCount(),
		Expanded:  m.Expanded[t.ID],
		Bar:       views.RenderBar(m.bar, p.Percent, string(p.Tier)),
		Label:     p.Label,
		Tier:      string(p.Tier),
		IsSubTask: false,
	}
}

func (m Model) subTaskRow(st model.SubTask, selected bool) views.TaskRowData {
	p := taskprogress.ForSubTask(st, m.Now)
	return views.TaskRowData{
		Selected:  selected,
		Checked:   st.IsCompleted,
		Name:      st.Name,
		Bar:       views.RenderBar(m.bar, p.Percent, string(p.Tier)),
		Label:     p.Label,
		Tier:      string(p.Tier),
		IsSubTask: true,
	}
}

func (m Model) renderOverlay() string {
	switch m.Mode {
	case ModeAddTask, ModeAddSubTaskName, ModeRename:
		return views.RenderInputPanel(inputTitle(m.Mode), m.nameInput.View())
	case ModeAddSubTaskDue:
		units := make([]string, 0, len(model.DueUnits))
		for _, u := range model.DueUnits {
			units = append(units, string(u))
		}
		sel := m.Picker.Selection()
		return views.RenderDuePicker(views.DuePickerData{
			Name:     m.draftName,
			Units:    units,
			UnitIdx:  m.Picker.UnitIdx,
			Value:    sel.Value,
			Resolved: sel.Resolve(m.Now).Local().Format("Mon Jan 2 15:04"),
		})
	case ModeConfirmDelete:
		if m.pending == nil {
			return ""
		}
		what := "task"
		if m.pending.SubTaskID != "" {
			what = "subtask"
		}
		return views.RenderConfirm(fmt.Sprintf("Delete %s?", what), m.pending.Name)
	}
	if m.Palette.Active {
		return views.RenderCommandPalette(m.commandInput.View())
	}
	return ""
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, fmt.Sprintf("%s: %s", n.Title, n.Body))
}

func inputTitle(mode Mode) string {
	switch mode {
	case ModeAddSubTaskName:
		return "New subtask"
	case ModeRename:
		return "Rename task"
	default:
		return "New task"
	}
}
