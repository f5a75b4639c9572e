package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktimer/internal/mutation"
)

func (m *Model) startInput(mode Mode, prompt, initial string) {
	m.Mode = mode
	m.nameInput.Prompt = prompt
	m.nameInput.SetValue(initial)
	m.nameInput.CursorEnd()
	m.nameInput.Focus()
}

func (m *Model) stopInput() {
	m.Mode = ModeBrowse
	m.nameInput.SetValue("")
	m.nameInput.Blur()
}

func (m Model) beginAddTask() Model {
	m.startInput(ModeAddTask, "task> ", "")
	return m
}

func (m Model) beginAddSubTask() Model {
	t, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "add a task first", IsError: true}
		return m
	}
	m.parentID = t.ID
	m.draftName = ""
	m.startInput(ModeAddSubTaskName, "subtask> ", "")
	return m
}

func (m Model) beginRename() Model {
	t, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "nothing to rename", IsError: true}
		return m
	}
	m.parentID = t.ID
	m.startInput(ModeRename, "rename> ", t.Name)
	return m
}

// handleInputKey drives the single-line name editor shared by add, add
// subtask and rename.
func (m Model) handleInputKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.stopInput()
		m.Status = StatusBar{Text: "cancelled"}
		return m
	case "enter":
		return m.submitInput()
	}
	m.nameInput, _ = m.nameInput.Update(msg)
	return m
}

func (m Model) submitInput() Model {
	value := m.nameInput.Value()
	switch m.Mode {
	case ModeAddTask:
		if err := m.addTask(value); err != nil {
			return m
		}
		m.stopInput()
	case ModeAddSubTaskName:
		if _, ok := m.Tasks.Find(m.parentID); !ok {
			m.stopInput()
			m.Status = StatusBar{Text: "task no longer exists", IsError: true}
			return m
		}
		if strings.TrimSpace(value) == "" {
			m.fail(mutation.ErrEmptyName)
			return m
		}
		m.draftName = value
		m.nameInput.Blur()
		m.Mode = ModeAddSubTaskDue
		m.Picker = newDuePicker()
	case ModeRename:
		if err := m.renameTask(m.parentID, value); err != nil {
			return m
		}
		m.stopInput()
	}
	return m
}

func (m Model) handlePickerKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.stopInput()
		m.draftName = ""
		m.Status = StatusBar{Text: "cancelled"}
	case "left", "h":
		m.Picker.shiftUnit(-1)
	case "right", "l", "tab":
		m.Picker.shiftUnit(1)
	case "up", "k":
		m.Picker.shiftValue(1)
	case "down", "j":
		m.Picker.shiftValue(-1)
	case "enter":
		_ = m.addSubTask(m.parentID, m.draftName, m.Picker.Selection())
		m.stopInput()
		m.draftName = ""
	}
	return m
}
