package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktimer/internal/views"
)

func (m Model) Init() tea.Cmd {
	return m.frameCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		m.Interacted = true
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.helpModel.Width = typed.Width
		m.helpViewport.Width = typed.Width - 4
		return m, nil
	case FrameMsg:
		return m.onFrame(typed)
	case AlertsSignaledMsg:
		m.logger.Debug("alerts signaled", "count", len(typed.Notices))
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.Mode {
	case ModeConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			m.confirmDelete()
		case "n", "N", "esc":
			m.cancelDelete()
		}
		return m, nil
	case ModeAddTask, ModeAddSubTaskName, ModeRename:
		return m.handleInputKey(msg), nil
	case ModeAddSubTaskDue:
		return m.handlePickerKey(msg), nil
	}

	if m.Palette.Active {
		return m.handlePaletteKey(msg), nil
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.ensureHelpRendered()
		}
		return m, nil
	case key.Matches(msg, m.Keys.Palette):
		return m.openPalette(), nil
	case key.Matches(msg, m.Keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.Keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.Keys.Expand):
		m.toggleExpanded()
	case key.Matches(msg, m.Keys.Toggle):
		_ = m.toggleSelected()
	case key.Matches(msg, m.Keys.Add):
		return m.beginAddTask(), nil
	case key.Matches(msg, m.Keys.AddSub):
		return m.beginAddSubTask(), nil
	case key.Matches(msg, m.Keys.Rename):
		return m.beginRename(), nil
	case key.Matches(msg, m.Keys.Repeat):
		_ = m.repeatSelected()
	case key.Matches(msg, m.Keys.Delete):
		_ = m.requestDelete()
	}
	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	done := 0
	for _, t := range m.Tasks {
		if t.IsCompleted {
			done++
		}
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("tasktimer | tasks: %d | done: %d", len(m.Tasks), done),
		Body:         m.renderTaskList(),
		Overlay:      m.renderOverlay(),
		Help:         m.renderHelpIfVisible(),
		StatusLine:   status,
		Notification: m.renderNotificationsView(),
		Footer:       m.helpModel.ShortHelpView(m.shortBindings()),
		Width:        m.width,
	})
}
