package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	taskprogress "github.com/sandeepkv93/tasktimer/internal/progress"
)

const maxNotifications = 20

func (m Model) frameCmd() tea.Cmd {
	c := m.clock
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg { return FrameMsg{Now: c.Now()} })
}

// onFrame advances the clock reading, runs the alert latch over every
// subtask and schedules the next frame.
func (m Model) onFrame(msg FrameMsg) (tea.Model, tea.Cmd) {
	m.Now = msg.Now
	frame := m.monitor.Evaluate(m.Tasks, m.Now, !m.Interacted)
	if len(frame.Fired) == 0 {
		return m, m.frameCmd()
	}
	for _, n := range frame.Fired {
		m.notify(n.Title(), n.Body(), "warn")
	}
	m.Status = StatusBar{Text: fmt.Sprintf("time's up: %s", frame.Fired[len(frame.Fired)-1].Body()), IsError: true}
	return m, tea.Batch(m.frameCmd(), signalCmd(m.monitor, frame.Fired))
}

// signalCmd runs the alert outputs off the update loop.
func signalCmd(mon *taskprogress.Monitor, notices []taskprogress.Notice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mon.Signal(ctx, notices)
		return AlertsSignaledMsg{Notices: notices}
	}
}

func (m *Model) notify(title, body, level string) {
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.Now,
	})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}
