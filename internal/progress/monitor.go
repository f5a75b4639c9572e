package progress

import (
	"context"
	"log/slog"
	"time"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

// SubTaskKey identifies a subtask bar across frames.
func SubTaskKey(taskID, subTaskID string) string {
	return taskID + "/" + subTaskID
}

// Frame is one evaluation of every bar in a collection.
type Frame struct {
	Now      time.Time
	Tasks    map[string]Projection
	SubTasks map[string]Projection
	Fired    []Notice
}

// Monitor owns the alert latch and the alert output for one session. It is
// built once at startup and handed to whatever drives the redraw loop.
type Monitor struct {
	latch   *Latch
	alerter Alerter
	logger  *slog.Logger
}

func NewMonitor(alerter Alerter, logger *slog.Logger) *Monitor {
	if alerter == nil {
		alerter = NoopAlerter{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Monitor{latch: NewLatch(), alerter: alerter, logger: logger}
}

func (m *Monitor) Latch() *Latch {
	return m.latch
}

// Evaluate projects every task and subtask at now. While gated is true an
// overdue subtask is observed as not alerting, so its first rising edge after
// the gate opens still fires.
func (m *Monitor) Evaluate(c model.Collection, now time.Time, gated bool) Frame {
	f := Frame{
		Now:      now,
		Tasks:    make(map[string]Projection, len(c)),
		SubTasks: make(map[string]Projection),
	}
	live := make(map[string]bool)
	for _, t := range c {
		f.Tasks[t.ID] = ForTask(t, now)
		for _, st := range t.SubTasks {
			key := SubTaskKey(t.ID, st.ID)
			live[key] = true
			p := ForSubTask(st, now)
			f.SubTasks[key] = p
			if m.latch.Observe(key, p.Alert && !gated) {
				f.Fired = append(f.Fired, Notice{
					TaskID:    t.ID,
					TaskName:  t.Name,
					SubTaskID: st.ID,
					Name:      st.Name,
					DueAt:     st.DueDate,
				})
			}
		}
	}
	m.latch.Retain(live)
	return f
}

// Signal delivers notices. Output failures are logged and swallowed.
func (m *Monitor) Signal(ctx context.Context, notices []Notice) {
	for _, n := range notices {
		if err := m.alerter.Alert(ctx, n); err != nil {
			m.logger.Warn("alert output failed", "task_id", n.TaskID, "subtask_id", n.SubTaskID, "error", err)
			continue
		}
		m.logger.Info("deadline alert", "task_id", n.TaskID, "subtask_id", n.SubTaskID, "name", n.Name)
	}
}
