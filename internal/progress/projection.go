package progress

import (
	"time"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

type Mode string

const (
	// ModeRemaining labels the time left and may raise alerts. Subtask bars use it.
	ModeRemaining Mode = "remaining"
	// ModeTotal labels the window length and never alerts. Task bars use it.
	ModeTotal Mode = "total"
)

type Tier string

const (
	TierNormal       Tier = "normal"
	TierNearDeadline Tier = "near_deadline"
	TierOverdue      Tier = "overdue"
	TierCompleted    Tier = "completed"
)

// NearDeadlinePercent is the elapsed percentage above which a bar turns amber.
const NearDeadlinePercent = 80.0

type Input struct {
	Window    model.Window
	Empty     bool
	Completed bool
	Mode      Mode
}

type Projection struct {
	Percent float64
	Tier    Tier
	Label   string
	// Alert is the raw overdue condition; edge detection is the Latch's job.
	Alert bool
}

func Project(in Input, now time.Time) Projection {
	pct := 0.0
	if !in.Empty {
		pct = in.Window.ElapsedFraction(now) * 100
	}
	if in.Completed {
		pct = 100
	}
	if pct > 100 {
		pct = 100
	}

	alert := in.Mode == ModeRemaining && !in.Completed && !in.Empty && in.Window.IsOverdue(now)

	var tier Tier
	switch {
	case in.Completed:
		tier = TierCompleted
	case alert:
		tier = TierOverdue
	case !in.Empty && pct > NearDeadlinePercent:
		tier = TierNearDeadline
	default:
		tier = TierNormal
	}

	return Projection{Percent: pct, Tier: tier, Label: label(in, now), Alert: alert}
}

func label(in Input, now time.Time) string {
	switch {
	case in.Completed:
		return model.LabelCompleted
	case in.Empty:
		return model.LabelNoDuration
	case in.Mode == ModeTotal:
		return model.FormatTotal(in.Window.Duration())
	default:
		return model.FormatRemaining(in.Window.Remaining(now))
	}
}

// ForTask projects a task's bar over its effective window.
func ForTask(t model.Task, now time.Time) Projection {
	w, ok := t.EffectiveWindow()
	return Project(Input{Window: w, Empty: !ok, Completed: t.IsCompleted, Mode: ModeTotal}, now)
}

func ForSubTask(st model.SubTask, now time.Time) Projection {
	return Project(Input{Window: st.Window(), Completed: st.IsCompleted, Mode: ModeRemaining}, now)
}
