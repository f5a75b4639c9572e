package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	LabelExpired        = "time's up"
	LabelNoDuration     = "no duration"
	LabelUnderOneSecond = "less than a second"
	LabelCompleted      = "completed"
)

// Window is a creation instant paired with a due instant.
type Window struct {
	CreatedAt time.Time
	DueDate   time.Time
}

// Duration may be zero or negative; callers decide the fallback.
func (w Window) Duration() time.Duration {
	return w.DueDate.Sub(w.CreatedAt)
}

func (w Window) Remaining(now time.Time) time.Duration {
	return w.DueDate.Sub(now)
}

// ElapsedFraction reports how much of the window has passed, clamped to [0, 1].
// A degenerate window reads as fully elapsed once its due instant is reached.
func (w Window) ElapsedFraction(now time.Time) float64 {
	total := w.Duration()
	if total <= 0 {
		if !now.Before(w.DueDate) {
			return 1
		}
		return 0
	}
	frac := float64(now.Sub(w.CreatedAt)) / float64(total)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// IsOverdue compares times only; completion is the caller's concern.
func (w Window) IsOverdue(now time.Time) bool {
	return now.After(w.DueDate)
}

type durationParts struct {
	days    int64
	hours   int64
	minutes int64
	seconds int64
}

func splitDuration(d time.Duration) durationParts {
	secs := d.Milliseconds() / 1000
	mins := secs / 60
	hours := mins / 60
	return durationParts{
		days:    hours / 24,
		hours:   hours % 24,
		minutes: mins % 60,
		seconds: secs % 60,
	}
}

func (p durationParts) words(withSeconds bool) []string {
	out := make([]string, 0, 4)
	if p.days > 0 {
		out = append(out, unit(p.days, "day"))
	}
	if p.hours > 0 {
		out = append(out, unit(p.hours, "hour"))
	}
	if p.minutes > 0 {
		out = append(out, unit(p.minutes, "minute"))
	}
	if withSeconds && p.seconds > 0 {
		out = append(out, unit(p.seconds, "second"))
	}
	return out
}

func unit(n int64, name string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", name)
	}
	return fmt.Sprintf("%d %ss", n, name)
}

// FormatRemaining renders the time left until a deadline. Seconds are dropped
// once whole days remain.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return LabelExpired
	}
	p := splitDuration(d)
	parts := p.words(p.days == 0)
	if len(parts) == 0 {
		return LabelUnderOneSecond
	}
	return "remaining: " + strings.Join(parts, " ")
}

// FormatTotal renders a window length. Seconds are dropped once hours or days
// are present.
func FormatTotal(d time.Duration) string {
	if d <= 0 {
		return LabelNoDuration
	}
	p := splitDuration(d)
	parts := p.words(p.days == 0 && p.hours == 0)
	if len(parts) == 0 {
		return LabelNoDuration
	}
	return "total: " + strings.Join(parts, " ")
}
