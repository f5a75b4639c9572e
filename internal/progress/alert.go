package progress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Notice describes a subtask that just went overdue.
type Notice struct {
	TaskID    string
	TaskName  string
	SubTaskID string
	Name      string
	DueAt     time.Time
}

func (n Notice) Title() string {
	return "Deadline reached"
}

func (n Notice) Body() string {
	if n.TaskName == "" {
		return n.Name
	}
	return fmt.Sprintf("%s / %s", n.TaskName, n.Name)
}

type Alerter interface {
	Alert(ctx context.Context, n Notice) error
}

type NoopAlerter struct{}

func (NoopAlerter) Alert(context.Context, Notice) error { return nil }

// BellAlerter rings the terminal bell.
type BellAlerter struct {
	W io.Writer
}

func (b BellAlerter) Alert(context.Context, Notice) error {
	if b.W == nil {
		return errors.New("progress: bell writer is nil")
	}
	_, err := io.WriteString(b.W, "\a")
	return err
}

// DesktopAlerter raises a desktop notification through the platform tool.
type DesktopAlerter struct{}

func (DesktopAlerter) Alert(ctx context.Context, n Notice) error {
	switch runtime.GOOS {
	case "linux":
		return exec.CommandContext(ctx, "notify-send", n.Title(), n.Body()).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s" sound name "Glass"`, escapeAppleScript(n.Body()), escapeAppleScript(n.Title()))
		return exec.CommandContext(ctx, "osascript", "-e", script).Run()
	default:
		return nil
	}
}

// MultiAlerter fans a notice out to every alerter and joins their errors.
type MultiAlerter []Alerter

func (m MultiAlerter) Alert(ctx context.Context, n Notice) error {
	var errs []error
	for _, a := range m {
		if a == nil {
			continue
		}
		if err := a.Alert(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
