package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	Body         string
	Overlay      string
	Help         string
	StatusLine   string
	Footer       string
	Notification string
	Width        int
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Tier colours, keyed by progress tier name.
var tierColors = map[string]string{
	"normal":        "12",
	"near_deadline": "11",
	"overdue":       "9",
	"completed":     "10",
}

func TierColor(tier string) string {
	if c, ok := tierColors[tier]; ok {
		return c
	}
	return tierColors["normal"]
}

func RenderApp(data AppData) string {
	width := 78
	if data.Width > 20 && data.Width-2 < width {
		width = data.Width - 2
	}
	lines := []string{
		headerStyle.Render(data.Header),
		panelStyle.Width(width).Render(data.Body),
	}
	if data.Overlay != "" {
		lines = append(lines, panelStyle.Width(width).Render(data.Overlay))
	}
	if data.Help != "" {
		lines = append(lines, panelStyle.Width(width).Render(data.Help))
	}

	status := statusStyle.Render(data.StatusLine)
	if strings.Contains(strings.ToLower(data.StatusLine), "error") {
		status = errorStyle.Render(data.StatusLine)
	}
	lines = append(lines, status)
	if data.Notification != "" {
		lines = append(lines, data.Notification)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderBar draws pct (0..100) with the tier's colour. bar is copied, so the
// caller's model keeps its own fill colour.
func RenderBar(bar progress.Model, pct float64, tier string) string {
	bar.FullColor = TierColor(tier)
	return bar.ViewAs(pct / 100)
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
