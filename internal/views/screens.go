package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskRowData struct {
	Selected  bool
	Checked   bool
	Name      string
	Badge     int
	Expanded  bool
	Bar       string
	Label     string
	Tier      string
	IsSubTask bool
}

type DuePickerData struct {
	Name     string
	Units    []string
	UnitIdx  int
	Value    int
	Resolved string
}

type HelpPanelData struct {
	Markdown string
	HelpView string
}

var (
	doneNameStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")).Padding(0, 1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	overdueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	unitStyle     = lipgloss.NewStyle().Reverse(true).Padding(0, 1)
	dialogStyle   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("9")).Padding(0, 2)
)

func RenderTaskList(rows []TaskRowData) string {
	if len(rows) == 0 {
		return "no tasks yet, press a to add one"
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(renderTaskRow(r))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderTaskRow(r TaskRowData) string {
	cursor := " "
	if r.Selected {
		cursor = cursorStyle.Render(">")
	}
	check := "[ ]"
	if r.Checked {
		check = "[x]"
	}
	indent := ""
	fold := ""
	if r.IsSubTask {
		indent = "    "
	} else if r.Badge > 0 {
		fold = "▸ "
		if r.Expanded {
			fold = "▾ "
		}
	}
	name := r.Name
	if r.Checked {
		name = doneNameStyle.Render(name)
	}
	head := fmt.Sprintf("%s %s%s %s%s", cursor, indent, check, fold, name)
	if r.Badge > 0 {
		head += " " + badgeStyle.Render(fmt.Sprintf("%d", r.Badge))
	}
	label := labelStyle.Render(r.Label)
	if r.Tier == "overdue" {
		label = overdueStyle.Render(r.Label)
	}
	return fmt.Sprintf("%s\n%s      %s %s", head, indent, r.Bar, label)
}

func RenderInputPanel(title, inputView string) string {
	return fmt.Sprintf("%s\n%s\n%s", title, inputView, labelStyle.Render("[enter] save  [esc] cancel"))
}

func RenderDuePicker(data DuePickerData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Deadline for %q\n", data.Name))
	units := make([]string, 0, len(data.Units))
	for i, u := range data.Units {
		if i == data.UnitIdx {
			units = append(units, unitStyle.Render(u))
			continue
		}
		units = append(units, " "+u+" ")
	}
	b.WriteString(strings.Join(units, " ") + "\n")
	unit := ""
	if data.UnitIdx >= 0 && data.UnitIdx < len(data.Units) {
		unit = data.Units[data.UnitIdx]
	}
	b.WriteString(fmt.Sprintf("in %d %s  (due %s)\n", data.Value, unit, data.Resolved))
	b.WriteString(labelStyle.Render("[h/l] unit  [j/k] amount  [enter] add  [esc] cancel"))
	return b.String()
}

func RenderConfirm(title, name string) string {
	return dialogStyle.Render(fmt.Sprintf("%s\n%s\n\n[y] delete  [n] keep", title, name))
}

func RenderCommandPalette(inputView string) string {
	return fmt.Sprintf("command:\n%s", inputView)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s", data.Markdown, data.HelpView)
}
