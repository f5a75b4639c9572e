package update

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/tasktimer/internal/views"
)

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

const helpMarkdown = `# tasktimer

Each **task** groups **subtasks**. A subtask has its own deadline; the task bar
spans from its earliest subtask start to its latest subtask deadline.

## Bars

- blue: on track
- yellow: more than 80% of the window used
- red: a subtask is past its deadline
- green: completed

A bell rings once when a subtask goes overdue. Toggle it done and back to re-arm.

## Palette

| command | effect |
|---|---|
| ` + "`add <name>`" + ` | new task |
| ` + "`sub <due> <name>`" + ` | subtask on the selected task, due like 30m, 2h, 3d, 1w or 2mo |
| ` + "`rename <name>`" + ` | rename the selected task |
| ` + "`repeat`" + ` | clone the selection, re-anchored to now |
| ` + "`done`" + ` | toggle completion |
| ` + "`delete`" + ` | delete after confirmation |
`

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

// ensureHelpRendered runs the markdown renderer once; View only reads the
// cached viewport content.
func (m *Model) ensureHelpRendered() {
	if m.helpRendered != "" {
		return
	}
	m.helpRendered = views.RenderMarkdown(helpMarkdown)
	m.helpViewport.SetContent(m.helpRendered)
}

func (m Model) renderHelpView() string {
	hm := m.helpModel
	hm.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		Markdown: m.helpViewport.View(),
		HelpView: hm.View(helpKeyMap{
			short: m.shortBindings(),
			full:  [][]key.Binding{m.navigationBindings(), m.editBindings()},
		}),
	})
}

func (m Model) navigationBindings() []key.Binding {
	return []key.Binding{m.Keys.Up, m.Keys.Down, m.Keys.Expand, m.Keys.Palette, m.Keys.Help, m.Keys.Quit}
}

func (m Model) editBindings() []key.Binding {
	return []key.Binding{m.Keys.Toggle, m.Keys.Add, m.Keys.AddSub, m.Keys.Rename, m.Keys.Repeat, m.Keys.Delete}
}

func (m Model) shortBindings() []key.Binding {
	return append(m.navigationBindings(), m.editBindings()...)
}
