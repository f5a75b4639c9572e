package update

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/tasktimer/internal/clock"
	"github.com/sandeepkv93/tasktimer/internal/ids"
	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/mutation"
	taskprogress "github.com/sandeepkv93/tasktimer/internal/progress"
	"github.com/sandeepkv93/tasktimer/internal/storage"
)

// Mode is the input state of the screen.
type Mode string

const (
	ModeBrowse         Mode = "browse"
	ModeAddTask        Mode = "add_task"
	ModeAddSubTaskName Mode = "add_subtask_name"
	ModeAddSubTaskDue  Mode = "add_subtask_due"
	ModeRename         Mode = "rename"
	ModeConfirmDelete  Mode = "confirm_delete"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// DuePicker walks the allowed unit/value grid of the subtask deadline picker.
type DuePicker struct {
	UnitIdx  int
	ValueIdx int
}

func newDuePicker() DuePicker {
	p := DuePicker{}
	p.set(model.DefaultDueSelection())
	return p
}

func (p *DuePicker) set(sel model.DueSelection) {
	for i, u := range model.DueUnits {
		if u != sel.Unit {
			continue
		}
		p.UnitIdx = i
		for j, v := range u.Values() {
			if v == sel.Value {
				p.ValueIdx = j
			}
		}
	}
}

func (p DuePicker) Selection() model.DueSelection {
	u := model.DueUnits[p.UnitIdx]
	vals := u.Values()
	return model.DueSelection{Unit: u, Value: vals[p.ValueIdx]}
}

func (p *DuePicker) shiftUnit(delta int) {
	n := len(model.DueUnits)
	p.UnitIdx = (p.UnitIdx + delta + n) % n
	if last := len(model.DueUnits[p.UnitIdx].Values()) - 1; p.ValueIdx > last {
		p.ValueIdx = last
	}
}

func (p *DuePicker) shiftValue(delta int) {
	n := len(model.DueUnits[p.UnitIdx].Values())
	p.ValueIdx = (p.ValueIdx + delta + n) % n
}

// deleteTarget is the item awaiting confirmation. SubTaskID is empty for a
// whole task.
type deleteTarget struct {
	TaskID    string
	SubTaskID string
	Name      string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Deps struct {
	Store         storage.Store
	Engine        *mutation.Engine
	Clock         clock.Clock
	Monitor       *taskprogress.Monitor
	Logger        *slog.Logger
	FrameInterval time.Duration
	ProgressWidth int
}

type Model struct {
	Tasks       model.Collection
	Cursor      int
	Expanded    map[string]bool
	Now         time.Time
	Mode        Mode
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        KeyMap
	Quitting    bool
	LastError   error
	// Interacted opens the alert gate; it flips on the first key press.
	Interacted    bool
	Notifications []Notification
	Picker        DuePicker

	pending   *deleteTarget
	draftName string
	parentID  string

	store         storage.Store
	engine        *mutation.Engine
	clock         clock.Clock
	monitor       *taskprogress.Monitor
	logger        *slog.Logger
	frameInterval time.Duration
	width         int

	nameInput    textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
	helpViewport viewport.Model
	helpRendered string
	bar          progress.Model
}

type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Expand  key.Binding
	Toggle  key.Binding
	Add     key.Binding
	AddSub  key.Binding
	Rename  key.Binding
	Repeat  key.Binding
	Delete  key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "move up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "move down")),
		Expand:  key.NewBinding(key.WithKeys("enter", "tab"), key.WithHelp("enter", "expand/collapse")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle done")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		AddSub:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "add subtask")),
		Rename:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename task")),
		Repeat:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Palette: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command palette")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// FrameMsg drives the redraw loop.
type FrameMsg struct {
	Now time.Time
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// AlertsSignaledMsg reports notices whose alert output has run.
type AlertsSignaledMsg struct {
	Notices []taskprogress.Notice
}

// NewModel builds the screen around an already loaded collection.
func NewModel(tasks model.Collection, deps Deps) Model {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Engine == nil {
		e := mutation.New(deps.Clock, ids.UUIDSource{})
		deps.Engine = &e
	}
	if deps.Store == nil {
		deps.Store = storage.NewMemoryStore()
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Monitor == nil {
		deps.Monitor = taskprogress.NewMonitor(nil, deps.Logger)
	}
	if deps.FrameInterval <= 0 {
		deps.FrameInterval = 100 * time.Millisecond
	}
	if deps.ProgressWidth <= 0 {
		deps.ProgressWidth = 32
	}
	if tasks == nil {
		tasks = model.Collection{}
	}

	m := Model{
		Tasks:         tasks,
		Expanded:      make(map[string]bool),
		Now:           deps.Clock.Now(),
		Mode:          ModeBrowse,
		Keys:          DefaultKeyMap(),
		Picker:        newDuePicker(),
		store:         deps.Store,
		engine:        deps.Engine,
		clock:         deps.Clock,
		monitor:       deps.Monitor,
		logger:        deps.Logger,
		frameInterval: deps.FrameInterval,
	}
	m.initBubbleComponents(deps.ProgressWidth)
	return m
}

func (m *Model) initBubbleComponents(barWidth int) {
	m.nameInput = textinput.New()
	m.nameInput.CharLimit = 256
	m.nameInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.helpViewport = viewport.New(72, 18)

	m.bar = progress.New(progress.WithSolidFill("12"), progress.WithoutPercentage(), progress.WithWidth(barWidth))
}
