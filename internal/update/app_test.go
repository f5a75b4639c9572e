package update

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktimer/internal/clock"
	"github.com/sandeepkv93/tasktimer/internal/ids"
	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/mutation"
	taskprogress "github.com/sandeepkv93/tasktimer/internal/progress"
	"github.com/sandeepkv93/tasktimer/internal/storage"
)

var t0 = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

type recordingAlerter struct {
	notices []taskprogress.Notice
}

func (r *recordingAlerter) Alert(_ context.Context, n taskprogress.Notice) error {
	r.notices = append(r.notices, n)
	return nil
}

type failingStore struct{}

func (failingStore) Load(context.Context) (model.Collection, error) { return nil, storage.ErrNotFound }
func (failingStore) Save(context.Context, model.Collection) error {
	return errors.New("disk full")
}

func newTestModel(t *testing.T, tasks model.Collection) (Model, *storage.MemoryStore, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(t0)
	eng := mutation.New(clk, ids.NewSequence("id"))
	store := storage.NewMemoryStore()
	m := NewModel(tasks, Deps{Store: store, Engine: &eng, Clock: clk})
	return m, store, clk
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m
}

func stored(t *testing.T, s *storage.MemoryStore) model.Collection {
	t.Helper()
	c, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return c
}

func TestNewModelDefaults(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	if m.Mode != ModeBrowse {
		t.Fatalf("expected browse mode, got %q", m.Mode)
	}
	if m.Tasks == nil || len(m.Tasks) != 0 {
		t.Fatalf("expected empty collection, got %#v", m.Tasks)
	}
	if m.Init() == nil {
		t.Fatal("expected Init to start the frame loop")
	}
	if m.Interacted {
		t.Fatal("alert gate must start closed")
	}
}

func TestAddTaskWithKeyboard(t *testing.T) {
	m, store, _ := newTestModel(t, nil)
	m = press(m, "a")
	if m.Mode != ModeAddTask {
		t.Fatalf("expected add task mode, got %q", m.Mode)
	}
	m = press(m, "write tests", "enter")

	if len(m.Tasks) != 1 || m.Tasks[0].Name != "write tests" {
		t.Fatalf("unexpected tasks: %#v", m.Tasks)
	}
	if !m.Tasks[0].CreatedAt.Equal(t0) || !m.Tasks[0].DueDate.Equal(t0) {
		t.Fatalf("expected empty window at t0, got %#v", m.Tasks[0])
	}
	if m.Mode != ModeBrowse {
		t.Fatalf("expected browse mode after save, got %q", m.Mode)
	}
	if got := stored(t, store); len(got) != 1 {
		t.Fatalf("expected write-through, store has %d tasks", len(got))
	}
}

func TestAddTaskBlankNameIsReportedInline(t *testing.T) {
	m, store, _ := newTestModel(t, nil)
	m = press(m, "a", "   ", "enter")
	if len(m.Tasks) != 0 {
		t.Fatalf("expected no task, got %#v", m.Tasks)
	}
	if !m.Status.IsError || !errors.Is(m.LastError, mutation.ErrEmptyName) {
		t.Fatalf("expected inline validation error, got %+v / %v", m.Status, m.LastError)
	}
	if m.Mode != ModeAddTask {
		t.Fatalf("input should stay open, got %q", m.Mode)
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("nothing should be saved, got %v", err)
	}
	m = press(m, "esc")
	if m.Mode != ModeBrowse {
		t.Fatalf("esc should close the input, got %q", m.Mode)
	}
}

func TestAddSubTaskWithPicker(t *testing.T) {
	m, store, _ := newTestModel(t, nil)
	m = press(m, "a", "report", "enter")
	m = press(m, "s", "outline", "enter")
	if m.Mode != ModeAddSubTaskDue {
		t.Fatalf("expected picker after name, got %q", m.Mode)
	}
	if sel := m.Picker.Selection(); sel != model.DefaultDueSelection() {
		t.Fatalf("expected default selection, got %s", sel)
	}

	m = press(m, "h")
	if sel := m.Picker.Selection(); sel.Unit != model.DueMinutes || sel.Value != 5 {
		t.Fatalf("expected 5 minutes, got %s", sel)
	}
	m = press(m, "enter")

	task := m.Tasks[0]
	if len(task.SubTasks) != 1 {
		t.Fatalf("expected one subtask, got %#v", task.SubTasks)
	}
	st := task.SubTasks[0]
	if st.Name != "outline" || !st.DueDate.Equal(t0.Add(5*time.Minute)) {
		t.Fatalf("unexpected subtask %#v", st)
	}
	if !m.Expanded[task.ID] || m.Cursor != 1 {
		t.Fatalf("expected parent expanded with cursor on subtask, got expanded=%v cursor=%d", m.Expanded[task.ID], m.Cursor)
	}
	if got := stored(t, store); len(got[0].SubTasks) != 1 {
		t.Fatalf("subtask not persisted: %#v", got)
	}
}

func TestAddSubTaskBlankNameStaysOnNamePrompt(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = press(m, "a", "report", "enter", "s", "enter")
	if m.Mode != ModeAddSubTaskName || !m.Status.IsError {
		t.Fatalf("expected name prompt with error, got %q %+v", m.Mode, m.Status)
	}
}

func TestToggleIsInvolution(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = press(m, "a", "x", "enter")
	m = press(m, " ")
	if !m.Tasks[0].IsCompleted {
		t.Fatal("expected task completed")
	}
	m = press(m, " ")
	if m.Tasks[0].IsCompleted {
		t.Fatal("expected task reopened")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, store, _ := newTestModel(t, nil)
	m = press(m, "a", "keep me", "enter")

	m = press(m, "d")
	if m.Mode != ModeConfirmDelete || len(m.Tasks) != 1 {
		t.Fatalf("delete must wait for confirmation, mode=%q tasks=%d", m.Mode, len(m.Tasks))
	}
	if !strings.Contains(m.View(), "Delete task?") {
		t.Fatalf("expected confirm dialog in view:\n%s", m.View())
	}
	m = press(m, "n")
	if m.Mode != ModeBrowse || len(m.Tasks) != 1 {
		t.Fatalf("cancel must keep the task, mode=%q tasks=%d", m.Mode, len(m.Tasks))
	}

	m = press(m, "d", "y")
	if len(m.Tasks) != 0 {
		t.Fatalf("expected task deleted, got %#v", m.Tasks)
	}
	if got := stored(t, store); len(got) != 0 {
		t.Fatalf("expected delete persisted, got %#v", got)
	}
}

func TestRepeatSubTaskFromRow(t *testing.T) {
	m, _, clk := newTestModel(t, nil)
	m = press(m, "a", "report", "enter", "s", "draft", "enter", "enter")
	clk.Advance(3 * time.Hour)

	m = press(m, "r")
	subs := m.Tasks[0].SubTasks
	if len(subs) != 2 {
		t.Fatalf("expected cloned subtask, got %#v", subs)
	}
	clone := subs[1]
	if !clone.CreatedAt.Equal(t0.Add(3*time.Hour)) || clone.DueDate.Sub(clone.CreatedAt) != time.Hour {
		t.Fatalf("unexpected clone window %#v", clone)
	}
	if m.Cursor != 2 {
		t.Fatalf("expected cursor on clone, got %d", m.Cursor)
	}
}

func TestExpandCollapse(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = press(m, "a", "report", "enter", "s", "draft", "enter", "enter")
	if len(m.Rows()) != 2 {
		t.Fatalf("expected task and subtask rows, got %d", len(m.Rows()))
	}
	m = press(m, "enter")
	if len(m.Rows()) != 1 || m.Cursor != 0 {
		t.Fatalf("expected collapsed task with cursor on it, rows=%d cursor=%d", len(m.Rows()), m.Cursor)
	}
	m = press(m, "tab")
	if len(m.Rows()) != 2 {
		t.Fatalf("expected expanded again, rows=%d", len(m.Rows()))
	}
}

func TestPaletteCommands(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = press(m, "/", "add groceries", "enter")
	if len(m.Tasks) != 1 || m.Palette.Active {
		t.Fatalf("expected task added and palette closed, got %#v active=%v", m.Tasks, m.Palette.Active)
	}

	m = press(m, "/", "sub 2h buy milk", "enter")
	if len(m.Tasks[0].SubTasks) != 1 || !m.Tasks[0].SubTasks[0].DueDate.Equal(t0.Add(2*time.Hour)) {
		t.Fatalf("unexpected subtask %#v", m.Tasks[0].SubTasks)
	}

	m.Cursor = 0
	m = press(m, "/", "rename weekly shop", "enter")
	if m.Tasks[0].Name != "weekly shop" {
		t.Fatalf("unexpected name %q", m.Tasks[0].Name)
	}

	m = press(m, "/", "delete", "enter")
	if m.Mode != ModeConfirmDelete || len(m.Tasks) != 1 {
		t.Fatalf("palette delete must only open confirmation, mode=%q", m.Mode)
	}
	m = press(m, "esc")

	m = press(m, "/", "frobnicate", "enter")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command error, got %+v", m.Status)
	}
}

func TestPaletteSubWithoutTasks(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = press(m, "/", "sub 30m orphan", "enter")
	if !m.Status.IsError || len(m.Tasks) != 0 {
		t.Fatalf("expected error with no tasks, got %+v", m.Status)
	}
}

func overdueFixture() model.Collection {
	return model.Collection{{
		ID: "t1", Name: "report", CreatedAt: t0, DueDate: t0,
		SubTasks: []model.SubTask{{ID: "s1", Name: "outline", CreatedAt: t0, DueDate: t0.Add(time.Minute)}},
	}}
}

func TestFrameAlertWaitsForInteraction(t *testing.T) {
	clk := clock.NewFake(t0)
	rec := &recordingAlerter{}
	m := NewModel(overdueFixture(), Deps{Clock: clk, Monitor: taskprogress.NewMonitor(rec, nil)})

	updated, cmd := m.Update(FrameMsg{Now: t0.Add(2 * time.Minute)})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("frame loop must re-arm")
	}
	if len(m.Notifications) != 0 {
		t.Fatalf("alert fired before any interaction: %#v", m.Notifications)
	}

	m = press(m, "j")
	updated, _ = m.Update(FrameMsg{Now: t0.Add(2*time.Minute + 100*time.Millisecond)})
	m = updated.(Model)
	if len(m.Notifications) != 1 || !strings.Contains(m.Status.Text, "time's up") {
		t.Fatalf("expected one alert after interaction, got %#v / %+v", m.Notifications, m.Status)
	}

	updated, _ = m.Update(FrameMsg{Now: t0.Add(3 * time.Minute)})
	m = updated.(Model)
	if len(m.Notifications) != 1 {
		t.Fatalf("alert re-fired while still overdue: %#v", m.Notifications)
	}
}

func TestFrameAlertRearmsAfterToggle(t *testing.T) {
	m, _, _ := newTestModel(t, overdueFixture())
	m.Expanded["t1"] = true
	m = press(m, "j")

	frame := func(m Model, d time.Duration) Model {
		updated, _ := m.Update(FrameMsg{Now: t0.Add(d)})
		return updated.(Model)
	}
	m = frame(m, 2*time.Minute)
	m = press(m, " ")
	m = frame(m, 3*time.Minute)
	m = press(m, " ")
	m = frame(m, 4*time.Minute)
	if len(m.Notifications) != 2 {
		t.Fatalf("expected a second alert after completing and reopening, got %d", len(m.Notifications))
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	clk := clock.NewFake(t0)
	m := NewModel(nil, Deps{Store: failingStore{}, Clock: clk})
	m = press(m, "a", "x", "enter")
	if len(m.Tasks) != 1 {
		t.Fatalf("in-memory state should still update, got %#v", m.Tasks)
	}
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "save failed") {
		t.Fatalf("expected save failure status, got %+v", m.Status)
	}
}

func TestViewRendersRows(t *testing.T) {
	m, _, _ := newTestModel(t, overdueFixture())
	m.Expanded["t1"] = true
	m.Now = t0.Add(30 * time.Second)
	out := m.View()
	for _, want := range []string{"report", "outline", "total: 1 minute", "remaining: 30 seconds", "tasks: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestHelpToggle(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = press(m, "?")
	if !m.HelpVisible {
		t.Fatal("expected help visible")
	}
	if !strings.Contains(m.View(), "help:") {
		t.Fatal("expected help panel in view")
	}
	m = press(m, "?")
	if m.HelpVisible {
		t.Fatal("expected help hidden")
	}
}

func TestHelpMarkdownRenderedOncePerSession(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	if m.helpRendered != "" {
		t.Fatal("help should not render before it is opened")
	}
	m = press(m, "?")
	first := m.helpRendered
	if first == "" || !strings.Contains(first, "tasktimer") {
		t.Fatalf("expected rendered help to be cached, got %q", first)
	}

	m.helpRendered = "cached"
	m = press(m, "?", "?")
	if m.helpRendered != "cached" {
		t.Fatalf("reopening help must reuse the cache, got %q", m.helpRendered)
	}
	updated, _ := m.Update(FrameMsg{Now: t0.Add(time.Second)})
	m = updated.(Model)
	_ = m.View()
	if m.helpRendered != "cached" {
		t.Fatalf("frames must not re-render help, got %q", m.helpRendered)
	}
}

func TestRenameEditsAtCursor(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = press(m, "a", "Wrte report", "enter")
	m = press(m, "e")
	if m.Mode != ModeRename || m.nameInput.Value() != "Wrte report" {
		t.Fatalf("expected rename prefilled, got %q %q", m.Mode, m.nameInput.Value())
	}
	for i := 0; i < 9; i++ {
		m = press(m, "left")
	}
	m = press(m, "i")
	if got := m.nameInput.Value(); got != "Write report" {
		t.Fatalf("expected insertion at the cursor, got %q", got)
	}
	m = press(m, "enter")
	if m.Tasks[0].Name != "Write report" {
		t.Fatalf("unexpected name %q", m.Tasks[0].Name)
	}
}

func TestPaletteEditsAtCursor(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = press(m, "/", "ad groceries")
	for i := 0; i < len(" groceries"); i++ {
		m = press(m, "left")
	}
	m = press(m, "d")
	if m.Palette.Input != "add groceries" {
		t.Fatalf("expected insertion at the cursor, got %q", m.Palette.Input)
	}
	m = press(m, "enter")
	if len(m.Tasks) != 1 || m.Tasks[0].Name != "groceries" {
		t.Fatalf("unexpected tasks %#v", m.Tasks)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}
