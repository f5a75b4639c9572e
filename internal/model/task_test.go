package model

import (
	"errors"
	"testing"
)

func TestEffectiveWindowSpansSubtasks(t *testing.T) {
	task := Task{
		ID:        "task-1",
		Name:      "Release",
		CreatedAt: ms(10),
		DueDate:   ms(10),
		SubTasks: []SubTask{
			{ID: "a", Name: "one", CreatedAt: ms(50), DueDate: ms(100)},
			{ID: "b", Name: "two", CreatedAt: ms(80), DueDate: ms(300)},
		},
	}
	w, ok := task.EffectiveWindow()
	if !ok {
		t.Fatal("expected non-empty effective window")
	}
	if !w.CreatedAt.Equal(ms(50)) || !w.DueDate.Equal(ms(300)) {
		t.Fatalf("unexpected effective window: %+v", w)
	}
	if task.SubTaskCount() != 2 {
		t.Fatalf("unexpected subtask count: %d", task.SubTaskCount())
	}
}

func TestEffectiveWindowEmptyFallsBackToOwnWindow(t *testing.T) {
	task := Task{ID: "task-1", Name: "Empty", CreatedAt: ms(5), DueDate: ms(5)}
	w, ok := task.EffectiveWindow()
	if ok {
		t.Fatal("expected empty flag for task without subtasks")
	}
	if w != task.OwnWindow() {
		t.Fatalf("expected own window, got %+v", w)
	}
}

func TestTaskValidate(t *testing.T) {
	task := Task{ID: "task-1", Name: "ok", CreatedAt: ms(1), DueDate: ms(1)}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got %v", err)
	}

	task.Name = "   "
	if err := task.Validate(); !errors.Is(err, ErrMissingName) {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}

	task.Name = "ok"
	task.SubTasks = []SubTask{
		{ID: "s", Name: "x", CreatedAt: ms(1), DueDate: ms(2)},
		{ID: "s", Name: "y", CreatedAt: ms(1), DueDate: ms(2)},
	}
	if err := task.Validate(); err == nil {
		t.Fatal("expected duplicate subtask id error")
	}

	task.SubTasks = []SubTask{{ID: "s", Name: "x"}}
	if err := task.Validate(); !errors.Is(err, ErrMissingInstant) {
		t.Fatalf("expected ErrMissingInstant, got %v", err)
	}
}

func TestCollectionFind(t *testing.T) {
	c := Collection{{ID: "a"}, {ID: "b"}}
	if got, ok := c.Find("b"); !ok || got.ID != "b" {
		t.Fatalf("expected to find b, got %+v ok=%v", got, ok)
	}
	if c.HasID("zzz") {
		t.Fatal("expected missing id")
	}
	if c.Index("a") != 0 {
		t.Fatalf("unexpected index: %d", c.Index("a"))
	}
}
