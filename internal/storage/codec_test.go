package storage

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

var created = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

func sampleTask(id string) model.Task {
	return model.Task{
		ID:        id,
		Name:      "Roundtrip task",
		CreatedAt: created,
		DueDate:   created.Add(2 * time.Hour),
		SubTasks: []model.SubTask{
			{ID: id + "-s1", Name: "first", CreatedAt: created, DueDate: created.Add(time.Hour)},
			{ID: id + "-s2", Name: "second", IsCompleted: true, CreatedAt: created.Add(time.Minute), DueDate: created.Add(2 * time.Hour)},
		},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	in := model.Collection{
		sampleTask("a"),
		{ID: "b", Name: "bare", IsCompleted: true, CreatedAt: created, DueDate: created},
	}
	raw, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, dropped, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dropped != 0 {
		t.Fatalf("expected nothing dropped, got %d", dropped)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\nin:  %#v\nout: %#v", in, out)
	}
}

func TestEncodeUsesEpochMillis(t *testing.T) {
	raw, err := Encode(model.Collection{{ID: "b", Name: "bare", CreatedAt: created, DueDate: created}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `"createdAt":1770638400000`
	if !strings.Contains(string(raw), want) {
		t.Fatalf("expected %s in %s", want, raw)
	}
	if !strings.Contains(string(raw), `"subTasks":[]`) {
		t.Fatalf("expected empty subTasks array in %s", raw)
	}
}

func TestDecodeToleratesMissingSubTasks(t *testing.T) {
	raw := `[{"id":"x","name":"legacy","isCompleted":false,"createdAt":1770638400000,"dueDate":1770638400000}]`
	out, _, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].SubTasks != nil {
		t.Fatalf("unexpected decode result %#v", out)
	}
	if !out[0].CreatedAt.Equal(created) {
		t.Fatalf("unexpected createdAt %s", out[0].CreatedAt)
	}
}

func TestDecodeEmptyAndCorrupt(t *testing.T) {
	for _, raw := range []string{"", "  ", "null"} {
		out, _, err := Decode([]byte(raw))
		if err != nil || len(out) != 0 {
			t.Fatalf("payload %q: expected empty collection, got %v / %v", raw, out, err)
		}
	}
	for _, raw := range []string{"{", `{"tasks":1}`, "not json"} {
		if _, _, err := Decode([]byte(raw)); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("payload %q: expected ErrCorrupt, got %v", raw, err)
		}
	}
}

func TestDecodeDropsInvalidRecords(t *testing.T) {
	raw := `[
		{"id":"ok","name":"fine","createdAt":1,"dueDate":2},
		{"id":"","name":"no id","createdAt":1,"dueDate":2},
		{"id":"nodates","name":"x"},
		{"id":"ok","name":"duplicate","createdAt":1,"dueDate":2},
		{"id":"badsub","name":"y","createdAt":1,"dueDate":2,"subTasks":[{"id":"s","name":""}]}
	]`
	out, dropped, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].ID != "ok" || out[1].ID != "badsub" || dropped != 4 {
		t.Fatalf("expected two survivors and four dropped, got %d / %d", len(out), dropped)
	}
	if len(out[1].SubTasks) != 0 {
		t.Fatalf("expected the invalid subtask to be removed, got %+v", out[1].SubTasks)
	}
}

func TestDecodeKeepsTaskWhenOneSubTaskIsBad(t *testing.T) {
	raw := `[{"id":"t","name":"release","createdAt":1000,"dueDate":1000,"subTasks":[
		{"id":"good","name":"tag","createdAt":1000,"dueDate":5000},
		{"id":"nan","name":"broken","createdAt":1000,"dueDate":null},
		{"id":"good","name":"copy","createdAt":1000,"dueDate":6000},
		{"id":"other","name":"ship","isCompleted":true,"createdAt":2000,"dueDate":7000}
	]}]`
	out, dropped, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || dropped != 2 {
		t.Fatalf("expected task kept with two subtasks dropped, got tasks=%d dropped=%d", len(out), dropped)
	}
	subs := out[0].SubTasks
	if len(subs) != 2 || subs[0].ID != "good" || subs[0].Name != "tag" || subs[1].ID != "other" {
		t.Fatalf("unexpected surviving subtasks: %+v", subs)
	}

	again, err := Encode(out)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(string(again), "broken") || !strings.Contains(string(again), `"ship"`) {
		t.Fatalf("unexpected re-encoded payload: %s", again)
	}
}
