package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

func Encode(c model.Collection) ([]byte, error) {
	records := make([]taskRecord, 0, len(c))
	for _, t := range c {
		records = append(records, taskToRecord(t))
	}
	return json.Marshal(records)
}

// Decode parses a serialized collection. Records that fail validation are
// skipped and counted; a bad subtask costs only itself, not its parent. A
// payload that is not a JSON array is ErrCorrupt.
// An empty or null payload decodes to an empty collection.
func Decode(raw []byte) (model.Collection, int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return model.Collection{}, 0, nil
	}
	var records []taskRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	out := make(model.Collection, 0, len(records))
	seen := make(map[string]bool, len(records))
	dropped := 0
	for _, r := range records {
		t := recordToTask(r)
		var lost int
		t.SubTasks, lost = keepValidSubTasks(t.SubTasks)
		dropped += lost
		if err := t.Validate(); err != nil || seen[t.ID] {
			dropped++
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, dropped, nil
}

// keepValidSubTasks filters out subtasks that fail validation or repeat an
// earlier id; the first occurrence of an id wins.
func keepValidSubTasks(subs []model.SubTask) ([]model.SubTask, int) {
	if len(subs) == 0 {
		return subs, 0
	}
	out := make([]model.SubTask, 0, len(subs))
	seen := make(map[string]bool, len(subs))
	for _, st := range subs {
		if st.Validate() != nil || seen[st.ID] {
			continue
		}
		seen[st.ID] = true
		out = append(out, st)
	}
	if len(out) == 0 {
		out = nil
	}
	return out, len(subs) - len(out)
}
