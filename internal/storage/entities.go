package storage

import (
	"time"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

// Records mirror the serialized collection: camelCase keys and epoch
// milliseconds, so payloads written by earlier builds stay readable.
type subTaskRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsCompleted bool   `json:"isCompleted"`
	CreatedAt   int64  `json:"createdAt"`
	DueDate     int64  `json:"dueDate"`
}

type taskRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	IsCompleted bool            `json:"isCompleted"`
	CreatedAt   int64           `json:"createdAt"`
	DueDate     int64           `json:"dueDate"`
	SubTasks    []subTaskRecord `json:"subTasks"`
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func taskToRecord(t model.Task) taskRecord {
	out := taskRecord{
		ID:          t.ID,
		Name:        t.Name,
		IsCompleted: t.IsCompleted,
		CreatedAt:   toMillis(t.CreatedAt),
		DueDate:     toMillis(t.DueDate),
		SubTasks:    make([]subTaskRecord, 0, len(t.SubTasks)),
	}
	for _, st := range t.SubTasks {
		out.SubTasks = append(out.SubTasks, subTaskRecord{
			ID:          st.ID,
			Name:        st.Name,
			IsCompleted: st.IsCompleted,
			CreatedAt:   toMillis(st.CreatedAt),
			DueDate:     toMillis(st.DueDate),
		})
	}
	return out
}

func recordToTask(r taskRecord) model.Task {
	out := model.Task{
		ID:          r.ID,
		Name:        r.Name,
		IsCompleted: r.IsCompleted,
		CreatedAt:   fromMillis(r.CreatedAt),
		DueDate:     fromMillis(r.DueDate),
	}
	if len(r.SubTasks) > 0 {
		out.SubTasks = make([]model.SubTask, 0, len(r.SubTasks))
	}
	for _, st := range r.SubTasks {
		out.SubTasks = append(out.SubTasks, model.SubTask{
			ID:          st.ID,
			Name:        st.Name,
			IsCompleted: st.IsCompleted,
			CreatedAt:   fromMillis(st.CreatedAt),
			DueDate:     fromMillis(st.DueDate),
		})
	}
	return out
}
