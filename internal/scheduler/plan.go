package scheduler

import (
	"time"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

// Plan splits the incomplete subtasks of c into deadlines still ahead of now
// and those already past.
func Plan(c model.Collection, now time.Time) (upcoming, overdue []DeadlineEvent) {
	for _, t := range c {
		for _, st := range t.SubTasks {
			if st.IsCompleted || st.DueDate.IsZero() {
				continue
			}
			ev := DeadlineEvent{TaskID: t.ID, SubTaskID: st.ID, Name: st.Name, DueAt: st.DueDate}
			if st.Window().IsOverdue(now) {
				overdue = append(overdue, ev)
				continue
			}
			upcoming = append(upcoming, ev)
		}
	}
	return upcoming, overdue
}
