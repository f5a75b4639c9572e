package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

var (
	ErrNoMatch   = errors.New("cli: no matching item")
	ErrAmbiguous = errors.New("cli: reference matches more than one item")
)

// resolveTask accepts a 1-based list position, a full id or a unique id prefix.
func resolveTask(c model.Collection, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(c) {
		return c[n-1], nil
	}
	var hits []model.Task
	for _, t := range c {
		if t.ID == ref {
			return t, nil
		}
		if ref != "" && strings.HasPrefix(t.ID, ref) {
			hits = append(hits, t)
		}
	}
	return pickOne(hits, ref)
}

func resolveSubTask(t model.Task, ref string) (model.SubTask, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(t.SubTasks) {
		return t.SubTasks[n-1], nil
	}
	var hits []model.SubTask
	for _, st := range t.SubTasks {
		if st.ID == ref {
			return st, nil
		}
		if ref != "" && strings.HasPrefix(st.ID, ref) {
			hits = append(hits, st)
		}
	}
	return pickOne(hits, ref)
}

func pickOne[T any](hits []T, ref string) (T, error) {
	var zero T
	switch len(hits) {
	case 0:
		return zero, fmt.Errorf("%w: %q", ErrNoMatch, ref)
	case 1:
		return hits[0], nil
	default:
		return zero, fmt.Errorf("%w: %q", ErrAmbiguous, ref)
	}
}
