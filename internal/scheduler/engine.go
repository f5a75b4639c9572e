package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidDueAt  = errors.New("scheduler: invalid due instant")
	ErrEngineStopped = errors.New("scheduler: engine stopped")
)

// DeadlineEvent is emitted once the wall clock passes a subtask's due instant.
type DeadlineEvent struct {
	TaskID    string
	SubTaskID string
	Name      string
	DueAt     time.Time
}

// Key identifies the subtask the event belongs to. At most one event per key
// is pending.
func (ev DeadlineEvent) Key() string {
	return ev.TaskID + "/" + ev.SubTaskID
}

// deadlineHeap orders pending events by due instant and keeps each entry's
// position current so an event can be moved or removed by key.
type deadlineHeap struct {
	items []*pending
	byKey map[string]*pending
}

type pending struct {
	event DeadlineEvent
	index int
}

func newDeadlineHeap(capacity int) *deadlineHeap {
	return &deadlineHeap{
		items: make([]*pending, 0, capacity),
		byKey: make(map[string]*pending, capacity),
	}
}

func (h *deadlineHeap) Len() int { return len(h.items) }

func (h *deadlineHeap) Less(i, j int) bool {
	return h.items[i].event.DueAt.Before(h.items[j].event.DueAt)
}

func (h *deadlineHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *deadlineHeap) Push(x any) {
	p := x.(*pending)
	p.index = len(h.items)
	h.items = append(h.items, p)
	h.byKey[p.event.Key()] = p
}

func (h *deadlineHeap) Pop() any {
	n := len(h.items)
	p := h.items[n-1]
	h.items[n-1] = nil
	h.items = h.items[:n-1]
	delete(h.byKey, p.event.Key())
	p.index = -1
	return p
}

// upsert adds ev or moves the pending event with the same key.
func (h *deadlineHeap) upsert(ev DeadlineEvent) {
	if p, ok := h.byKey[ev.Key()]; ok {
		p.event = ev
		heap.Fix(h, p.index)
		return
	}
	heap.Push(h, &pending{event: ev})
}

func (h *deadlineHeap) remove(key string) bool {
	p, ok := h.byKey[key]
	if !ok {
		return false
	}
	heap.Remove(h, p.index)
	return true
}

func (h *deadlineHeap) head() (DeadlineEvent, bool) {
	if len(h.items) == 0 {
		return DeadlineEvent{}, false
	}
	return h.items[0].event, true
}

// Engine wakes at each pending deadline and emits it on C. Delivery never
// blocks the engine: when the buffer is full the event is counted as dropped.
type Engine struct {
	mu      sync.Mutex
	queue   *deadlineHeap
	out     chan DeadlineEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  newDeadlineHeap(0),
		out:    make(chan DeadlineEvent, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan DeadlineEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.loop()
}

// Stop ends the loop and closes C. It is safe to call on an engine that was
// never started.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.stopped = true
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule adds ev, or reschedules the pending event for the same subtask.
func (e *Engine) Schedule(ev DeadlineEvent) error {
	if ev.DueAt.IsZero() {
		return ErrInvalidDueAt
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	e.queue.upsert(ev)
	e.signalWakeup()
	return nil
}

// Cancel drops the pending event for a subtask. It reports whether one was
// pending.
func (e *Engine) Cancel(taskID, subTaskID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	removed := e.queue.remove(DeadlineEvent{TaskID: taskID, SubTaskID: subTaskID}.Key())
	if removed {
		e.signalWakeup()
	}
	return removed
}

// Replace swaps the pending queue for evs, used after the collection changed
// underneath the watcher. A later event for a key already in evs wins.
func (e *Engine) Replace(evs []DeadlineEvent) error {
	for _, ev := range evs {
		if ev.DueAt.IsZero() {
			return ErrInvalidDueAt
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	q := newDeadlineHeap(len(evs))
	for _, ev := range evs {
		q.upsert(ev)
	}
	e.queue = q
	e.signalWakeup()
	return nil
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	defer stopTimer(timer)
	for {
		next, ok := e.peek()
		if !ok {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(fireAt(next))
		if wait < 0 {
			wait = 0
		}
		stopTimer(timer)
		timer.Reset(wait)

		select {
		case <-timer.C:
			for _, ev := range e.popDue(time.Now()) {
				e.deliver(ev)
			}
		case <-e.wakeup:
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) deliver(ev DeadlineEvent) {
	select {
	case e.out <- ev:
	default:
		atomic.AddUint64(&e.dropped, 1)
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (DeadlineEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.head()
}

func (e *Engine) popDue(now time.Time) []DeadlineEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []DeadlineEvent
	for {
		next, ok := e.queue.head()
		if !ok || fireAt(next).After(now) {
			return out
		}
		out = append(out, heap.Pop(e.queue).(*pending).event)
	}
}

// fireAt is one millisecond past DueAt, so a millisecond-truncated clock read
// after the event already reports the deadline as passed.
func fireAt(ev DeadlineEvent) time.Time {
	return ev.DueAt.Add(time.Millisecond)
}

func stopTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
