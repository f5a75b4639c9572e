package progress

import "sync"

// Latch turns a level condition into one-shot rising-edge signals per key.
// A key fires once when its condition becomes true and re-arms only after the
// condition has been observed false again.
type Latch struct {
	mu    sync.Mutex
	fired map[string]bool
}

func NewLatch() *Latch {
	return &Latch{fired: make(map[string]bool)}
}

func (l *Latch) Observe(key string, cond bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !cond {
		delete(l.fired, key)
		return false
	}
	if l.fired[key] {
		return false
	}
	l.fired[key] = true
	return true
}

// Forget drops state for the given keys so a later reuse starts disarmed.
func (l *Latch) Forget(keys ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range keys {
		delete(l.fired, k)
	}
}

// Retain drops state for keys not in live, so removed items cannot leave a
// stale fired flag behind.
func (l *Latch) Retain(live map[string]bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.fired {
		if !live[k] {
			delete(l.fired, k)
		}
	}
}

func (l *Latch) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fired)
}
